package healthcheck

import (
	"github.com/localmart/goapi/base/ctx"
)

type HealthCheckRepo interface {
	PingDB(c ctx.Ctx) error
}

type HealthCheckUsecase interface {
	Check(c ctx.Ctx) error
}
