package redis

import (
	"errors"
	"time"

	"github.com/localmart/goapi/base/ctx"
)

// Forever means the key will not expire
const Forever = time.Duration(-1)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis: not found")
	// ErrExpireNotExistOrTimeout is returned when EXPIRE hits a missing key
	ErrExpireNotExistOrTimeout = errors.New("redis: key not exist or timeout not set")
)

// Service provides interface for redis operations
type Service interface {
	Get(c ctx.Ctx, key string) ([]byte, error)
	Set(c ctx.Ctx, key string, val []byte, expire time.Duration) error
	SetNX(c ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(c ctx.Ctx, ks ...string) (int, error)
	Expire(c ctx.Ctx, key string, ttl time.Duration) error
	// TTL returns the remaining time to live of a key in seconds
	TTL(c ctx.Ctx, key string) (int, error)
	Exists(c ctx.Ctx, key string) (bool, error)
	Incr(c ctx.Ctx, key string) (int64, error)
	Incrby(c ctx.Ctx, key string, val int) (int64, error)
}
