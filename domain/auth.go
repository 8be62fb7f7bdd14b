package domain

import (
	"github.com/golang-jwt/jwt"

	"github.com/localmart/goapi/base/ctx"
)

type JwtCustomClaims struct {
	UserId string `json:"userId"`
	jwt.StandardClaims
}

// AuthUsecase resolves the current actor from a bearer token. Sessions are
// issued by the identity collaborator; SignToken exists for tooling and tests.
type AuthUsecase interface {
	SignToken(c ctx.Ctx, userId UserId) (string, error)
	ParseToken(c ctx.Ctx, token string) (UserId, error)
}
