package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/stores/auth/usecase"
)

func TestSignAndParse(t *testing.T) {
	c := ctx.Background()
	uc := usecase.New("top-secret")

	token, err := uc.SignToken(c, "user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userId, err := uc.ParseToken(c, token)
	assert.NoError(t, err)
	assert.Equal(t, domain.UserId("user-1"), userId)
}

func TestSignEmptyUser(t *testing.T) {
	c := ctx.Background()
	uc := usecase.New("top-secret")

	_, err := uc.SignToken(c, "")
	assert.Equal(t, domain.ErrInvalidArgument, err)
}

func TestParseWrongSecret(t *testing.T) {
	c := ctx.Background()

	token, err := usecase.New("top-secret").SignToken(c, "user-1")
	assert.NoError(t, err)

	_, err = usecase.New("other-secret").ParseToken(c, token)
	assert.Error(t, err)
}
