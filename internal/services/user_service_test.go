package services_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/devconnect/internal/auth"
	"github.com/yoockh/devconnect/internal/models"
	"github.com/yoockh/devconnect/internal/services"
	"github.com/yoockh/devconnect/internal/testsupport"
	"github.com/yoockh/devconnect/internal/utils"
)

func newUserService() (services.UserService, *testsupport.UserStore, *auth.TokenService) {
	users := testsupport.NewUserStore()
	tokens := auth.NewTokenService("test-secret", "devconnect", time.Hour)
	return services.NewUserService(users, tokens), users, tokens
}

func TestRegister(t *testing.T) {
	svc, users, _ := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, models.RegisterInput{
		Name:     " Jane ",
		Email:    "Jane@Example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Jane", u.Name)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.True(t, strings.HasPrefix(u.Avatar, "https://www.gravatar.com/avatar/"))
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.True(t, users.Has(u.ID))

	_, err = svc.Register(ctx, models.RegisterInput{Name: "Other", Email: "jane@example.com", Password: "secret2"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, utils.HTTPStatus(err))

	var ae *utils.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{"Email already exists"}, ae.Fields["email"])
}

func TestLogin(t *testing.T) {
	svc, _, tokens := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, models.RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		tok, err := svc.Login(ctx, models.LoginInput{Email: "JANE@example.com", Password: "secret1"})
		require.NoError(t, err)

		claims, err := tokens.Parse(tok)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.Subject)
		assert.Equal(t, "Jane", claims.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, models.LoginInput{Email: "jane@example.com", Password: "nope"})
		assert.Equal(t, http.StatusBadRequest, utils.HTTPStatus(err))

		var ae *utils.AppError
		require.ErrorAs(t, err, &ae)
		assert.Contains(t, ae.Fields, "password")
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, models.LoginInput{Email: "who@example.com", Password: "secret1"})
		assert.Equal(t, http.StatusNotFound, utils.HTTPStatus(err))
	})
}

func TestGetUser(t *testing.T) {
	svc, _, _ := newUserService()

	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	_, err = svc.Get(context.Background(), "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}
