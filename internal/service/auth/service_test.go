package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/dtr-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

func newTestAuthService(t *testing.T) (auth.AuthService, jwt.Service) {
	t.Helper()
	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp)
	require.NoError(t, err)
	return NewAuthService(memory.NewUserRepository(), jwtService), jwtService
}

var registerReq = auth.RegisterRequest{
	Name:     "Juan",
	Surname:  "Dela Cruz",
	Email:    "Juan@Example.com",
	Password: "password123",
}

func TestRegister_CreatesPendingIntern(t *testing.T) {
	svc, _ := newTestAuthService(t)

	resp, err := svc.Register(context.Background(), registerReq)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "juan@example.com", resp.Email)
	assert.Equal(t, string(user.RoleIntern), resp.Role)
	assert.Equal(t, string(user.ApprovalPending), resp.Approval)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq)
	require.NoError(t, err)

	dup := registerReq
	dup.Email = "JUAN@example.com"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), auth.RegisterRequest{Email: "x@example.com"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "name")
	assert.Contains(t, verrs.ToMap(), "password")
}

func TestLogin_Success(t *testing.T) {
	svc, jwtService := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq)
	require.NoError(t, err)

	token, err := svc.Login(ctx, auth.LoginRequest{Email: "juan@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, registered.ID, token.UserID)
	assert.Equal(t, string(user.ApprovalPending), token.Approval)

	decoded, err := jwtService.JWTAuth().Decode(token.AccessToken)
	require.NoError(t, err)
	claims, err := decoded.AsMap(ctx)
	require.NoError(t, err)
	identity, err := jwt.IdentityFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, identity.UserID)
	assert.Equal(t, user.RoleIntern, identity.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq)
	require.NoError(t, err)

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "juan@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq)
	require.NoError(t, err)

	me, err := svc.Me(ctx, auth.Identity{UserID: registered.ID, Role: user.RoleIntern})
	require.NoError(t, err)
	assert.Equal(t, registered, me)

	_, err = svc.Me(ctx, auth.Identity{UserID: "ghost", Role: user.RoleIntern})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
