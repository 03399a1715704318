package services

import (
	"context"
	"testing"

	"admingate/internal/adapters/persistence/models"
	"admingate/internal/core/domain"
	"admingate/internal/pkg/jwt"
	"admingate/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeRoleRepo, *fakeTokenRepo) {
	t.Helper()

	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	tokenRepo := newFakeTokenRepo()

	require.NoError(t, roleRepo.Create(context.Background(), &models.Role{Name: models.RoleAdmin}))
	require.NoError(t, roleRepo.Create(context.Background(), &models.Role{Name: models.RoleUser}))

	return NewAuthService(userRepo, roleRepo, tokenRepo, testConfig()), userRepo, roleRepo, tokenRepo
}

func TestRegister(t *testing.T) {
	svc, _, _, tokenRepo := newAuthFixture(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, []string{models.RoleUser}, resp.User.Roles)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// Access token carries only the identity, never roles.
	claims, err := jwt.ValidateAccessToken(resp.AccessToken, "test-access-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	// The refresh token is persisted as a hash, not in clear.
	stored, err := tokenRepo.GetByTokenHash(ctx, password.HashToken(resp.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, stored.UserID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterInput{Username: "alice", Password: "another123"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()
	email := "alice@example.com"

	_, err := svc.Register(ctx, &RegisterInput{Username: "alice", Password: "secret123", Email: &email})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterInput{Username: "bob", Password: "secret123", Email: &email})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &LoginInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginInput{Username: "alice", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), &LoginInput{Username: "ghost", Password: "whatever"})

	// Unknown user and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginDisabledUser(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	user, err := userRepo.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	user.Status = models.UserStatusDisabled

	_, err = svc.Login(ctx, &LoginInput{Username: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrUserDisabled)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, _, tokenRepo := newAuthFixture(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)

	// The old token is revoked by rotation and cannot be replayed.
	_, err = svc.RefreshToken(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	// Only the newly issued token stays active.
	assert.Equal(t, 1, tokenRepo.activeCount(reg.User.ID))
}

func TestRefreshTokenInvalid(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestRefreshTokenUnknownHash(t *testing.T) {
	svc, _, _, tokenRepo := newAuthFixture(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	// A valid JWT whose stored record is gone is treated as invalid.
	for id := range tokenRepo.tokens {
		delete(tokenRepo.tokens, id)
	}

	_, err = svc.RefreshToken(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLogout(t *testing.T) {
	svc, _, _, tokenRepo := newAuthFixture(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, reg.RefreshToken))
	assert.Equal(t, 0, tokenRepo.activeCount(reg.User.ID))

	_, err = svc.RefreshToken(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}

func TestLogoutAll(t *testing.T) {
	svc, _, _, tokenRepo := newAuthFixture(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, &LoginInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, 2, tokenRepo.activeCount(reg.User.ID))

	require.NoError(t, svc.LogoutAll(ctx, reg.User.ID))
	assert.Equal(t, 0, tokenRepo.activeCount(reg.User.ID))
}
