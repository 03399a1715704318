package services

import (
	"context"
	"testing"
	"time"

	"admingate/internal/adapters/persistence/models"
	"admingate/internal/core/domain"
	"admingate/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResetFixture(t *testing.T) (*PasswordResetService, *fakeUserRepo, *fakeCodeRepo, *fakeTokenRepo) {
	t.Helper()

	userRepo := newFakeUserRepo()
	codeRepo := newFakeCodeRepo()
	tokenRepo := newFakeTokenRepo()
	svc := NewPasswordResetService(userRepo, codeRepo, tokenRepo, NewNotificationService())

	email := "alice@example.com"
	hashed, err := password.Hash("oldpass123")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(context.Background(), &models.User{
		Username: "alice",
		Email:    &email,
		Password: hashed,
		Status:   models.UserStatusActive,
	}))

	return svc, userRepo, codeRepo, tokenRepo
}

func TestRequestCode(t *testing.T) {
	svc, _, codeRepo, _ := newResetFixture(t)
	ctx := context.Background()

	retryAfter, err := svc.RequestCode(ctx, "email", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, retryAfter)

	code, err := codeRepo.LatestByTarget(ctx, models.VerifyTypeEmailReset, "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, code.Code, 6)
	assert.False(t, code.Used)
	assert.True(t, code.Consumable())
}

func TestRequestCodeCooldown(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)
	ctx := context.Background()

	_, err := svc.RequestCode(ctx, "email", "alice@example.com")
	require.NoError(t, err)

	retryAfter, err := svc.RequestCode(ctx, "email", "alice@example.com")
	assert.ErrorIs(t, err, domain.ErrCodeCooldown)
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 60)
}

func TestRequestCodeAfterCooldown(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)
	ctx := context.Background()

	_, err := svc.RequestCode(ctx, "email", "alice@example.com")
	require.NoError(t, err)

	// Jump past the cooldown window.
	svc.now = func() time.Time { return time.Now().Add(61 * time.Second) }

	retryAfter, err := svc.RequestCode(ctx, "email", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, retryAfter)
}

func TestRequestCodeUnknownTarget(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)

	_, err := svc.RequestCode(context.Background(), "email", "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRequestCodeBadChannel(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)

	_, err := svc.RequestCode(context.Background(), "carrier-pigeon", "alice@example.com")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResetPassword(t *testing.T) {
	svc, userRepo, codeRepo, tokenRepo := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, tokenRepo.Create(ctx, &models.RefreshToken{
		UserID:    1,
		TokenHash: "hash",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	_, err := svc.RequestCode(ctx, "email", "alice@example.com")
	require.NoError(t, err)
	code, err := codeRepo.LatestByTarget(ctx, models.VerifyTypeEmailReset, "alice@example.com")
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, &ResetPasswordInput{
		Channel:     "email",
		Target:      "alice@example.com",
		Code:        code.Code,
		NewPassword: "newpass123",
	})
	require.NoError(t, err)

	user, err := userRepo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, password.Verify("newpass123", user.Password))
	assert.False(t, password.Verify("oldpass123", user.Password))

	// A password reset ends every open session.
	assert.Equal(t, 0, tokenRepo.activeCount(user.ID))
}

func TestResetPasswordWrongCode(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)
	ctx := context.Background()

	_, err := svc.RequestCode(ctx, "email", "alice@example.com")
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, &ResetPasswordInput{
		Channel:     "email",
		Target:      "alice@example.com",
		Code:        "000000",
		NewPassword: "newpass123",
	})
	assert.ErrorIs(t, err, domain.ErrCodeInvalid)
}

func TestResetPasswordCodeSingleUse(t *testing.T) {
	svc, _, codeRepo, _ := newResetFixture(t)
	ctx := context.Background()

	_, err := svc.RequestCode(ctx, "email", "alice@example.com")
	require.NoError(t, err)
	code, err := codeRepo.LatestByTarget(ctx, models.VerifyTypeEmailReset, "alice@example.com")
	require.NoError(t, err)

	input := &ResetPasswordInput{
		Channel:     "email",
		Target:      "alice@example.com",
		Code:        code.Code,
		NewPassword: "newpass123",
	}
	require.NoError(t, svc.ResetPassword(ctx, input))

	// The consumed code cannot reset the password a second time.
	input.NewPassword = "anotherpass123"
	err = svc.ResetPassword(ctx, input)
	assert.ErrorIs(t, err, domain.ErrCodeInvalid)
}

func TestResetPasswordExpiredCode(t *testing.T) {
	svc, _, codeRepo, _ := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, codeRepo.Create(ctx, &models.VerificationCode{
		Type:      models.VerifyTypeEmailReset,
		Target:    "alice@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	err := svc.ResetPassword(ctx, &ResetPasswordInput{
		Channel:     "email",
		Target:      "alice@example.com",
		Code:        "123456",
		NewPassword: "newpass123",
	})
	assert.ErrorIs(t, err, domain.ErrCodeInvalid)
}

func TestResetPasswordWeakPassword(t *testing.T) {
	svc, _, codeRepo, _ := newResetFixture(t)
	ctx := context.Background()

	_, err := svc.RequestCode(ctx, "email", "alice@example.com")
	require.NoError(t, err)
	code, err := codeRepo.LatestByTarget(ctx, models.VerifyTypeEmailReset, "alice@example.com")
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, &ResetPasswordInput{
		Channel:     "email",
		Target:      "alice@example.com",
		Code:        code.Code,
		NewPassword: "short",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// The rejected attempt must not burn the code.
	latest, err := codeRepo.LatestByTarget(ctx, models.VerifyTypeEmailReset, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, latest.Used)
}
