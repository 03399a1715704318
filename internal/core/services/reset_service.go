package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"admingate/internal/adapters/persistence/models"
	"admingate/internal/adapters/persistence/repositories"
	"admingate/internal/core/domain"
	"admingate/internal/pkg/password"

	"gorm.io/gorm"
)

const (
	// CodeCooldown is the minimum gap between two code requests for the
	// same target, measured from the previous code's creation time.
	CodeCooldown = 60 * time.Second

	// CodeTTL is how long a verification code stays consumable
	CodeTTL = 10 * time.Minute

	codeLength = 6
)

// Clock returns the current time; swappable in tests
type Clock func() time.Time

// PasswordResetService handles verification-code password resets
type PasswordResetService struct {
	userRepo  repositories.UserRepository
	codeRepo  repositories.VerificationCodeRepository
	tokenRepo repositories.RefreshTokenRepository
	notifier  *NotificationService
	now       Clock
}

// NewPasswordResetService creates a new password reset service
func NewPasswordResetService(
	userRepo repositories.UserRepository,
	codeRepo repositories.VerificationCodeRepository,
	tokenRepo repositories.RefreshTokenRepository,
	notifier *NotificationService,
) *PasswordResetService {
	return &PasswordResetService{
		userRepo:  userRepo,
		codeRepo:  codeRepo,
		tokenRepo: tokenRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

// codeTypeFor maps a reset channel to its verification code type
func codeTypeFor(channel string) (string, error) {
	switch channel {
	case "email":
		return models.VerifyTypeEmailReset, nil
	case "phone":
		return models.VerifyTypePhoneReset, nil
	default:
		return "", domain.ErrInvalidInput
	}
}

// RequestCode issues a verification code for the target. Returns the
// remaining cooldown seconds together with ErrCodeCooldown when the
// previous code for the same target is younger than CodeCooldown.
//
// The cooldown is a read of the latest code's timestamp, not an atomic
// reservation: two simultaneous requests can both pass the check.
// Accepted for this domain; see DESIGN.md.
func (s *PasswordResetService) RequestCode(ctx context.Context, channel, target string) (int, error) {
	codeType, err := codeTypeFor(channel)
	if err != nil {
		return 0, err
	}

	// Only registered targets receive codes.
	if err := s.lookupUser(ctx, channel, target); err != nil {
		return 0, err
	}

	latest, err := s.codeRepo.LatestByTarget(ctx, codeType, target)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	if latest != nil {
		elapsed := s.now().Sub(latest.CreatedAt)
		if elapsed < CodeCooldown {
			retryAfter := int((CodeCooldown - elapsed).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			return retryAfter, domain.ErrCodeCooldown
		}
	}

	code, err := generateNumericCode(codeLength)
	if err != nil {
		return 0, err
	}

	record := &models.VerificationCode{
		Type:      codeType,
		Target:    target,
		Code:      code,
		ExpiresAt: s.now().Add(CodeTTL),
	}
	if err := s.codeRepo.Create(ctx, record); err != nil {
		return 0, err
	}

	s.notifier.SendResetCode(channel, target, code)
	return 0, nil
}

// ResetPasswordInput represents reset password input
type ResetPasswordInput struct {
	Channel     string `json:"channel"`
	Target      string `json:"target"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// ResetPassword consumes a verification code and updates the password
// hash. A consumed or expired code fails uniformly with ErrCodeInvalid;
// all outstanding refresh tokens of the user are revoked.
func (s *PasswordResetService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	codeType, err := codeTypeFor(input.Channel)
	if err != nil {
		return err
	}
	if !password.Validate(input.NewPassword) {
		return domain.ErrInvalidInput
	}

	latest, err := s.codeRepo.LatestByTarget(ctx, codeType, input.Target)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCodeInvalid
		}
		return err
	}
	if latest.Code != input.Code || !latest.Consumable() {
		return domain.ErrCodeInvalid
	}

	// Single consumption transition; a lost race surfaces as invalid.
	if err := s.codeRepo.Consume(ctx, latest.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCodeInvalid
		}
		return err
	}

	user, err := s.findUser(ctx, input.Channel, input.Target)
	if err != nil {
		return err
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	// Password change invalidates every outstanding session.
	return s.tokenRepo.RevokeAllByUserID(ctx, user.ID)
}

func (s *PasswordResetService) lookupUser(ctx context.Context, channel, target string) error {
	_, err := s.findUser(ctx, channel, target)
	return err
}

func (s *PasswordResetService) findUser(ctx context.Context, channel, target string) (*models.User, error) {
	var user *models.User
	var err error
	if channel == "email" {
		user, err = s.userRepo.GetByEmail(ctx, target)
	} else {
		user, err = s.userRepo.GetByPhone(ctx, target)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// generateNumericCode generates a cryptographically secure numeric code
func generateNumericCode(length int) (string, error) {
	result := ""
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		result += fmt.Sprintf("%d", n.Int64())
	}
	return result, nil
}
