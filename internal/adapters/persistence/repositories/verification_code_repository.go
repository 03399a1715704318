package repositories

import (
	"context"
	"time"

	"admingate/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// verificationCodeRepository implements VerificationCodeRepository interface
type verificationCodeRepository struct {
	db *gorm.DB
}

// NewVerificationCodeRepository creates a new verification code repository
func NewVerificationCodeRepository(db *gorm.DB) VerificationCodeRepository {
	return &verificationCodeRepository{db: db}
}

// Create creates a new verification code
func (r *verificationCodeRepository) Create(ctx context.Context, code *models.VerificationCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

// LatestByTarget returns the most recently created code for a type/target pair
func (r *verificationCodeRepository) LatestByTarget(ctx context.Context, codeType, target string) (*models.VerificationCode, error) {
	var code models.VerificationCode
	err := r.db.WithContext(ctx).
		Where("type = ?", codeType).
		Where("target = ?", target).
		Order("created_at desc").
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// Consume marks a code used. The conditional update makes the
// false -> true transition happen at most once.
func (r *verificationCodeRepository) Consume(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.VerificationCode{}).
		Where("id = ?", id).
		Where("used = ?", false).
		Update("used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteExpired deletes all expired codes (cleanup job)
func (r *verificationCodeRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.VerificationCode{}).Error
}
