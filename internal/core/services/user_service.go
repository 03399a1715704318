package services

import (
	"context"
	"errors"

	"admingate/internal/adapters/persistence/models"
	"admingate/internal/adapters/persistence/repositories"
	"admingate/internal/core/domain"
	"admingate/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles user administration
type UserService struct {
	userRepo  repositories.UserRepository
	roleRepo  repositories.RoleRepository
	tokenRepo repositories.RefreshTokenRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	tokenRepo repositories.RefreshTokenRepository,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		tokenRepo: tokenRepo,
	}
}

// List returns a page of users together with the total count
func (s *UserService) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, offset, limit)
}

// Get returns a single user with roles loaded
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUserInput represents user update input
type UpdateUserInput struct {
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Status *string `json:"status"`
}

// Update applies contact and status changes to a user
func (s *UserService) Update(ctx context.Context, id uint, input *UpdateUserInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && (user.Email == nil || *input.Email != *user.Email) {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrEmailTaken
		}
		user.Email = input.Email
	}

	if input.Phone != nil && (user.Phone == nil || *input.Phone != *user.Phone) {
		exists, err := s.userRepo.ExistsByPhone(ctx, *input.Phone)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrPhoneTaken
		}
		user.Phone = input.Phone
	}

	if input.Status != nil {
		switch *input.Status {
		case models.UserStatusActive, models.UserStatusDisabled, models.UserStatusLocked:
			user.Status = *input.Status
		default:
			return nil, domain.ErrInvalidInput
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Disabling a user cuts their outstanding sessions immediately.
	if user.Status != models.UserStatusActive {
		if err := s.tokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// Delete removes a user. An administrator cannot delete their own
// account through this path.
func (s *UserService) Delete(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return domain.ErrForbidden
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeAllByUserID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

// SetRoles replaces the full role assignment of a user
func (s *UserService) SetRoles(ctx context.Context, id uint, roleIDs []uint) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	roles, err := s.roleRepo.GetByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(roleIDs) {
		return nil, domain.ErrRoleNotFound
	}

	if err := s.userRepo.ReplaceRoles(ctx, user, roles); err != nil {
		return nil, err
	}

	user.Roles = nil
	for _, role := range roles {
		user.Roles = append(user.Roles, *role)
	}
	return user, nil
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword verifies the current password and replaces it. All
// refresh tokens are revoked so other sessions must log in again.
func (s *UserService) ChangePassword(ctx context.Context, id uint, input *ChangePasswordInput) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !password.Verify(input.OldPassword, user.Password) {
		return domain.ErrInvalidCredentials
	}
	if !password.Validate(input.NewPassword) {
		return domain.ErrInvalidInput
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}
	return s.tokenRepo.RevokeAllByUserID(ctx, user.ID)
}
