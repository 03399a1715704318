package repositories

import (
	"context"

	"admingate/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetWithGrants loads the user together with roles and role permissions
	GetWithGrants(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ReplaceRoles(ctx context.Context, user *models.User, roles []*models.Role) error
}

// RoleRepository defines role repository interface
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id uint) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*models.Role, error)
	GetMenus(ctx context.Context, roleID uint) ([]*models.Menu, error)
	GetPermissions(ctx context.Context, roleID uint) ([]*models.Permission, error)
	ReplaceMenus(ctx context.Context, role *models.Role, menus []*models.Menu) error
	ReplacePermissions(ctx context.Context, role *models.Role, permissions []*models.Permission) error
}

// MenuRepository defines menu repository interface
type MenuRepository interface {
	Create(ctx context.Context, menu *models.Menu) error
	GetByID(ctx context.Context, id uint) (*models.Menu, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Menu, error)
	Update(ctx context.Context, menu *models.Menu) error
	Delete(ctx context.Context, id uint) error
	// ListAll returns every menu ordered by sort ascending; tree assembly
	// happens in the service layer.
	ListAll(ctx context.Context) ([]*models.Menu, error)
	// ListAllWithRoles additionally loads the roles granted each menu
	ListAllWithRoles(ctx context.Context) ([]*models.Menu, error)
}

// PermissionRepository defines permission repository interface
type PermissionRepository interface {
	List(ctx context.Context) ([]*models.Permission, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Permission, error)
	FirstOrCreate(ctx context.Context, code string) (*models.Permission, error)
}

// VerificationCodeRepository defines verification code repository interface
type VerificationCodeRepository interface {
	Create(ctx context.Context, code *models.VerificationCode) error
	// LatestByTarget returns the most recently created code for a
	// type/target pair, or gorm.ErrRecordNotFound.
	LatestByTarget(ctx context.Context, codeType, target string) (*models.VerificationCode, error)
	// Consume flips used false -> true; fails when the code was already
	// consumed so the transition happens at most once.
	Consume(ctx context.Context, id uint) error
	DeleteExpired(ctx context.Context) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}
