package repositories

import (
	"context"

	"admingate/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// permissionRepository implements PermissionRepository interface
type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

// List lists all permissions
func (r *permissionRepository) List(ctx context.Context) ([]*models.Permission, error) {
	var perms []*models.Permission
	err := r.db.WithContext(ctx).Order("code asc").Find(&perms).Error
	if err != nil {
		return nil, err
	}
	return perms, nil
}

// GetByIDs gets permissions by IDs
func (r *permissionRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Permission, error) {
	var perms []*models.Permission
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&perms).Error
	if err != nil {
		return nil, err
	}
	return perms, nil
}

// FirstOrCreate returns the permission with the given code, creating it
// when absent (used by seeding).
func (r *permissionRepository) FirstOrCreate(ctx context.Context, code string) (*models.Permission, error) {
	var perm models.Permission
	err := r.db.WithContext(ctx).
		Where(models.Permission{Code: code}).
		FirstOrCreate(&perm).Error
	if err != nil {
		return nil, err
	}
	return &perm, nil
}
