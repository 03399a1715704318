package repositories

import (
	"context"

	"admingate/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// roleRepository implements RoleRepository interface
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

// Create creates a new role
func (r *roleRepository) Create(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// GetByID gets a role by ID with its grants
func (r *roleRepository) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("id = ?", id).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByName gets a role by name
func (r *roleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByIDs gets roles by IDs
func (r *roleRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// Update updates a role
func (r *roleRepository) Update(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

// Delete deletes a role and its join rows
func (r *roleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Select("Menus", "Permissions").Delete(&models.Role{ID: id}).Error
}

// List lists all roles
func (r *roleRepository) List(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.WithContext(ctx).Order("id asc").Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// GetMenus gets the menus granted to a role, sorted
func (r *roleRepository) GetMenus(ctx context.Context, roleID uint) ([]*models.Menu, error) {
	var role models.Role
	err := r.db.WithContext(ctx).
		Preload("Menus", func(db *gorm.DB) *gorm.DB {
			return db.Order("menus.sort asc")
		}).
		Where("id = ?", roleID).
		First(&role).Error
	if err != nil {
		return nil, err
	}

	menus := make([]*models.Menu, len(role.Menus))
	for i := range role.Menus {
		menus[i] = &role.Menus[i]
	}
	return menus, nil
}

// GetPermissions gets the permissions granted to a role
func (r *roleRepository) GetPermissions(ctx context.Context, roleID uint) ([]*models.Permission, error) {
	role, err := r.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	perms := make([]*models.Permission, len(role.Permissions))
	for i := range role.Permissions {
		perms[i] = &role.Permissions[i]
	}
	return perms, nil
}

// ReplaceMenus replaces the role's menu grants
func (r *roleRepository) ReplaceMenus(ctx context.Context, role *models.Role, menus []*models.Menu) error {
	return r.db.WithContext(ctx).Model(role).Association("Menus").Replace(menus)
}

// ReplacePermissions replaces the role's permission grants
func (r *roleRepository) ReplacePermissions(ctx context.Context, role *models.Role, permissions []*models.Permission) error {
	return r.db.WithContext(ctx).Model(role).Association("Permissions").Replace(permissions)
}
