package repositories

import (
	"context"

	"admingate/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// menuRepository implements MenuRepository interface
type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

// Create creates a new menu
func (r *menuRepository) Create(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

// GetByID gets a menu by ID
func (r *menuRepository) GetByID(ctx context.Context, id uint) (*models.Menu, error) {
	var menu models.Menu
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// GetByIDs gets menus by IDs
func (r *menuRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Menu, error) {
	var menus []*models.Menu
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

// Update updates a menu
func (r *menuRepository) Update(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Save(menu).Error
}

// Delete deletes a menu and reparents its children to root
func (r *menuRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Menu{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Menu{}, id).Error
	})
}

// ListAll returns every menu ordered by sort ascending
func (r *menuRepository) ListAll(ctx context.Context) ([]*models.Menu, error) {
	var menus []*models.Menu
	err := r.db.WithContext(ctx).Order("sort asc, id asc").Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

// ListAllWithRoles returns every menu with its granting roles loaded
func (r *menuRepository) ListAllWithRoles(ctx context.Context) ([]*models.Menu, error) {
	var menus []*models.Menu
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Order("sort asc, id asc").
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}
