package services

import (
	"context"
	"errors"

	"admingate/internal/adapters/persistence/models"
	"admingate/internal/adapters/persistence/repositories"
	"admingate/internal/core/domain"

	"gorm.io/gorm"
)

// RoleService handles role administration
type RoleService struct {
	roleRepo repositories.RoleRepository
	menuRepo repositories.MenuRepository
	permRepo repositories.PermissionRepository
}

// NewRoleService creates a new role service
func NewRoleService(
	roleRepo repositories.RoleRepository,
	menuRepo repositories.MenuRepository,
	permRepo repositories.PermissionRepository,
) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		menuRepo: menuRepo,
		permRepo: permRepo,
	}
}

// RoleInput represents role create/update input
type RoleInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List returns all roles
func (s *RoleService) List(ctx context.Context) ([]*models.Role, error) {
	return s.roleRepo.List(ctx)
}

// Get returns a single role
func (s *RoleService) Get(ctx context.Context, id uint) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	return role, nil
}

// Create creates a new role
func (s *RoleService) Create(ctx context.Context, input *RoleInput) (*models.Role, error) {
	if input.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	if existing, err := s.roleRepo.GetByName(ctx, input.Name); err == nil && existing != nil {
		return nil, domain.ErrInvalidInput
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := &models.Role{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Update renames or redescribes a role. The built-in roles keep their
// names so seeded grants stay resolvable.
func (s *RoleService) Update(ctx context.Context, id uint, input *RoleInput) (*models.Role, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != role.Name {
		if isProtectedRole(role.Name) {
			return nil, domain.ErrRoleProtected
		}
		role.Name = input.Name
	}
	role.Description = input.Description

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Delete removes a role. The built-in admin and user roles cannot be
// deleted.
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	role, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if isProtectedRole(role.Name) {
		return domain.ErrRoleProtected
	}
	return s.roleRepo.Delete(ctx, id)
}

// GetMenus returns the menus granted to a role
func (s *RoleService) GetMenus(ctx context.Context, id uint) ([]*models.Menu, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.roleRepo.GetMenus(ctx, id)
}

// SetMenus replaces the menus granted to a role
func (s *RoleService) SetMenus(ctx context.Context, id uint, menuIDs []uint) error {
	role, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	menus, err := s.menuRepo.GetByIDs(ctx, menuIDs)
	if err != nil {
		return err
	}
	if len(menus) != len(menuIDs) {
		return domain.ErrMenuNotFound
	}

	return s.roleRepo.ReplaceMenus(ctx, role, menus)
}

// GetPermissions returns the permissions granted to a role
func (s *RoleService) GetPermissions(ctx context.Context, id uint) ([]*models.Permission, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.roleRepo.GetPermissions(ctx, id)
}

// SetPermissions replaces the permissions granted to a role
func (s *RoleService) SetPermissions(ctx context.Context, id uint, permissionIDs []uint) error {
	role, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	permissions, err := s.permRepo.GetByIDs(ctx, permissionIDs)
	if err != nil {
		return err
	}
	if len(permissions) != len(permissionIDs) {
		return domain.ErrInvalidInput
	}

	return s.roleRepo.ReplacePermissions(ctx, role, permissions)
}

// Permissions returns the full permission catalog
func (s *RoleService) Permissions(ctx context.Context) ([]*models.Permission, error) {
	return s.permRepo.List(ctx)
}

func isProtectedRole(name string) bool {
	return name == models.RoleAdmin || name == models.RoleUser
}
