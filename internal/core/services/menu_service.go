package services

import (
	"context"
	"errors"
	"sort"

	"admingate/internal/adapters/persistence/models"
	"admingate/internal/adapters/persistence/repositories"
	"admingate/internal/core/domain"

	"gorm.io/gorm"
)

// MenuService handles menu management business logic
type MenuService struct {
	menuRepo repositories.MenuRepository
}

// NewMenuService creates a new menu service
func NewMenuService(menuRepo repositories.MenuRepository) *MenuService {
	return &MenuService{menuRepo: menuRepo}
}

// MenuInput represents create/update menu input
type MenuInput struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Icon     string `json:"icon"`
	Sort     int    `json:"sort"`
	ParentID *uint  `json:"parent_id"`
}

// Tree returns the full menu tree: root nodes with children nested,
// every level ordered by sort ascending.
func (s *MenuService) Tree(ctx context.Context) ([]*models.Menu, error) {
	menus, err := s.menuRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return buildMenuTree(menus), nil
}

// Create creates a new menu
func (s *MenuService) Create(ctx context.Context, input *MenuInput) (*models.Menu, error) {
	if input.Name == "" || input.Path == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.ParentID != nil {
		if _, err := s.menuRepo.GetByID(ctx, *input.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrMenuNotFound
			}
			return nil, err
		}
	}

	menu := &models.Menu{
		Name:     input.Name,
		Path:     input.Path,
		Icon:     input.Icon,
		Sort:     input.Sort,
		ParentID: input.ParentID,
	}
	if err := s.menuRepo.Create(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

// Update updates a menu
func (s *MenuService) Update(ctx context.Context, id uint, input *MenuInput) (*models.Menu, error) {
	menu, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMenuNotFound
		}
		return nil, err
	}

	if input.ParentID != nil {
		if *input.ParentID == id {
			return nil, domain.ErrInvalidInput
		}
		if _, err := s.menuRepo.GetByID(ctx, *input.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrMenuNotFound
			}
			return nil, err
		}
	}

	if input.Name != "" {
		menu.Name = input.Name
	}
	if input.Path != "" {
		menu.Path = input.Path
	}
	menu.Icon = input.Icon
	menu.Sort = input.Sort
	menu.ParentID = input.ParentID

	if err := s.menuRepo.Update(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

// Delete deletes a menu; its children are reparented to root
func (s *MenuService) Delete(ctx context.Context, id uint) error {
	if _, err := s.menuRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrMenuNotFound
		}
		return err
	}
	return s.menuRepo.Delete(ctx, id)
}

// buildMenuTree assembles a nested tree from a flat menu list. Nodes
// whose parent is absent from the list are promoted to roots so a
// partial list (one role's grants) still renders. Every level is sorted
// before children are attached.
func buildMenuTree(menus []*models.Menu) []*models.Menu {
	byID := make(map[uint]*models.Menu, len(menus))
	childrenOf := make(map[uint][]*models.Menu)
	for _, menu := range menus {
		menu.Children = nil
		byID[menu.ID] = menu
	}

	var roots []*models.Menu
	for _, menu := range menus {
		if menu.ParentID != nil {
			if _, ok := byID[*menu.ParentID]; ok {
				childrenOf[*menu.ParentID] = append(childrenOf[*menu.ParentID], menu)
				continue
			}
		}
		roots = append(roots, menu)
	}

	// Attach bottom-up so nested children are complete before the copy.
	var attach func(menu *models.Menu)
	attach = func(menu *models.Menu) {
		kids := childrenOf[menu.ID]
		sortMenus(kids)
		for _, kid := range kids {
			attach(kid)
			menu.Children = append(menu.Children, *kid)
		}
	}

	sortMenus(roots)
	for _, root := range roots {
		attach(root)
	}
	return roots
}

func sortMenus(menus []*models.Menu) {
	sort.SliceStable(menus, func(i, j int) bool {
		return menus[i].Sort < menus[j].Sort
	})
}
