package services

import (
	"context"
	"errors"

	"admingate/internal/adapters/persistence/models"
	"admingate/internal/adapters/persistence/repositories"
	"admingate/internal/config"
	"admingate/internal/core/domain"
	"admingate/internal/pkg/authz"
	"admingate/internal/pkg/jwt"

	"gorm.io/gorm"
)

// Identity is a resolved access decision input: who the caller is and
// what they hold, re-derived from the database on every request rather
// than trusted from token claims.
type Identity struct {
	UserID      uint     `json:"user_id"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// HasRole reports whether the identity holds any of the given roles
func (id *Identity) HasRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range id.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Granted returns the union of role names and permission codes
func (id *Identity) Granted() []string {
	granted := make([]string, 0, len(id.Roles)+len(id.Permissions))
	granted = append(granted, id.Roles...)
	granted = append(granted, id.Permissions...)
	return granted
}

// AccessService resolves bearer tokens into concrete access decisions
type AccessService struct {
	userRepo repositories.UserRepository
	roleRepo repositories.RoleRepository
	menuRepo repositories.MenuRepository
	cfg      *config.Config
}

// NewAccessService creates a new access service
func NewAccessService(
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	menuRepo repositories.MenuRepository,
	cfg *config.Config,
) *AccessService {
	return &AccessService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		menuRepo: menuRepo,
		cfg:      cfg,
	}
}

// ResolveIdentity verifies an access token and loads the subject's roles
// and permissions from the database.
func (s *AccessService) ResolveIdentity(ctx context.Context, token string) (*Identity, error) {
	claims, err := jwt.ValidateAccessToken(token, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.userRepo.GetWithGrants(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsActive() {
		return nil, domain.ErrUserDisabled
	}

	return &Identity{
		UserID:      user.ID,
		Username:    user.Username,
		Roles:       user.RoleNames(),
		Permissions: user.PermissionCodes(),
	}, nil
}

// RoutePermissionMap derives the role-requirement map over the whole
// menu tree: each menu path maps to the roles granted that menu.
func (s *AccessService) RoutePermissionMap(ctx context.Context) (authz.PathPermissionMap, error) {
	menus, err := s.menuRepo.ListAllWithRoles(ctx)
	if err != nil {
		return nil, err
	}

	m := make(authz.PathPermissionMap, len(menus))
	for _, menu := range menus {
		roles := make([]string, len(menu.Roles))
		for i, role := range menu.Roles {
			roles[i] = role.Name
		}
		m[menu.Path] = authz.Requirement{Roles: roles}
	}
	return m, nil
}

// SessionProfile is the bootstrap payload: user, visible menu tree and
// permission codes, fetched in one call after login or app reload.
type SessionProfile struct {
	User        *models.UserResponse `json:"user"`
	Menus       []*models.Menu       `json:"menus"`
	Permissions []string             `json:"permissions"`
}

// SessionProfile assembles the bootstrap payload for a resolved identity
func (s *AccessService) SessionProfile(ctx context.Context, identity *Identity) (*SessionProfile, error) {
	user, err := s.userRepo.GetWithGrants(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	// Union of the menus granted to each of the user's roles.
	seen := make(map[uint]struct{})
	var menus []*models.Menu
	for _, role := range user.Roles {
		roleMenus, err := s.roleRepo.GetMenus(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		for _, menu := range roleMenus {
			if _, ok := seen[menu.ID]; !ok {
				seen[menu.ID] = struct{}{}
				menus = append(menus, menu)
			}
		}
	}

	permissions := user.PermissionCodes()
	if permissions == nil {
		permissions = []string{}
	}

	return &SessionProfile{
		User:        user.ToResponse(),
		Menus:       buildMenuTree(menus),
		Permissions: permissions,
	}, nil
}
