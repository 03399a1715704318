package services

import (
	"context"
	"testing"

	"admingate/internal/adapters/persistence/models"
	"admingate/internal/core/domain"
	"admingate/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccessFixture(t *testing.T) (*AccessService, *fakeUserRepo, *fakeRoleRepo, *fakeMenuRepo) {
	t.Helper()

	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	menuRepo := newFakeMenuRepo()

	return NewAccessService(userRepo, roleRepo, menuRepo, testConfig()), userRepo, roleRepo, menuRepo
}

func seedGrantedUser(t *testing.T, userRepo *fakeUserRepo) *models.User {
	t.Helper()

	user := &models.User{
		Username: "alice",
		Status:   models.UserStatusActive,
		Roles: []models.Role{
			{
				ID:   1,
				Name: models.RoleAdmin,
				Permissions: []models.Permission{
					{ID: 1, Code: "user:read"},
					{ID: 2, Code: "user:write"},
				},
			},
			{
				ID:   2,
				Name: models.RoleUser,
				Permissions: []models.Permission{
					{ID: 1, Code: "user:read"},
				},
			},
		},
	}
	require.NoError(t, userRepo.Create(context.Background(), user))
	return user
}

func TestResolveIdentity(t *testing.T) {
	svc, userRepo, _, _ := newAccessFixture(t)
	user := seedGrantedUser(t, userRepo)

	token, err := jwt.GenerateAccessToken(user.ID, user.Username, "test-access-secret", 60)
	require.NoError(t, err)

	identity, err := svc.ResolveIdentity(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, "alice", identity.Username)
	assert.ElementsMatch(t, []string{models.RoleAdmin, models.RoleUser}, identity.Roles)
	// Permission codes are deduplicated across roles.
	assert.ElementsMatch(t, []string{"user:read", "user:write"}, identity.Permissions)
}

func TestResolveIdentityDisabledUser(t *testing.T) {
	svc, userRepo, _, _ := newAccessFixture(t)
	user := seedGrantedUser(t, userRepo)
	user.Status = models.UserStatusDisabled

	token, err := jwt.GenerateAccessToken(user.ID, user.Username, "test-access-secret", 60)
	require.NoError(t, err)

	_, err = svc.ResolveIdentity(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUserDisabled)
}

func TestResolveIdentityWrongSecret(t *testing.T) {
	svc, userRepo, _, _ := newAccessFixture(t)
	user := seedGrantedUser(t, userRepo)

	token, err := jwt.GenerateAccessToken(user.ID, user.Username, "some-other-secret", 60)
	require.NoError(t, err)

	_, err = svc.ResolveIdentity(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestResolveIdentityExpiredToken(t *testing.T) {
	svc, userRepo, _, _ := newAccessFixture(t)
	user := seedGrantedUser(t, userRepo)

	token, err := jwt.GenerateAccessToken(user.ID, user.Username, "test-access-secret", -1)
	require.NoError(t, err)

	_, err = svc.ResolveIdentity(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestResolveIdentityDeletedUser(t *testing.T) {
	svc, _, _, _ := newAccessFixture(t)

	token, err := jwt.GenerateAccessToken(42, "ghost", "test-access-secret", 60)
	require.NoError(t, err)

	_, err = svc.ResolveIdentity(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestIdentityHasRole(t *testing.T) {
	identity := &Identity{Roles: []string{models.RoleUser}}

	assert.True(t, identity.HasRole(models.RoleUser))
	assert.True(t, identity.HasRole(models.RoleAdmin, models.RoleUser))
	assert.False(t, identity.HasRole(models.RoleAdmin))
}

func TestRoutePermissionMap(t *testing.T) {
	svc, _, _, menuRepo := newAccessFixture(t)
	ctx := context.Background()

	require.NoError(t, menuRepo.Create(ctx, &models.Menu{
		Name:  "Dashboard",
		Path:  "/dashboard",
		Roles: []models.Role{{Name: models.RoleAdmin}, {Name: models.RoleUser}},
	}))
	require.NoError(t, menuRepo.Create(ctx, &models.Menu{
		Name:  "Users",
		Path:  "/system/users",
		Roles: []models.Role{{Name: models.RoleAdmin}},
	}))

	m, err := svc.RoutePermissionMap(ctx)
	require.NoError(t, err)

	require.Len(t, m, 2)
	assert.ElementsMatch(t, []string{models.RoleAdmin, models.RoleUser}, m["/dashboard"].Roles)
	assert.Equal(t, []string{models.RoleAdmin}, m["/system/users"].Roles)
}

func TestSessionProfile(t *testing.T) {
	svc, userRepo, roleRepo, _ := newAccessFixture(t)
	ctx := context.Background()

	dashboard := models.Menu{ID: 1, Name: "Dashboard", Path: "/dashboard", Sort: 1}
	system := models.Menu{ID: 2, Name: "System", Path: "/system", Sort: 2}

	require.NoError(t, roleRepo.Create(ctx, &models.Role{
		Name:  models.RoleAdmin,
		Menus: []models.Menu{dashboard, system},
	}))
	require.NoError(t, roleRepo.Create(ctx, &models.Role{
		Name:  models.RoleUser,
		Menus: []models.Menu{dashboard},
	}))

	user := &models.User{
		Username: "alice",
		Status:   models.UserStatusActive,
		Roles: []models.Role{
			{ID: 1, Name: models.RoleAdmin, Permissions: []models.Permission{{Code: "user:read"}}},
			{ID: 2, Name: models.RoleUser},
		},
	}
	require.NoError(t, userRepo.Create(ctx, user))

	profile, err := svc.SessionProfile(ctx, &Identity{UserID: user.ID})
	require.NoError(t, err)

	assert.Equal(t, "alice", profile.User.Username)
	assert.Equal(t, []string{"user:read"}, profile.Permissions)

	// Menus granted through multiple roles appear once.
	require.Len(t, profile.Menus, 2)
	assert.Equal(t, "/dashboard", profile.Menus[0].Path)
	assert.Equal(t, "/system", profile.Menus[1].Path)
}

func TestSessionProfileNoGrants(t *testing.T) {
	svc, userRepo, _, _ := newAccessFixture(t)
	ctx := context.Background()

	user := &models.User{Username: "bob", Status: models.UserStatusActive}
	require.NoError(t, userRepo.Create(ctx, user))

	profile, err := svc.SessionProfile(ctx, &Identity{UserID: user.ID})
	require.NoError(t, err)

	// Empty grants serialize as empty collections, never null.
	assert.NotNil(t, profile.Permissions)
	assert.Empty(t, profile.Permissions)
	assert.Empty(t, profile.Menus)
}
