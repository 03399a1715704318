package services

import (
	"context"
	"sort"
	"time"

	"admingate/internal/adapters/persistence/models"
	"admingate/internal/config"

	"gorm.io/gorm"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetWithGrants(ctx context.Context, id uint) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email != nil && *user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	for _, user := range r.users {
		if user.Phone != nil && *user.Phone == phone {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uint, passwordHash string) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Password = passwordHash
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	total := int64(len(users))
	if offset >= len(users) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(users) {
		end = len(users)
	}
	return users[offset:end], total, nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	_, err := r.GetByPhone(ctx, phone)
	return err == nil, nil
}

func (r *fakeUserRepo) ReplaceRoles(_ context.Context, user *models.User, roles []*models.Role) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Roles = nil
	for _, role := range roles {
		stored.Roles = append(stored.Roles, *role)
	}
	return nil
}

type fakeRoleRepo struct {
	roles  map[uint]*models.Role
	nextID uint
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[uint]*models.Role), nextID: 1}
}

func (r *fakeRoleRepo) Create(_ context.Context, role *models.Role) error {
	role.ID = r.nextID
	r.nextID++
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) GetByID(_ context.Context, id uint) (*models.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *fakeRoleRepo) GetByName(_ context.Context, name string) (*models.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) GetByIDs(_ context.Context, ids []uint) ([]*models.Role, error) {
	var roles []*models.Role
	for _, id := range ids {
		if role, ok := r.roles[id]; ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (r *fakeRoleRepo) Update(_ context.Context, role *models.Role) error {
	if _, ok := r.roles[role.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.roles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.roles, id)
	return nil
}

func (r *fakeRoleRepo) List(_ context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	for _, role := range r.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

func (r *fakeRoleRepo) GetMenus(_ context.Context, roleID uint) ([]*models.Menu, error) {
	role, ok := r.roles[roleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var menus []*models.Menu
	for i := range role.Menus {
		menu := role.Menus[i]
		menus = append(menus, &menu)
	}
	return menus, nil
}

func (r *fakeRoleRepo) GetPermissions(_ context.Context, roleID uint) ([]*models.Permission, error) {
	role, ok := r.roles[roleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var perms []*models.Permission
	for i := range role.Permissions {
		perm := role.Permissions[i]
		perms = append(perms, &perm)
	}
	return perms, nil
}

func (r *fakeRoleRepo) ReplaceMenus(_ context.Context, role *models.Role, menus []*models.Menu) error {
	stored, ok := r.roles[role.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Menus = nil
	for _, menu := range menus {
		stored.Menus = append(stored.Menus, *menu)
	}
	return nil
}

func (r *fakeRoleRepo) ReplacePermissions(_ context.Context, role *models.Role, permissions []*models.Permission) error {
	stored, ok := r.roles[role.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Permissions = nil
	for _, perm := range permissions {
		stored.Permissions = append(stored.Permissions, *perm)
	}
	return nil
}

type fakeMenuRepo struct {
	menus  map[uint]*models.Menu
	nextID uint
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{menus: make(map[uint]*models.Menu), nextID: 1}
}

func (r *fakeMenuRepo) Create(_ context.Context, menu *models.Menu) error {
	menu.ID = r.nextID
	r.nextID++
	r.menus[menu.ID] = menu
	return nil
}

func (r *fakeMenuRepo) GetByID(_ context.Context, id uint) (*models.Menu, error) {
	menu, ok := r.menus[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return menu, nil
}

func (r *fakeMenuRepo) GetByIDs(_ context.Context, ids []uint) ([]*models.Menu, error) {
	var menus []*models.Menu
	for _, id := range ids {
		if menu, ok := r.menus[id]; ok {
			menus = append(menus, menu)
		}
	}
	return menus, nil
}

func (r *fakeMenuRepo) Update(_ context.Context, menu *models.Menu) error {
	if _, ok := r.menus[menu.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.menus[menu.ID] = menu
	return nil
}

func (r *fakeMenuRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.menus[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.menus, id)
	for _, menu := range r.menus {
		if menu.ParentID != nil && *menu.ParentID == id {
			menu.ParentID = nil
		}
	}
	return nil
}

func (r *fakeMenuRepo) ListAll(_ context.Context) ([]*models.Menu, error) {
	var menus []*models.Menu
	for _, menu := range r.menus {
		menus = append(menus, menu)
	}
	sort.Slice(menus, func(i, j int) bool { return menus[i].Sort < menus[j].Sort })
	return menus, nil
}

func (r *fakeMenuRepo) ListAllWithRoles(ctx context.Context) ([]*models.Menu, error) {
	return r.ListAll(ctx)
}

type fakePermissionRepo struct {
	perms  map[uint]*models.Permission
	nextID uint
}

func newFakePermissionRepo() *fakePermissionRepo {
	return &fakePermissionRepo{perms: make(map[uint]*models.Permission), nextID: 1}
}

func (r *fakePermissionRepo) List(_ context.Context) ([]*models.Permission, error) {
	var perms []*models.Permission
	for _, perm := range r.perms {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].ID < perms[j].ID })
	return perms, nil
}

func (r *fakePermissionRepo) GetByIDs(_ context.Context, ids []uint) ([]*models.Permission, error) {
	var perms []*models.Permission
	for _, id := range ids {
		if perm, ok := r.perms[id]; ok {
			perms = append(perms, perm)
		}
	}
	return perms, nil
}

func (r *fakePermissionRepo) FirstOrCreate(_ context.Context, code string) (*models.Permission, error) {
	for _, perm := range r.perms {
		if perm.Code == code {
			return perm, nil
		}
	}
	perm := &models.Permission{ID: r.nextID, Code: code}
	r.nextID++
	r.perms[perm.ID] = perm
	return perm, nil
}

type fakeCodeRepo struct {
	codes  map[uint]*models.VerificationCode
	nextID uint
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{codes: make(map[uint]*models.VerificationCode), nextID: 1}
}

func (r *fakeCodeRepo) Create(_ context.Context, code *models.VerificationCode) error {
	code.ID = r.nextID
	r.nextID++
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}
	r.codes[code.ID] = code
	return nil
}

func (r *fakeCodeRepo) LatestByTarget(_ context.Context, codeType, target string) (*models.VerificationCode, error) {
	var latest *models.VerificationCode
	for _, code := range r.codes {
		if code.Type != codeType || code.Target != target {
			continue
		}
		if latest == nil || code.CreatedAt.After(latest.CreatedAt) || (code.CreatedAt.Equal(latest.CreatedAt) && code.ID > latest.ID) {
			latest = code
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (r *fakeCodeRepo) Consume(_ context.Context, id uint) error {
	code, ok := r.codes[id]
	if !ok || code.Used {
		return gorm.ErrRecordNotFound
	}
	code.Used = true
	return nil
}

func (r *fakeCodeRepo) DeleteExpired(_ context.Context) error {
	for id, code := range r.codes {
		if code.IsExpired() {
			delete(r.codes, id)
		}
	}
	return nil
}

type fakeTokenRepo struct {
	tokens  map[uint]*models.RefreshToken
	nextID  uint
	revoked int
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[uint]*models.RefreshToken), nextID: 1}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	token.ID = r.nextID
	r.nextID++
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	for _, token := range r.tokens {
		if token.TokenHash == tokenHash {
			return token, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTokenRepo) Revoke(_ context.Context, id uint) error {
	token, ok := r.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	token.RevokedAt = &now
	r.revoked++
	return nil
}

func (r *fakeTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	token, err := r.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return err
	}
	return r.Revoke(ctx, token.ID)
}

func (r *fakeTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	now := time.Now()
	for _, token := range r.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
			r.revoked++
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context) error {
	for id, token := range r.tokens {
		if token.IsExpired() {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *fakeTokenRepo) activeCount(userID uint) int {
	count := 0
	for _, token := range r.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			count++
		}
	}
	return count
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  60,
			RefreshTokenDays: 7,
		},
	}
}
