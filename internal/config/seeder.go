package config

import (
	"log"

	"admingate/internal/adapters/persistence/models"
	"admingate/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedRolesAndPermissions(); err != nil {
		return err
	}
	if err := s.seedMenus(); err != nil {
		return err
	}
	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedRolesAndPermissions seeds the built-in roles and their permissions
func (s *Seeder) seedRolesAndPermissions() error {
	permissions := map[string]*models.Permission{}
	for _, code := range []string{
		"user:read", "user:write",
		"role:read", "role:write",
		"menu:read", "menu:write",
		"profile:edit",
	} {
		perm := &models.Permission{}
		if err := s.db.Where(models.Permission{Code: code}).FirstOrCreate(perm).Error; err != nil {
			return err
		}
		permissions[code] = perm
	}

	var adminRole models.Role
	if err := s.db.Where(models.Role{Name: models.RoleAdmin}).
		Attrs(models.Role{Description: "Full console access"}).
		FirstOrCreate(&adminRole).Error; err != nil {
		return err
	}

	var userRole models.Role
	if err := s.db.Where(models.Role{Name: models.RoleUser}).
		Attrs(models.Role{Description: "Default role for registered users"}).
		FirstOrCreate(&userRole).Error; err != nil {
		return err
	}

	adminPerms := make([]*models.Permission, 0, len(permissions))
	for _, perm := range permissions {
		adminPerms = append(adminPerms, perm)
	}
	if err := s.db.Model(&adminRole).Association("Permissions").Replace(adminPerms); err != nil {
		return err
	}

	userPerms := []*models.Permission{permissions["profile:edit"]}
	return s.db.Model(&userRole).Association("Permissions").Replace(userPerms)
}

// seedMenus seeds the default navigation tree and grants it to roles
func (s *Seeder) seedMenus() error {
	var count int64
	s.db.Model(&models.Menu{}).Count(&count)
	if count > 0 {
		return nil // Menus already seeded
	}

	dashboard := &models.Menu{Name: "Dashboard", Path: "/dashboard", Icon: "dashboard", Sort: 1}
	if err := s.db.Create(dashboard).Error; err != nil {
		return err
	}

	system := &models.Menu{Name: "System", Path: "/system", Icon: "setting", Sort: 2}
	if err := s.db.Create(system).Error; err != nil {
		return err
	}

	children := []*models.Menu{
		{Name: "Users", Path: "/system/users", Icon: "user", Sort: 1, ParentID: &system.ID},
		{Name: "Roles", Path: "/system/roles", Icon: "team", Sort: 2, ParentID: &system.ID},
		{Name: "Menus", Path: "/system/menus", Icon: "menu", Sort: 3, ParentID: &system.ID},
	}
	for _, child := range children {
		if err := s.db.Create(child).Error; err != nil {
			return err
		}
	}

	var adminRole, userRole models.Role
	if err := s.db.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}
	if err := s.db.Where("name = ?", models.RoleUser).First(&userRole).Error; err != nil {
		return err
	}

	adminMenus := append([]*models.Menu{dashboard, system}, children...)
	if err := s.db.Model(&adminRole).Association("Menus").Replace(adminMenus); err != nil {
		return err
	}
	return s.db.Model(&userRole).Association("Menus").Replace([]*models.Menu{dashboard})
}

// seedAdminUser seeds the default admin account.
// Development convenience only; production admins are created through a
// controlled process.
func (s *Seeder) seedAdminUser() error {
	var adminRole models.Role
	if err := s.db.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	s.db.Model(&models.User{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role_id = ?", adminRole.ID).
		Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Password: hashedPassword,
		Status:   models.UserStatusActive,
		Roles:    []models.Role{adminRole},
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}
