package routes

import (
	"admingate/internal/adapters/http/handlers"
	"admingate/internal/adapters/http/middleware"
	"admingate/internal/adapters/persistence/repositories"
	"admingate/internal/config"
	"admingate/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	permRepo := repositories.NewPermissionRepository(db)
	codeRepo := repositories.NewVerificationCodeRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, roleRepo, refreshTokenRepo, cfg)
	accessService := services.NewAccessService(userRepo, roleRepo, menuRepo, cfg)
	notifyService := services.NewNotificationService()
	resetService := services.NewPasswordResetService(userRepo, codeRepo, refreshTokenRepo, notifyService)
	userService := services.NewUserService(userRepo, roleRepo, refreshTokenRepo)
	roleService := services.NewRoleService(roleRepo, menuRepo, permRepo)
	menuService := services.NewMenuService(menuRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, accessService, resetService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	roleHandler := handlers.NewRoleHandler(roleService)
	menuHandler := handlers.NewMenuHandler(menuService)

	// Page navigation guard; API routes answer 401 instead
	app.Use(middleware.EdgeGuard())

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth := middleware.Auth(accessService)

	api := app.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth", middleware.NoCacheHeaders())
	authGroup.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authGroup.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authGroup.Post("/refresh", middleware.AuthRateLimiter(), authHandler.RefreshToken)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/logout-all", auth, authHandler.LogoutAll)
	authGroup.Get("/profile", auth, authHandler.Profile)
	authGroup.Get("/permissions", auth, authHandler.Permissions)
	authGroup.Post("/forgot-password/:channel", middleware.StrictRateLimiter(), authHandler.ForgotPassword)
	authGroup.Post("/reset-password/:channel", middleware.StrictRateLimiter(), authHandler.ResetPassword)

	// Profile routes (any authenticated user)
	profile := api.Group("/profile", auth, middleware.NoCacheHeaders())
	profile.Put("/password", userHandler.ChangePassword)

	// User administration (admin only)
	users := api.Group("/users", auth, middleware.AdminOnly())
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
	users.Put("/:id/roles", userHandler.SetRoles)

	// Role administration (admin only)
	roles := api.Group("/roles", auth, middleware.AdminOnly())
	roles.Get("/", roleHandler.List)
	roles.Post("/", roleHandler.Create)
	roles.Get("/:id", roleHandler.Get)
	roles.Put("/:id", roleHandler.Update)
	roles.Delete("/:id", roleHandler.Delete)
	roles.Get("/:id/menus", roleHandler.GetMenus)
	roles.Put("/:id/menus", roleHandler.SetMenus)
	roles.Get("/:id/permissions", roleHandler.GetPermissions)
	roles.Put("/:id/permissions", roleHandler.SetPermissions)

	// Permission catalog (admin only)
	api.Get("/permissions", auth, middleware.AdminOnly(), roleHandler.ListPermissions)

	// Menu routes: the tree is public, management is admin only
	menus := api.Group("/menus")
	menus.Get("/tree", middleware.MenuTreeCache(), menuHandler.Tree)
	menus.Post("/", auth, middleware.AdminOnly(), menuHandler.Create)
	menus.Put("/:id", auth, middleware.AdminOnly(), menuHandler.Update)
	menus.Delete("/:id", auth, middleware.AdminOnly(), menuHandler.Delete)
}
