package routes

import (
	"insurehub/internal/adapters/http/handlers"
	"insurehub/internal/adapters/http/middleware"
	"insurehub/internal/adapters/persistence/repositories"
	"insurehub/internal/config"
	"insurehub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	policyRepo := repositories.NewPolicyRepository(db)
	packageRepo := repositories.NewPackageRepository(db)

	// Initialize services
	notifyService := services.NewNotificationService()
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	applicationService := services.NewApplicationService(db, applicationRepo)
	policyService := services.NewPolicyService(db, policyRepo, applicationRepo, userRepo, categoryRepo, notifyService)
	packageService := services.NewPackageService(db, packageRepo, applicationRepo, policyService, notifyService)
	dashboardService := services.NewDashboardService(db, applicationRepo, policyRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(categoryRepo)
	applicationHandler := handlers.NewApplicationHandler(applicationService, policyService)
	policyHandler := handlers.NewPolicyHandler(policyService)
	packageHandler := handlers.NewPackageHandler(packageService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, userHandler, cfg)

	// Product catalog (public, cacheable)
	catalogRoutes := apiV1.Group("/catalog")
	catalogRoutes.Use(middleware.CatalogCache())
	catalogRoutes.Get("/categories", catalogHandler.ListCategories)

	// Profile routes (authenticated)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Get("/me", userHandler.Me)

	// Application routes (authenticated)
	applicationRoutes := apiV1.Group("/applications")
	applicationRoutes.Use(middleware.AuthMiddleware(cfg))
	applicationRoutes.Use(middleware.NoCacheHeaders())
	setupApplicationRoutes(applicationRoutes, applicationHandler)

	// Policy routes (authenticated)
	policyRoutes := apiV1.Group("/policies")
	policyRoutes.Use(middleware.AuthMiddleware(cfg))
	policyRoutes.Use(middleware.NoCacheHeaders())
	setupPolicyRoutes(policyRoutes, policyHandler)

	// Package routes (authenticated)
	packageRoutes := apiV1.Group("/packages")
	packageRoutes.Use(middleware.AuthMiddleware(cfg))
	packageRoutes.Use(middleware.NoCacheHeaders())
	setupPackageRoutes(packageRoutes, packageHandler)

	// Admin routes (admin only)
	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, userHandler, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, userHandler *handlers.UserHandler, cfg *config.Config) {
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.Refresh)
	router.Post("/logout", middleware.AuthMiddleware(cfg), handler.Logout)
	router.Get("/me", middleware.AuthMiddleware(cfg), userHandler.Me)
}

// setupApplicationRoutes configures application lifecycle routes
func setupApplicationRoutes(router fiber.Router, handler *handlers.ApplicationHandler) {
	// One submit endpoint per product line
	router.Post("/auto-comprehensive", handler.SubmitAutoComprehensive)
	router.Post("/auto-liability", handler.SubmitAutoLiability)
	router.Post("/property", handler.SubmitProperty)
	router.Post("/health", handler.SubmitHealth)
	router.Post("/travel", handler.SubmitTravel)

	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Post("/:id/pay", handler.Pay)
	router.Post("/:id/cancel", handler.Cancel)
}

// setupPolicyRoutes configures policy routes
func setupPolicyRoutes(router fiber.Router, handler *handlers.PolicyHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Post("/:id/cancel", middleware.StrictRateLimiter(), handler.Cancel)
}

// setupPackageRoutes configures package routes
func setupPackageRoutes(router fiber.Router, handler *handlers.PackageHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Post("/:id/pay", middleware.StrictRateLimiter(), handler.Pay)
	router.Post("/:id/cancel", middleware.StrictRateLimiter(), handler.Cancel)
}

// setupAdminRoutes configures admin routes
func setupAdminRoutes(router fiber.Router, userHandler *handlers.UserHandler, dashboardHandler *handlers.DashboardHandler) {
	router.Get("/users", userHandler.List)
	router.Get("/dashboard", dashboardHandler.Overview)
}
