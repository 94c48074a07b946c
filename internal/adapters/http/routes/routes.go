package routes

import (
	"tabitha-home/internal/adapters/http/handlers"
	"tabitha-home/internal/adapters/http/middleware"
	"tabitha-home/internal/adapters/persistence/repositories"
	"tabitha-home/internal/config"
	"tabitha-home/internal/core/domain"
	"tabitha-home/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	staffRepo := repositories.NewStaffRepository(db)
	childRepo := repositories.NewChildRepository(db)
	sequenceRepo := repositories.NewSequenceRepository(db)

	// Initialize services
	authService := services.NewAuthService(staffRepo, sequenceRepo, cfg)
	staffService := services.NewStaffService(staffRepo)
	childService := services.NewChildService(childRepo, sequenceRepo)
	reportService := services.NewReportService(childRepo, staffRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	staffHandler := handlers.NewStaffHandler(staffService, cfg)
	childHandler := handlers.NewChildHandler(childService, cfg)
	reportHandler := handlers.NewReportHandler(reportService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded files
	app.Static("/uploads", cfg.Upload.Dir)

	auth := middleware.AuthMiddleware(authService)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, auth)

	// Child routes
	childRoutes := apiV1.Group("/children")
	childRoutes.Use(auth)
	setupChildRoutes(childRoutes, childHandler)

	// Staff routes
	staffRoutes := apiV1.Group("/staff")
	staffRoutes.Use(auth)
	setupStaffRoutes(staffRoutes, staffHandler)

	// Report routes
	reportRoutes := apiV1.Group("/reports")
	reportRoutes.Use(auth)
	setupReportRoutes(reportRoutes, reportHandler)
}

// setupAuthRoutes configures authentication and account admin routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler) {
	// Public routes with a stricter rate limit
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/logout", handler.Logout)

	// Self-service routes
	router.Get("/me", auth, handler.Me)
	router.Patch("/update-password", auth, middleware.NoStore(), handler.UpdatePassword)
	router.Patch("/update-me", auth, handler.UpdateMe)

	// Account administration (admin or super_admin)
	users := router.Group("/users")
	users.Use(auth, middleware.AdminOnly())
	users.Post("/", handler.CreateUser)
	users.Get("/", handler.ListUsers)
	users.Patch("/:id/activate", handler.ActivateUser)
	users.Patch("/:id/deactivate", handler.DeactivateUser)
	users.Patch("/:id/unlock", handler.UnlockUser)
	users.Patch("/:id/reset-password", middleware.NoStore(), handler.ResetUserPassword)
}

// setupChildRoutes configures child record routes. Each route is gated
// on a single capability check.
func setupChildRoutes(router fiber.Router, handler *handlers.ChildHandler) {
	view := middleware.RequireCapability(domain.ModuleChildren, domain.ActionView)
	create := middleware.RequireCapability(domain.ModuleChildren, domain.ActionCreate)
	update := middleware.RequireCapability(domain.ModuleChildren, domain.ActionUpdate)
	manage := middleware.RequireCapability(domain.ModuleChildren, domain.ActionManage)

	router.Get("/", view, handler.List)
	router.Get("/search", view, handler.Search)
	router.Get("/autocomplete", view, handler.Autocomplete)
	router.Get("/stats", view, handler.Stats)
	router.Get("/:id", view, handler.Get)

	router.Post("/", create, handler.Create)
	router.Patch("/:id", update, handler.Update)
	// Exiting a child is admin-only regardless of granted permissions
	router.Delete("/:id", middleware.AdminOnly(), manage, handler.Exit)

	router.Post("/:id/medical-conditions", update, handler.AddMedicalCondition)

	router.Post("/:id/photos", update, handler.UploadPhoto)
	router.Patch("/:id/photos/:photoId/primary", update, handler.SetPrimaryPhoto)
	router.Delete("/:id/photos/:photoId", update, handler.DeletePhoto)

	router.Post("/:id/documents", update, handler.UploadDocument)
	router.Delete("/:id/documents/:docId", update, handler.DeleteDocument)
}

// setupStaffRoutes configures staff HR record routes
func setupStaffRoutes(router fiber.Router, handler *handlers.StaffHandler) {
	view := middleware.RequireCapability(domain.ModuleStaff, domain.ActionView)
	update := middleware.RequireCapability(domain.ModuleStaff, domain.ActionUpdate)
	manage := middleware.RequireCapability(domain.ModuleStaff, domain.ActionManage)

	router.Get("/", view, handler.List)
	router.Get("/stats", view, handler.Stats)
	router.Get("/:id", view, handler.Get)

	router.Patch("/:id", update, handler.Update)
	// Termination is admin-only regardless of granted permissions
	router.Delete("/:id", middleware.AdminOnly(), manage, handler.Terminate)
	router.Patch("/:id/permissions", middleware.AdminOnly(), handler.UpdatePermissions)

	router.Post("/:id/photo", update, handler.UploadPhoto)
	router.Post("/:id/documents", update, handler.UploadDocument)
	router.Delete("/:id/documents/:docId", update, handler.DeleteDocument)
}

// setupReportRoutes configures aggregate report routes. Responses are
// cacheable for a minute.
func setupReportRoutes(router fiber.Router, handler *handlers.ReportHandler) {
	view := middleware.RequireCapability(domain.ModuleReports, domain.ActionView)
	cache := middleware.ReportCache(60)

	router.Get("/dashboard", view, cache, handler.Dashboard)
	router.Get("/demographics", view, cache, handler.Demographics)
	router.Get("/health", view, cache, handler.Health)
}
