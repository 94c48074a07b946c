package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"tabitha-home/internal/adapters/http/middleware"
	"tabitha-home/internal/adapters/http/routes"
	"tabitha-home/internal/adapters/persistence/models"
	"tabitha-home/internal/adapters/persistence/repositories"
	"tabitha-home/internal/config"
	"tabitha-home/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "tabitha-home/docs" // Swagger docs
)

// @title Tabitha Home Records API
// @version 1.0
// @description Records management API for the Tabitha Home children's residential care facility

// @contact.name API Support
// @contact.email support@tabithahome.org

// @host api.tabithahome.org
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Bootstrap the first super admin account
	if err := config.SeedSuperAdmin(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed super admin: %v", err)
	}

	// Start maintenance scheduler (nightly orphaned upload sweep)
	maintenance := services.NewMaintenanceService(repositories.NewChildRepository(db), cfg.Upload.Dir)
	if err := maintenance.Start(); err != nil {
		log.Fatalf("❌ Failed to start maintenance scheduler: %v", err)
	}
	defer maintenance.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Tabitha Home Records API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    int(cfg.Upload.MaxSize) + 1024*1024,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
