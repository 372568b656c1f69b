package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mroshb/gamevault/internal/config"
	"github.com/mroshb/gamevault/internal/database"
	"github.com/mroshb/gamevault/internal/handlers"
	"github.com/mroshb/gamevault/internal/middleware"
	"github.com/mroshb/gamevault/internal/repositories"
	"github.com/mroshb/gamevault/internal/services"
	"github.com/mroshb/gamevault/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting game vault server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// Validate production security settings
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed the first admin account
	if err := database.SeedAdmin(db, cfg); err != nil {
		logger.Warn("Failed to seed admin account", "error", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	codeRepo := repositories.NewCodeRepository(db)
	gameRepo := repositories.NewGameRepository(db)
	ownershipRepo := repositories.NewOwnershipRepository(db)

	// Services
	userService := services.NewUserService(db, userRepo, cfg.DefaultPoints)
	redemptionService := services.NewRedemptionService(db, userRepo, codeRepo)
	entitlementService := services.NewEntitlementService(db, userRepo, gameRepo, ownershipRepo, cfg.GameCost)
	codeService := services.NewCodeService(codeRepo, cfg.CodeLength, cfg.CodeCharset)
	importerService := services.NewImporterService(db, gameRepo, ownershipRepo)

	// HTTP surface
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, time.Minute)
	userHandler := handlers.NewUserHandler(userService, redemptionService, ownershipRepo, userRepo, codeRepo,
		cfg.JWTSecret, cfg.RegisterRequireValidCode)
	gameHandler := handlers.NewGameHandler(entitlementService, gameRepo)
	adminHandler := handlers.NewAdminHandler(userService, codeService, importerService, gameRepo, codeRepo,
		cfg.UploadMaxSize)

	router := handlers.NewRouter(userHandler, gameHandler, adminHandler, limiter, cfg.JWTSecret)

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
