package main

import (
	"fmt"
	"os"

	"fundledger/internal/config"
	"fundledger/internal/database"
	"fundledger/internal/logger"
	"fundledger/internal/server"
	"fundledger/internal/validator"

	_ "fundledger/internal/docs" // Import swagger docs
)

// @title           Fundledger API
// @version         1.0
// @description     Fundledger tracks the income, expenses and partner drawings of a small business and keeps its shared account balances in step with them.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() { _ = dbManager.Close() }()

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Default accounts and admin user
	if err := database.Seed(dbManager.DB(), database.SeedConfig{
		AdminUsername:          appConfig.AdminUsername,
		AdminPassword:          appConfig.AdminPassword,
		PartnerDefaultPassword: appConfig.PartnerDefaultPassword,
	}); err != nil {
		return err
	}

	validator.Register()

	router := server.NewRouter(dbManager.DB(), server.Options{
		PartnerDefaultPassword: appConfig.PartnerDefaultPassword,
		OpsAPIKey:              appConfig.OpsAPIKey,
		RequestLogging:         true,
	})
	if appConfig.OpsAPIKey == "" {
		log.Warn("OPS_API_KEY is not set; /api/v1/ops endpoints are disabled")
	}

	log.Infof("Starting Fundledger server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
