package database

import (
	"fmt"

	"gorm.io/gorm"

	"fundledger/internal/logger"
	"fundledger/internal/services"
)

// SeedConfig holds the bootstrap credentials.
type SeedConfig struct {
	AdminUsername          string
	AdminPassword          string
	AdminName              string
	PartnerDefaultPassword string
}

// Seed creates the default accounts and the admin user. Running it again
// changes nothing.
func Seed(db *gorm.DB, cfg SeedConfig) error {
	accounts, err := services.NewAccountService(db).EnsureDefaultAccounts()
	if err != nil {
		return fmt.Errorf("failed to create default accounts: %w", err)
	}

	name := cfg.AdminName
	if name == "" {
		name = "Administrator"
	}
	users := services.NewUserService(db, cfg.PartnerDefaultPassword)
	if _, err := users.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword, name); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Named("seed").Infow("seed complete", "accounts", len(accounts), "admin", cfg.AdminUsername)
	return nil
}
