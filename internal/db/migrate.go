package db

import (
	"errors"
	"fmt"

	"github.com/chitram/chitram-backend/config"
	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/pkg/logger"
	"github.com/chitram/chitram-backend/pkg/util"
	"gorm.io/gorm"
)

// Models lists every table managed by AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&model.Admin{},
		&model.Application{},
		&model.Artist{},
		&model.Artwork{},
		&model.Order{},
		&model.ContactMessage{},
		&model.PageView{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed creates the bootstrap admin account when none exists.
func Seed(cfg *config.AdminConfig) error {
	return SeedAdmin(DB, cfg)
}

// SeedAdmin inserts the configured admin if the admins table is empty.
// An empty password skips seeding so that no default credential ships.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) error {
	var count int64
	if err := db.Model(&model.Admin{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		logger.Debug("Admin account already present, skipping seed", nil)
		return nil
	}
	if cfg.Password == "" {
		logger.Warn("ADMIN_PASSWORD not set, no admin account seeded", map[string]interface{}{
			"username": cfg.Username,
		})
		return nil
	}

	hash, err := util.HashPassword(cfg.Password)
	if err != nil {
		if errors.Is(err, util.ErrWeakPassword) {
			return fmt.Errorf("ADMIN_PASSWORD rejected: %w", err)
		}
		return err
	}

	admin := &model.Admin{Username: cfg.Username, PasswordHash: hash}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	logger.Info("Seeded admin account", map[string]interface{}{
		"username": admin.Username,
	})
	return nil
}
