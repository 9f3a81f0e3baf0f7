package config

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/logger"
)

// SeedAdmin creates the first admin account when SEED_ADMIN_USERNAME and
// SEED_ADMIN_PASSWORD are set and the username is free. It never
// overwrites an existing user.
func SeedAdmin(db *gorm.DB, cfg Config, log *logger.Logger) error {
	if cfg.SeedAdminUsername == "" || cfg.SeedAdminPassword == "" {
		return nil
	}
	var existing models.User
	err := db.Where("username = ?", cfg.SeedAdminUsername).First(&existing).Error
	if err == nil {
		log.Info("seed admin already exists, skipping", "username", cfg.SeedAdminUsername)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := models.User{Username: cfg.SeedAdminUsername, PasswordHash: string(hash), Role: models.RoleAdmin}
	if err := db.Create(&u).Error; err != nil {
		return err
	}
	log.Info("seeded admin user", "username", u.Username)
	return nil
}
