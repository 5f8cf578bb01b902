package database

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"inventory-system/config"
	"inventory-system/internal/database/models"
)

type passwordHasher interface {
	Hash(plain string) (string, error)
}

// Seed creates the built-in user types and the administrator account when
// they are missing. It is safe to run on every start.
func Seed(ctx context.Context, db *gorm.DB, hasher passwordHasher, cfg config.SeedConfig) error {
	return WithTransaction(ctx, db, func(tx *gorm.DB) error {
		var adminType models.UserType
		for _, name := range []string{models.RoleAdmin, models.RoleCustomer, models.RoleSupplier} {
			var userType models.UserType
			err := tx.Where("name = ?", name).First(&userType).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				userType = models.UserType{Name: name}
				if err := tx.Create(&userType).Error; err != nil {
					return fmt.Errorf("seed user type %s: %w", name, err)
				}
				zap.S().Infof("seeded user type %s", name)
			} else if err != nil {
				return err
			}
			if name == models.RoleAdmin {
				adminType = userType
			}
		}

		var admin models.User
		err := tx.Where("username = ?", models.AdminUsername).First(&admin).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := hasher.Hash(cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}

		admin = models.User{
			FullName:     cfg.AdminFullName,
			Username:     models.AdminUsername,
			PasswordHash: hash,
			UserTypeID:   adminType.ID,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		zap.S().Infof("seeded administrator account %q", models.AdminUsername)
		return nil
	})
}
