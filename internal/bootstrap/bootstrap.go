package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"github.com/campusdesk/campusdesk/internal/auth"
	"github.com/campusdesk/campusdesk/internal/authz"
	"github.com/campusdesk/campusdesk/internal/database/models"
	"github.com/campusdesk/campusdesk/pkg/config"
	"gorm.io/gorm"
)

// Run seeds the first supreme_admin and the default organization when the
// users table is empty. Idempotent: a populated table is a no-op.
func Run(ctx context.Context, db *gorm.DB, cfg *config.BootstrapConfig, logger *slog.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return errors.New("bootstrap admin email and password are required on first run")
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admin := models.User{
			Email:        cfg.AdminEmail,
			PasswordHash: hash,
			Name:         cfg.AdminName,
			Role:         string(authz.RoleSupremeAdmin),
			Status:       models.UserStatusActive,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		org := models.Organization{
			Name:      cfg.OrgName,
			Type:      models.OrgTypeUniversity,
			Status:    "active",
			CreatedBy: admin.ID,
			Settings:  "{}",
		}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		logger.Info("bootstrapped first admin and default organization",
			"email", admin.Email, "organization", org.Name)
		return nil
	})
}
