// Package seed provisions first-run data for self-hosted installs.
package seed

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/taskway/internal/auth/domain"
	"github.com/smallbiznis/taskway/internal/auth/password"
	"github.com/smallbiznis/taskway/internal/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnsureAdminUser creates the bootstrap admin account when it does not exist
// yet. Existing accounts are left untouched.
func EnsureAdminUser(conn *gorm.DB, cfg config.BootstrapConfig) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return errors.New("bootstrap admin requires BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD")
	}

	var existing authdomain.User
	err := conn.First(&existing, "LOWER(email) = ?", email).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}
	hashed, err := password.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := &authdomain.User{
		ID:           node.Generate(),
		Name:         "Admin",
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := conn.Create(user).Error; err != nil {
		return err
	}

	zap.L().Info("bootstrap admin created", zap.String("email", email))
	return nil
}
