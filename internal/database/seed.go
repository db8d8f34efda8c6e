package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hotelio/hotel-reservation/internal/auth"
	"github.com/hotelio/hotel-reservation/internal/model"
	"github.com/hotelio/hotel-reservation/internal/repository"
)

const (
	seedAdminEmail    = "admin@example.com"
	seedAdminPassword = "admin123"
)

// Seed makes sure the closed role set exists and that a bootstrap ADMIN
// account is present. It is idempotent and safe to run on every startup.
func Seed(ctx context.Context, users *repository.UserRepo, bcryptCost int) error {
	for _, name := range model.AllRoles() {
		if _, err := users.FindRoleByName(ctx, name); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("seed: look up role %s: %w", name, err)
		}
		if err := users.EnsureRole(ctx, name); err != nil {
			return fmt.Errorf("seed: create role %s: %w", name, err)
		}
		log.Info().Str("role", name).Msg("seeded role")
	}

	exists, err := users.ExistsByEmail(ctx, seedAdminEmail)
	if err != nil {
		return fmt.Errorf("seed: check admin user: %w", err)
	}
	if exists {
		return nil
	}
	hash, err := auth.HashPassword(seedAdminPassword, bcryptCost)
	if err != nil {
		return fmt.Errorf("seed: hash admin password: %w", err)
	}
	if _, err := users.Create(ctx, seedAdminEmail, hash, []string{model.RoleAdmin}); err != nil {
		return fmt.Errorf("seed: create admin user: %w", err)
	}
	log.Info().Str("email", seedAdminEmail).Msg("seeded admin user")
	return nil
}
