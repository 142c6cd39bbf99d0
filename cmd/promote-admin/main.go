package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dimitrije/crowdfund-api/internal/config"
	"github.com/dimitrije/crowdfund-api/internal/database"
	"github.com/dimitrije/crowdfund-api/internal/logger"
	"github.com/google/uuid"
)

var errNoIdentity = errors.New("no identity found")

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: promote-admin <email|identity-id>")
		os.Exit(1)
	}

	target := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	if err := promote(ctx, db.Pool, target); err != nil {
		log.Fatal().Err(err).Str("target", target).Msg("failed to promote")
	}

	log.Info().Str("target", target).Msg("profile promoted to admin")
}

// promote grants is_admin to the profile behind target, creating the profile
// when the identity has never signed in. A UUID target addresses identities
// issued by an external provider, which have no row in identities.
func promote(ctx context.Context, pool database.Pool, target string) error {
	if id, err := uuid.Parse(target); err == nil {
		_, err := pool.Exec(ctx, `
			INSERT INTO profiles (id, is_admin) VALUES ($1, TRUE)
			ON CONFLICT (id) DO UPDATE SET is_admin = TRUE, updated_at = NOW()
		`, id)
		if err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		return nil
	}

	result, err := pool.Exec(ctx, `
		INSERT INTO profiles (id, full_name, is_admin)
		SELECT id, full_name, TRUE FROM identities WHERE email = $1
		ON CONFLICT (id) DO UPDATE SET is_admin = TRUE, updated_at = NOW()
	`, target)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w with email %s", errNoIdentity, target)
	}
	return nil
}
