package main

import (
	"errors"
	"fmt"
	"os"

	"groovebox/internal/store"

	"github.com/rs/zerolog"
)

// bootstrapDemoUser seeds a first account so a fresh install is immediately
// usable. Set SEED_USERNAME/SEED_PASSWORD to override the defaults; an
// existing account is left untouched.
func bootstrapDemoUser(dataStore *store.Store, logger zerolog.Logger) error {
	username := envOrDefault("SEED_USERNAME", "demo")
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "demo123"
		logger.Warn().Str("username", username).Msg("seeding demo user with default password")
	}

	user, err := dataStore.CreateUser(username, password)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("bootstrap demo user: %w", err)
	}

	logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("seeded demo user")
	return nil
}
