// Command cmd runs database maintenance outside the server: schema migration and admin seeding.
//
//	go run ./cmd -seed-admin -email admin@example.com -password secret123
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/joy095/gowafly/config"
	"github.com/joy095/gowafly/config/db"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/models/user_models"
	"github.com/joy095/gowafly/utils"
)

func init() {
	config.LoadEnv()
}

func main() {
	seedAdmin := flag.Bool("seed-admin", false, "create an admin account, or promote the existing account with that e-mail")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin e-mail (ADMIN_EMAIL)")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (ADMIN_PASSWORD)")
	flag.Parse()

	cfg := config.Load()
	logger.InitLoggers(cfg.LogFile)
	utils.SetJWTSecret(cfg.JWTSecret)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.ErrorLogger.Fatalf("Database unavailable: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.ErrorLogger.Fatalf("Schema migration failed: %v", err)
	}
	logger.InfoLogger.Info("Schema is up to date")

	if !*seedAdmin {
		return
	}
	if err := ensureAdmin(ctx, user_models.NewRepository(pool), *email, *password); err != nil {
		logger.ErrorLogger.Fatalf("Seeding admin failed: %v", err)
	}
}

func ensureAdmin(ctx context.Context, users *user_models.Repository, email, password string) error {
	if email == "" {
		return utils.Missing("email")
	}

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == utils.RoleAdmin {
			logger.InfoLogger.Infof("%s is already an admin", existing.Email)
			return nil
		}
		if _, err := users.UpdateFields(ctx, existing.ID, map[string]any{"role": utils.RoleAdmin}); err != nil {
			return err
		}
		logger.InfoLogger.Infof("Promoted %s to admin", existing.Email)
		return nil
	case !errors.Is(err, utils.ErrNotFound):
		return err
	}

	if len(password) < user_models.MinPasswordLength {
		return utils.Invalid("password must be at least %d characters", user_models.MinPasswordLength)
	}
	hash, err := user_models.HashPassword(password)
	if err != nil {
		return err
	}
	created, err := users.Create(ctx, &user_models.User{
		FirstName:    "Admin",
		LastName:     "User",
		Email:        email,
		PasswordHash: hash,
		Role:         utils.RoleAdmin,
	})
	if err != nil {
		return err
	}
	logger.InfoLogger.Infof("Created admin %s (%s)", created.Email, created.ID)
	return nil
}
