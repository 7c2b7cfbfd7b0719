// Command create-admin seeds an ADMIN account. An existing account with the
// same email is left untouched.
//
//	create-admin -email admin@example.com -password admin123 -name "Admin User"
//
// Flags default to ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_NAME.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/adminboard/dashboard-api/internal/core/service"
	"github.com/adminboard/dashboard-api/internal/infrastructure/config"
	"github.com/adminboard/dashboard-api/internal/infrastructure/db"
	"github.com/adminboard/dashboard-api/internal/infrastructure/security"
	"github.com/adminboard/dashboard-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "create-admin"})

	admin, err := parseFlags(os.Args[1:], cfg.Admin)
	if err != nil {
		log.Fatal().Err(err).Msg("parse flags")
	}

	repo, closeStore, err := db.OpenUserRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open user store")
	}
	defer closeStore()

	registration := service.NewRegistrationService(
		service.NewCredentialStore(repo),
		security.NewBcryptHasher(cfg.Security.BcryptCost),
		false,
		log,
	)

	view, err := registration.BootstrapAdmin(ctx, admin.Email, admin.Password, admin.Name)
	if err != nil {
		log.Error().Err(err).Msg("create admin")
		closeStore()
		os.Exit(1)
	}

	log.Info().
		Str("id", view.ID).
		Str("email", view.Email).
		Str("role", string(view.Role)).
		Msg("admin account ready")
}

var errPasswordRequired = errors.New("a password is required (-password or ADMIN_PASSWORD)")

// parseFlags overlays command-line flags on the configured admin account.
func parseFlags(args []string, defaults config.AdminConfig) (config.AdminConfig, error) {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	admin := defaults
	fs.StringVar(&admin.Email, "email", defaults.Email, "admin email")
	fs.StringVar(&admin.Password, "password", defaults.Password, "admin password")
	fs.StringVar(&admin.Name, "name", defaults.Name, "admin display name")

	if err := fs.Parse(args); err != nil {
		return config.AdminConfig{}, err
	}
	if admin.Password == "" {
		return config.AdminConfig{}, errPasswordRequired
	}
	return admin, nil
}
