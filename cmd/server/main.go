// @title                       Admin Dashboard API
// @version                     1.0
// @description                 Account registration, sign-in and role-gated user administration.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/adminboard/dashboard-api/internal/api"
	"github.com/adminboard/dashboard-api/internal/api/handler"
	"github.com/adminboard/dashboard-api/internal/core/ports"
	"github.com/adminboard/dashboard-api/internal/core/service"
	"github.com/adminboard/dashboard-api/internal/infrastructure/config"
	"github.com/adminboard/dashboard-api/internal/infrastructure/db"
	"github.com/adminboard/dashboard-api/internal/infrastructure/db/redis"
	"github.com/adminboard/dashboard-api/internal/infrastructure/queue"
	"github.com/adminboard/dashboard-api/internal/infrastructure/security"
	"github.com/adminboard/dashboard-api/internal/infrastructure/session"
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

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "dashboard-api",
	})

	repo, closeStore, err := db.OpenUserRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open user store")
	}
	defer closeStore()

	readiness := map[string]handler.Pinger{"store": repo}

	sessions, closeSessions, err := openSessions(ctx, cfg, readiness)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.Session.Provider).Msg("open session provider")
	}
	defer closeSessions()

	pool := queue.NewHashPool(cfg.Security.HashWorkers, security.NewBcryptHasher(cfg.Security.BcryptCost), log)
	// The pool outlives the signal context so in-flight requests can finish
	// during shutdown; Close runs after srv.Shutdown returns.
	pool.Start(context.Background())
	defer pool.Close()

	store := service.NewCredentialStore(repo)
	registration := service.NewRegistrationService(store, pool, cfg.Security.AllowSelfAssignedRole, log)

	if cfg.Admin.Password != "" {
		if _, err := registration.BootstrapAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
			log.Fatal().Err(err).Msg("bootstrap admin account")
		}
	}

	e := api.NewRouter(api.Deps{
		Registration: registration,
		Auth:         service.NewAuthService(store, pool, sessions.issuer, log),
		Directory:    store,
		Gate:         service.NewAuthorizationGate(sessions.provider),
		Readiness:    readiness,
		Log:          log,
		SecureCookie: cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Str("sessions", cfg.Session.Provider).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

type sessionBackend struct {
	provider ports.SessionProvider
	issuer   ports.SessionIssuer
}

// openSessions builds the configured session provider. A Redis backend is
// added to readiness; the returned func releases its client.
func openSessions(ctx context.Context, cfg *config.Config, readiness map[string]handler.Pinger) (sessionBackend, func(), error) {
	switch cfg.Session.Provider {
	case config.SessionRedis:
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return sessionBackend{}, nil, fmt.Errorf("connect to redis: %w", err)
		}

		p := session.NewRedisProvider(rdb, "session", cfg.Session.TTL)
		readiness["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		return sessionBackend{provider: p, issuer: p}, func() { _ = rdb.Close() }, nil
	default:
		p, err := session.NewJWTProvider(cfg.Session.JWTSecret, cfg.Session.TTL)
		if err != nil {
			return sessionBackend{}, nil, err
		}
		return sessionBackend{provider: p, issuer: p}, func() {}, nil
	}
}
