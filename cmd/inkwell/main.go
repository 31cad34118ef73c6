// Inkwell - CMS/blog backend
//
// Inkwell serves authenticated content management over HTTP: sections and
// posts for readers, user administration for admins, and an auth core built
// on Argon2id password hashing and rotating single-use refresh tokens.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/inkwell-cms/inkwell/migrations"

	"github.com/inkwell-cms/inkwell/internal/api"
	"github.com/inkwell-cms/inkwell/internal/audit"
	"github.com/inkwell-cms/inkwell/internal/auth"
	"github.com/inkwell-cms/inkwell/internal/content"
	"github.com/inkwell-cms/inkwell/internal/infrastructure/config"
	"github.com/inkwell-cms/inkwell/internal/infrastructure/database"
	"github.com/inkwell-cms/inkwell/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Inkwell",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	userRepo := auth.NewUserRepository(db.DB)
	tokenRepo := auth.NewTokenRepository(db.DB)
	authService := auth.NewService(userRepo, tokenRepo, auth.ServiceConfig{
		Secret:           cfg.Security.JWT.Secret,
		SessionTTL:       cfg.SessionTokenTTL(),
		RefreshTTL:       cfg.RefreshTokenTTL(),
		RefreshTokenSize: cfg.Security.JWT.RefreshTokenSize,
	}, log.Logger)

	// The admin account must exist before the server takes requests; a
	// backend without a working admin login is unrecoverable remotely.
	if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		return fmt.Errorf("ensuring admin account: %w", err)
	}
	log.Info("admin account ensured", "username", cfg.Admin.Username)

	if purged, err := tokenRepo.DeleteExpired(ctx); err != nil {
		log.Warn("purging expired refresh tokens failed", "error", err)
	} else if purged > 0 {
		log.Info("purged expired refresh tokens", "count", purged)
	}

	server, err := api.New(api.Deps{
		Config:      cfg,
		Logger:      log,
		Auth:        authService,
		UserRepo:    userRepo,
		SectionRepo: content.NewSectionRepository(db.DB),
		PostRepo:    content.NewPostRepository(db.DB),
		AuditRepo:   audit.NewSQLiteRepository(db.DB),
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	log.Info("Inkwell ready",
		"address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
	)

	<-ctx.Done()
	log.Info("shutdown signal received")

	if err := server.Close(); err != nil {
		log.Error("error shutting down API server", "error", err)
	}

	log.Info("Inkwell stopped")
	return nil
}

// getConfigPath returns the config file path from INKWELL_CONFIG or the
// default location.
func getConfigPath() string {
	if path := os.Getenv("INKWELL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
