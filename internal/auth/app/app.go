package app

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/couchloft/pgpauth/internal/auth/http"
	"github.com/couchloft/pgpauth/internal/auth/service"
	"github.com/couchloft/pgpauth/internal/auth/store"
	"github.com/couchloft/pgpauth/internal/auth/store/drivers/sqlite"
	"github.com/couchloft/pgpauth/pkg/cryptox"
	"github.com/couchloft/pgpauth/pkg/jwtx"
	"github.com/couchloft/pgpauth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	tokenIssuer = "pgpauth"
)

// Application encapsulates the auth service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db   store.Store
	keys *service.KeyStore

	// Services
	userService         *service.UserService
	challengeService    *service.ChallengeService
	loginService        *service.LoginService
	sessionService      *service.SessionService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "pgpauth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Initialize database first (required for persistent keys)
	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	keys, err := InitServerKeys(ctx, app.cfg, app.db, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize server keys: %w", err)
	}
	app.keys = service.NewKeyStore(keys.pgp, keys.decoy)

	app.initServices(keys.session)
	if err := app.initHTTP(); err != nil {
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("pgpauth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down pgpauth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("pgpauth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices(sessionKey ed25519.PrivateKey) {
	app.userService = &service.UserService{Store: app.db}

	app.challengeService = &service.ChallengeService{Keys: app.keys}

	app.loginService = &service.LoginService{
		Store:  app.db,
		Keys:   app.keys,
		Window: app.cfg.ChallengeWindow,
	}

	app.sessionService = &service.SessionService{
		Store:    app.db,
		Signer:   jwtx.NewSigner(sessionKey, tokenIssuer),
		Verifier: jwtx.NewVerifier(sessionKey.Public().(ed25519.PublicKey), tokenIssuer),
		TTL:      app.cfg.SessionTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	resolver := &httpapi.IdentityResolver{Sessions: app.sessionService}

	if app.cfg.AdminUser != "" && app.cfg.AdminPassword != "" {
		hash, err := cryptox.HashPassword(app.cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		resolver.AdminUser = app.cfg.AdminUser
		resolver.AdminHash = hash
		app.logger.Info("server admin credential configured", "user", app.cfg.AdminUser)
	}

	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.keys,
		resolver,
		app.logger,
	)

	// Wire services to router
	router.UserService = app.userService
	router.ChallengeService = app.challengeService
	router.LoginService = app.loginService
	router.SessionService = app.sessionService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
