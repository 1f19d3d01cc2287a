package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/website-kz/sentinel/internal/auth/http"
	"github.com/website-kz/sentinel/internal/auth/mail"
	"github.com/website-kz/sentinel/internal/auth/service"
	"github.com/website-kz/sentinel/internal/auth/store"
	"github.com/website-kz/sentinel/internal/auth/store/drivers/sqlite"
	"github.com/website-kz/sentinel/pkg/cryptox"
	"github.com/website-kz/sentinel/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the identity service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	hasher *cryptox.Hasher
	sender mail.Sender

	// Services
	authService         *service.AuthService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "sentinel",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewHasher(pepper)

	signer, keys, err := InitSigningKeys(cfg, app.logger)
	if err != nil {
		return nil, err
	}

	if err := app.initMail(); err != nil {
		return nil, err
	}

	app.authService = &service.AuthService{
		Store:  app.db,
		Hasher: app.hasher,
		Codes: &service.CodeService{
			Store: app.db,
			TTL:   cfg.CodeTTL,
		},
		Tokens: &service.TokenService{
			Signer:     signer,
			Issuer:     cfg.Issuer,
			SessionTTL: cfg.SessionTTL,
		},
		Mail: app.sender,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		cfg.HousekeepingInterval,
	)

	router := httpapi.NewRouter(keys, BuildVersion, app.db, app.logger)
	router.AuthService = app.authService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("sentinel starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down sentinel...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("sentinel stopped")
	return nil
}

// initDatabase opens the store and applies migrations.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
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

// initMail selects the login code delivery channel. Without an SMTP host the
// service logs codes instead of sending them, which must never happen outside
// dev.
func (app *Application) initMail() error {
	if app.cfg.SMTP.Host == "" {
		if app.cfg.Env != "dev" {
			return fmt.Errorf("SMTP host is required in %q environment", app.cfg.Env)
		}
		app.logger.Warn("no SMTP host configured, login codes will be logged")
		app.sender = &mail.LogSender{Logger: app.logger}
		return nil
	}

	sender, err := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     app.cfg.SMTP.Host,
		Port:     app.cfg.SMTP.Port,
		Username: app.cfg.SMTP.Username,
		Password: app.cfg.SMTP.Password,
		From:     app.cfg.SMTP.From,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize SMTP sender: %w", err)
	}
	app.sender = sender
	return nil
}
