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

	httpapi "github.com/anurag24-26/openup/internal/bucket/http"
	"github.com/anurag24-26/openup/internal/bucket/media"
	"github.com/anurag24-26/openup/internal/bucket/service"
	"github.com/anurag24-26/openup/internal/bucket/store"
	"github.com/anurag24-26/openup/internal/bucket/store/drivers/sqlite"
	"github.com/anurag24-26/openup/pkg/jwtx"
	"github.com/anurag24-26/openup/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the bucket-list service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	signer   *jwtx.EdDSASigner
	uploader media.Uploader

	// Services
	sessionService *service.SessionService
	itemService    *service.ItemService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "openup",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, err := InitSessionKeys(app.cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}
	app.signer = signer

	if err := app.initMedia(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("openup service starting", "port", app.cfg.Port, "version", BuildVersion)

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

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down openup service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("openup service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
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

// initMedia builds the object-store uploader when configured. The service
// runs without one; image submissions then fail cleanly instead of at
// startup.
func (app *Application) initMedia() error {
	if !app.cfg.MediaConfigured() {
		app.logger.Warn("object store not configured; image uploads are disabled")
		return nil
	}

	uploader, err := media.NewS3Uploader(context.Background(), media.S3Config{
		Endpoint:      app.cfg.MediaEndpoint,
		Region:        app.cfg.MediaRegion,
		Bucket:        app.cfg.MediaBucket,
		AccessKey:     app.cfg.MediaAccessKey,
		SecretKey:     app.cfg.MediaSecretKey,
		PublicBaseURL: app.cfg.MediaPublicBaseURL,
		KeyPrefix:     app.cfg.MediaKeyPrefix,
		Timeout:       app.cfg.MediaUploadTimeout,
		UsePathStyle:  app.cfg.MediaPathStyle,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize object store client: %w", err)
	}

	app.uploader = uploader
	app.logger.Info("object store configured",
		"bucket", app.cfg.MediaBucket,
		"prefix", app.cfg.MediaKeyPrefix,
	)
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	verifier := jwtx.NewVerifierEdDSA(app.signer.PublicKey(), app.cfg.Issuer)

	app.sessionService = &service.SessionService{
		Store:      app.db,
		Signer:     app.signer,
		Verifier:   verifier,
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
	}

	app.itemService = &service.ItemService{
		Store:    app.db,
		Uploader: app.uploader,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		jwtx.NewVerifierEdDSA(app.signer.PublicKey(), app.cfg.Issuer),
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.SessionService = app.sessionService
	router.ItemService = app.itemService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
