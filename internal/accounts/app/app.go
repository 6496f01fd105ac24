// Package app assembles the accounts stack: configuration, storage, the
// provider client and the token services, plus the HTTP server for the web
// authorization flow.
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

	"golang.org/x/time/rate"

	"github.com/crescendoapp/crescendo/internal/accounts/service"
	"github.com/crescendoapp/crescendo/internal/accounts/store/drivers/sqlite"
	"github.com/crescendoapp/crescendo/internal/web"
	"github.com/crescendoapp/crescendo/pkg/slogx"
	"github.com/crescendoapp/crescendo/pkg/spotifyauth"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the accounts service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         *sqlite.Store
	authClient *spotifyauth.Client

	appTokens    *service.AppTokenService
	userTokens   *service.UserTokenService
	authorize    *service.AuthorizeService
	housekeeping *service.HousekeepingService

	server *http.Server
	router *web.Router
}

// New builds an Application from cfg with every dependency initialized.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "crescendo-web",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()
	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeeping.Start()

	app.logger.Info("accounts service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully stops the server, the housekeeping worker and the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down accounts service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("accounts service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000", app.cfg.DatabaseFile)
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

func (app *Application) initServices() error {
	client, err := spotifyauth.New(spotifyauth.Config{
		ClientID:     app.cfg.ClientID,
		ClientSecret: app.cfg.ClientSecret,
		RedirectURI:  app.cfg.RedirectURI,
		// The accounts service throttles aggressive clients; stay well under.
		Limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	})
	if err != nil {
		return fmt.Errorf("failed to build provider client: %w", err)
	}
	app.authClient = client

	tokens := app.db.Tokens()
	userAuth := app.db.UserAuth()

	app.appTokens = service.NewAppTokenService(tokens, client, app.logger)
	app.userTokens = service.NewUserTokenService(
		tokens,
		service.UserAuthRefreshTokens{UserAuth: userAuth},
		client,
		app.logger,
	)
	app.authorize = service.NewAuthorizeService(userAuth, client, app.logger)
	app.housekeeping = service.NewHousekeepingService(tokens, app.logger, app.cfg.HousekeepingInterval)

	return nil
}

func (app *Application) initHTTP() {
	router := web.NewRouter(app.logger)
	router.Sessions = web.NewSessionManager(app.cfg.SessionSecret)
	router.Authorize = app.authorize
	router.Users = app.userTokens
	router.Scopes = app.cfg.Scopes
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
