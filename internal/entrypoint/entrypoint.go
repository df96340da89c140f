package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mrlokans/criminaldb/internal/auth"
	"github.com/mrlokans/criminaldb/internal/config"
	"github.com/mrlokans/criminaldb/internal/database"
	http_controllers "github.com/mrlokans/criminaldb/internal/http"
	"github.com/mrlokans/criminaldb/internal/records"
	"github.com/mrlokans/criminaldb/internal/settingsstore"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App bundles the services shared by the HTTP server and the CLI commands.
type App struct {
	Provider database.Provider
	Engine   *records.Engine
	Auth     *auth.Service
	Limiter  *auth.LoginLimiter
	Official *settingsstore.Store

	closeProvider func() error
}

// NewApp builds the services from cfg. Opening a pooled provider is the only
// step that touches the store; a connector is lazy.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	provider, closeProvider, err := database.NewProvider(ctx, cfg.Database)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	state := auth.NewSessionState()
	return &App{
		Provider:      provider,
		Engine:        records.NewEngine(provider),
		Auth:          auth.NewService(provider, state, auth.NewPasswordCodec(cfg.Auth)),
		Limiter:       auth.NewLoginLimiter(cfg.Auth),
		Official:      settingsstore.New(afero.NewOsFs(), cfg.Official.File),
		closeProvider: closeProvider,
	}, nil
}

// Close releases whatever the provider holds open.
func (a *App) Close() {
	if a.closeProvider == nil {
		return
	}
	if err := a.closeProvider(); err != nil {
		log.WithError(err).Warn("Failed to close database")
	}
}

// InitSchema runs the schema initializer. Failure is reported and left to the
// caller; the server keeps running so the operator can fix the store.
func (a *App) InitSchema(ctx context.Context) error {
	return database.EnsureSchema(ctx, a.Provider)
}

// csrfSecret decodes a hex secret, falling back to the raw bytes. An empty
// secret is replaced by a random one that lasts for the process.
func csrfSecret(raw string) ([]byte, error) {
	if raw == "" {
		secret, err := auth.GenerateCSRFSecret()
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate CSRF secret")
		}
		log.Info("Generated CSRF secret (set AUTH_CSRF_SECRET to persist)")
		return secret, nil
	}
	secret, err := hex.DecodeString(raw)
	if err != nil {
		return []byte(raw), nil
	}
	return secret, nil
}

// NewRouter wires the HTTP API over the app's services.
func (a *App) NewRouter(cfg *config.Config, version string) (*gin.Engine, error) {
	secret, err := csrfSecret(cfg.Auth.CSRFSecret)
	if err != nil {
		return nil, err
	}
	return http_controllers.NewRouter(http_controllers.RouterConfig{
		Provider:      a.Provider,
		Engine:        a.Engine,
		AuthService:   a.Auth,
		Limiter:       a.Limiter,
		Official:      a.Official,
		CSRFSecret:    secret,
		SecureCookies: cfg.Auth.SecureCookies,
		Version:       version,
	}), nil
}

// Serve runs the server until SIGINT or SIGTERM, then shuts it down within the
// configured timeout.
func Serve(router http.Handler, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := cfg.Global.ShutdownTimeout()
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-quit:
	}
	log.WithField("timeout", timeout).Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server shutdown")
	}

	log.Info("Server exiting")
	return nil
}

// Run starts the HTTP API.
func Run(cfg *config.Config, version string) error {
	log.WithFields(log.Fields{
		"version": version,
		"driver":  cfg.Database.Driver,
	}).Info("Starting criminaldb")

	if cfg.Auth.PasswordStorage == config.PasswordStoragePlain {
		log.Warn("Passwords are stored verbatim; set AUTH_PASSWORD_STORAGE=bcrypt to hash them")
	}

	ctx := context.Background()
	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.InitSchema(ctx); err != nil {
		log.WithError(err).Error("Schema initialization failed; record operations will fail until the store is fixed")
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := app.NewRouter(cfg, version)
	if err != nil {
		return err
	}
	return Serve(router, cfg, func(ctx context.Context) {
		if name, ok := app.Auth.Logout(); ok {
			log.WithField("username", name).Debug("Cleared identity on shutdown")
		}
	})
}
