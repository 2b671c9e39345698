// Package server builds the application's dependencies and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/jobshare/internal/api"
	"github.com/JakeFAU/jobshare/internal/clock/system"
	"github.com/JakeFAU/jobshare/internal/config"
	"github.com/JakeFAU/jobshare/internal/id/uuid"
	"github.com/JakeFAU/jobshare/internal/jobs"
	"github.com/JakeFAU/jobshare/internal/jobsource/rest"
	"github.com/JakeFAU/jobshare/internal/logging"
	"github.com/JakeFAU/jobshare/internal/metrics"
	"github.com/JakeFAU/jobshare/internal/policy/ratelimit"
	"github.com/JakeFAU/jobshare/internal/share"
	"github.com/JakeFAU/jobshare/internal/storage/memory"
	pgstore "github.com/JakeFAU/jobshare/internal/storage/postgres"
	"github.com/JakeFAU/jobshare/internal/store"
)

// App contains the application's dependencies.
type App struct {
	cfg       *config.Config
	logger    *zap.Logger
	apiServer *api.Server
	statuses  store.StatusRepository
	jobSource *pgstore.JobSource

	closeOnce sync.Once
}

// NewApp creates a new App with the given configuration.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	type sanitizedConfig struct {
		ServerPort         int    `json:"server_port"`
		StatusStoreBackend string `json:"status_store_backend"`
		JobSource          bool   `json:"job_source_configured"`
		Locale             string `json:"locale"`
	}
	logger.Info("creating application", zap.Any("config", sanitizedConfig{
		ServerPort:         cfg.Server.Port,
		StatusStoreBackend: cfg.StatusStore.Backend,
		JobSource:          cfg.JobSourceConfigured(),
		Locale:             cfg.Share.Locale,
	}))
	return &App{cfg: cfg, logger: logger}, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.apiServer.Handler()
}

// Run starts the application and blocks until the context is canceled or a
// termination signal arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", zap.Int("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", zap.Error(err))
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}
	a.Close()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	default:
		return nil
	}
}

// Close releases the store and job source pools and flushes the logger. It is
// safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.statuses != nil {
			a.statuses.Close()
		}
		if a.jobSource != nil {
			a.jobSource.Close()
		}
		a.logger.Info("shutdown complete")
		// Sync fails on stdout/stderr for some platforms; nothing to recover.
		_ = a.logger.Sync()
	})
}

// Build creates the application's dependencies.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	zap.ReplaceGlobals(logger)

	app, err := NewApp(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("app init failed: %w", err)
	}
	if cfg.Metrics.Enabled {
		metrics.Init()
	}

	app.logger.Info("building application dependencies")
	if err := setupStatusStore(ctx, app); err != nil {
		return nil, err
	}

	source, err := setupJobSource(ctx, app)
	if err != nil {
		app.Close()
		return nil, err
	}

	renderer, err := setupRenderer(app, source)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.apiServer = api.NewServer(
		app.statuses,
		renderer,
		uuid.New(),
		system.New(),
		*cfg,
		logger.Named("api"),
	)
	return app, nil
}

func setupStatusStore(ctx context.Context, app *App) error {
	sc := app.cfg.StatusStore
	if sc.Backend == config.BackendMemory {
		app.logger.Warn("using in-memory status store; records are lost on restart")
		app.statuses = memory.NewStatusStore()
		return nil
	}

	if sc.Migrate {
		if err := pgstore.Migrate(sc.DSN, sc.Database); err != nil {
			return fmt.Errorf("status store migration failed: %w", err)
		}
		app.logger.Info("status store migrations applied", zap.String("database", sc.Database))
	}
	statuses, err := pgstore.NewStatusStore(ctx, pgstore.StatusStoreConfig{
		PoolConfig: pgstore.PoolConfig{
			DSN:      sc.DSN,
			Database: sc.Database,
			MaxConns: sc.MaxConns,
		},
		Table: sc.Table,
	})
	if err != nil {
		return fmt.Errorf("status store init failed: %w", err)
	}
	app.statuses = statuses
	app.logger.Info("status store initialized",
		zap.String("database", sc.Database),
		zap.String("table", sc.Table))
	return nil
}

// setupJobSource returns nil when no job source is configured; the renderer
// then serves the fallback document for every request.
func setupJobSource(ctx context.Context, app *App) (jobs.Source, error) {
	jc := app.cfg.JobSource
	var source jobs.Source
	switch {
	case jc.DSN != "":
		pg, err := pgstore.NewJobSource(ctx, pgstore.JobSourceConfig{
			PoolConfig: pgstore.PoolConfig{DSN: jc.DSN},
			Table:      jc.Table,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres job source init failed: %w", err)
		}
		app.jobSource = pg
		source = pg
		app.logger.Info("using postgres job source", zap.String("table", jc.Table))
	case jc.URL != "" && jc.Key != "":
		rs, err := rest.New(rest.Config{
			BaseURL:    jc.URL,
			APIKey:     jc.Key,
			Table:      jc.Table,
			HTTPClient: &http.Client{Timeout: app.cfg.LookupTimeout() + time.Second},
		})
		if err != nil {
			app.logger.Error("rest job source init failed; share pages will serve the fallback document",
				zap.Error(err))
			return nil, nil
		}
		source = rs
		app.logger.Info("using rest job source", zap.String("table", jc.Table))
	default:
		app.logger.Error("job source not configured; share pages will serve the fallback document")
		return nil, nil
	}

	if jc.RateLimitRPS > 0 {
		app.logger.Info("job source rate limited",
			zap.Float64("rps", jc.RateLimitRPS),
			zap.Int("burst", jc.RateLimitBurst))
	}
	return ratelimit.New(source, ratelimit.Config{
		RPS:   jc.RateLimitRPS,
		Burst: jc.RateLimitBurst,
	}), nil
}

func setupRenderer(app *App, source jobs.Source) (*share.Renderer, error) {
	locale, err := share.LookupLocale(app.cfg.Share.Locale)
	if err != nil {
		return nil, fmt.Errorf("share locale: %w", err)
	}
	composer, err := share.NewComposer(share.ComposerConfig{
		SiteName: app.cfg.Share.SiteName,
		ImageURL: app.cfg.Share.ImageURL,
		OGLocale: app.cfg.Share.OGLocale,
		Locale:   locale,
	})
	if err != nil {
		return nil, fmt.Errorf("share composer init failed: %w", err)
	}
	renderer, err := share.NewRenderer(source, composer, share.RendererConfig{
		AppBaseURL:    app.cfg.Share.AppBaseURL,
		LookupTimeout: app.cfg.LookupTimeout(),
	}, app.logger.Named("share"))
	if err != nil {
		return nil, fmt.Errorf("share renderer init failed: %w", err)
	}
	return renderer, nil
}
