// Package cli wires configuration into a running charter engine.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/charter"
	"github.com/aretw0/charter/internal/config"
	"github.com/aretw0/charter/pkg/adapters/catalog"
	"github.com/aretw0/charter/pkg/adapters/file"
	"github.com/aretw0/charter/pkg/adapters/memory"
	"github.com/aretw0/charter/pkg/adapters/pdf"
	"github.com/aretw0/charter/pkg/adapters/redis"
	"github.com/aretw0/charter/pkg/adapters/sqlite"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/observability"
	"github.com/aretw0/charter/pkg/persistence/middleware"
	"github.com/aretw0/charter/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// SweepInterval is how often the in-memory store evicts idle sessions.
const SweepInterval = time.Minute

// App is a fully wired engine plus the resources that must be released with it.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Catalog  *catalog.Catalog
	Renderer *pdf.Renderer
	Store    ports.SessionStore
	Engine   *charter.Engine

	// Registry holds the charter collectors; nil when metrics are off.
	Registry *prometheus.Registry

	memory  *memory.Store
	closers []func() error
}

// AppOptions select the optional parts of the wiring.
type AppOptions struct {
	Metrics bool
}

// NewApp builds the engine described by cfg. Any failure here is a startup
// failure; resources opened so far are released.
func NewApp(ctx context.Context, cfg config.Config, logger *slog.Logger, opts AppOptions) (app *App, err error) {
	app = &App{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			_ = app.Close()
			app = nil
		}
	}()

	app.Catalog, err = catalog.Load(cfg.Catalog, cfg.CatalogVariant)
	if err != nil {
		return nil, err
	}

	rendererOpts := []pdf.Option{pdf.WithPhotosDir(cfg.PhotosDir), pdf.WithLogger(logger)}
	if cfg.Font != "" {
		rendererOpts = append(rendererOpts, pdf.WithFont(cfg.Font))
	}
	app.Renderer = pdf.New(cfg.Template, rendererOpts...)

	engineOpts := []charter.Option{
		charter.WithLogger(logger),
		charter.WithFlow(cfg.Flow),
	}

	store, locker, err := app.createStore(ctx)
	if err != nil {
		return nil, err
	}
	app.Store = store
	engineOpts = append(engineOpts, charter.WithStore(store))
	if locker != nil {
		engineOpts = append(engineOpts, charter.WithLocker(locker))
	}

	journal, err := app.createJournal(ctx)
	if err != nil {
		return nil, err
	}
	if journal != nil {
		engineOpts = append(engineOpts, charter.WithJournal(journal))
	}

	hooks, err := app.createHooks(opts)
	if err != nil {
		return nil, err
	}
	engineOpts = append(engineOpts, charter.WithLifecycleHooks(hooks))

	if cfg.AdminOnly {
		ids := make([]string, len(cfg.Admins))
		for i, id := range cfg.Admins {
			ids[i] = strconv.FormatInt(id, 10)
		}
		engineOpts = append(engineOpts, charter.WithAdmins(ids...))
	}

	app.Engine, err = charter.New(app.Catalog, app.Renderer, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return app, nil
}

// createStore returns the configured session store, wrapped with encryption
// when a key is set, and the distributed locker that goes with it.
func (a *App) createStore(ctx context.Context) (ports.SessionStore, ports.DistributedLocker, error) {
	cfg := a.Config
	var (
		store  ports.SessionStore
		locker ports.DistributedLocker
	)

	switch cfg.Store {
	case config.StoreRedis:
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithTTL(cfg.SessionTTL),
			redis.WithPrefix(cfg.Redis.Prefix),
		)
		a.closers = append(a.closers, rs.Close)
		if err := rs.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		store = rs
		locker = redis.NewLocker(rs.Client(), cfg.Redis.Prefix)
	case config.StoreFile:
		store = file.New(cfg.SessionDir)
	default:
		a.memory = memory.NewStore(memory.WithTTL(cfg.SessionTTL), memory.WithLogger(a.Logger))
		store = a.memory
	}

	if cfg.EncryptionKey != "" {
		key, err := middleware.ParseKey(cfg.EncryptionKey)
		if err != nil {
			return nil, nil, fmt.Errorf("encryption key: %w", err)
		}
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return store, locker, nil
}

func (a *App) createJournal(ctx context.Context) (ports.Journal, error) {
	if a.Config.Journal.Path == "" {
		return nil, nil
	}
	j, err := sqlite.Open(ctx, a.Config.Journal.Path)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, j.Close)

	var journal ports.Journal = j
	if a.Config.Journal.MaskPII {
		journal = middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)(journal)
	}
	return journal, nil
}

func (a *App) createHooks(opts AppOptions) (domain.LifecycleHooks, error) {
	var hooks []domain.LifecycleHooks
	if opts.Metrics {
		a.Registry = prometheus.NewRegistry()
		m, err := observability.NewMetrics(a.Registry)
		if err != nil {
			return domain.LifecycleHooks{}, fmt.Errorf("metrics: %w", err)
		}
		hooks = append(hooks, m.Hooks())
	}
	if a.Config.Debug {
		hooks = append(hooks, observability.LoggingHooks(a.Logger))
	}
	return domain.ChainHooks(hooks...), nil
}

// StartJanitor evicts idle in-memory sessions until ctx is done.
// Other stores expire sessions on their own.
func (a *App) StartJanitor(ctx context.Context) {
	if a.memory != nil {
		a.memory.Start(ctx, SweepInterval)
	}
}

// Close releases the store and journal connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
