// Package cli holds the wiring shared by the calform commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/calform"
	"github.com/aretw0/calform/internal/config"
	"github.com/aretw0/calform/internal/logging"
	"github.com/aretw0/calform/pkg/adapters/file"
	"github.com/aretw0/calform/pkg/adapters/memory"
	redisadapter "github.com/aretw0/calform/pkg/adapters/redis"
	"github.com/aretw0/calform/pkg/adapters/sqlite"
	"github.com/aretw0/calform/pkg/catalog"
	"github.com/aretw0/calform/pkg/observability"
	"github.com/aretw0/calform/pkg/persistence/middleware"
	"github.com/aretw0/calform/pkg/ports"
	"github.com/aretw0/calform/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
)

// Options configure NewEngine.
type Options struct {
	Config   config.Config
	Logger   *slog.Logger
	Reporter ports.Reporter
}

// OpenStore opens the durable medium selected by cfg and wraps it with the
// configured middleware. close releases the medium.
func OpenStore(ctx context.Context, cfg config.Config) (store ports.KVStore, close func() error, err error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreFile:
		store, close = file.New(cfg.FilePath()), noop
	case config.StoreMemory:
		store, close = memory.NewStore(), noop
	case config.StoreRedis:
		r := redisadapter.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redisadapter.WithTTL(cfg.RedisTTL))
		store, close = r, r.Close
	case config.StoreSQLite:
		path := cfg.SQLitePath()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to ensure database directory: %w", err)
		}
		db, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		store, close = db, db.Close
	default:
		return nil, nil, cfg.Validate()
	}

	return middleware.Chain(store, storeMiddleware(cfg)...), close, nil
}

func storeMiddleware(cfg config.Config) []middleware.Middleware {
	var mws []middleware.Middleware
	if cfg.Namespace != "" {
		mws = append(mws, middleware.NewNamespaceMiddleware(cfg.Namespace))
	}
	if cfg.Secret != "" {
		enc := middleware.EncryptionConfig{ActiveKey: middleware.KeyFromSecret(cfg.Secret)}
		for _, old := range cfg.OldSecrets {
			enc.FallbackKeys = append(enc.FallbackKeys, middleware.KeyFromSecret(old))
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(enc))
	}
	return mws
}

// LoadRegistry returns the form registry named by cfg.Registry, or the
// built-in calibration form when none is configured.
func LoadRegistry(cfg config.Config) (*registry.Registry, error) {
	if cfg.Registry == "" {
		return registry.Calibration(), nil
	}
	return registry.LoadFile(cfg.Registry)
}

// NewEngine opens the configured store and builds an Engine on top of it,
// writing generated files into cfg.OutDir. The returned release function
// aborts any open export, writes the metrics file when one is configured and
// closes the store.
func NewEngine(ctx context.Context, opts Options) (*calform.Engine, func() error, error) {
	cfg := opts.Config
	reg, err := LoadRegistry(cfg)
	if err != nil {
		return nil, nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	cat, err := catalog.New(cfg.Lang)
	if err != nil {
		return nil, nil, err
	}

	engineOpts := []calform.Option{
		calform.WithRegistry(reg),
		calform.WithLogger(logger),
		calform.WithCatalog(cat),
		calform.WithSinkFactory(file.NewSinkFactory(cfg.OutDir)),
	}
	if opts.Reporter != nil {
		engineOpts = append(engineOpts, calform.WithReporter(opts.Reporter))
	}

	var gatherer *prometheus.Registry
	if cfg.MetricsFile != "" {
		gatherer = prometheus.NewRegistry()
		m, err := observability.NewMetrics(gatherer)
		if err != nil {
			return nil, nil, err
		}
		engineOpts = append(engineOpts, calform.WithMetrics(m))
	}

	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	engine, err := calform.New(store, engineOpts...)
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("error initializing engine: %w", err), closeStore())
	}

	release := func() error {
		engine.Close()
		var errs []error
		if gatherer != nil {
			if err := prometheus.WriteToTextfile(cfg.MetricsFile, gatherer); err != nil {
				errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
			}
		}
		return errors.Join(append(errs, closeStore())...)
	}
	return engine, release, nil
}
