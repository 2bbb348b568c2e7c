package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"mlmodeld/internal/backend/native"
	"mlmodeld/internal/catalog"
	"mlmodeld/internal/config"
	"mlmodeld/internal/httpapi"
	"mlmodeld/internal/manager"
)

const shutdownTimeout = 10 * time.Second

// newRegistry wires the built-in frameworks and the event log into a registry.
// Extra publishers receive every event after the log.
func newRegistry(cfg config.Config, log zerolog.Logger, extra ...manager.EventPublisher) (*manager.Registry, error) {
	pubs := append([]manager.EventPublisher{manager.NewLogPublisher(log)}, extra...)
	reg := manager.NewWithConfig(manager.RegistryConfig{
		Frameworks:       native.Frameworks(),
		DefaultFramework: cfg.DefaultFramework,
		InfoCacheSize:    cfg.InfoCacheSize,
		Publisher:        manager.MultiPublisher(pubs...),
	})
	if !slices.Contains(reg.Frameworks(), reg.DefaultFramework()) {
		return nil, fmt.Errorf("default_framework %q is not registered (have %v)", cfg.DefaultFramework, reg.Frameworks())
	}
	return reg, nil
}

// loadCatalog creates the catalog models in reg. A missing catalog_dir is not
// an error.
func loadCatalog(ctx context.Context, cfg config.Config, reg *manager.Registry) (int, error) {
	if cfg.CatalogDir == "" {
		return 0, nil
	}
	defs, err := catalog.LoadDir(cfg.CatalogDir)
	if err != nil {
		return 0, fmt.Errorf("catalog: %w", err)
	}
	return catalog.Apply(ctx, reg, defs)
}

func configureHTTP(cfg config.Config, log zerolog.Logger, base context.Context) {
	httpapi.SetLogger(log)
	httpapi.SetDefaultLogLevel(cfg.HTTPLog)
	httpapi.SetBaseContext(base)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetRequestTimeoutSeconds(cfg.RequestTimeoutSeconds)
	httpapi.SetRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.Origins, cfg.CORS.Methods, cfg.CORS.Headers)
}

func runServe(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	log, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	// Canceled on Ctrl+C / SIGTERM; handlers see it through the base context.
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := newRegistry(cfg, log)
	if err != nil {
		return err
	}
	configureHTTP(cfg, log, ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(httpapi.NewService(reg)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("catalog_dir", cfg.CatalogDir).Strs("frameworks", reg.Frameworks()).Msg("mlmodeld listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	// /readyz reports loading until the catalog is in.
	n, err := loadCatalog(ctx, cfg, reg)
	if err != nil {
		log.Warn().Err(err).Int("created", n).Msg("catalog loaded with errors")
	} else if n > 0 {
		log.Info().Int("created", n).Msg("catalog loaded")
	}
	reg.MarkReady()

	select {
	case err, ok := <-errc:
		if ok && err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Dur("uptime", reg.Uptime()).Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}

// runValidate loads the catalog into a scratch registry and reports the result.
func runValidate(ctx context.Context, cfg config.Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	events := manager.NewMemoryPublisher()
	reg, err := newRegistry(cfg, zerolog.Nop(), events)
	if err != nil {
		return err
	}
	n, err := loadCatalog(ctx, cfg, reg)
	if err != nil {
		return err
	}
	counts := reg.StateCounts()
	fmt.Fprintf(out, "config ok: addr=%s default_framework=%s\n", cfg.Addr, cfg.DefaultFramework)
	fmt.Fprintf(out, "catalog ok: %d models (%d ready, %d training, %d created)\n",
		n, counts[manager.StateReady], counts[manager.StateTraining], counts[manager.StateCreated])
	fmt.Fprintf(out, "fits: %d done, %d failed\n", events.Count(manager.EventTrainDone), events.Count(manager.EventTrainFailed))
	return nil
}
