package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chandas-creator/chandas/internal/analysis"
	"github.com/chandas-creator/chandas/internal/catalogue"
	"github.com/chandas-creator/chandas/internal/cli/config"
	"github.com/chandas-creator/chandas/internal/logging"
	"github.com/chandas-creator/chandas/internal/verify"
	"github.com/chandas-creator/chandas/internal/web/api"
	"github.com/chandas-creator/chandas/internal/web/auth"
	"github.com/chandas-creator/chandas/internal/web/server"
)

var (
	servePort    int
	serveNoWatch bool
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for verse analysis and generation.

Routes:
  GET  /health               liveness probe
  GET  /chandas              list the catalogue
  GET  /chandas/{name}       show one meter
  POST /chandas/analyze      identify the meter of {"shloka": "..."}
  POST /generate-and-verify  compose a verse in a meter (needs generator.api_key,
                             rate limited per client by ratelimit.*)
  POST /reload-db            reload the catalogue (bearer token when auth.secret is set)
  GET  /debug/pprof/         runtime profiles, behind the same token (server.profiling)

The catalogue file is watched and reloaded on change unless --no-watch is given.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload the catalogue when its file changes")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()

	gs, err := buildServer(cmd.Context(), cfg, !serveNoWatch, logger)
	if err != nil {
		return err
	}

	color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "chandas API listening on %s\n", cfg.Server.Address())
	return gs.Start()
}

// buildServer wires the catalogue, cache, limiter, analyzer and verifier into
// a server whose shutdown hooks release them all
func buildServer(ctx context.Context, cfg *config.Config, watch bool, logger *zap.Logger) (*server.GracefulShutdown, error) {
	handle, err := openCatalogue(ctx, cfg.Catalogue, logger)
	if handle == nil {
		return nil, err
	}
	if err != nil {
		// the store already fell back to the built-in meters
		logger.Warn("serving built-in catalogue", zap.Error(err))
	}

	var watcher *catalogue.Watcher
	analysisCache, err := newCache(cfg.Cache)
	if err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	limiter, err := newLimiter(cfg.RateLimit, cfg.Cache.Redis)
	if err != nil {
		analysisCache.Close()
		handle.Close()
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}
	clearCacheOnReload(handle.store, analysisCache, logger)
	cleanup := func() {
		if watcher != nil {
			watcher.Stop()
		}
		if limiter != nil {
			limiter.Close()
		}
		analysisCache.Close()
		handle.Close()
	}

	if watch && !cfg.Catalogue.UsesSQL() {
		watcher, err = catalogue.NewWatcher(handle.path, func(ctx context.Context) error {
			_, err := handle.store.Reload(ctx)
			return err
		}, logger)
		if err == nil {
			err = watcher.Start()
		}
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to watch catalogue: %w", err)
		}
	}

	opts := api.Options{
		Catalogue: handle.store,
		Analyzer: analysis.NewService(handle.store, analysis.Options{
			Threshold: cfg.Matcher.Threshold,
			Cache:     analysisCache,
			CacheTTL:  cfg.Cache.TTL,
			Logger:    logger,
		}),
		Auth:            auth.NewAuthService(cfg.Auth.Secret, cfg.Auth.TokenTTL),
		CORSOrigins:     cfg.CORS.AllowedOrigins,
		Logger:          logger,
		GenerateLimiter: limiter,
		Profiling:       cfg.Server.Profiling,
	}
	if generator := newGenerator(cfg.Generator); generator != nil {
		opts.Verifier = verify.NewVerifier(generator, handle.store, cfg.Matcher.Threshold, cfg.Generator.MaxAttempts, logger)
	} else {
		logger.Info("generate-and-verify disabled: generator.api_key is not set")
	}
	if !opts.Auth.Enabled() {
		logger.Warn("auth.secret is not set: admin routes are unauthenticated")
		if opts.Profiling {
			logger.Warn("server.profiling is on without auth.secret: pprof is public")
		}
	}

	serverConfig := server.DefaultConfig(api.NewRouter(opts))
	serverConfig.Address = cfg.Server.Address()
	serverConfig.ReadTimeout = cfg.Server.ReadTimeout
	serverConfig.WriteTimeout = cfg.Server.WriteTimeout
	if cfg.Server.TLSCert != "" {
		serverConfig.TLS = &server.TLSConfig{CertFile: cfg.Server.TLSCert, KeyFile: cfg.Server.TLSKey}
	}

	srv, err := server.New(serverConfig, logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	gs := server.NewGracefulShutdown(srv, &server.ShutdownConfig{Logger: logger})
	if watcher != nil {
		gs.RegisterHook(func(ctx context.Context) error { return watcher.Stop() })
	}
	if limiter != nil {
		gs.RegisterHook(func(ctx context.Context) error { return limiter.Close() })
	}
	gs.RegisterHook(func(ctx context.Context) error { return analysisCache.Close() })
	gs.RegisterHook(func(ctx context.Context) error { return handle.Close() })

	return gs, nil
}
