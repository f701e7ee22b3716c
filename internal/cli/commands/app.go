package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	// catalogue SQL drivers, selected by catalogue.driver
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/chandas-creator/chandas/internal/catalogue"
	"github.com/chandas-creator/chandas/internal/cli/config"
	"github.com/chandas-creator/chandas/internal/logging"
	"github.com/chandas-creator/chandas/internal/verify"
	"github.com/chandas-creator/chandas/internal/web/cache"
	"github.com/chandas-creator/chandas/internal/web/ratelimit"
	"github.com/chandas-creator/chandas/internal/web/server"
)

// quietLevel is the log level for one-shot commands without --verbose, so
// diagnostics do not interleave with command output.
const quietLevel = "error"

// commandLogger builds the logger for a one-shot command
func commandLogger(cfg *config.Config) *zap.Logger {
	level := quietLevel
	if verbose {
		level = cfg.Log.Level
	}
	return logging.NewOrNop(level, cfg.Log.Development)
}

// catalogueHandle is an opened catalogue store plus whatever must be
// released with it
type catalogueHandle struct {
	store *catalogue.Store
	db    *sql.DB
	path  string
}

// Close releases the database, if any
func (h *catalogueHandle) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// openCatalogue builds the store described by cfg and loads it once. A
// failed load leaves the built-in defaults in place, so the returned error
// is a warning unless the handle itself is nil.
func openCatalogue(ctx context.Context, cfg config.CatalogueConfig, logger *zap.Logger) (*catalogueHandle, error) {
	handle := &catalogueHandle{}

	var source catalogue.Source
	if cfg.UsesSQL() {
		db, err := sql.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalogue database: %w", err)
		}
		handle.db = db
		source = catalogue.SQLSource{DB: db, Query: cfg.Query, Name: cfg.Driver}
	} else {
		handle.path = cfg.Path
		source = catalogue.FileSource{Path: cfg.Path}
	}

	handle.store = catalogue.NewStore(source, logger)

	if handle.db != nil {
		if err := server.ConfigurePool(ctx, handle.db, nil); err != nil {
			return handle, err
		}
	}
	_, err := handle.store.Reload(ctx)
	return handle, err
}

// newCache builds the analysis cache from cfg
func newCache(cfg config.CacheConfig) (cache.Cache, error) {
	common := cache.CacheConfig{DefaultTTL: cfg.TTL, Prefix: cfg.Prefix}
	return cache.New(cfg.Backend, common, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// clearCacheOnReload drops every cached report once a new catalogue is
// installed. Report keys carry the snapshot version, so entries from an
// older catalogue could never be hit again.
func clearCacheOnReload(store *catalogue.Store, c cache.Cache, logger *zap.Logger) {
	store.OnReload(func(ctx context.Context, snap *catalogue.Snapshot) {
		if err := c.Clear(ctx); err != nil {
			logger.Warn("failed to clear report cache after reload",
				zap.Error(err),
				zap.String("version", snap.Version()),
			)
		}
	})
}

// newLimiter builds the generate-and-verify rate limiter. A nil Limiter
// means no limit.
func newLimiter(cfg config.RateLimitConfig, redisCfg config.RedisConfig) (ratelimit.Limiter, error) {
	limit := ratelimit.DefaultConfig()
	limit.Limit = cfg.Limit
	limit.Window = cfg.Window
	return ratelimit.New(cfg.Backend, limit, ratelimit.RedisConfig{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
}

// newGenerator returns the configured model client, or nil without an API key
func newGenerator(cfg config.GeneratorConfig) verify.Generator {
	if cfg.APIKey == "" {
		return nil
	}
	return verify.NewGeminiGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout)
}

// stdinIsTerminal reports whether the command reads from an interactive terminal
func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// readAllTrimmed reads r and trims surrounding whitespace
func readAllTrimmed(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
