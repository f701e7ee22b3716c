// Package analysis validates verse text, scans it and identifies its meter
// against the current catalogue snapshot.
package analysis

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/chandas-creator/chandas/internal/catalogue"
	"github.com/chandas-creator/chandas/internal/matcher"
	"github.com/chandas-creator/chandas/internal/scansion"
	"github.com/chandas-creator/chandas/internal/web/cache"
)

// Catalogue supplies the snapshot each analysis is matched against.
// *catalogue.Store satisfies it.
type Catalogue interface {
	Snapshot() *catalogue.Snapshot
}

// Options configures a Service.
type Options struct {
	Threshold float64
	// Cache stores finished reports. Nil disables caching.
	Cache cache.Cache
	// CacheTTL is passed to Cache.Set; zero uses the backend default.
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// Service runs analyses. It is safe for concurrent use.
type Service struct {
	catalogue Catalogue
	matcher   matcher.Matcher
	cache     cache.Cache
	ttl       time.Duration
	logger    *zap.Logger
}

// NewService creates a service reading snapshots from store.
func NewService(store Catalogue, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := opts.Cache
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{
		catalogue: store,
		matcher:   matcher.New(opts.Threshold, logger.Named("matcher")),
		cache:     c,
		ttl:       opts.CacheTTL,
		logger:    logger.Named("analysis"),
	}
}

// Threshold returns the similarity threshold used for identification.
func (s *Service) Threshold() float64 {
	return s.matcher.Threshold
}

// Analyze validates text and identifies its meter. Only invalid input is
// an error; an unidentified verse is a normal report.
func (s *Service) Analyze(ctx context.Context, text string) (*Report, error) {
	clean, err := CleanInput(text)
	if err != nil {
		return nil, err
	}

	snap := s.catalogue.Snapshot()
	key := s.cacheKey(clean, snap)

	var cached Report
	switch err := cache.GetJSON(ctx, s.cache, key, &cached); {
	case err == nil:
		cached.Cached = true
		return &cached, nil
	case !cache.IsCacheMiss(err):
		s.logger.Warn("cache read failed", zap.Error(err))
	}

	verse := scansion.Scan(clean)
	result := s.matcher.Match(verse, snap.Entries())

	report := NewReport(clean, verse, result)
	report.Catalogue = snap.Source()

	s.logger.Info("analyzed verse",
		zap.Strings("by_pada", verse),
		zap.String("identified", result.IdentifiedName),
		zap.Float64("similarity", result.Similarity),
		zap.Bool("fallback_catalogue", snap.Fallback()),
	)

	if err := cache.SetJSON(ctx, s.cache, key, report, s.ttl); err != nil {
		s.logger.Warn("cache write failed", zap.Error(err))
	}
	return report, nil
}

func (s *Service) cacheKey(text string, snap *catalogue.Snapshot) string {
	threshold := strconv.FormatFloat(s.matcher.Threshold, 'f', -1, 64)
	return cache.Key("analysis", text, threshold, snap.Version())
}
