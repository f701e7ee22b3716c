package catalogue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Store owns the current catalogue snapshot. Readers get whole snapshots
// through an atomic pointer; Reload builds a new one and swaps it in.
type Store struct {
	source  Source
	current atomic.Pointer[Snapshot]
	reload  sync.Mutex
	hooks   []func(context.Context, *Snapshot)
	logger  *zap.Logger
}

// NewStore creates a store for source. Nothing is loaded until Reload.
func NewStore(source Source, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		source: source,
		logger: logger.Named("catalogue"),
	}
}

// Snapshot returns the current catalogue. Before the first successful load
// it returns the built-in defaults.
func (s *Store) Snapshot() *Snapshot {
	if snap := s.current.Load(); snap != nil {
		return snap
	}
	return Defaults()
}

// OnReload registers fn to run after each successful reload, once the new
// snapshot is installed. Hooks run in registration order under the reload
// lock, so they never overlap.
func (s *Store) OnReload(fn func(ctx context.Context, snap *Snapshot)) {
	s.reload.Lock()
	defer s.reload.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Reload loads the source and installs the result.
//
// On failure the store keeps the last good snapshot if it has one. With no
// good snapshot it installs the built-in defaults, flagged as a fallback.
// Either way the installed snapshot is returned together with the load error
// so callers can tell a degraded catalogue from a healthy one.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	s.reload.Lock()
	defer s.reload.Unlock()

	snap, err := s.source.Load(ctx)
	if err == nil && (snap == nil || snap.Len() == 0) {
		err = ErrEmptyCatalogue
	}

	if err != nil {
		if cur := s.current.Load(); cur != nil && !cur.Fallback() {
			s.logger.Warn("catalogue reload failed, keeping previous snapshot",
				zap.Error(err),
				zap.String("source", cur.Source()),
				zap.Int("entries", cur.Len()),
			)
			return cur, fmt.Errorf("reload catalogue: %w", err)
		}

		fallback := Defaults()
		s.current.Store(fallback)
		s.logger.Error("catalogue load failed, using built-in defaults",
			zap.Error(err),
			zap.Int("entries", fallback.Len()),
		)
		return fallback, fmt.Errorf("load catalogue: %w", err)
	}

	s.current.Store(snap)
	s.logger.Info("catalogue loaded",
		zap.String("source", snap.Source()),
		zap.Int("entries", snap.Len()),
		zap.String("version", snap.Version()),
	)
	for _, fn := range s.hooks {
		fn(ctx, snap)
	}
	return snap, nil
}
