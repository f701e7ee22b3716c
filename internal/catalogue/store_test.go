package catalogue

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource returns queued results in order, then repeats the last one
type stubSource struct {
	mu      sync.Mutex
	results []stubResult
	calls   int
}

type stubResult struct {
	snap *Snapshot
	err  error
}

func (s *stubSource) Load(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	return s.results[i].snap, s.results[i].err
}

func testSnapshot(names ...string) *Snapshot {
	entries := make([]Entry, len(names))
	for i, name := range names {
		entries[i] = NewEntry(name, "LG", 2)
	}
	return NewSnapshot("test", entries)
}

func TestSnapshot_Lookup(t *testing.T) {
	snap := testSnapshot("Indravajrā", "Anuṣṭubh")

	entry, ok := snap.Lookup("ANUṢṬUBH")
	require.True(t, ok)
	assert.Equal(t, "Anuṣṭubh", entry.Name)

	_, ok = snap.Lookup("Mālinī")
	assert.False(t, ok)

	assert.Equal(t, []string{"Anuṣṭubh", "Indravajrā"}, snap.Names())
}

func TestSnapshot_IsolatedFromCallerSlices(t *testing.T) {
	entries := []Entry{NewEntry("A", "LG", 0)}
	snap := NewSnapshot("test", entries)
	entries[0].Name = "changed"

	got := snap.Entries()
	assert.Equal(t, "A", got[0].Name)
	got[0].Name = "changed again"
	assert.Equal(t, "A", snap.Entries()[0].Name)
}

func TestSnapshot_Version(t *testing.T) {
	a := testSnapshot("A", "B")
	b := testSnapshot("A", "B")
	c := testSnapshot("B", "A")
	assert.Equal(t, a.Version(), b.Version())
	assert.NotEqual(t, a.Version(), c.Version())
	assert.NotEmpty(t, a.Version())
}

func TestStore_SnapshotBeforeLoadIsDefaults(t *testing.T) {
	store := NewStore(&stubSource{}, nil)
	snap := store.Snapshot()
	assert.True(t, snap.Fallback())
	assert.Equal(t, Defaults().Len(), snap.Len())
}

func TestStore_Reload(t *testing.T) {
	good := testSnapshot("A")
	store := NewStore(&stubSource{results: []stubResult{{snap: good}}}, nil)

	snap, err := store.Reload(context.Background())
	require.NoError(t, err)
	assert.Same(t, good, snap)
	assert.Same(t, good, store.Snapshot())
	assert.False(t, store.Snapshot().Fallback())
}

func TestStore_InitialFailureInstallsDefaults(t *testing.T) {
	loadErr := errors.New("disk on fire")
	store := NewStore(&stubSource{results: []stubResult{{err: loadErr}}}, nil)

	snap, err := store.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, loadErr))
	assert.True(t, snap.Fallback())
	assert.True(t, store.Snapshot().Fallback())
}

func TestStore_FailedReloadKeepsGoodSnapshot(t *testing.T) {
	good := testSnapshot("A")
	loadErr := errors.New("parse error")
	store := NewStore(&stubSource{results: []stubResult{{snap: good}, {err: loadErr}}}, nil)

	_, err := store.Reload(context.Background())
	require.NoError(t, err)

	snap, err := store.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, loadErr))
	assert.Same(t, good, snap)
	assert.Same(t, good, store.Snapshot())
}

func TestStore_RecoversFromFallback(t *testing.T) {
	good := testSnapshot("A")
	store := NewStore(&stubSource{results: []stubResult{{err: errors.New("missing")}, {snap: good}}}, nil)

	_, err := store.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, store.Snapshot().Fallback())

	_, err = store.Reload(context.Background())
	require.NoError(t, err)
	assert.Same(t, good, store.Snapshot())
}

func TestStore_OnReloadRunsAfterSuccessOnly(t *testing.T) {
	good := testSnapshot("A")
	store := NewStore(&stubSource{results: []stubResult{
		{err: errors.New("missing")},
		{snap: good},
		{err: errors.New("parse error")},
	}}, nil)

	var seen []*Snapshot
	store.OnReload(func(ctx context.Context, snap *Snapshot) {
		// the new snapshot is already visible to readers
		assert.Same(t, snap, store.Snapshot())
		seen = append(seen, snap)
	})

	_, err := store.Reload(context.Background())
	require.Error(t, err)
	assert.Empty(t, seen)

	_, err = store.Reload(context.Background())
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Same(t, good, seen[0])

	_, err = store.Reload(context.Background())
	require.Error(t, err)
	assert.Len(t, seen, 1)
}

func TestStore_EmptySnapshotIsAFailure(t *testing.T) {
	store := NewStore(&stubSource{results: []stubResult{{snap: NewSnapshot("test", nil)}}}, nil)

	snap, err := store.Reload(context.Background())
	assert.True(t, errors.Is(err, ErrEmptyCatalogue))
	assert.True(t, snap.Fallback())
}

func TestStore_ConcurrentReadsDuringReload(t *testing.T) {
	a, b := testSnapshot("A"), testSnapshot("B", "C")
	store := NewStore(&stubSource{results: []stubResult{{snap: a}, {snap: b}}}, nil)
	_, err := store.Reload(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				n := store.Snapshot().Len()
				assert.True(t, n == 1 || n == 2)
			}
		}()
	}
	_, err = store.Reload(context.Background())
	require.NoError(t, err)
	wg.Wait()
	assert.Equal(t, 2, store.Snapshot().Len())
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "chandas_db.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"name": "A", "pattern": "LG"}]`), 0644))

	snap, err := FileSource{Path: jsonPath}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, jsonPath, snap.Source())

	yamlPath := filepath.Join(dir, "meters.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("- name: B\n  pattern: GL\n"), 0644))

	snap, err = FileSource{Path: yamlPath}.Load(context.Background())
	require.NoError(t, err)
	entry, ok := snap.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "GL", entry.Pattern.String())
}

func TestFileSource_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := FileSource{Path: filepath.Join(dir, "missing.json")}.Load(context.Background())
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0644))
	_, err = FileSource{Path: bad}.Load(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FileSource{Path: bad}.Load(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
