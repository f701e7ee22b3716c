package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func createTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(&Config{Address: "127.0.0.1:0", Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})}, nil)
	require.NoError(t, err)
	return srv
}

func TestDefaultShutdownConfig(t *testing.T) {
	config := DefaultShutdownConfig()
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Len(t, config.Signals, 2)
	assert.NotNil(t, config.Logger)
}

func TestNewGracefulShutdown_Defaults(t *testing.T) {
	gs := NewGracefulShutdown(createTestServer(t), &ShutdownConfig{})
	assert.Equal(t, 30*time.Second, gs.timeout)
	assert.Len(t, gs.signals, 2)
	assert.NotNil(t, gs.logger)
}

func TestGracefulShutdown_RunsHooksInOrder(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	gs := NewGracefulShutdown(createTestServer(t), &ShutdownConfig{
		Timeout: 5 * time.Second,
		Logger:  zap.New(core),
	})

	var mu sync.Mutex
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		gs.RegisterHook(func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, i)
			if i == 1 {
				return errors.New("hook failed")
			}
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("server listening").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete")
	}

	assert.Equal(t, []int{0, 1, 2}, order)
	assert.Equal(t, 1, logs.FilterMessage("shutdown hook failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("server stopped").Len())
	assert.NoError(t, gs.Wait())
}

func TestGracefulShutdown_ShutdownIsIdempotent(t *testing.T) {
	gs := NewGracefulShutdown(createTestServer(t), nil)

	calls := 0
	gs.RegisterHook(func(ctx context.Context) error {
		calls++
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, gs.Shutdown())
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestGracefulShutdown_ListenFailure(t *testing.T) {
	srv, err := New(&Config{Address: "256.0.0.1:bad", Handler: http.NotFoundHandler()}, nil)
	require.NoError(t, err)

	hookRan := false
	gs := NewGracefulShutdown(srv, nil)
	gs.RegisterHook(func(ctx context.Context) error {
		hookRan = true
		return nil
	})

	assert.Error(t, gs.Run(context.Background()))
	assert.False(t, hookRan)
}
