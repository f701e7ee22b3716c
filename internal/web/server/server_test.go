package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig(okHandler())

	assert.Equal(t, ":8000", config.Address)
	assert.Equal(t, 15*time.Second, config.ReadTimeout)
	assert.Equal(t, 120*time.Second, config.WriteTimeout)
	assert.Equal(t, 60*time.Second, config.IdleTimeout)
	assert.Equal(t, 1<<20, config.MaxHeaderBytes)
	assert.Nil(t, config.TLS)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)

	_, err = New(&Config{Address: ":0"}, nil)
	assert.Error(t, err)

	srv, err := New(DefaultConfig(okHandler()), nil)
	require.NoError(t, err)
	assert.Equal(t, ":8000", srv.Addr())
	assert.Nil(t, srv.httpServer.TLSConfig)
}

func TestNew_TLS(t *testing.T) {
	config := DefaultConfig(okHandler())
	config.TLS = &TLSConfig{CertFile: "cert.pem", KeyFile: "key.pem"}

	srv, err := New(config, nil)
	require.NoError(t, err)
	require.NotNil(t, srv.httpServer.TLSConfig)
	assert.Equal(t, uint16(0x0303), srv.httpServer.TLSConfig.MinVersion)

	var partial *TLSConfig
	assert.False(t, partial.Enabled())
	assert.False(t, (&TLSConfig{CertFile: "cert.pem"}).Enabled())
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv, err := New(&Config{Address: "127.0.0.1:0", Handler: okHandler()}, nil)
	require.NoError(t, err)
	require.NoError(t, srv.Listen())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	resp, err := http.Get("http://" + srv.Addr())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "OK", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_ListenTwiceKeepsListener(t *testing.T) {
	srv, err := New(&Config{Address: "127.0.0.1:0", Handler: okHandler()}, nil)
	require.NoError(t, err)
	require.NoError(t, srv.Listen())
	addr := srv.Addr()
	require.NoError(t, srv.Listen())
	assert.Equal(t, addr, srv.Addr())
	require.NoError(t, srv.Close())
}

func TestServer_ListenError(t *testing.T) {
	srv, err := New(&Config{Address: "256.0.0.1:bad", Handler: okHandler()}, nil)
	require.NoError(t, err)
	assert.Error(t, srv.Start())
}

func TestConfigurePool(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	require.NoError(t, ConfigurePool(context.Background(), db, nil))
	assert.Equal(t, DefaultDatabaseConfig().MaxOpenConns, db.Stats().MaxOpenConnections)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Error(t, ConfigurePool(context.Background(), nil, nil))
}

func TestConfigurePool_PingFailure(t *testing.T) {
	// a sqlmock DB serves a single connection, so a pool that drops its
	// idle connection cannot be reused; each case gets its own mock
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = ConfigurePool(context.Background(), db, &DatabaseConfig{MaxOpenConns: 1})
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	assert.NoError(t, mock.ExpectationsWereMet())
}
