package server

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Server wraps http.Server with the timeouts and listener handling the
// chandas API needs.
type Server struct {
	httpServer *http.Server
	config     *Config
	logger     *zap.Logger

	mu       sync.Mutex
	listener net.Listener
}

// Config holds server configuration
type Config struct {
	// Address is the server listen address (e.g., ":8080")
	Address string

	// Handler is the HTTP handler for the server
	Handler http.Handler

	// TLS is optional; when set the server serves HTTPS
	TLS *TLSConfig

	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ReadHeaderTimeout time.Duration

	MaxHeaderBytes int
}

// TLSConfig holds TLS/SSL configuration
type TLSConfig struct {
	CertFile string
	KeyFile  string

	// MinVersion is the minimum TLS version (default: TLS 1.2)
	MinVersion uint16
}

// Enabled reports whether both certificate and key are configured
func (c *TLSConfig) Enabled() bool {
	return c != nil && c.CertFile != "" && c.KeyFile != ""
}

// DatabaseConfig holds connection pool settings for the catalogue database
type DatabaseConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConfig returns the server configuration used by `chandas serve`.
// Write timeout is generous because generate-and-verify waits on an
// upstream model for several attempts.
func DefaultConfig(handler http.Handler) *Config {
	return &Config{
		Address:           ":8000",
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}
}

// DefaultDatabaseConfig returns pool settings sized for a small read-mostly
// catalogue table.
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// New creates a server. A nil logger discards output.
func New(config *Config, logger *zap.Logger) (*Server, error) {
	if config == nil {
		return nil, fmt.Errorf("server config cannot be nil")
	}
	if config.Handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpServer := &http.Server{
		Addr:              config.Address,
		Handler:           config.Handler,
		ReadTimeout:       config.ReadTimeout,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		MaxHeaderBytes:    config.MaxHeaderBytes,
		ErrorLog:          zap.NewStdLog(logger.Named("http")),
	}

	if config.TLS.Enabled() {
		minVersion := config.TLS.MinVersion
		if minVersion == 0 {
			minVersion = tls.VersionTLS12
		}
		httpServer.TLSConfig = &tls.Config{MinVersion: minVersion}
	}

	return &Server{
		httpServer: httpServer,
		config:     config,
		logger:     logger,
	}, nil
}

// Listen binds the configured address without serving. Addr reports the
// bound address afterwards, which matters when the port is 0.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener
	return nil
}

// Start serves on the bound listener, binding first if needed. It blocks
// until the server stops and returns nil after a graceful shutdown.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	var err error
	if s.config.TLS.Enabled() {
		err = s.httpServer.ServeTLS(listener, s.config.TLS.CertFile, s.config.TLS.KeyFile)
	} else {
		err = s.httpServer.Serve(listener)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Close immediately closes the server
func (s *Server) Close() error {
	return s.httpServer.Close()
}

// Addr returns the server's network address
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Address
}

// ConfigurePool applies pool settings to db and checks it is reachable
func ConfigurePool(ctx context.Context, db *sql.DB, config *DatabaseConfig) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if config == nil {
		config = DefaultDatabaseConfig()
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
