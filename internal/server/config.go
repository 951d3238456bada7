package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/billet-recovery/internal/config"
	"github.com/iwvelando/billet-recovery/pkg/constants"
	"github.com/iwvelando/billet-recovery/pkg/validation"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string
	MaxUploadSize   string
	uploadSizeBytes int64
}

// NewConfig derives the server configuration from the server section of the
// application configuration. A nil section yields the defaults.
func NewConfig(section *config.ServerConfig) (*Config, error) {
	cfg := &Config{
		Address:         constants.DefaultServerAddress,
		MaxUploadSize:   fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes),
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
	}
	if section == nil {
		return cfg, nil
	}

	if addr := strings.TrimSpace(section.Address); addr != "" {
		cfg.Address = addr
	}
	if sizeStr := strings.TrimSpace(section.MaxUploadSize); sizeStr != "" {
		size, err := validation.ParseSize(sizeStr)
		if err != nil {
			return nil, err
		}
		cfg.MaxUploadSize = sizeStr
		cfg.SetUploadSizeBytes(size)
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured upload size.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = fmt.Sprintf("%d", size)
	}
}

// ListenAndServe listens on cfg.Address and serves h until ctx is done.
func ListenAndServe(ctx context.Context, logger *zap.Logger, cfg *Config, h http.Handler) error {
	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return eris.Wrapf(err, "server: listen on %s", cfg.Address)
	}
	return Serve(ctx, logger, ln, h)
}

// Serve serves h on ln until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, logger *zap.Logger, ln net.Listener, h http.Handler) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Info("shutting down server", zap.String("op", "server.Serve"))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server",
		zap.String("op", "server.Serve"),
		zap.String("address", ln.Addr().String()),
	)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server: serve")
	}

	return eris.Wrap(<-shutdownErr, "server: shutdown")
}
