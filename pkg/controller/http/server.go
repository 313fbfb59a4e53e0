package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mate-desktop/mate-release/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr         string
	secret       string
	requireNonce bool
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithSecret sets the shared secret. When empty, unsigned notifications are accepted.
func WithSecret(secret string) Option {
	return func(c *config) {
		c.secret = secret
	}
}

// WithRequireNonce rejects requests without a nonce header
func WithRequireNonce(require bool) Option {
	return func(c *config) {
		c.requireNonce = require
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a receiver for release notifications
func NewServer(
	ctx context.Context,
	receiverUC interfaces.ReceiverUseCase,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr:         "localhost:8080",
		requireNonce: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)

	releaseHandler := NewReleaseHandler(cfg.secret, cfg.requireNonce, receiverUC)
	router.Post("/release", releaseHandler.Handle)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
