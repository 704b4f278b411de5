package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/m-mizutani/autoslack/pkg/domain/interfaces"
)

// WebhookPath is the endpoint GitHub delivers release webhooks to
const WebhookPath = "/hooks/github"

// DefaultAddr is used when WithAddr is not given
const DefaultAddr = "localhost:8080"

type config struct {
	addr          string
	webhookSecret string
}

// Option configures NewServer
type Option func(*config)

// WithAddr sets the listen address
func WithAddr(addr string) Option {
	return func(c *config) { c.addr = addr }
}

// WithWebhookSecret sets the secret used to verify X-Hub-Signature-256
func WithWebhookSecret(secret string) Option {
	return func(c *config) { c.webhookSecret = secret }
}

// Server serves the health and webhook endpoints
type Server struct {
	*http.Server
}

// NewServer builds the router and wraps it in an http.Server. ctx supplies the
// base logger for request logs.
func NewServer(ctx context.Context, webhookUC interfaces.WebhookUseCase, opts ...Option) (*Server, error) {
	cfg := &config{addr: DefaultAddr}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		LoggingMiddleware(ctx),
		middleware.Recoverer,
	)

	r.Get("/health", handleHealth)
	r.Post(WebhookPath, NewWebhookHandler(cfg.webhookSecret, webhookUC).Handle)

	return &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           r,
			ReadHeaderTimeout: 15 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
	}, nil
}
