// Package httptransport holds the HTTP server setup and the middleware that
// wraps the entries mux: request ids, request logging and metrics, panic
// recovery.
package httptransport

import (
	"net/http"
	"time"
)

// ServerConfig carries the listen address and the HTTP_*_TIMEOUT settings
// from config.Config.
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer builds the tracker's *http.Server around the chained mux. Header
// reads share the read timeout so a slow client cannot hold a form POST open.
func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Chain applies middleware so that the first one listed is outermost.
func Chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
