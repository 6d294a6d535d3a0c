package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/fitnesstracker/internal/api"
	"example.com/fitnesstracker/internal/config"
	"example.com/fitnesstracker/internal/domain"
	"example.com/fitnesstracker/internal/logger"
	"example.com/fitnesstracker/internal/persistence/memory"
	httptransport "example.com/fitnesstracker/internal/transport/http"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service := domain.NewService(newRepository(ctx, cfg, log))
	handler, err := api.NewHandler(service, domain.DefaultCatalog(), log)
	if err != nil {
		log.Fatal("failed to load templates", "error", err)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	middleware := []func(http.Handler) http.Handler{
		httptransport.RequestID,
		httptransport.Observe(log, mux),
		httptransport.Recover(log),
	}
	if cfg.CSRFKey != "" {
		if !cfg.CSRFSecure {
			middleware = append(middleware, plaintextHTTP)
		}
		middleware = append(middleware, csrf.Protect([]byte(cfg.CSRFKey), csrf.Secure(cfg.CSRFSecure)))
	} else {
		log.Warn("CSRF_KEY not set, form submissions are not CSRF protected")
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, httptransport.Chain(mux, middleware...))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("fitness tracker listening", "address", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "error", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func newRepository(ctx context.Context, cfg config.Config, log *logger.Logger) *memory.Repository {
	repo := memory.NewRepository()
	if !cfg.SeedEntries {
		return repo
	}
	today := domain.DateOf(time.Now())
	if err := repo.Seed(ctx, domain.SampleEntries(today)); err != nil {
		log.Fatal("failed to seed entries", "error", err)
	}
	log.Debug("seeded sample entries", "today", today.String())
	return repo
}

// plaintextHTTP tells the CSRF check that requests arrive over plain HTTP, so
// it skips the HTTPS-only Referer comparison during local development.
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
