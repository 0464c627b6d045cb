package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/raulk/clock"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bazaar-ledger/internal/config"
	"github.com/georgemunganga/bazaar-ledger/internal/httpx"
	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/logger"
	"github.com/georgemunganga/bazaar-ledger/internal/market"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("invalid logger configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Store ───────────────────────────────────────────────
	st, err := market.OpenStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).WithField("backend", cfg.StoreBackend).Fatal("failed to open store")
	}
	defer st.Close()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(logger.Middleware(log))

	authService := auth.NewService(cfg.Auth)
	authHandler := auth.NewHandler(authService)
	router.Use(authHandler.Middleware)
	authHandler.RegisterRoutes(router)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.Respond(w, http.StatusOK, map[string]string{"status": "ok", "store": cfg.StoreBackend})
	})
	router.Handle("/metrics", promhttp.Handler())

	// ── Marketplace ─────────────────────────────────────────
	env := ledger.NewEnv(clock.New())
	market.New(st, env, market.FromConfig(cfg), log).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: router}
	go func() {
		log.WithField("port", cfg.AppPort).Info("bazaar ledger API starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
