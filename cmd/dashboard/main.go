package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/api"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/api/handler"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/api/navigate"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/metrics"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/scopedstore"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/upstream"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/pkg/config"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/pkg/session"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/tenancy"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/usecase"
)

const (
	loginPath        = "/auth/login"
	createTenantPath = "/dashboard/tenants/create"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		"http_addr", cfg.HTTPAddr,
		"topology_mode", cfg.TopologyMode,
		"upstream_url", cfg.UpstreamURL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewGateMetrics(prometheus.DefaultRegisterer)

	// Storage medium for tenant-scoped state. Redis is optional: without it
	// the store degrades to logged no-ops rather than failing requests.
	var medium scopedstore.Medium
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("could not connect to redis, tenant-scoped store will no-op", "error", err)
		}
		medium = scopedstore.NewRedisMedium(redisClient)
		defer redisClient.Close()
	}
	store := scopedstore.New(medium, logger, m)

	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL)
	upstreamClient := upstream.NewClient(cfg.UpstreamURL, loginPath, cfg.UpstreamRateRPS, logger)

	directory := tenancy.NewDirectory(upstreamClient, logger, m, cfg.TenantCacheTTL)
	resolver := tenancy.NewResolver(cfg.Environment(), directory)
	gate := usecase.NewAdmissionService(directory, logger, m, loginPath, createTenantPath)

	bridge := navigate.NewBridge()

	router := api.NewRouter(api.Deps{
		Logger:    logger,
		Sessions:  sessions,
		Gate:      gate,
		Auth:      handler.NewAuthHandler(upstreamClient, sessions, directory, store, logger),
		Dashboard: handler.NewDashboardHandler(resolver, upstreamClient, store, bridge, logger),
		Bridge:    bridge,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting dashboard server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server shut down gracefully")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
