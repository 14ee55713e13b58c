// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Toorrii console server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toorrii/internal/activity"
	"toorrii/internal/auth"
	"toorrii/internal/backend"
	"toorrii/internal/cache"
	"toorrii/internal/config"
	"toorrii/internal/database"
	"toorrii/internal/events"
	"toorrii/internal/handlers"
	"toorrii/internal/middleware"
	"toorrii/internal/render"
	"toorrii/internal/router"
	"toorrii/internal/session"
	"toorrii/internal/storage"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger; backend request traces only in development.
	level := slog.LevelInfo
	if cfg.IsDev() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"api", cfg.APIBaseURL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to Valkey (sessions, page cache, cross-instance logout).
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Session events fan out locally and across instances.
	bus := events.NewLocal()
	relay := events.NewRelay(valkeyClient, bus)
	defer relay.Close()
	go func() {
		if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("session relay stopped", "error", err)
		}
	}()

	apiClient := backend.New(cfg.APIBaseURL, bus,
		backend.WithTimeout(cfg.APITimeout),
		backend.WithNetworkFailureAsAuth(cfg.APINetworkFailureAsAuth),
	)
	services := backend.NewServices(apiClient)

	gate := auth.NewGate(sessionStore, bus, services.Auth)
	defer gate.Close()

	// The activity log is optional: without PostgreSQL the console runs
	// with a no-op recorder.
	var recorder activity.Recorder = activity.Nop{}
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		slog.Warn("activity log disabled: database unavailable", "error", err)
	} else {
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		recorder = activity.NewStore(db)
	}

	// Connect to S3-compatible object storage (optional; the partner form
	// then accepts image URLs only).
	var assets handlers.Assets
	if cfg.StorageEnabled() {
		storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			assets = storageClient
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		}
	} else {
		slog.Warn("s3 storage not configured, asset uploads disabled")
	}

	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	defer loginLimiter.Stop()

	adminHandlers := handlers.NewAdmin(renderer, sessionStore, services, pageCache, recorder, assets)
	authHandlers := handlers.NewAuth(renderer, sessionStore, services.Auth, gate, bus, recorder)
	publicHandlers := handlers.NewPublic(renderer, services, pageCache)

	r := router.New(sessionStore, adminHandlers, authHandlers, publicHandlers, router.Options{
		Secure:       secureCookies,
		LoginLimiter: loginLimiter,
	})

	// WriteTimeout stays zero: the session event stream is long-lived.
	// Request contexts derive from ctx so open streams end on shutdown.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
