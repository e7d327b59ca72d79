// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

// VendorHub server binary.
//
// Configuration is layered: built-in defaults, then an optional YAML
// file (VENDORHUB_CONFIG or the default search paths), then
// VENDORHUB_* environment variables. Examples:
//
//	VENDORHUB_SERVER_PORT=8080
//	VENDORHUB_DATABASE_PATH=/data/vendorhub.db
//	VENDORHUB_SECURITY_SESSION_STORE=badger
//	VENDORHUB_LOGGING_LEVEL=debug
//
// The process runs everything under a suture supervisor tree: the HTTP
// server on the API branch and the session janitor, audit retention
// sweep, and notification consumer on the background branch. SIGINT or
// SIGTERM cancels the tree's context and triggers graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vendorhub/vendorhub/internal/api"
	"github.com/vendorhub/vendorhub/internal/audit"
	"github.com/vendorhub/vendorhub/internal/auth"
	"github.com/vendorhub/vendorhub/internal/authz"
	"github.com/vendorhub/vendorhub/internal/config"
	"github.com/vendorhub/vendorhub/internal/database"
	"github.com/vendorhub/vendorhub/internal/logging"
	"github.com/vendorhub/vendorhub/internal/notify"
	"github.com/vendorhub/vendorhub/internal/supervisor"
	"github.com/vendorhub/vendorhub/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet; the default logger has to do.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Str("session_store", cfg.Security.SessionStore).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	sessionStore, err := auth.NewSessionStore(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize session store")
	}
	defer func() {
		if err := sessionStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()
	sessions := auth.NewSessionManager(sessionStore, &cfg.Security)

	lockout := auth.NewLockoutManager(&auth.LockoutConfig{
		Enabled:         cfg.Security.LockoutEnabled,
		MaxAttempts:     cfg.Security.LockoutMaxAttempts,
		LockoutDuration: cfg.Security.LockoutDuration,
	})

	auditStore, err := audit.NewDuckDBStore(db.Conn())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize audit store")
	}
	auditLog := audit.NewLogger(auditStore, &audit.Config{
		Enabled:         cfg.Audit.Enabled,
		BufferSize:      cfg.Audit.BufferSize,
		RetentionDays:   cfg.Audit.RetentionDays,
		CleanupInterval: cfg.Audit.CleanupInterval,
		LogToStdout:     cfg.Audit.LogToStdout,
	})
	defer func() {
		if err := auditLog.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing audit logger")
		}
	}()

	authHandlers := auth.NewHandlers(db, sessions, lockout, auditLog, cfg.Security.BcryptCost)

	enforcer, err := authz.NewEnforcer(nil)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize policy enforcer")
	}
	defer enforcer.Close()
	gate := authz.NewGate(authz.NewPolicy(enforcer))

	notifyLogger := notify.NewLoggerAdapter()
	pubsub := notify.NewPubSub(notifyLogger, cfg.Notify.BufferSize)
	publisher := notify.NewPublisher(pubsub)

	handlers := api.NewHandlers(db, authHandlers, sessions, auditLog, publisher)
	router := api.NewRouter(cfg, handlers, authHandlers, sessions, gate)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	tree.AddBackgroundService(services.NewSessionJanitorService(sessionStore, lockout, 10*time.Minute))
	if cfg.Audit.Enabled {
		tree.AddBackgroundService(services.NewAuditRetentionService(auditLog))
	}
	if cfg.Notify.Enabled {
		consumer, err := notify.NewConsumer(nil, pubsub, db, notifyLogger)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize notification consumer")
		}
		tree.AddBackgroundService(consumer)
	} else {
		logging.Info().Msg("Notification consumer disabled; events will not be persisted")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
}
