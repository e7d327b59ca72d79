// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

// Package api exposes the HTTP surface: authentication, vendor and
// procurement endpoints, the notification feed, audit log review, and
// static page serving, all gated by the authorization middleware.
package api

import (
	"net/http"
	"time"

	"github.com/vendorhub/vendorhub/internal/audit"
	"github.com/vendorhub/vendorhub/internal/auth"
	"github.com/vendorhub/vendorhub/internal/database"
	"github.com/vendorhub/vendorhub/internal/notify"
)

// Handlers carries the dependencies every endpoint needs. All fields
// are injected at construction; nothing here is package-level state.
type Handlers struct {
	db       *database.DB
	auth     *auth.Handlers
	sessions *auth.SessionManager
	auditLog *audit.Logger
	notifier *notify.Publisher

	startedAt time.Time
}

// NewHandlers wires the endpoint handlers.
func NewHandlers(db *database.DB, authHandlers *auth.Handlers, sessions *auth.SessionManager, auditLog *audit.Logger, notifier *notify.Publisher) *Handlers {
	return &Handlers{
		db:        db,
		auth:      authHandlers,
		sessions:  sessions,
		auditLog:  auditLog,
		notifier:  notifier,
		startedAt: time.Now(),
	}
}

// healthResponse is the /api/health body.
type healthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Health reports liveness and database reachability.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		Database:      "ok",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}

	status := http.StatusOK
	if err := h.db.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, resp)
}
