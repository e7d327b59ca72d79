// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vendorhub/vendorhub/internal/auth"
	"github.com/vendorhub/vendorhub/internal/authz"
	"github.com/vendorhub/vendorhub/internal/config"
	"github.com/vendorhub/vendorhub/internal/middleware"
)

// Router assembles the HTTP surface.
type Router struct {
	cfg      *config.Config
	handlers *Handlers
	auth     *auth.Handlers
	sessions *auth.SessionManager
	gate     *authz.Gate
}

// NewRouter wires the route table dependencies.
func NewRouter(cfg *config.Config, handlers *Handlers, authHandlers *auth.Handlers, sessions *auth.SessionManager, gate *authz.Gate) *Router {
	return &Router{
		cfg:      cfg,
		handlers: handlers,
		auth:     authHandlers,
		sessions: sessions,
		gate:     gate,
	}
}

// Setup builds the route table. Middleware order: request ID first so
// every log line can carry it, then metrics, then session resolution;
// the authorization gate runs per route group so the route's options
// apply.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.PrometheusMetrics)
	r.Use(rt.sessions.Middleware)

	if !rt.cfg.Security.RateLimitDisabled {
		r.Use(httprate.LimitByIP(rt.cfg.Security.RateLimitReqs, rt.cfg.Security.RateLimitWindow))
	}

	// Authentication. Login gets its own stricter limit on top of the
	// global one.
	r.Group(func(r chi.Router) {
		if !rt.cfg.Security.RateLimitDisabled && rt.cfg.Security.RateLimitLogin > 0 {
			r.Use(httprate.LimitByIP(rt.cfg.Security.RateLimitLogin, rt.cfg.Security.RateLimitWindow))
		}
		r.Post("/login", rt.auth.Login)
		r.Post("/signup", rt.auth.Signup)
	})
	r.Get("/logout", rt.auth.Logout)
	r.Get("/api/check-session", rt.auth.CheckSession)

	// Observability.
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/health", rt.handlers.Health)

	// API routes any valid session may call, including confined roles
	// acting from their designated page.
	r.Group(func(r chi.Router) {
		r.Use(rt.gate.SessionAPI())

		r.Get("/api/vendors", rt.handlers.Vendors)
		r.Get("/api/vendors-list", rt.handlers.VendorsList)
		r.Get("/api/contracts", rt.handlers.Contracts)
		r.Get("/api/departments", rt.handlers.Departments)
		r.Get("/api/purchase-orders", rt.handlers.PurchaseOrders)
		r.Get("/api/notifications", rt.handlers.Notifications)
		r.Post("/api/notifications/mark-read", rt.handlers.MarkNotificationsRead)
		r.Post("/api/adjust-budget", rt.handlers.AdjustBudget)
		r.Post("/api/delete-vendor", rt.handlers.DeleteVendor)
	})

	// Allow-listed API routes; role sets live in the embedded policy.
	r.Group(func(r chi.Router) {
		r.Use(rt.gate.Roles())

		r.Post("/api/register-vendor", rt.handlers.RegisterVendor)
		r.Post("/api/evaluate-performance", rt.handlers.EvaluatePerformance)
		r.Post("/api/add-contract", rt.handlers.AddContract)
		r.Post("/api/create-purchase-order", rt.handlers.CreatePurchaseOrder)
	})

	// Budgets are allow-listed to admin and finance; the exemption lets
	// the confined finance role reach them from the budget page.
	r.With(rt.gate.RolesConfinementExempt()).Get("/api/budgets", rt.handlers.Budgets)

	// Audit trail review, admin only.
	r.With(rt.gate.Roles()).Get("/audit-logs", rt.handlers.AuditLogs)

	// Pages. Login and signup are public; everything else requires a
	// session and holds confined roles to their designated page. The
	// wildcard must register last.
	r.Get("/login.html", rt.servePage("login.html"))
	r.Get("/signup.html", rt.servePage("signup.html"))
	r.Group(func(r chi.Router) {
		r.Use(rt.gate.Session())
		r.Get("/*", rt.serveStaticOrIndex)
	})

	r.NotFound(rt.gate.NotFound())

	return r
}
