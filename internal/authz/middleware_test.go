// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package authz

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vendorhub/vendorhub/internal/auth"
	"github.com/vendorhub/vendorhub/internal/models"
)

// setupGate creates a gate over the embedded policy.
func setupGate(t *testing.T) *Gate {
	t.Helper()
	return NewGate(setupPolicy(t))
}

// serveGated runs a request through the gate with an optional session
// and a sentinel handler that records whether it was reached.
func serveGated(t *testing.T, gate *Gate, opts RouteOptions, session *auth.Session, path string) (*httptest.ResponseRecorder, *bool) {
	t.Helper()

	reached := false
	handler := gate.Protect(opts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if session != nil {
		req = req.WithContext(auth.ContextWithSession(req.Context(), session))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, &reached
}

func TestGateUnauthorizedAPI(t *testing.T) {
	gate := setupGate(t)

	rec, reached := serveGated(t, gate, RouteOptions{AllowList: true, ConfinementExempt: true}, nil, "/api/budgets")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "Unauthorized") {
		t.Errorf("body = %q, want it to contain %q", rec.Body.String(), "Unauthorized")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if *reached {
		t.Error("handler ran despite unauthorized decision")
	}
}

func TestGateRedirectsPagesToLogin(t *testing.T) {
	gate := setupGate(t)

	rec, reached := serveGated(t, gate, RouteOptions{}, nil, "/contracts.html")
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/login.html" {
		t.Errorf("Location = %q, want /login.html", loc)
	}
	if *reached {
		t.Error("handler ran despite missing session")
	}
}

func TestGateConfinedRoleRedirect(t *testing.T) {
	gate := setupGate(t)
	session := sessionWithRole(models.RoleVendor)

	rec, reached := serveGated(t, gate, RouteOptions{}, session, "/contracts.html")
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/vendor.html" {
		t.Errorf("Location = %q, want /vendor.html", loc)
	}
	if *reached {
		t.Error("handler ran for confined role off its page")
	}

	rec, reached = serveGated(t, gate, RouteOptions{}, session, "/vendor.html")
	if rec.Code != http.StatusOK {
		t.Errorf("designated page status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !*reached {
		t.Error("handler did not run on the designated page")
	}
}

func TestGateForbiddenAPIRole(t *testing.T) {
	gate := setupGate(t)
	session := sessionWithRole(models.RoleManager)

	rec, reached := serveGated(t, gate, RouteOptions{AllowList: true}, session, "/api/create-purchase-order")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if !strings.Contains(rec.Body.String(), "Forbidden") {
		t.Errorf("body = %q, want it to contain %q", rec.Body.String(), "Forbidden")
	}
	if *reached {
		t.Error("handler ran despite allow-list miss")
	}
}

func TestGateForbiddenPageIsPlain403(t *testing.T) {
	gate := setupGate(t)
	session := sessionWithRole(models.RoleManager)

	// An allow-list miss on a page route yields a plain 403, never a
	// redirect; only the confinement rule redirects signed-in users.
	rec, _ := serveGated(t, gate, RouteOptions{AllowList: true}, session, "/audit-logs")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("unexpected redirect to %q on allow-list miss", loc)
	}
}

func TestGateAllowsPermittedRole(t *testing.T) {
	gate := setupGate(t)
	session := sessionWithRole(models.RoleProcurement)

	rec, reached := serveGated(t, gate, RouteOptions{AllowList: true}, session, "/api/register-vendor")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !*reached {
		t.Error("handler did not run on allow decision")
	}
}

func TestGateNotFoundCatchAll(t *testing.T) {
	gate := setupGate(t)
	notFound := gate.NotFound()

	// Confined session: unmatched paths bounce to the designated page.
	req := httptest.NewRequest(http.MethodGet, "/no-such-page", nil)
	req = req.WithContext(auth.ContextWithSession(req.Context(), sessionWithRole(models.RoleFinance)))
	rec := httptest.NewRecorder()
	notFound(rec, req)
	if rec.Code != http.StatusFound {
		t.Errorf("confined status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/budget.html" {
		t.Errorf("Location = %q, want /budget.html", loc)
	}

	// Anonymous and unconfined sessions get the ordinary 404.
	req = httptest.NewRequest(http.MethodGet, "/no-such-page", nil)
	rec = httptest.NewRecorder()
	notFound(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("anonymous status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	req = httptest.NewRequest(http.MethodGet, "/no-such-page", nil)
	req = req.WithContext(auth.ContextWithSession(req.Context(), sessionWithRole(models.RoleAdmin)))
	rec = httptest.NewRecorder()
	notFound(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("admin status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
