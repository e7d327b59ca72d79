// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package authz

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/vendorhub/vendorhub/internal/auth"
	"github.com/vendorhub/vendorhub/internal/logging"
	"github.com/vendorhub/vendorhub/internal/metrics"
	"github.com/vendorhub/vendorhub/internal/models"
)

// Gate wraps protected routes with role policy evaluation and
// translates decisions into HTTP effects. The wrapped handler only
// runs on an Allow decision. The gate itself never touches the data
// store or the audit log.
type Gate struct {
	policy *Policy
}

// NewGate creates an authorization gate backed by the given policy.
func NewGate(policy *Policy) *Gate {
	return &Gate{policy: policy}
}

// Protect returns middleware enforcing the role policy with the given
// per-route options. The session is read from the request context, so
// the session middleware must run first.
func (g *Gate) Protect(opts RouteOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := auth.SessionFromContext(r.Context())
			isAPI := IsAPIPath(r.URL.Path)

			decision, err := g.policy.Evaluate(session, r.URL.Path, isAPI, opts)
			if err != nil {
				logging.Error().
					Err(err).
					Str("path", r.URL.Path).
					Msg("Policy evaluation failed, denying request")
			}

			metrics.AuthzDecisionsTotal.WithLabelValues(decision.Effect.String()).Inc()

			switch decision.Effect {
			case EffectAllow:
				next.ServeHTTP(w, r)
			case EffectRedirect:
				http.Redirect(w, r, decision.Target, http.StatusFound)
			case EffectUnauthorized:
				denyJSON(w, http.StatusUnauthorized, "Unauthorized: please log in")
			case EffectForbidden:
				if isAPI {
					denyJSON(w, http.StatusForbidden, "Forbidden: insufficient permissions")
				} else {
					http.Error(w, "Access denied", http.StatusForbidden)
				}
			default:
				denyJSON(w, http.StatusForbidden, "Forbidden: insufficient permissions")
			}
		})
	}
}

// Session is shorthand for a session-only route: any valid session
// passes, confined roles are still held to their page.
func (g *Gate) Session() func(http.Handler) http.Handler {
	return g.Protect(RouteOptions{})
}

// SessionAPI gates an API route any valid session may call, including
// confined roles acting from their designated page.
func (g *Gate) SessionAPI() func(http.Handler) http.Handler {
	return g.Protect(RouteOptions{ConfinementExempt: true})
}

// Roles gates a route by its Casbin allow-list.
func (g *Gate) Roles() func(http.Handler) http.Handler {
	return g.Protect(RouteOptions{AllowList: true})
}

// RolesConfinementExempt gates an API route by its allow-list while
// letting confined roles through to it; used for the budget routes the
// finance page calls.
func (g *Gate) RolesConfinementExempt() func(http.Handler) http.Handler {
	return g.Protect(RouteOptions{AllowList: true, ConfinementExempt: true})
}

// NotFound is the catch-all for unmatched paths. A confined-role
// session is redirected to its designated page instead of a 404, which
// keeps a confined user inside their page even for typo'd URLs. Runs
// after all named routes have had a chance to match.
func (g *Gate) NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())
		if session != nil && session.Role.Valid() {
			if page, confined := confinedPages[session.Role]; confined {
				metrics.AuthzDecisionsTotal.WithLabelValues(EffectRedirect.String()).Inc()
				http.Redirect(w, r, page, http.StatusFound)
				return
			}
		}
		http.NotFound(w, r)
	}
}

func denyJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.MessageResponse{Message: message}); err != nil {
		logging.Error().Err(err).Msg("Failed to encode denial response")
	}
}
