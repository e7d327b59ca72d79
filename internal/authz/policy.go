// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package authz

import (
	"strings"

	"github.com/vendorhub/vendorhub/internal/auth"
	"github.com/vendorhub/vendorhub/internal/models"
)

// Effect is the outcome class of a policy decision.
type Effect int

// Decision outcomes. Unauthorized means no usable session was
// presented; Forbidden means a session exists but the role is not
// permitted; Redirect carries a target page for browser traffic.
const (
	EffectAllow Effect = iota
	EffectRedirect
	EffectUnauthorized
	EffectForbidden
)

// String returns the Prometheus label value for the effect.
func (e Effect) String() string {
	switch e {
	case EffectAllow:
		return "allow"
	case EffectRedirect:
		return "redirect"
	case EffectUnauthorized:
		return "unauthorized"
	case EffectForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating a request against the role
// policy. Target is set only when Effect is EffectRedirect.
type Decision struct {
	Effect Effect
	Target string
}

// RouteOptions configures policy evaluation for one protected route.
type RouteOptions struct {
	// AllowList consults the Casbin policy for the request path. Routes
	// without an allow-list admit any valid session.
	AllowList bool

	// ConfinementExempt skips the confined-role page check. Set on the
	// API routes a confined role's designated page itself calls.
	ConfinementExempt bool
}

// confinedPages restricts single-page roles to their designated page.
// Consulted before any allow-list, so a confined role is bounced back
// to its page even from a route whose allow-list would admit it.
var confinedPages = map[models.RoleID]string{
	models.RoleVendor:  "/vendor.html",
	models.RoleFinance: "/budget.html",
}

// ConfinedPage returns the designated page for a confined role.
func ConfinedPage(role models.RoleID) (string, bool) {
	page, ok := confinedPages[role]
	return page, ok
}

// IsAPIPath reports whether a request path follows the JSON API
// convention. API denials get status codes; page denials get
// redirects where the rules call for one.
func IsAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

// Policy evaluates requests against the priority-ordered role rules.
type Policy struct {
	enforcer *Enforcer
}

// NewPolicy creates a policy evaluator backed by the given enforcer.
func NewPolicy(enforcer *Enforcer) *Policy {
	return &Policy{enforcer: enforcer}
}

// Evaluate applies the role rules in priority order, first match wins:
//
//  1. No session, or a session carrying a role outside the known set,
//     is unauthorized (401 for API, login redirect for pages).
//  2. A confined role anywhere but its designated page is sent back
//     (403 for API, redirect for pages). Checked before the allow-list.
//  3. An allow-listed route denies roles outside its list with a plain
//     403 for pages as well as API calls. Never a redirect.
//  4. Otherwise the request is allowed.
//
// An enforcement error fails closed: the decision is Forbidden and the
// error is returned for logging.
func (p *Policy) Evaluate(session *auth.Session, path string, isAPI bool, opts RouteOptions) (Decision, error) {
	if session == nil || !session.Role.Valid() {
		if isAPI {
			return Decision{Effect: EffectUnauthorized}, nil
		}
		return Decision{Effect: EffectRedirect, Target: "/login.html"}, nil
	}

	if !opts.ConfinementExempt {
		if page, confined := confinedPages[session.Role]; confined && path != page {
			if isAPI {
				return Decision{Effect: EffectForbidden}, nil
			}
			return Decision{Effect: EffectRedirect, Target: page}, nil
		}
	}

	if opts.AllowList {
		allowed, err := p.enforcer.Enforce(session.Role.Name(), path)
		if err != nil {
			return Decision{Effect: EffectForbidden}, err
		}
		if !allowed {
			return Decision{Effect: EffectForbidden}, nil
		}
	}

	return Decision{Effect: EffectAllow}, nil
}
