// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vendorhub/vendorhub/internal/config"
	"github.com/vendorhub/vendorhub/internal/logging"
)

type sessionContextKey struct{}

// SessionManager owns the session cookie contract: reading the cookie on
// the way in, setting and clearing it on the way out, and the optional
// sliding expiry. It never denies requests; the authorization gate
// decides what an absent session means for a given route.
type SessionManager struct {
	store      SessionStore
	cookieName string
	secure     bool
	ttl        time.Duration
	sliding    bool
}

// NewSessionManager creates a session manager from security config.
func NewSessionManager(store SessionStore, cfg *config.SecurityConfig) *SessionManager {
	return &SessionManager{
		store:      store,
		cookieName: cfg.CookieName,
		secure:     cfg.CookieSecure,
		ttl:        cfg.SessionTTL,
		sliding:    cfg.SlidingSession,
	}
}

// Store returns the underlying session store.
func (m *SessionManager) Store() SessionStore {
	return m.store
}

// TTL returns the configured session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Middleware resolves the session cookie and, when a live session
// exists, attaches it to the request context. Invalid or expired
// cookies are treated as anonymous requests.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.store.Get(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionExpired) {
				logging.Error().Err(err).Msg("Session lookup failed")
			}
			next.ServeHTTP(w, r)
			return
		}

		if m.sliding {
			newExpiry := time.Now().Add(m.ttl)
			if err := m.store.Touch(r.Context(), session.ID, newExpiry); err == nil {
				session.ExpiresAt = newExpiry
				m.writeCookie(w, session.ID, newExpiry)
			}
		}

		ctx := context.WithValue(r.Context(), sessionContextKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the session attached by Middleware, or nil.
func SessionFromContext(ctx context.Context) *Session {
	if session, ok := ctx.Value(sessionContextKey{}).(*Session); ok {
		return session
	}
	return nil
}

// ContextWithSession attaches a session to a context. Used by tests and
// by handlers that establish a session mid-request (login).
func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SetSessionCookie writes the session cookie for a newly created session.
func (m *SessionManager) SetSessionCookie(w http.ResponseWriter, session *Session) {
	m.writeCookie(w, session.ID, session.ExpiresAt)
}

// ClearSessionCookie expires the session cookie.
func (m *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionManager) writeCookie(w http.ResponseWriter, id string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
