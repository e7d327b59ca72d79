// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/vendorhub/vendorhub/internal/audit"
	"github.com/vendorhub/vendorhub/internal/config"
	"github.com/vendorhub/vendorhub/internal/database"
	"github.com/vendorhub/vendorhub/internal/models"
)

type authFixture struct {
	handlers   *Handlers
	sessions   *SessionManager
	auditStore *audit.MemoryStore
	auditLog   *audit.Logger
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// Cost 4 keeps the bcrypt work factor test-friendly.
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	_, err = db.CreateUser(context.Background(), &models.User{
		Username:     "frank",
		Email:        "frank@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleFinance,
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	secCfg := &config.SecurityConfig{
		SessionStore: "memory",
		SessionTTL:   time.Hour,
		CookieName:   "vh_session",
	}
	sessions := NewSessionManager(NewMemorySessionStore(), secCfg)

	auditStore := audit.NewMemoryStore()
	auditLog := audit.NewLogger(auditStore, &audit.Config{Enabled: true, BufferSize: 16})
	t.Cleanup(func() { _ = auditLog.Close() })

	lockout := NewLockoutManager(&LockoutConfig{Enabled: true, MaxAttempts: 3, LockoutDuration: time.Minute})

	return &authFixture{
		handlers:   NewHandlers(db, sessions, lockout, auditLog, bcrypt.MinCost),
		sessions:   sessions,
		auditStore: auditStore,
		auditLog:   auditLog,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)

	rec := postJSON(t, f.handlers.Login, "/login",
		`{"email":"frank@example.com","password":"correct-horse"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Role != models.RoleFinance || resp.RoleName != "finance" {
		t.Errorf("unexpected role payload: %+v", resp)
	}
	if resp.RedirectURL != "/budget.html" {
		t.Errorf("finance should land on /budget.html, got %q", resp.RedirectURL)
	}

	// Cookie must be set and point to a live session.
	cookies := rec.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == "vh_session" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie not set")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if _, err := f.sessions.Store().Get(context.Background(), sessionCookie.Value); err != nil {
		t.Errorf("cookie does not reference a stored session: %v", err)
	}

	// Exactly one LOGIN audit record.
	_ = f.auditLog.Close()
	count, err := f.auditStore.Count(context.Background(), audit.QueryFilter{Actions: []audit.Action{audit.ActionLogin}})
	if err != nil {
		t.Fatalf("audit count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 LOGIN audit record, got %d", count)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	rec := postJSON(t, f.handlers.Login, "/login",
		`{"email":"frank@example.com","password":"wrong"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "vh_session" && c.Value != "" {
			t.Error("failed login must not set a session cookie")
		}
	}

	// No audit record for failed logins.
	_ = f.auditLog.Close()
	count, err := f.auditStore.Count(context.Background(), audit.QueryFilter{})
	if err != nil {
		t.Fatalf("audit count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("failed login produced %d audit records", count)
	}
}

func TestLoginUnknownEmailSameResponse(t *testing.T) {
	f := newAuthFixture(t)

	wrongPass := postJSON(t, f.handlers.Login, "/login",
		`{"email":"frank@example.com","password":"wrong"}`)
	unknown := postJSON(t, f.handlers.Login, "/login",
		`{"email":"ghost@example.com","password":"whatever"}`)

	if wrongPass.Code != unknown.Code {
		t.Errorf("status codes differ: %d vs %d", wrongPass.Code, unknown.Code)
	}
	if wrongPass.Body.String() != unknown.Body.String() {
		t.Errorf("bodies differ: %q vs %q", wrongPass.Body.String(), unknown.Body.String())
	}
}

func TestLoginLockout(t *testing.T) {
	f := newAuthFixture(t)

	for i := 0; i < 3; i++ {
		postJSON(t, f.handlers.Login, "/login",
			`{"email":"frank@example.com","password":"wrong"}`)
	}

	rec := postJSON(t, f.handlers.Login, "/login",
		`{"email":"frank@example.com","password":"correct-horse"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 while locked, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on lockout response")
	}
}

func TestSignupAndLogin(t *testing.T) {
	f := newAuthFixture(t)

	rec := postJSON(t, f.handlers.Signup, "/signup",
		`{"username":"grace","email":"grace@example.com","password":"longenough1","role":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "registered successfully") {
		t.Errorf("unexpected signup body: %q", rec.Body.String())
	}

	login := postJSON(t, f.handlers.Login, "/login",
		`{"email":"grace@example.com","password":"longenough1"}`)
	if login.Code != http.StatusOK {
		t.Fatalf("new user cannot log in: %d %s", login.Code, login.Body.String())
	}
}

func TestSignupRejectsInvalidRole(t *testing.T) {
	f := newAuthFixture(t)

	rec := postJSON(t, f.handlers.Signup, "/signup",
		`{"username":"harry","email":"harry@example.com","password":"longenough1","role":9}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for role 9, got %d", rec.Code)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)

	rec := postJSON(t, f.handlers.Signup, "/signup",
		`{"username":"frank2","email":"frank@example.com","password":"longenough1","role":2}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", rec.Code)
	}
}

func TestCheckSession(t *testing.T) {
	f := newAuthFixture(t)

	// Anonymous
	req := httptest.NewRequest(http.MethodGet, "/api/check-session", nil)
	rec := httptest.NewRecorder()
	f.handlers.CheckSession(rec, req)

	var anon models.CheckSessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &anon); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if anon.LoggedIn || anon.User != nil {
		t.Errorf("anonymous check-session: %+v", anon)
	}

	// With session
	session := NewSession(&models.User{ID: 1, Username: "frank", Email: "frank@example.com", Role: models.RoleFinance}, time.Hour)
	req = httptest.NewRequest(http.MethodGet, "/api/check-session", nil)
	req = req.WithContext(ContextWithSession(req.Context(), session))
	rec = httptest.NewRecorder()
	f.handlers.CheckSession(rec, req)

	var resp models.CheckSessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !resp.LoggedIn || resp.User == nil {
		t.Fatalf("expected logged-in response, got %+v", resp)
	}
	if resp.User.RoleName != "finance" {
		t.Errorf("expected roleName finance, got %q", resp.User.RoleName)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	session := NewSession(&models.User{ID: 1, Username: "frank", Role: models.RoleAdmin}, time.Hour)
	if err := f.sessions.Store().Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req = req.WithContext(ContextWithSession(req.Context(), session))
	rec := httptest.NewRecorder()
	f.handlers.Logout(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login.html" {
		t.Errorf("expected redirect to /login.html, got %q", loc)
	}
	if _, err := f.sessions.Store().Get(ctx, session.ID); err == nil {
		t.Error("session survived logout")
	}
}
