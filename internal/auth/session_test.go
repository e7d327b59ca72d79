// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vendorhub/vendorhub/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       7,
		Username: "carol",
		Email:    "carol@example.com",
		Role:     models.RoleProcurement,
	}
}

func TestMemorySessionStoreLifecycle(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := NewSession(testUser(), time.Hour)
	if len(session.ID) != 64 {
		t.Fatalf("expected 64 hex chars in session ID, got %d", len(session.ID))
	}

	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserID != 7 || got.Role != models.RoleProcurement {
		t.Errorf("unexpected session: %+v", got)
	}

	// Mutating the returned copy must not affect the store.
	got.Username = "mallory"
	again, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again.Username != "carol" {
		t.Error("store returned a shared session pointer")
	}

	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := NewSession(testUser(), -time.Minute)
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.Get(ctx, session.ID); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	count, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 cleaned session, got %d", count)
	}
}

func TestMemorySessionStoreDeleteByUserID(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Create(ctx, NewSession(testUser(), time.Hour)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	other := NewSession(&models.User{ID: 8, Username: "dave", Role: models.RoleManager}, time.Hour)
	if err := store.Create(ctx, other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	count, err := store.DeleteByUserID(ctx, 7)
	if err != nil {
		t.Fatalf("DeleteByUserID failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 deleted sessions, got %d", count)
	}

	if _, err := store.Get(ctx, other.ID); err != nil {
		t.Errorf("other user's session should survive: %v", err)
	}
}

func TestSessionTouchExtendsExpiry(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := NewSession(testUser(), time.Minute)
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newExpiry := time.Now().Add(2 * time.Hour)
	if err := store.Touch(ctx, session.ID, newExpiry); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.ExpiresAt.Equal(newExpiry) {
		t.Errorf("expected expiry %v, got %v", newExpiry, got.ExpiresAt)
	}

	if err := store.Touch(ctx, "missing", newExpiry); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for missing session, got %v", err)
	}
}

func TestLockoutManager(t *testing.T) {
	m := NewLockoutManager(&LockoutConfig{
		Enabled:         true,
		MaxAttempts:     3,
		LockoutDuration: time.Minute,
	})

	subject := "eve@example.com"

	for i := 0; i < 2; i++ {
		if locked, _ := m.RecordFailedAttempt(subject); locked {
			t.Fatalf("locked after %d attempts, want 3", i+1)
		}
	}

	locked, remaining := m.RecordFailedAttempt(subject)
	if !locked {
		t.Fatal("expected lockout after third attempt")
	}
	if remaining <= 0 || remaining > time.Minute {
		t.Errorf("unexpected remaining lockout %v", remaining)
	}

	if locked, _ := m.CheckLocked(subject); !locked {
		t.Error("CheckLocked should report locked")
	}

	// Success on another subject clears nothing here.
	m.RecordSuccessfulLogin("someone-else@example.com")
	if locked, _ := m.CheckLocked(subject); !locked {
		t.Error("unrelated success cleared the lockout")
	}
}

func TestLockoutDisabled(t *testing.T) {
	m := NewLockoutManager(&LockoutConfig{Enabled: false, MaxAttempts: 1, LockoutDuration: time.Hour})

	for i := 0; i < 10; i++ {
		if locked, _ := m.RecordFailedAttempt("x@example.com"); locked {
			t.Fatal("disabled lockout still locked")
		}
	}
}
