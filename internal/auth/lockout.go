// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/vendorhub/vendorhub/internal/logging"
)

// ErrAccountLocked is returned when authentication is blocked due to lockout.
var ErrAccountLocked = errors.New("account temporarily locked due to too many failed attempts")

// LockoutConfig holds configuration for the account lockout system.
type LockoutConfig struct {
	// Enabled controls whether lockout is active.
	Enabled bool

	// MaxAttempts is the number of failed attempts before lockout.
	MaxAttempts int

	// LockoutDuration is the lockout period.
	LockoutDuration time.Duration
}

// DefaultLockoutConfig returns sensible defaults.
func DefaultLockoutConfig() *LockoutConfig {
	return &LockoutConfig{
		Enabled:         true,
		MaxAttempts:     5,
		LockoutDuration: 15 * time.Minute,
	}
}

// lockoutEntry tracks failed login attempts for one subject (email).
type lockoutEntry struct {
	failedAttempts int
	lastAttempt    time.Time
	lockedUntil    time.Time
}

func (e *lockoutEntry) isLocked() bool {
	return time.Now().Before(e.lockedUntil)
}

// LockoutManager tracks failed login attempts in memory and locks
// subjects out after repeated failures. Single-instance scope matches
// the single-process deployment model.
type LockoutManager struct {
	config  *LockoutConfig
	mu      sync.Mutex
	entries map[string]*lockoutEntry
}

// NewLockoutManager creates a new lockout manager.
func NewLockoutManager(config *LockoutConfig) *LockoutManager {
	if config == nil {
		config = DefaultLockoutConfig()
	}
	return &LockoutManager{
		config:  config,
		entries: make(map[string]*lockoutEntry),
	}
}

// CheckLocked returns whether the subject is currently locked out and
// the remaining lockout time.
func (m *LockoutManager) CheckLocked(subject string) (bool, time.Duration) {
	if !m.config.Enabled {
		return false, 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[subject]
	if !ok || !entry.isLocked() {
		return false, 0
	}

	return true, time.Until(entry.lockedUntil)
}

// RecordFailedAttempt records a failed login and reports whether the
// subject is now locked out.
func (m *LockoutManager) RecordFailedAttempt(subject string) (locked bool, remaining time.Duration) {
	if !m.config.Enabled {
		return false, 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[subject]
	if !ok {
		entry = &lockoutEntry{}
		m.entries[subject] = entry
	}

	if entry.isLocked() {
		return true, time.Until(entry.lockedUntil)
	}

	entry.failedAttempts++
	entry.lastAttempt = time.Now()

	if entry.failedAttempts < m.config.MaxAttempts {
		return false, 0
	}

	entry.lockedUntil = time.Now().Add(m.config.LockoutDuration)
	entry.failedAttempts = 0

	logging.Warn().
		Str("subject", subject).
		Dur("duration", m.config.LockoutDuration).
		Msg("Account locked")

	return true, m.config.LockoutDuration
}

// RecordSuccessfulLogin clears the lockout state for a subject.
func (m *LockoutManager) RecordSuccessfulLogin(subject string) {
	if !m.config.Enabled {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, subject)
}

// CleanupExpired removes stale entries. Entries stay for 24h after
// unlock so repeat offenders are still visible in memory profiles.
func (m *LockoutManager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	threshold := time.Now().Add(-24 * time.Hour)
	count := 0
	for subject, entry := range m.entries {
		if !entry.isLocked() && entry.lastAttempt.Before(threshold) {
			delete(m.entries, subject)
			count++
		}
	}
	return count
}
