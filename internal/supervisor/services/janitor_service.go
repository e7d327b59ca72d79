// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package services

import (
	"context"
	"time"

	"github.com/vendorhub/vendorhub/internal/logging"
)

// SessionSweeper removes expired sessions. Satisfied by the auth
// session stores.
type SessionSweeper interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// LockoutSweeper removes stale lockout entries. Satisfied by
// auth.LockoutManager.
type LockoutSweeper interface {
	CleanupExpired() int
}

// SessionJanitorService periodically sweeps expired sessions and stale
// lockout entries. A failed sweep is logged and retried on the next
// tick rather than crashing the service.
type SessionJanitorService struct {
	sessions SessionSweeper
	lockouts LockoutSweeper
	interval time.Duration
}

// NewSessionJanitorService creates the janitor. lockouts may be nil
// when lockout tracking is disabled.
func NewSessionJanitorService(sessions SessionSweeper, lockouts LockoutSweeper, interval time.Duration) *SessionJanitorService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &SessionJanitorService{
		sessions: sessions,
		lockouts: lockouts,
		interval: interval,
	}
}

// Serve implements suture.Service.
func (s *SessionJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SessionJanitorService) sweep(ctx context.Context) {
	removed, err := s.sessions.CleanupExpired(ctx)
	if err != nil {
		logging.Err(err).Msg("session cleanup failed")
	} else if removed > 0 {
		logging.Debug().Int("removed", removed).Msg("expired sessions removed")
	}

	if s.lockouts != nil {
		if removed := s.lockouts.CleanupExpired(); removed > 0 {
			logging.Debug().Int("removed", removed).Msg("stale lockout entries removed")
		}
	}
}

// String identifies the service in suture's event log.
func (s *SessionJanitorService) String() string {
	return "session-janitor"
}

// AuditCleaner prunes audit records past their retention window.
// Satisfied by audit.Logger.
type AuditCleaner interface {
	RunCleanup(ctx context.Context) error
	CleanupInterval() time.Duration
}

// AuditRetentionService runs the audit retention sweep on the interval
// the audit configuration dictates.
type AuditRetentionService struct {
	cleaner AuditCleaner
}

// NewAuditRetentionService creates the retention worker.
func NewAuditRetentionService(cleaner AuditCleaner) *AuditRetentionService {
	return &AuditRetentionService{cleaner: cleaner}
}

// Serve implements suture.Service.
func (s *AuditRetentionService) Serve(ctx context.Context) error {
	interval := s.cleaner.CleanupInterval()
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.cleaner.RunCleanup(ctx); err != nil {
				logging.Err(err).Msg("audit retention sweep failed")
			}
		}
	}
}

// String identifies the service in suture's event log.
func (s *AuditRetentionService) String() string {
	return "audit-retention"
}
