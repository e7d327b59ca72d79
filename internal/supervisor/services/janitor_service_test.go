// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) CleanupExpired(_ context.Context) (int, error) {
	c.calls.Add(1)
	return 1, c.err
}

type countingLockouts struct {
	calls atomic.Int32
}

func (c *countingLockouts) CleanupExpired() int {
	c.calls.Add(1)
	return 0
}

func waitForCalls(t *testing.T, counter *atomic.Int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if counter.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected at least %d sweeps, got %d", want, counter.Load())
}

func TestSessionJanitorSweeps(t *testing.T) {
	sessions := &countingSweeper{}
	lockouts := &countingLockouts{}
	svc := NewSessionJanitorService(sessions, lockouts, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitForCalls(t, &sessions.calls, 2)
	waitForCalls(t, &lockouts.calls, 2)

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSessionJanitorSurvivesSweepErrors(t *testing.T) {
	sessions := &countingSweeper{err: errors.New("store offline")}
	svc := NewSessionJanitorService(sessions, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// The service keeps ticking despite errors.
	waitForCalls(t, &sessions.calls, 3)

	cancel()
	<-done
}

type countingCleaner struct {
	calls    atomic.Int32
	interval time.Duration
}

func (c *countingCleaner) RunCleanup(_ context.Context) error {
	c.calls.Add(1)
	return nil
}

func (c *countingCleaner) CleanupInterval() time.Duration { return c.interval }

func TestAuditRetentionRuns(t *testing.T) {
	cleaner := &countingCleaner{interval: 10 * time.Millisecond}
	svc := NewAuditRetentionService(cleaner)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitForCalls(t, &cleaner.calls, 2)

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
