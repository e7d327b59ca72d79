// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package audit

import (
	"context"
	"testing"
	"time"
)

func TestLoggerWritesThroughBuffer(t *testing.T) {
	store := NewMemoryStore()
	logger := NewLogger(store, &Config{Enabled: true, BufferSize: 10})

	logger.Log(&Event{
		Action:      ActionLogin,
		Outcome:     OutcomeSuccess,
		Actor:       ActorFromUser(1, "alice", "admin"),
		Description: "User logged in",
	})

	// Close drains the buffer before returning.
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events, err := store.Query(context.Background(), DefaultQueryFilter())
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Action != ActionLogin {
		t.Errorf("expected LOGIN action, got %s", events[0].Action)
	}
	if events[0].Actor.ID != "1" || events[0].Actor.Name != "alice" {
		t.Errorf("unexpected actor: %+v", events[0].Actor)
	}
}

func TestLoggerCloseIdempotent(t *testing.T) {
	store := NewMemoryStore()
	logger := NewLogger(store, &Config{Enabled: true, BufferSize: 10})

	logger.Log(&Event{Action: ActionLogin, Outcome: OutcomeSuccess})

	// Tests flush with an explicit Close and also Close via cleanup;
	// the second call must be a no-op, not a panic.
	if err := logger.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	count, err := store.Count(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 event after double Close, got %d", count)
	}
}

func TestLoggerTimestampSecondPrecision(t *testing.T) {
	store := NewMemoryStore()
	logger := NewLogger(store, &Config{Enabled: true, BufferSize: 10})

	logger.Log(&Event{
		Action:    ActionBudgetAdjust,
		Outcome:   OutcomeSuccess,
		Timestamp: time.Date(2026, 3, 1, 12, 30, 45, 987654321, time.UTC),
	})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events, err := store.Query(context.Background(), DefaultQueryFilter())
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Timestamp.Nanosecond() != 0 {
		t.Errorf("expected second precision, got %v", events[0].Timestamp)
	}
	want := time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC)
	if !events[0].Timestamp.Equal(want) {
		t.Errorf("expected %v, got %v", want, events[0].Timestamp)
	}
}

func TestLoggerDisabledDropsEvents(t *testing.T) {
	store := NewMemoryStore()
	logger := NewLogger(store, &Config{Enabled: false, BufferSize: 10})

	logger.Log(&Event{Action: ActionVendorDelete, Outcome: OutcomeSuccess})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	count, err := store.Count(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("disabled logger recorded %d events", count)
	}
}

func TestMemoryStoreFilter(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seed := []Event{
		{ID: "a", Action: ActionLogin, Actor: Actor{ID: "1"}, Timestamp: base},
		{ID: "b", Action: ActionVendorRegister, Actor: Actor{ID: "1"}, Timestamp: base.Add(time.Hour)},
		{ID: "c", Action: ActionLogin, Actor: Actor{ID: "2"}, Timestamp: base.Add(2 * time.Hour)},
	}
	for i := range seed {
		if err := store.Save(ctx, &seed[i]); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	tests := []struct {
		name    string
		filter  QueryFilter
		wantIDs []string
	}{
		{
			name:    "by action",
			filter:  QueryFilter{Actions: []Action{ActionLogin}},
			wantIDs: []string{"c", "a"},
		},
		{
			name:    "by actor",
			filter:  QueryFilter{ActorID: "1"},
			wantIDs: []string{"b", "a"},
		},
		{
			name: "by time range",
			filter: QueryFilter{
				StartTime: timePtr(base.Add(30 * time.Minute)),
				EndTime:   timePtr(base.Add(90 * time.Minute)),
			},
			wantIDs: []string{"b"},
		},
		{
			name:    "with limit",
			filter:  QueryFilter{Limit: 1},
			wantIDs: []string{"c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("expected %d events, got %d", len(tt.wantIDs), len(got))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestRetentionCleanup(t *testing.T) {
	store := NewMemoryStore()
	logger := NewLogger(store, &Config{Enabled: true, BufferSize: 10, RetentionDays: 30})
	defer func() { _ = logger.Close() }()

	ctx := context.Background()
	old := Event{ID: "old", Action: ActionLogin, Timestamp: time.Now().AddDate(0, 0, -60)}
	fresh := Event{ID: "fresh", Action: ActionLogin, Timestamp: time.Now()}
	if err := store.Save(ctx, &old); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, &fresh); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := logger.RunCleanup(ctx); err != nil {
		t.Fatalf("RunCleanup failed: %v", err)
	}

	events, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 || events[0].ID != "fresh" {
		t.Errorf("expected only fresh event to survive, got %+v", events)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
