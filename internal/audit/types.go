// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

// Package audit provides append-only audit logging for sensitive
// procurement actions. Records are written asynchronously; a write
// failure never affects the request that produced the record.
package audit

import (
	"context"
	"time"
)

// Action categorizes audit events. The set is closed but extensible:
// adding a kind is a code change, removing one never happens because the
// log is append-only history.
type Action string

const (
	ActionLogin           Action = "LOGIN"
	ActionVendorRegister  Action = "VENDOR_REGISTER"
	ActionPerformanceEval Action = "PERFORMANCE_EVALUATION"
	ActionBudgetAdjust    Action = "BUDGET_ADJUST"
	ActionVendorDelete    Action = "VENDOR_DELETE"
)

// Outcome indicates whether the audited action succeeded.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Actor identifies who performed an action.
type Actor struct {
	// ID is the numeric user identifier rendered as a string.
	ID string `json:"id"`

	// Name is the username at the time of the action.
	Name string `json:"name,omitempty"`

	// Role is the canonical role name.
	Role string `json:"role,omitempty"`
}

// Source records where a request originated.
type Source struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Event is one audit record. Timestamps are stored in UTC at second
// precision; sub-second detail is deliberately discarded.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      Action    `json:"action"`
	Outcome     Outcome   `json:"outcome"`
	Actor       Actor     `json:"actor"`
	Source      Source    `json:"source"`
	Description string    `json:"description"`
	RequestID   string    `json:"request_id,omitempty"`
}

// Store defines the interface for audit event persistence.
type Store interface {
	// Save persists an audit event.
	Save(ctx context.Context, event *Event) error

	// Query retrieves events matching the filter, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Count returns the number of events matching the filter.
	Count(ctx context.Context, filter QueryFilter) (int64, error)

	// Delete removes events older than the cutoff and reports how many.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}

// QueryFilter defines filtering options for audit queries.
type QueryFilter struct {
	// Actions filters by action kinds.
	Actions []Action `json:"actions,omitempty"`

	// ActorID filters by actor ID.
	ActorID string `json:"actor_id,omitempty"`

	// StartTime is the beginning of the time range.
	StartTime *time.Time `json:"start_time,omitempty"`

	// EndTime is the end of the time range.
	EndTime *time.Time `json:"end_time,omitempty"`

	// Limit is the maximum number of results.
	Limit int `json:"limit,omitempty"`

	// Offset for pagination.
	Offset int `json:"offset,omitempty"`
}

// DefaultQueryFilter returns a sensible default filter.
func DefaultQueryFilter() QueryFilter {
	return QueryFilter{Limit: 100}
}
