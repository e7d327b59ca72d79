// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DuckDBStore persists audit events in the application database.
// The table is owned by this package; nothing else writes to it.
type DuckDBStore struct {
	conn *sql.DB
}

// NewDuckDBStore creates the audit table if needed and returns the store.
func NewDuckDBStore(conn *sql.DB) (*DuckDBStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := `CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		event_timestamp TIMESTAMP NOT NULL,
		action TEXT NOT NULL,
		outcome TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		actor_name TEXT,
		actor_role TEXT,
		source_ip TEXT,
		user_agent TEXT,
		description TEXT,
		request_id TEXT
	)`
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create audit_log table: %w", err)
	}

	idx := "CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_log(event_timestamp)"
	if _, err := conn.ExecContext(ctx, idx); err != nil {
		return nil, fmt.Errorf("failed to create audit_log index: %w", err)
	}

	return &DuckDBStore{conn: conn}, nil
}

// Save persists one audit event.
func (s *DuckDBStore) Save(ctx context.Context, event *Event) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO audit_log
			(id, event_timestamp, action, outcome, actor_id, actor_name,
			 actor_role, source_ip, user_agent, description, request_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp, string(event.Action), string(event.Outcome),
		event.Actor.ID, event.Actor.Name, event.Actor.Role,
		event.Source.IPAddress, event.Source.UserAgent,
		event.Description, event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

// Query retrieves matching events, newest first.
func (s *DuckDBStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	query, args := buildAuditQuery("SELECT id, event_timestamp, action, outcome, actor_id, "+
		"COALESCE(actor_name, ''), COALESCE(actor_role, ''), COALESCE(source_ip, ''), "+
		"COALESCE(user_agent, ''), COALESCE(description, ''), COALESCE(request_id, '') "+
		"FROM audit_log", &filter, true)

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []Event
	for rows.Next() {
		var e Event
		var action, outcome string
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &action, &outcome,
			&e.Actor.ID, &e.Actor.Name, &e.Actor.Role,
			&e.Source.IPAddress, &e.Source.UserAgent,
			&e.Description, &e.RequestID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		e.Action = Action(action)
		e.Outcome = Outcome(outcome)
		e.Timestamp = e.Timestamp.UTC()
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit query iteration failed: %w", err)
	}

	return result, nil
}

// Count returns the number of matching events.
func (s *DuckDBStore) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	// Pagination does not apply to counting.
	filter.Limit = 0
	filter.Offset = 0
	query, args := buildAuditQuery("SELECT COUNT(*) FROM audit_log", &filter, false)

	var count int64
	if err := s.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count audit events: %w", err)
	}
	return count, nil
}

// Delete removes events older than the cutoff.
func (s *DuckDBStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.conn.ExecContext(ctx,
		"DELETE FROM audit_log WHERE event_timestamp < ?", olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit events: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return removed, nil
}

// buildAuditQuery appends WHERE/ORDER/LIMIT clauses for a filter.
func buildAuditQuery(base string, filter *QueryFilter, ordered bool) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if len(filter.Actions) > 0 {
		placeholders := make([]string, len(filter.Actions))
		for i, a := range filter.Actions {
			placeholders[i] = "?"
			args = append(args, string(a))
		}
		clauses = append(clauses, "action IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.ActorID != "" {
		clauses = append(clauses, "actor_id = ?")
		args = append(args, filter.ActorID)
	}
	if filter.StartTime != nil {
		clauses = append(clauses, "event_timestamp >= ?")
		args = append(args, *filter.StartTime)
	}
	if filter.EndTime != nil {
		clauses = append(clauses, "event_timestamp <= ?")
		args = append(args, *filter.EndTime)
	}

	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	if ordered {
		query += " ORDER BY event_timestamp DESC, id DESC"
	}
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	return query, args
}
