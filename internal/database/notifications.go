// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/vendorhub/vendorhub/internal/metrics"
	"github.com/vendorhub/vendorhub/internal/models"
)

// CreateNotification inserts a notification row. Called by the notify
// subscriber, never directly by request handlers.
func (db *DB) CreateNotification(ctx context.Context, message, kind string) (int64, error) {
	start := time.Now()

	var id int64
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO notifications (message, kind, created_at, read)
		VALUES (?, ?, ?, FALSE)
		RETURNING notification_id`,
		message, kind, time.Now().UTC(),
	).Scan(&id)
	metrics.RecordDBQuery("insert", "notifications", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to insert notification: %w", err)
	}

	return id, nil
}

// ListNotifications returns the most recent notifications, newest first.
// A limit of 0 or below falls back to 100.
func (db *DB) ListNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 100
	}

	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT notification_id, message, kind, created_at, read
		FROM notifications
		ORDER BY created_at DESC, notification_id DESC
		LIMIT ?`,
		limit)
	metrics.RecordDBQuery("select", "notifications", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer closeQuietly(rows)

	var result []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.NotificationID, &n.Message, &n.Kind, &n.CreatedAt, &n.Read); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("notification iteration failed: %w", err)
	}

	return result, nil
}

// MarkNotificationsRead marks all notifications as read.
func (db *DB) MarkNotificationsRead(ctx context.Context) error {
	start := time.Now()

	_, err := db.conn.ExecContext(ctx, "UPDATE notifications SET read = TRUE WHERE read = FALSE")
	metrics.RecordDBQuery("update", "notifications", start, err)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}
