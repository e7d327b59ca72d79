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

// CreateEvaluation inserts a performance evaluation for a vendor.
// The caller is expected to have verified the vendor exists; the method
// still re-checks so a direct call cannot create an orphan row.
func (db *DB) CreateEvaluation(ctx context.Context, e *models.PerformanceEvaluation) (int64, error) {
	exists, err := db.VendorExists(ctx, e.VendorID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrVendorNotFound
	}

	start := time.Now()

	var id int64
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO vendor_performance
			(vendor_id, evaluation_date, service_quality, timeliness, pricing, feedback)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING performance_id`,
		e.VendorID, e.EvaluationDate.Format("2006-01-02"),
		e.ServiceQuality, e.Timeliness, e.Pricing, e.Feedback,
	).Scan(&id)
	metrics.RecordDBQuery("insert", "vendor_performance", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to insert evaluation: %w", err)
	}

	return id, nil
}

// ListEvaluations returns all evaluations for one vendor, newest first.
func (db *DB) ListEvaluations(ctx context.Context, vendorID int64) ([]models.PerformanceEvaluation, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT performance_id, vendor_id, evaluation_date,
		       service_quality, timeliness, pricing, COALESCE(feedback, '')
		FROM vendor_performance
		WHERE vendor_id = ?
		ORDER BY evaluation_date DESC, performance_id DESC`,
		vendorID)
	metrics.RecordDBQuery("select", "vendor_performance", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer closeQuietly(rows)

	var result []models.PerformanceEvaluation
	for rows.Next() {
		var e models.PerformanceEvaluation
		if err := rows.Scan(
			&e.EvaluationID, &e.VendorID, &e.EvaluationDate,
			&e.ServiceQuality, &e.Timeliness, &e.Pricing, &e.Feedback,
		); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("evaluation iteration failed: %w", err)
	}

	return result, nil
}
