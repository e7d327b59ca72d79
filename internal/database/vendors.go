// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

/*
vendors.go - Vendor CRUD Operations

Vendor registration, the directory listing with aggregated evaluation
averages, the id+name reference list, existence checks, and deletion.

Deletion removes the vendor together with its dependent performance,
contract, and purchase order rows in one transaction so no dangling
references survive.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vendorhub/vendorhub/internal/metrics"
	"github.com/vendorhub/vendorhub/internal/models"
)

// CreateVendor inserts a new vendor and returns its assigned ID.
func (db *DB) CreateVendor(ctx context.Context, v *models.Vendor) (int64, error) {
	start := time.Now()

	var id int64
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO vendors (name, service_category, contact_info, compliance_certifications)
		VALUES (?, ?, ?, ?)
		RETURNING vendor_id`,
		v.Name, v.ServiceCategory, v.ContactInfo, v.ComplianceCertifications,
	).Scan(&id)
	metrics.RecordDBQuery("insert", "vendors", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to insert vendor: %w", err)
	}

	return id, nil
}

// VendorExists reports whether a vendor with the given ID exists.
func (db *DB) VendorExists(ctx context.Context, vendorID int64) (bool, error) {
	start := time.Now()

	var one int
	err := db.conn.QueryRowContext(ctx,
		"SELECT 1 FROM vendors WHERE vendor_id = ?", vendorID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("select", "vendors", start, nil)
		return false, nil
	}
	metrics.RecordDBQuery("select", "vendors", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to check vendor existence: %w", err)
	}

	return true, nil
}

// ListVendorDirectory returns all vendors joined with their average
// evaluation scores. Vendors without evaluations report "N/A" averages.
func (db *DB) ListVendorDirectory(ctx context.Context) ([]models.VendorDirectoryRow, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			v.vendor_id,
			v.name,
			v.service_category,
			v.contact_info,
			COALESCE(v.compliance_certifications, ''),
			IFNULL(CAST(ROUND(AVG(p.service_quality), 2) AS VARCHAR), 'N/A') AS avg_service_quality,
			IFNULL(CAST(ROUND(AVG(p.timeliness), 2) AS VARCHAR), 'N/A') AS avg_timeliness,
			IFNULL(CAST(ROUND(AVG(p.pricing), 2) AS VARCHAR), 'N/A') AS avg_pricing,
			CAST(v.performance_rating AS VARCHAR)
		FROM vendors v
		LEFT JOIN vendor_performance p ON p.vendor_id = v.vendor_id
		GROUP BY v.vendor_id, v.name, v.service_category, v.contact_info,
		         v.compliance_certifications, v.performance_rating
		ORDER BY v.vendor_id`)
	metrics.RecordDBQuery("select", "vendors", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendor directory: %w", err)
	}
	defer closeQuietly(rows)

	var result []models.VendorDirectoryRow
	for rows.Next() {
		var row models.VendorDirectoryRow
		var rating sql.NullString
		if err := rows.Scan(
			&row.VendorID, &row.Name, &row.ServiceCategory, &row.ContactInfo,
			&row.ComplianceCertifications,
			&row.AvgServiceQuality, &row.AvgTimeliness, &row.AvgPricing,
			&rating,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vendor row: %w", err)
		}
		if rating.Valid {
			row.PerformanceRating = &rating.String
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vendor directory iteration failed: %w", err)
	}

	return result, nil
}

// ListVendorRefs returns id+name pairs for every vendor, ordered by name.
func (db *DB) ListVendorRefs(ctx context.Context) ([]models.VendorRef, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx,
		"SELECT vendor_id, name FROM vendors ORDER BY name")
	metrics.RecordDBQuery("select", "vendors", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendor refs: %w", err)
	}
	defer closeQuietly(rows)

	var result []models.VendorRef
	for rows.Next() {
		var ref models.VendorRef
		if err := rows.Scan(&ref.VendorID, &ref.Name); err != nil {
			return nil, fmt.Errorf("failed to scan vendor ref: %w", err)
		}
		result = append(result, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vendor ref iteration failed: %w", err)
	}

	return result, nil
}

// DeleteVendor removes a vendor and all rows that reference it.
// Returns ErrVendorNotFound when the vendor does not exist.
func (db *DB) DeleteVendor(ctx context.Context, vendorID int64) error {
	exists, err := db.VendorExists(ctx, vendorID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrVendorNotFound
	}

	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	dependents := []string{
		"DELETE FROM vendor_performance WHERE vendor_id = ?",
		"DELETE FROM contracts WHERE vendor_id = ?",
		"DELETE FROM purchase_orders WHERE vendor_id = ?",
		"DELETE FROM vendors WHERE vendor_id = ?",
	}
	for _, query := range dependents {
		if _, err := tx.ExecContext(ctx, query, vendorID); err != nil {
			metrics.RecordDBQuery("delete", "vendors", start, err)
			return fmt.Errorf("failed to delete vendor rows: %w", err)
		}
	}

	err = tx.Commit()
	metrics.RecordDBQuery("delete", "vendors", start, err)
	if err != nil {
		return fmt.Errorf("failed to commit vendor delete: %w", err)
	}

	return nil
}
