// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

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

// DepartmentExists reports whether a department with the given ID exists.
func (db *DB) DepartmentExists(ctx context.Context, departmentID int64) (bool, error) {
	start := time.Now()

	var one int
	err := db.conn.QueryRowContext(ctx,
		"SELECT 1 FROM departments WHERE department_id = ?", departmentID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("select", "departments", start, nil)
		return false, nil
	}
	metrics.RecordDBQuery("select", "departments", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to check department existence: %w", err)
	}

	return true, nil
}

// ListDepartments returns all departments ordered by name.
func (db *DB) ListDepartments(ctx context.Context) ([]models.Department, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx,
		"SELECT department_id, department_name FROM departments ORDER BY department_name")
	metrics.RecordDBQuery("select", "departments", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer closeQuietly(rows)

	var result []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.DepartmentID, &d.DepartmentName); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("department iteration failed: %w", err)
	}

	return result, nil
}

// CreateContract inserts a contract after verifying both referents exist.
// Returns ErrVendorNotFound or ErrDepartmentNotFound for bad references.
func (db *DB) CreateContract(ctx context.Context, c *models.Contract) (int64, error) {
	vendorOK, err := db.VendorExists(ctx, c.VendorID)
	if err != nil {
		return 0, err
	}
	if !vendorOK {
		return 0, ErrVendorNotFound
	}

	deptOK, err := db.DepartmentExists(ctx, c.DepartmentID)
	if err != nil {
		return 0, err
	}
	if !deptOK {
		return 0, ErrDepartmentNotFound
	}

	start := time.Now()

	var id int64
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO contracts (vendor_id, department_id, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?)
		RETURNING contract_id`,
		c.VendorID, c.DepartmentID, c.StartDate, c.EndDate, c.Status,
	).Scan(&id)
	metrics.RecordDBQuery("insert", "contracts", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to insert contract: %w", err)
	}

	return id, nil
}

// ListContracts returns all contracts joined with vendor and department names.
func (db *DB) ListContracts(ctx context.Context) ([]models.ContractRow, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT c.contract_id, v.name, d.department_name,
		       CAST(c.start_date AS VARCHAR), CAST(c.end_date AS VARCHAR), c.status
		FROM contracts c
		JOIN vendors v ON v.vendor_id = c.vendor_id
		JOIN departments d ON d.department_id = c.department_id
		ORDER BY c.contract_id`)
	metrics.RecordDBQuery("select", "contracts", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer closeQuietly(rows)

	var result []models.ContractRow
	for rows.Next() {
		var row models.ContractRow
		if err := rows.Scan(
			&row.ContractID, &row.VendorName, &row.DepartmentName,
			&row.StartDate, &row.EndDate, &row.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("contract iteration failed: %w", err)
	}

	return result, nil
}
