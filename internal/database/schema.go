// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

/*
schema.go - Database Schema Management

This file manages the DuckDB schema: sequences, table creation, index
management, and seed rows.

Tables:
  - users: authentication accounts with bcrypt password hashes
  - vendors: registered vendors with compliance certifications
  - vendor_performance: per-vendor evaluation records (0-5 ratings)
  - departments: organisational units referenced by contracts and budgets
  - budgets: per-department allocated and spent amounts
  - contracts: vendor/department agreements with date ranges
  - purchase_orders: vendor orders with amounts and status
  - notifications: rows produced by the internal event bus

Schema Strategy:
All columns are defined in the initial CREATE TABLE statements. DuckDB has
no AUTO_INCREMENT, so surrogate keys draw from explicit sequences.

Seed Strategy:
Departments (and an empty budget row per department) are seeded once when
the departments table is empty, so contract and budget endpoints work out
of the box on a fresh database.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createSequences creates the surrogate key sequences
func (db *DB) createSequences() error {
	ctx, cancel := schemaContext()
	defer cancel()

	sequences := []string{
		"CREATE SEQUENCE IF NOT EXISTS seq_user_id START 1",
		"CREATE SEQUENCE IF NOT EXISTS seq_vendor_id START 1",
		"CREATE SEQUENCE IF NOT EXISTS seq_performance_id START 1",
		"CREATE SEQUENCE IF NOT EXISTS seq_department_id START 1",
		"CREATE SEQUENCE IF NOT EXISTS seq_budget_id START 1",
		"CREATE SEQUENCE IF NOT EXISTS seq_contract_id START 1",
		"CREATE SEQUENCE IF NOT EXISTS seq_purchase_order_id START 1",
		"CREATE SEQUENCE IF NOT EXISTS seq_notification_id START 1",
	}

	for _, query := range sequences {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create sequence: %s: %w", query, err)
		}
	}

	return nil
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY DEFAULT nextval('seq_user_id'),
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role_id INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS vendors (
			vendor_id INTEGER PRIMARY KEY DEFAULT nextval('seq_vendor_id'),
			name TEXT NOT NULL,
			service_category TEXT NOT NULL,
			contact_info TEXT NOT NULL,
			compliance_certifications TEXT,
			performance_rating DOUBLE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS vendor_performance (
			performance_id INTEGER PRIMARY KEY DEFAULT nextval('seq_performance_id'),
			vendor_id INTEGER NOT NULL,
			evaluation_date DATE NOT NULL,
			service_quality DOUBLE NOT NULL,
			timeliness DOUBLE NOT NULL,
			pricing DOUBLE NOT NULL,
			feedback TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS departments (
			department_id INTEGER PRIMARY KEY DEFAULT nextval('seq_department_id'),
			department_name TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS budgets (
			budget_id INTEGER PRIMARY KEY DEFAULT nextval('seq_budget_id'),
			department_id INTEGER NOT NULL,
			allocated_amount DECIMAL(18,2) NOT NULL DEFAULT 0,
			spent_amount DECIMAL(18,2) NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS contracts (
			contract_id INTEGER PRIMARY KEY DEFAULT nextval('seq_contract_id'),
			vendor_id INTEGER NOT NULL,
			department_id INTEGER NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			status TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS purchase_orders (
			purchase_order_id INTEGER PRIMARY KEY DEFAULT nextval('seq_purchase_order_id'),
			vendor_id INTEGER NOT NULL,
			order_date DATE NOT NULL,
			delivery_date DATE,
			total_amount DECIMAL(18,2) NOT NULL,
			status TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			notification_id INTEGER PRIMARY KEY DEFAULT nextval('seq_notification_id'),
			user_id INTEGER,
			message TEXT NOT NULL,
			kind TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			read BOOLEAN DEFAULT FALSE
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// createIndexes creates indexes for frequently filtered columns
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_performance_vendor ON vendor_performance(vendor_id)",
		"CREATE INDEX IF NOT EXISTS idx_contracts_vendor ON contracts(vendor_id)",
		"CREATE INDEX IF NOT EXISTS idx_contracts_department ON contracts(department_id)",
		"CREATE INDEX IF NOT EXISTS idx_budgets_department ON budgets(department_id)",
		"CREATE INDEX IF NOT EXISTS idx_po_vendor ON purchase_orders(vendor_id)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at)",
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}

	return nil
}

// defaultDepartments are seeded on first start so contract and budget
// workflows have referents before any admin configuration.
var defaultDepartments = []string{
	"IT",
	"Operations",
	"Finance",
	"Human Resources",
	"Marketing",
}

// seedDepartments inserts the default departments and one budget row per
// department, only when the departments table is empty.
func (db *DB) seedDepartments() error {
	ctx, cancel := schemaContext()
	defer cancel()

	var count int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM departments").Scan(&count); err != nil {
		return fmt.Errorf("failed to count departments: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, name := range defaultDepartments {
		var deptID int
		err := tx.QueryRowContext(ctx,
			"INSERT INTO departments (department_name) VALUES (?) RETURNING department_id",
			name,
		).Scan(&deptID)
		if err != nil {
			return fmt.Errorf("failed to seed department %q: %w", name, err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO budgets (department_id, allocated_amount, spent_amount) VALUES (?, 0, 0)",
			deptID,
		)
		if err != nil {
			return fmt.Errorf("failed to seed budget for %q: %w", name, err)
		}
	}

	return tx.Commit()
}
