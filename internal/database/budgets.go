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

// ListBudgets returns all budgets joined with department names.
// Amounts come back as strings straight from the DECIMAL columns.
func (db *DB) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT b.budget_id, b.department_id, d.department_name,
		       CAST(b.allocated_amount AS VARCHAR), CAST(b.spent_amount AS VARCHAR)
		FROM budgets b
		JOIN departments d ON d.department_id = b.department_id
		ORDER BY b.budget_id`)
	metrics.RecordDBQuery("select", "budgets", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer closeQuietly(rows)

	var result []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(
			&b.BudgetID, &b.DepartmentID, &b.DepartmentName,
			&b.AllocatedAmount, &b.SpentAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("budget iteration failed: %w", err)
	}

	return result, nil
}

// GetBudget returns one budget row. Returns ErrBudgetNotFound when absent.
func (db *DB) GetBudget(ctx context.Context, budgetID int64) (*models.Budget, error) {
	start := time.Now()

	var b models.Budget
	err := db.conn.QueryRowContext(ctx, `
		SELECT b.budget_id, b.department_id, d.department_name,
		       CAST(b.allocated_amount AS VARCHAR), CAST(b.spent_amount AS VARCHAR)
		FROM budgets b
		JOIN departments d ON d.department_id = b.department_id
		WHERE b.budget_id = ?`,
		budgetID,
	).Scan(&b.BudgetID, &b.DepartmentID, &b.DepartmentName, &b.AllocatedAmount, &b.SpentAmount)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("select", "budgets", start, nil)
		return nil, ErrBudgetNotFound
	}
	metrics.RecordDBQuery("select", "budgets", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}

	return &b, nil
}

// AdjustBudget adds adjustment (a decimal string, possibly negative) to a
// budget's allocated amount. Returns ErrBudgetNotFound when the budget
// does not exist; the existence check runs before the write so a bad ID
// has no side effects.
func (db *DB) AdjustBudget(ctx context.Context, budgetID int64, adjustment string) error {
	if _, err := db.GetBudget(ctx, budgetID); err != nil {
		return err
	}

	start := time.Now()

	_, err := db.conn.ExecContext(ctx, `
		UPDATE budgets
		SET allocated_amount = allocated_amount + CAST(? AS DECIMAL(18,2))
		WHERE budget_id = ?`,
		adjustment, budgetID)
	metrics.RecordDBQuery("update", "budgets", start, err)
	if err != nil {
		return fmt.Errorf("failed to adjust budget: %w", err)
	}

	return nil
}
