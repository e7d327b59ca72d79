// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vendorhub/vendorhub/internal/config"
	"github.com/vendorhub/vendorhub/internal/models"
)

// newTestDB creates an in-memory database with the full schema.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "256MB",
		Threads:   1,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return db
}

func TestNewWithMinimalConfig(t *testing.T) {
	// Only the path set: the connection string must not carry empty
	// options like "max_memory=".
	db, err := New(&config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("New with minimal config failed: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	}()

	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestSeedDepartments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	departments, err := db.ListDepartments(ctx)
	if err != nil {
		t.Fatalf("ListDepartments failed: %v", err)
	}
	if len(departments) != len(defaultDepartments) {
		t.Fatalf("expected %d seeded departments, got %d", len(defaultDepartments), len(departments))
	}

	budgets, err := db.ListBudgets(ctx)
	if err != nil {
		t.Fatalf("ListBudgets failed: %v", err)
	}
	if len(budgets) != len(defaultDepartments) {
		t.Fatalf("expected one budget per department, got %d", len(budgets))
	}
	for _, b := range budgets {
		if b.AllocatedAmount != "0.00" {
			t.Errorf("budget %d: expected allocated amount 0.00, got %q", b.BudgetID, b.AllocatedAmount)
		}
	}
}

func TestVendorLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id, err := db.CreateVendor(ctx, &models.Vendor{
		Name:                     "Acme Corp",
		ServiceCategory:          "IT Services",
		ContactInfo:              "acme@example.com",
		ComplianceCertifications: "ISO-9001",
	})
	if err != nil {
		t.Fatalf("CreateVendor failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive vendor id, got %d", id)
	}

	exists, err := db.VendorExists(ctx, id)
	if err != nil {
		t.Fatalf("VendorExists failed: %v", err)
	}
	if !exists {
		t.Fatal("expected vendor to exist after creation")
	}

	exists, err = db.VendorExists(ctx, 999)
	if err != nil {
		t.Fatalf("VendorExists failed: %v", err)
	}
	if exists {
		t.Fatal("vendor 999 should not exist")
	}

	if err := db.DeleteVendor(ctx, id); err != nil {
		t.Fatalf("DeleteVendor failed: %v", err)
	}
	if err := db.DeleteVendor(ctx, id); !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound on second delete, got %v", err)
	}
}

func TestVendorDirectoryAverages(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rated, err := db.CreateVendor(ctx, &models.Vendor{
		Name: "Rated Vendor", ServiceCategory: "Logistics", ContactInfo: "rated@example.com",
	})
	if err != nil {
		t.Fatalf("CreateVendor failed: %v", err)
	}
	unrated, err := db.CreateVendor(ctx, &models.Vendor{
		Name: "Unrated Vendor", ServiceCategory: "Catering", ContactInfo: "unrated@example.com",
	})
	if err != nil {
		t.Fatalf("CreateVendor failed: %v", err)
	}

	for _, quality := range []float64{4.0, 5.0} {
		_, err := db.CreateEvaluation(ctx, &models.PerformanceEvaluation{
			VendorID:       rated,
			EvaluationDate: time.Now(),
			ServiceQuality: quality,
			Timeliness:     3.0,
			Pricing:        2.0,
			Feedback:       "fine",
		})
		if err != nil {
			t.Fatalf("CreateEvaluation failed: %v", err)
		}
	}

	rows, err := db.ListVendorDirectory(ctx)
	if err != nil {
		t.Fatalf("ListVendorDirectory failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 directory rows, got %d", len(rows))
	}

	byID := map[int64]models.VendorDirectoryRow{}
	for _, row := range rows {
		byID[row.VendorID] = row
	}

	if got := byID[rated].AvgServiceQuality; got != "4.5" {
		t.Errorf("rated vendor: expected average service quality 4.5, got %q", got)
	}
	if got := byID[unrated].AvgServiceQuality; got != "N/A" {
		t.Errorf("unrated vendor: expected N/A, got %q", got)
	}
}

func TestCreateEvaluationUnknownVendor(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.CreateEvaluation(ctx, &models.PerformanceEvaluation{
		VendorID:       999,
		EvaluationDate: time.Now(),
		ServiceQuality: 3,
		Timeliness:     3,
		Pricing:        3,
	})
	if !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}

	// No orphan row may exist.
	evals, err := db.ListEvaluations(ctx, 999)
	if err != nil {
		t.Fatalf("ListEvaluations failed: %v", err)
	}
	if len(evals) != 0 {
		t.Fatalf("expected no evaluations, got %d", len(evals))
	}
}

func TestAdjustBudget(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	budgets, err := db.ListBudgets(ctx)
	if err != nil {
		t.Fatalf("ListBudgets failed: %v", err)
	}
	target := budgets[0].BudgetID

	if err := db.AdjustBudget(ctx, target, "1500.50"); err != nil {
		t.Fatalf("AdjustBudget failed: %v", err)
	}

	b, err := db.GetBudget(ctx, target)
	if err != nil {
		t.Fatalf("GetBudget failed: %v", err)
	}
	if b.AllocatedAmount != "1500.50" {
		t.Errorf("expected allocated amount 1500.50, got %q", b.AllocatedAmount)
	}

	if err := db.AdjustBudget(ctx, 999, "10.00"); !errors.Is(err, ErrBudgetNotFound) {
		t.Fatalf("expected ErrBudgetNotFound, got %v", err)
	}
}

func TestContractReferentChecks(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	vendorID, err := db.CreateVendor(ctx, &models.Vendor{
		Name: "Contract Vendor", ServiceCategory: "Facilities", ContactInfo: "cv@example.com",
	})
	if err != nil {
		t.Fatalf("CreateVendor failed: %v", err)
	}

	_, err = db.CreateContract(ctx, &models.Contract{
		VendorID: 999, DepartmentID: 1,
		StartDate: "2026-01-01", EndDate: "2026-12-31", Status: "Active",
	})
	if !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}

	_, err = db.CreateContract(ctx, &models.Contract{
		VendorID: vendorID, DepartmentID: 999,
		StartDate: "2026-01-01", EndDate: "2026-12-31", Status: "Active",
	})
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}

	id, err := db.CreateContract(ctx, &models.Contract{
		VendorID: vendorID, DepartmentID: 1,
		StartDate: "2026-01-01", EndDate: "2026-12-31", Status: "Active",
	})
	if err != nil {
		t.Fatalf("CreateContract failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive contract id, got %d", id)
	}

	rows, err := db.ListContracts(ctx)
	if err != nil {
		t.Fatalf("ListContracts failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 contract, got %d", len(rows))
	}
	if rows[0].VendorName != "Contract Vendor" {
		t.Errorf("expected joined vendor name, got %q", rows[0].VendorName)
	}
}

func TestUserUniqueEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$abcdefghijklmnopqrstuv",
		Role:         models.RoleManager,
	}

	if _, err := db.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := db.CreateUser(ctx, u); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	got, err := db.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.Role != models.RoleManager {
		t.Errorf("expected role %d, got %d", models.RoleManager, got.Role)
	}

	if _, err := db.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
