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
	"strings"
	"time"

	"github.com/vendorhub/vendorhub/internal/metrics"
	"github.com/vendorhub/vendorhub/internal/models"
)

// CreateUser inserts an account row. The password must already be a
// bcrypt hash. Returns ErrEmailTaken when the email is registered.
func (db *DB) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	// Pre-check gives a clean error; the UNIQUE constraint still backstops
	// concurrent signups.
	taken, err := db.emailExists(ctx, u.Email)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrEmailTaken
	}

	start := time.Now()

	var id int64
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, role_id)
		VALUES (?, ?, ?, ?)
		RETURNING user_id`,
		u.Username, u.Email, u.PasswordHash, int(u.Role),
	).Scan(&id)
	metrics.RecordDBQuery("insert", "users", start, err)
	if err != nil {
		if strings.Contains(err.Error(), "Constraint") || strings.Contains(err.Error(), "unique") {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	return id, nil
}

// GetUserByEmail returns the account for an email address.
// Returns ErrUserNotFound when no account matches.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()

	var u models.User
	var roleID int
	err := db.conn.QueryRowContext(ctx, `
		SELECT user_id, username, email, password_hash, role_id, created_at
		FROM users
		WHERE email = ?`,
		email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &roleID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("select", "users", start, nil)
		return nil, ErrUserNotFound
	}
	metrics.RecordDBQuery("select", "users", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	u.Role = models.RoleID(roleID)
	return &u, nil
}

// emailExists reports whether an account with the email already exists.
func (db *DB) emailExists(ctx context.Context, email string) (bool, error) {
	start := time.Now()

	var one int
	err := db.conn.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE email = ?", email,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("select", "users", start, nil)
		return false, nil
	}
	metrics.RecordDBQuery("select", "users", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	return true, nil
}
