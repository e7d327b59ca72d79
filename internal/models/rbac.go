// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

/*
rbac.go - Role-Based Access Control Models

This file defines the closed role enumeration used across the system.

Roles (identifiers 1-5, static reference data, never mutated at runtime):
  - Admin (1): full access to every page and endpoint
  - Manager (2): vendor and contract management, performance evaluation
  - Vendor (3): confined to the vendor portal page
  - Procurement (4): vendor registration, contracts, purchase orders
  - Finance (5): confined to the budget page

Confined roles (Vendor, Finance) are restricted to exactly one designated
page regardless of any per-route allow-list; see internal/authz.

Usage:
  - Policy evaluation in internal/authz/policy.go
  - Casbin allow-lists in internal/authz/policy.csv
  - Session records in internal/auth/session.go
*/

package models

import "time"

// RoleID identifies one of the closed set of roles.
type RoleID int

// Role identifiers. The numeric values are part of the login API contract
// (the login response carries the numeric role).
const (
	RoleAdmin       RoleID = 1
	RoleManager     RoleID = 2
	RoleVendor      RoleID = 3
	RoleProcurement RoleID = 4
	RoleFinance     RoleID = 5
)

// roleNames maps role identifiers to their canonical names.
// The names double as Casbin policy subjects.
var roleNames = map[RoleID]string{
	RoleAdmin:       "admin",
	RoleManager:     "manager",
	RoleVendor:      "vendor",
	RoleProcurement: "procurement",
	RoleFinance:     "finance",
}

// Name returns the canonical role name, or empty string for unknown IDs.
func (r RoleID) Name() string {
	return roleNames[r]
}

// Valid reports whether the identifier belongs to the closed role set.
// Sessions carrying an invalid role fail closed during policy evaluation.
func (r RoleID) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRoleID validates a raw role number from an untrusted source
// (signup form, session record).
func ParseRoleID(raw int) (RoleID, bool) {
	id := RoleID(raw)
	return id, id.Valid()
}

// LandingPage returns the page a role is sent to after login.
// Confined roles land on their designated page; everyone else on the
// dashboard.
func (r RoleID) LandingPage() string {
	switch r {
	case RoleVendor:
		return "/vendor.html"
	case RoleFinance:
		return "/budget.html"
	default:
		return "/"
	}
}

// User represents an account row. PasswordHash is a bcrypt hash and is
// never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         RoleID    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
