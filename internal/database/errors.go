// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package database

import "errors"

// Sentinel errors returned by data access methods. Handlers map these to
// 400 responses with "... does not exist" messages; any other error is a
// store failure and maps to a generic 500.
var (
	ErrVendorNotFound     = errors.New("vendor does not exist")
	ErrDepartmentNotFound = errors.New("department does not exist")
	ErrBudgetNotFound     = errors.New("budget does not exist")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
)
