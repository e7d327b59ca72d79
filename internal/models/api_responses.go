// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package models

// MessageResponse is the generic JSON body for simple outcomes and errors:
// {"message": "..."}.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse is returned by POST /login on success.
// Role is the numeric identifier (1-5); RedirectURL is the role's landing
// page.
type LoginResponse struct {
	Success     bool   `json:"success"`
	Role        RoleID `json:"role"`
	RoleName    string `json:"roleName"`
	RedirectURL string `json:"redirectUrl"`
}

// SessionUser is the session summary exposed by /api/check-session.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     RoleID `json:"role"`
	RoleName string `json:"roleName"`
}

// CheckSessionResponse is returned by GET /api/check-session.
type CheckSessionResponse struct {
	LoggedIn bool         `json:"loggedIn"`
	User     *SessionUser `json:"user,omitempty"`
}

// OutcomeResponse is returned by endpoints that report success plus a
// descriptive message, such as POST /api/delete-vendor.
type OutcomeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
