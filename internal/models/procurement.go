// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package models

import "time"

// Contract links a vendor to a department for a period of time.
type Contract struct {
	ContractID   int64  `json:"ContractID"`
	VendorID     int64  `json:"VendorID"`
	DepartmentID int64  `json:"DepartmentID"`
	StartDate    string `json:"StartDate"`
	EndDate      string `json:"EndDate"`
	Status       string `json:"Status"`
}

// ContractRow is a contract joined with vendor and department names for
// the listing endpoint.
type ContractRow struct {
	ContractID     int64  `json:"ContractID"`
	VendorName     string `json:"VendorName"`
	DepartmentName string `json:"DepartmentName"`
	StartDate      string `json:"StartDate"`
	EndDate        string `json:"EndDate"`
	Status         string `json:"Status"`
}

// Department is a cost center that owns contracts and budgets.
type Department struct {
	DepartmentID   int64  `json:"DepartmentID"`
	DepartmentName string `json:"DepartmentName"`
}

// Budget tracks allocation and spend for a department.
// Amounts are DECIMAL in storage and serialized as strings so that the
// client never sees floating-point artifacts in money values.
type Budget struct {
	BudgetID        int64  `json:"BudgetID"`
	DepartmentID    int64  `json:"DepartmentID"`
	DepartmentName  string `json:"DepartmentName,omitempty"`
	AllocatedAmount string `json:"AllocatedAmount"`
	SpentAmount     string `json:"SpentAmount"`
}

// PurchaseOrder is an order placed against a vendor.
type PurchaseOrder struct {
	OrderID      int64   `json:"OrderID"`
	VendorID     int64   `json:"VendorID"`
	VendorName   string  `json:"VendorName,omitempty"`
	OrderDate    string  `json:"OrderDate"`
	DeliveryDate *string `json:"DeliveryDate"`
	TotalAmount  string  `json:"TotalAmount"`
	Status       string  `json:"Status"`
}

// Notification is a row in the notification feed. Rows are written by the
// notify subscriber in response to mutation events and read by
// /api/notifications.
type Notification struct {
	NotificationID int64     `json:"NotificationID"`
	Message        string    `json:"Message"`
	Kind           string    `json:"Kind"`
	CreatedAt      time.Time `json:"CreatedAt"`
	Read           bool      `json:"Read"`
}
