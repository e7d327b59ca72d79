// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package models

import "time"

// Vendor is a registered supplier.
type Vendor struct {
	VendorID                 int64   `json:"VendorID"`
	Name                     string  `json:"Name"`
	ServiceCategory          string  `json:"ServiceCategory"`
	ContactInfo              string  `json:"ContactInfo"`
	ComplianceCertifications string  `json:"ComplianceCertifications"`
	PerformanceRating        *string `json:"PerformanceRating"`
}

// VendorDirectoryRow is a vendor joined with its average evaluation scores
// for the directory listing. Averages are serialized as strings with "N/A"
// standing in for vendors that have never been evaluated, matching the
// table rendering contract of the frontend.
type VendorDirectoryRow struct {
	VendorID                 int64   `json:"VendorID"`
	Name                     string  `json:"Name"`
	ServiceCategory          string  `json:"ServiceCategory"`
	ContactInfo              string  `json:"ContactInfo"`
	ComplianceCertifications string  `json:"ComplianceCertifications"`
	AvgServiceQuality        string  `json:"AvgServiceQuality"`
	AvgTimeliness            string  `json:"AvgTimeliness"`
	AvgPricing               string  `json:"AvgPricing"`
	PerformanceRating        *string `json:"PerformanceRating"`
}

// VendorRef is the minimal id+name pair served to autocomplete widgets.
type VendorRef struct {
	VendorID int64  `json:"VendorID"`
	Name     string `json:"Name"`
}

// PerformanceEvaluation is one evaluation of a vendor. Ratings are
// constrained to [0, 5] inclusive at the API boundary.
type PerformanceEvaluation struct {
	EvaluationID   int64     `json:"EvaluationID"`
	VendorID       int64     `json:"VendorID"`
	EvaluationDate time.Time `json:"EvaluationDate"`
	ServiceQuality float64   `json:"ServiceQuality"`
	Timeliness     float64   `json:"Timeliness"`
	Pricing        float64   `json:"Pricing"`
	Feedback       string    `json:"Feedback"`
}
