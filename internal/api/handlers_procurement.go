// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package api

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vendorhub/vendorhub/internal/audit"
	"github.com/vendorhub/vendorhub/internal/auth"
	"github.com/vendorhub/vendorhub/internal/middleware"
	"github.com/vendorhub/vendorhub/internal/models"
	"github.com/vendorhub/vendorhub/internal/notify"
)

// signedMoneyPattern accepts budget adjustments in either direction,
// unlike the money validator which is for absolute amounts.
var signedMoneyPattern = regexp.MustCompile(`^-?\d+(\.\d{1,2})?$`)

// Contracts serves contracts joined with vendor and department names.
func (h *Handlers) Contracts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.ListContracts(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// Departments serves the department list for form dropdowns.
func (h *Handlers) Departments(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.ListDepartments(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

type addContractRequest struct {
	VendorID     int64  `json:"VendorID" validate:"required,min=1"`
	DepartmentID int64  `json:"DepartmentID" validate:"required,min=1"`
	StartDate    string `json:"StartDate" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"EndDate" validate:"required,datetime=2006-01-02"`
	Status       string `json:"Status" validate:"required,max=50"`
}

// AddContract creates a contract. Both referents must exist.
func (h *Handlers) AddContract(w http.ResponseWriter, r *http.Request) {
	var req addContractRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contract := &models.Contract{
		VendorID:     req.VendorID,
		DepartmentID: req.DepartmentID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       req.Status,
	}

	if _, err := h.db.CreateContract(r.Context(), contract); err != nil {
		respondStoreError(w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Contract added successfully")
}

// Budgets serves department budgets with amounts as strings.
func (h *Handlers) Budgets(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.ListBudgets(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

type adjustBudgetRequest struct {
	BudgetID         int64       `json:"BudgetID" validate:"required,min=1"`
	AdjustmentAmount json.Number `json:"AdjustmentAmount" validate:"required"`
}

// AdjustBudget applies a signed adjustment to a budget's allocation.
// The budget must exist; a missing referent has no side effects.
func (h *Handlers) AdjustBudget(w http.ResponseWriter, r *http.Request) {
	var req adjustBudgetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	amount := req.AdjustmentAmount.String()
	if !signedMoneyPattern.MatchString(amount) {
		respondMessage(w, http.StatusBadRequest,
			"AdjustmentAmount must be an amount with at most two decimal places")
		return
	}

	if err := h.db.AdjustBudget(r.Context(), req.BudgetID, amount); err != nil {
		respondStoreError(w, err)
		return
	}

	session := auth.SessionFromContext(r.Context())
	h.auditLog.Log(&audit.Event{
		Action:      audit.ActionBudgetAdjust,
		Outcome:     audit.OutcomeSuccess,
		Actor:       actorFromSession(session),
		Source:      audit.SourceFromRequest(r),
		Description: fmt.Sprintf("Adjusted budget %d by %s", req.BudgetID, amount),
		RequestID:   middleware.GetRequestID(r.Context()),
	})
	h.notifier.Publish(r.Context(), notify.NewEvent(
		notify.KindBudgetAdjusted,
		fmt.Sprintf("Budget %d adjusted by %s", req.BudgetID, amount),
	))

	respondMessage(w, http.StatusOK, "Budget adjusted successfully")
}

// PurchaseOrders serves purchase orders with vendor names.
func (h *Handlers) PurchaseOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.ListPurchaseOrders(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

type createPurchaseOrderRequest struct {
	VendorID     int64       `json:"VendorID" validate:"required,min=1"`
	OrderDate    string      `json:"OrderDate" validate:"omitempty,datetime=2006-01-02"`
	DeliveryDate string      `json:"DeliveryDate" validate:"omitempty,datetime=2006-01-02"`
	TotalAmount  json.Number `json:"TotalAmount" validate:"required,money"`
	Status       string      `json:"Status" validate:"max=50"`
}

// CreatePurchaseOrder places an order against an existing vendor.
func (h *Handlers) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	orderDate := req.OrderDate
	if orderDate == "" {
		orderDate = time.Now().Format("2006-01-02")
	}
	status := req.Status
	if status == "" {
		status = "Pending"
	}

	po := &models.PurchaseOrder{
		VendorID:    req.VendorID,
		OrderDate:   orderDate,
		TotalAmount: req.TotalAmount.String(),
		Status:      status,
	}
	if req.DeliveryDate != "" {
		po.DeliveryDate = &req.DeliveryDate
	}

	if _, err := h.db.CreatePurchaseOrder(r.Context(), po); err != nil {
		respondStoreError(w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Purchase order created successfully")
}
