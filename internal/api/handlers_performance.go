// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vendorhub/vendorhub/internal/audit"
	"github.com/vendorhub/vendorhub/internal/auth"
	"github.com/vendorhub/vendorhub/internal/middleware"
	"github.com/vendorhub/vendorhub/internal/models"
)

// Rating fields accept the inclusive range [0, 5]. A zero rating is a
// legitimate score, so the fields are pointers: required rejects an
// absent rating while still admitting an explicit 0.
type evaluatePerformanceRequest struct {
	VendorID       int64    `json:"VendorID" validate:"required,min=1"`
	EvaluationDate string   `json:"EvaluationDate" validate:"omitempty,datetime=2006-01-02"`
	ServiceQuality *float64 `json:"ServiceQuality" validate:"required,min=0,max=5"`
	Timeliness     *float64 `json:"Timeliness" validate:"required,min=0,max=5"`
	Pricing        *float64 `json:"Pricing" validate:"required,min=0,max=5"`
	Feedback       string   `json:"Feedback" validate:"max=2000"`
}

// EvaluatePerformance records a vendor evaluation. The vendor must
// exist; a missing referent is a client error with no side effects.
func (h *Handlers) EvaluatePerformance(w http.ResponseWriter, r *http.Request) {
	var req evaluatePerformanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	evalDate := time.Now()
	if req.EvaluationDate != "" {
		// Format is already validated; Parse cannot fail here.
		evalDate, _ = time.Parse("2006-01-02", req.EvaluationDate)
	}

	eval := &models.PerformanceEvaluation{
		VendorID:       req.VendorID,
		EvaluationDate: evalDate,
		ServiceQuality: *req.ServiceQuality,
		Timeliness:     *req.Timeliness,
		Pricing:        *req.Pricing,
		Feedback:       req.Feedback,
	}

	id, err := h.db.CreateEvaluation(r.Context(), eval)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	session := auth.SessionFromContext(r.Context())
	h.auditLog.Log(&audit.Event{
		Action:      audit.ActionPerformanceEval,
		Outcome:     audit.OutcomeSuccess,
		Actor:       actorFromSession(session),
		Source:      audit.SourceFromRequest(r),
		Description: fmt.Sprintf("Evaluated vendor %d (evaluation %d)", req.VendorID, id),
		RequestID:   middleware.GetRequestID(r.Context()),
	})

	respondMessage(w, http.StatusCreated, "Performance evaluation recorded successfully")
}
