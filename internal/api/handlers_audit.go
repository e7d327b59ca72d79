// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package api

import (
	"net/http"
	"strconv"

	"github.com/vendorhub/vendorhub/internal/audit"
)

// auditLogsResponse pairs the page of events with the total count so
// the admin UI can paginate.
type auditLogsResponse struct {
	Events []audit.Event `json:"events"`
	Total  int64         `json:"total"`
}

// AuditLogs serves the audit trail, newest first. Supports action,
// limit, and offset query parameters.
func (h *Handlers) AuditLogs(w http.ResponseWriter, r *http.Request) {
	filter := audit.DefaultQueryFilter()

	query := r.URL.Query()
	for _, action := range query["action"] {
		filter.Actions = append(filter.Actions, audit.Action(action))
	}
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondMessage(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = parsed
	}
	if raw := query.Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondMessage(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		filter.Offset = parsed
	}

	events, err := h.auditLog.Query(r.Context(), filter)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	total, err := h.auditLog.Count(r.Context(), filter)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, auditLogsResponse{
		Events: events,
		Total:  total,
	})
}
