// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package api

import (
	"net/http"
	"strconv"
)

// Notifications serves the notification feed, newest first. An
// optional limit query parameter caps the result.
func (h *Handlers) Notifications(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondMessage(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	rows, err := h.db.ListNotifications(r.Context(), limit)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// MarkNotificationsRead marks the whole feed as read.
func (h *Handlers) MarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.db.MarkNotificationsRead(r.Context()); err != nil {
		respondStoreError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Notifications marked as read")
}
