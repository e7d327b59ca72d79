// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package api

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/vendorhub/vendorhub/internal/database"
	"github.com/vendorhub/vendorhub/internal/logging"
	"github.com/vendorhub/vendorhub/internal/models"
	"github.com/vendorhub/vendorhub/internal/validation"
)

// maxBodyBytes caps request bodies; every write endpoint carries a
// small JSON document.
const maxBodyBytes = 1 << 20

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// respondMessage writes the {"message": ...} body shared by simple
// outcomes and errors.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.MessageResponse{Message: message})
}

// decodeAndValidate decodes the request body and runs struct
// validation, writing the 400 response itself on failure. Returns true
// when the handler may proceed.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		respondMessage(w, http.StatusBadRequest, verr.Error())
		return false
	}
	return true
}

// respondStoreError maps data-store failures onto the API error
// contract: referent-not-found sentinels become 400 with the sentinel
// text, everything else is a generic 500 with the detail kept in the
// operational log.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrVendorNotFound),
		errors.Is(err, database.ErrDepartmentNotFound),
		errors.Is(err, database.ErrBudgetNotFound):
		respondMessage(w, http.StatusBadRequest, err.Error())
	default:
		logging.Error().Err(err).Msg("Data store operation failed")
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
