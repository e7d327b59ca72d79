// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vendorhub/vendorhub/internal/audit"
	"github.com/vendorhub/vendorhub/internal/auth"
	"github.com/vendorhub/vendorhub/internal/middleware"
	"github.com/vendorhub/vendorhub/internal/models"
	"github.com/vendorhub/vendorhub/internal/notify"
)

type registerVendorRequest struct {
	Name                     string `json:"Name" validate:"required,max=200"`
	ServiceCategory          string `json:"ServiceCategory" validate:"required,max=100"`
	ContactInfo              string `json:"ContactInfo" validate:"required,max=255"`
	ComplianceCertifications string `json:"ComplianceCertifications" validate:"required,iso_cert"`
}

// RegisterVendor creates a vendor, audits the registration, and emits
// a notification event.
func (h *Handlers) RegisterVendor(w http.ResponseWriter, r *http.Request) {
	var req registerVendorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	vendor := &models.Vendor{
		Name:                     req.Name,
		ServiceCategory:          req.ServiceCategory,
		ContactInfo:              req.ContactInfo,
		ComplianceCertifications: req.ComplianceCertifications,
	}

	id, err := h.db.CreateVendor(r.Context(), vendor)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	session := auth.SessionFromContext(r.Context())
	h.auditLog.Log(&audit.Event{
		Action:      audit.ActionVendorRegister,
		Outcome:     audit.OutcomeSuccess,
		Actor:       actorFromSession(session),
		Source:      audit.SourceFromRequest(r),
		Description: fmt.Sprintf("Registered vendor %q (id %d)", req.Name, id),
		RequestID:   middleware.GetRequestID(r.Context()),
	})
	h.notifier.Publish(r.Context(), notify.NewEvent(
		notify.KindVendorRegistered,
		fmt.Sprintf("New vendor registered: %s", req.Name),
	))

	respondMessage(w, http.StatusCreated, "Vendor registered successfully")
}

// Vendors serves the vendor directory with average evaluation scores.
func (h *Handlers) Vendors(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.ListVendorDirectory(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// VendorsList serves id+name pairs for form dropdowns.
func (h *Handlers) VendorsList(w http.ResponseWriter, r *http.Request) {
	refs, err := h.db.ListVendorRefs(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, refs)
}

type deleteVendorRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	VendorID int64  `json:"vendorID" validate:"required,min=1"`
}

// DeleteVendor removes a vendor and its dependent rows. The caller
// must re-authenticate with their current password; holding a valid
// session is not enough.
func (h *Handlers) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	var req deleteVendorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.auth.VerifyCredentials(r, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondJSON(w, http.StatusUnauthorized, models.OutcomeResponse{
				Success: false,
				Message: "Invalid credentials",
			})
			return
		}
		respondStoreError(w, err)
		return
	}

	if err := h.db.DeleteVendor(r.Context(), req.VendorID); err != nil {
		respondStoreError(w, err)
		return
	}

	h.auditLog.Log(&audit.Event{
		Action:      audit.ActionVendorDelete,
		Outcome:     audit.OutcomeSuccess,
		Actor:       audit.ActorFromUser(user.ID, user.Username, user.Role.Name()),
		Source:      audit.SourceFromRequest(r),
		Description: fmt.Sprintf("Deleted vendor %d", req.VendorID),
		RequestID:   middleware.GetRequestID(r.Context()),
	})
	h.notifier.Publish(r.Context(), notify.NewEvent(
		notify.KindVendorDeleted,
		fmt.Sprintf("Vendor %d deleted", req.VendorID),
	))

	respondJSON(w, http.StatusOK, models.OutcomeResponse{
		Success: true,
		Message: "Vendor deleted successfully",
	})
}

// actorFromSession builds an audit actor for the signed-in caller.
// The authorization gate guarantees a session on every route that
// records one.
func actorFromSession(session *auth.Session) audit.Actor {
	if session == nil {
		return audit.Actor{}
	}
	return audit.ActorFromUser(session.UserID, session.Username, session.Role.Name())
}
