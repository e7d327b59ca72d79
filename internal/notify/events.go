// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

// Package notify carries in-process notification events from the API
// handlers to a consumer that persists them as notification rows.
// Publishing is fire-and-forget: a handler never fails its request
// because a notification could not be produced.
package notify

import (
	"time"

	json "github.com/goccy/go-json"
)

// TopicNotifications is the pub/sub topic all notification events
// travel on.
const TopicNotifications = "notifications"

// Event kinds. The kind is stored on the notification row and drives
// presentation in the UI.
const (
	KindVendorRegistered = "vendor_registered"
	KindBudgetAdjusted   = "budget_adjusted"
	KindVendorDeleted    = "vendor_deleted"
)

// Event is one notification-worthy occurrence.
type Event struct {
	Kind       string    `json:"kind"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps an event with the current time.
func NewEvent(kind, message string) Event {
	return Event{
		Kind:       kind,
		Message:    message,
		OccurredAt: time.Now().UTC(),
	}
}

// Marshal serializes the event for the wire.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEvent decodes an event from a message payload.
func UnmarshalEvent(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}
