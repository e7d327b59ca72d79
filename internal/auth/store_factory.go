// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package auth

import (
	"fmt"

	"github.com/vendorhub/vendorhub/internal/config"
	"github.com/vendorhub/vendorhub/internal/logging"
)

// NewSessionStore builds the session store selected by configuration.
// Config validation has already constrained the value to "memory" or
// "badger"; an unexpected value is a programming error.
func NewSessionStore(cfg *config.SecurityConfig) (SessionStore, error) {
	switch cfg.SessionStore {
	case "memory":
		logging.Info().Msg("Using in-memory session store")
		return NewMemorySessionStore(), nil
	case "badger":
		store, err := NewBadgerSessionStore(cfg.SessionStorePath)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("path", cfg.SessionStorePath).Msg("Using BadgerDB session store")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session store backend: %q", cfg.SessionStore)
	}
}
