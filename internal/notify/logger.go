// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package notify

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	"github.com/vendorhub/vendorhub/internal/logging"
)

// loggerAdapter bridges Watermill's logging interface onto the
// application logger so pub/sub output shares the structured format.
type loggerAdapter struct {
	fields watermill.LogFields
}

// NewLoggerAdapter returns a watermill.LoggerAdapter backed by the
// application logger.
func NewLoggerAdapter() watermill.LoggerAdapter {
	return &loggerAdapter{}
}

func (l *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	event := logging.Error().Err(err)
	addFields(event, l.fields, fields)
	event.Msg(msg)
}

func (l *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	event := logging.Info()
	addFields(event, l.fields, fields)
	event.Msg(msg)
}

func (l *loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	event := logging.Debug()
	addFields(event, l.fields, fields)
	event.Msg(msg)
}

func (l *loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	event := logging.Debug()
	addFields(event, l.fields, fields)
	event.Msg(msg)
}

func (l *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	merged := make(watermill.LogFields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &loggerAdapter{fields: merged}
}

func addFields(event *zerolog.Event, sets ...watermill.LogFields) {
	for _, fields := range sets {
		for k, v := range fields {
			event.Interface(k, v)
		}
	}
}
