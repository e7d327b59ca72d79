// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package notify

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/vendorhub/vendorhub/internal/logging"
	"github.com/vendorhub/vendorhub/internal/metrics"
)

// NewPubSub creates the in-process channel pub/sub both the publisher
// and the consumer attach to. Persistent is off: events not yet
// consumed at shutdown are lost, which is acceptable because the
// primary operation they describe has already been committed. A
// non-positive buffer falls back to 256.
func NewPubSub(logger watermill.LoggerAdapter, buffer int64) *gochannel.GoChannel {
	if logger == nil {
		logger = NewLoggerAdapter()
	}
	if buffer <= 0 {
		buffer = 256
	}
	return gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: buffer,
		},
		logger,
	)
}

// Publisher emits notification events. Safe for concurrent use.
type Publisher struct {
	publisher message.Publisher
}

// NewPublisher wraps a Watermill publisher.
func NewPublisher(publisher message.Publisher) *Publisher {
	return &Publisher{publisher: publisher}
}

// Publish emits an event without blocking the caller's request path.
// Failures are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	payload, err := event.Marshal()
	if err != nil {
		logging.Error().Err(err).Str("kind", event.Kind).Msg("Failed to marshal notification event")
		return
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set("kind", event.Kind)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(TopicNotifications, msg); err != nil {
		logging.Error().Err(err).Str("kind", event.Kind).Msg("Failed to publish notification event")
		return
	}

	metrics.NotifyEventsTotal.WithLabelValues(event.Kind).Inc()
}
