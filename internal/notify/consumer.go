// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/vendorhub/vendorhub/internal/database"
	"github.com/vendorhub/vendorhub/internal/logging"
)

// ConsumerConfig holds router settings for the notification consumer.
type ConsumerConfig struct {
	// CloseTimeout is how long to wait for in-flight messages on close.
	CloseTimeout time.Duration

	// Retry configuration for transient store failures.
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// DefaultConsumerConfig returns production defaults.
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
	}
}

// Consumer subscribes to notification events and persists each one as
// a notification row. Runs under the supervision tree.
type Consumer struct {
	router *message.Router
	db     *database.DB
}

// NewConsumer builds the consumer router with panic recovery and
// retry middleware, subscribed to the notification topic.
func NewConsumer(cfg *ConsumerConfig, subscriber message.Subscriber, db *database.DB, logger watermill.LoggerAdapter) (*Consumer, error) {
	if cfg == nil {
		defaultCfg := DefaultConsumerConfig()
		cfg = &defaultCfg
	}
	if logger == nil {
		logger = NewLoggerAdapter()
	}

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create notification router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)

	retryMiddleware := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Logger:          logger,
	}
	router.AddMiddleware(retryMiddleware.Middleware)

	c := &Consumer{
		router: router,
		db:     db,
	}

	router.AddConsumerHandler(
		"notification-writer",
		TopicNotifications,
		subscriber,
		c.handle,
	)

	return c, nil
}

// handle persists one event. A returned error triggers the retry
// middleware; after the final retry the message is dropped.
func (c *Consumer) handle(msg *message.Message) error {
	event, err := UnmarshalEvent(msg.Payload)
	if err != nil {
		// Malformed payloads can never succeed; drop without retry.
		logging.Error().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed notification event")
		return nil
	}

	if _, err := c.db.CreateNotification(msg.Context(), event.Message, event.Kind); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}

	logging.Debug().
		Str("kind", event.Kind).
		Msg("Notification persisted")
	return nil
}

// Serve runs the router until the context is canceled. Implements the
// supervision tree's service interface.
func (c *Consumer) Serve(ctx context.Context) error {
	return c.router.Run(ctx)
}

// Running returns a channel that closes once the router is consuming.
func (c *Consumer) Running() <-chan struct{} {
	return c.router.Running()
}

// Close stops the router, waiting up to CloseTimeout for in-flight
// messages.
func (c *Consumer) Close() error {
	return c.router.Close()
}

func (c *Consumer) String() string {
	return "notify.Consumer"
}
