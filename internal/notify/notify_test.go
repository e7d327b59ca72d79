// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package notify

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/vendorhub/vendorhub/internal/config"
	"github.com/vendorhub/vendorhub/internal/database"
	"github.com/vendorhub/vendorhub/internal/models"
)

// setupPipeline wires a pub/sub, a running consumer, and an ephemeral
// database, with cleanup registered.
func setupPipeline(t *testing.T) (*Publisher, *gochannel.GoChannel, *database.DB) {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := watermill.NopLogger{}
	pubsub := NewPubSub(logger, 16)
	t.Cleanup(func() { pubsub.Close() })

	consumer, err := NewConsumer(nil, pubsub, db, logger)
	if err != nil {
		t.Fatalf("NewConsumer() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		if err := consumer.Serve(ctx); err != nil {
			t.Logf("consumer stopped: %v", err)
		}
	}()

	select {
	case <-consumer.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not start")
	}

	return NewPublisher(pubsub), pubsub, db
}

// waitForNotifications polls until the expected number of rows exist.
func waitForNotifications(t *testing.T, db *database.DB, want int) []models.Notification {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rows, err := db.ListNotifications(context.Background(), 0)
		if err != nil {
			t.Fatalf("ListNotifications() error = %v", err)
		}
		if len(rows) >= want {
			return rows
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d notification rows", want)
	return nil
}

func TestPublishPersistsNotification(t *testing.T) {
	publisher, _, db := setupPipeline(t)

	publisher.Publish(context.Background(), NewEvent(KindVendorRegistered, "New vendor registered: Acme Corp"))

	rows := waitForNotifications(t, db, 1)
	if rows[0].Kind != KindVendorRegistered {
		t.Errorf("kind = %q, want %q", rows[0].Kind, KindVendorRegistered)
	}
	if rows[0].Message != "New vendor registered: Acme Corp" {
		t.Errorf("message = %q", rows[0].Message)
	}
}

func TestMalformedEventDroppedWithoutStallingConsumer(t *testing.T) {
	publisher, pubsub, db := setupPipeline(t)

	// A payload that cannot decode is dropped, not retried; the next
	// well-formed event must still land.
	bad := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	if err := pubsub.Publish(TopicNotifications, bad); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	publisher.Publish(context.Background(), NewEvent(KindBudgetAdjusted, "IT budget adjusted by 500.00"))

	rows := waitForNotifications(t, db, 1)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Kind != KindBudgetAdjusted {
		t.Errorf("kind = %q, want %q", rows[0].Kind, KindBudgetAdjusted)
	}
}
