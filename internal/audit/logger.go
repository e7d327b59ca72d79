// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package audit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/vendorhub/vendorhub/internal/logging"
	"github.com/vendorhub/vendorhub/internal/metrics"
)

// Config holds configuration for the audit logger.
type Config struct {
	// Enabled controls whether audit logging is active.
	Enabled bool `json:"enabled"`

	// RetentionDays is how long to keep audit records.
	RetentionDays int `json:"retention_days"`

	// CleanupInterval is how often to run retention cleanup.
	CleanupInterval time.Duration `json:"cleanup_interval"`

	// BufferSize is the size of the async write buffer.
	BufferSize int `json:"buffer_size"`

	// LogToStdout also writes events to the structured log.
	LogToStdout bool `json:"log_to_stdout"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		RetentionDays:   90,
		CleanupInterval: 24 * time.Hour,
		BufferSize:      1000,
		LogToStdout:     false,
	}
}

// Logger is the audit logging service. Log is fire and forget: events go
// through a buffered channel to a single background writer, and when the
// buffer is full the event is dropped with a warning rather than blocking
// the request.
type Logger struct {
	config    *Config
	store     Store
	breaker   *gobreaker.CircuitBreaker[struct{}]
	eventChan chan *Event
	mu        sync.RWMutex
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewLogger creates a new audit logger and starts its background writer.
func NewLogger(store Store, config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}

	l := &Logger{
		config:    config,
		store:     store,
		eventChan: make(chan *Event, config.BufferSize),
		stopChan:  make(chan struct{}),
	}

	// The breaker stops hammering a failing store; tripped writes are
	// counted as errors and the events are lost, which the fire-and-forget
	// contract permits.
	l.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "audit-store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	l.wg.Add(1)
	go l.asyncWriter()

	return l
}

// asyncWriter processes events from the buffer.
func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			// Drain remaining events
			for {
				select {
				case event := <-l.eventChan:
					l.writeEvent(event)
				default:
					return
				}
			}
		case event := <-l.eventChan:
			l.writeEvent(event)
		}
	}
}

// writeEvent persists an event to the store through the circuit breaker.
func (l *Logger) writeEvent(event *Event) {
	l.mu.RLock()
	config := l.config
	l.mu.RUnlock()

	if config.LogToStdout {
		l.logToStdout(event)
	}

	if l.store == nil {
		return
	}

	_, err := l.breaker.Execute(func() (struct{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return struct{}{}, l.store.Save(ctx, event)
	})
	if err != nil {
		metrics.AuditWriteErrors.Inc()
		logging.Error().Err(err).Str("action", string(event.Action)).Msg("Failed to save audit event")
	}
}

// logToStdout writes an event to the structured log in JSON form.
func (l *Logger) logToStdout(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal audit event")
		return
	}
	logging.Info().RawJSON("event", data).Msg("Audit event")
}

// Log records an audit event. It never blocks and never returns an error.
func (l *Logger) Log(event *Event) {
	l.mu.RLock()
	config := l.config
	l.mu.RUnlock()

	if !config.Enabled {
		return
	}

	if event.ID == "" {
		event.ID = generateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	// Second precision is the storage contract.
	event.Timestamp = event.Timestamp.UTC().Truncate(time.Second)

	metrics.AuditEventsTotal.WithLabelValues(string(event.Action)).Inc()

	select {
	case l.eventChan <- event:
	default:
		metrics.AuditEventsDropped.Inc()
		logging.Warn().Str("event_id", event.ID).Msg("Audit event buffer full, dropping event")
	}
}

// Close shuts down the logger, draining buffered events first. Safe to
// call more than once; later calls wait for the first drain to finish.
func (l *Logger) Close() error {
	l.stopOnce.Do(func() { close(l.stopChan) })
	l.wg.Wait()
	return nil
}

// RunCleanup deletes records older than the retention window once.
// The supervisor calls this on a schedule.
func (l *Logger) RunCleanup(ctx context.Context) error {
	l.mu.RLock()
	retention := l.config.RetentionDays
	l.mu.RUnlock()

	cutoff := time.Now().AddDate(0, 0, -retention)
	count, err := l.store.Delete(ctx, cutoff)
	if err != nil {
		return err
	}
	if count > 0 {
		logging.Info().Int64("count", count).Msg("Cleaned up old audit events")
	}
	return nil
}

// CleanupInterval returns the configured cleanup cadence.
func (l *Logger) CleanupInterval() time.Duration {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config.CleanupInterval
}

// Query retrieves events matching the filter.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return l.store.Query(ctx, filter)
}

// Count returns the number of events matching the filter.
func (l *Logger) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return l.store.Count(ctx, filter)
}

// generateEventID generates a unique event ID.
func generateEventID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(b)
}

// SourceFromRequest creates a Source from an HTTP request.
func SourceFromRequest(r *http.Request) Source {
	ip := r.RemoteAddr
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip = xff
	} else if xri := r.Header.Get("X-Real-IP"); xri != "" {
		ip = xri
	}

	return Source{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}

// ActorFromUser creates an Actor from session user information.
func ActorFromUser(userID int64, name, role string) Actor {
	return Actor{
		ID:   strconv.FormatInt(userID, 10),
		Name: name,
		Role: role,
	}
}
