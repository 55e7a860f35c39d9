package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Event types recorded by the controller.
const (
	EventAnalysisCompleted = "analysis_completed"
	EventAnalysisFailed    = "analysis_failed"
	EventQuizGenerated     = "quiz_generated"
	EventQuizFailed        = "quiz_failed"
	EventAnswerSelected    = "answer_selected"
	EventExported          = "exported"
)

// Event is one user-visible activity: a backend result, an answer or an
// export.
type Event struct {
	Type      string
	URL       string
	Data      map[string]any
	CreatedAt time.Time
}

// EventLogger records activity events.
type EventLogger interface {
	LogEvent(event Event) error
}

// NopEventLogger ignores all events.
type NopEventLogger struct{}

func (NopEventLogger) LogEvent(Event) error {
	return nil
}

// MemoryEventLogger keeps events in memory.
type MemoryEventLogger struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryEventLogger() *MemoryEventLogger {
	return &MemoryEventLogger{events: []Event{}}
}

func (l *MemoryEventLogger) LogEvent(event Event) error {
	if event.Type == "" {
		return fmt.Errorf("event type is required")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()
	return nil
}

// Events returns a copy of the recorded events.
func (l *MemoryEventLogger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event{}, l.events...)
}

// LogEvent inserts the event into tube_events.
func (s *PostgresStore) LogEvent(event Event) error {
	if event.Type == "" {
		return fmt.Errorf("event type is required")
	}

	payload := event.Data
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if _, err := s.db.Exec(ctx,
		`INSERT INTO tube_events (event_type, url, data, created_at) VALUES ($1, $2, $3::jsonb, $4)`,
		event.Type, event.URL, string(data), createdAt,
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	slog.Debug("event logged", "type", event.Type, "url", event.URL)
	return nil
}
