// Package audit forwards structured business events (registrations,
// rejections, purchases) to a log sink, replacing ad-hoc print statements
// with a typed event stream a dataset ingester can consume.
package audit

import (
	"context"
	"time"
)

// EventType classifies audit events for dataset queries.
type EventType string

const (
	EventClientRegistration EventType = "client_registration"
	EventValidationError    EventType = "validation_error"
	EventPurchase           EventType = "purchase"
	EventPurchaseRejected   EventType = "purchase_rejected"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"_time"`
	Type      EventType `json:"event_type"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`

	ClientID int    `json:"client_id,omitempty"`
	CardType string `json:"card_type,omitempty"`
	Country  string `json:"country,omitempty"`

	OriginalAmount  float64 `json:"original_amount,omitempty"`
	DiscountApplied float64 `json:"discount_applied,omitempty"`
	FinalAmount     float64 `json:"final_amount,omitempty"`
	Benefit         string  `json:"benefit,omitempty"`

	Reason string `json:"reason,omitempty"`
}

// Store is the sink an Event lands in. The in-memory store serves tests and
// local runs; a shipping sink would batch to an ingest API.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
