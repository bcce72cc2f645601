package events

import (
	"context"
	"time"
)

const (
	TypeTurnCompleted  = "TURN_COMPLETED"
	TypeActionExecuted = "ACTION_EXECUTED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TURN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher accepts events for delivery.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// TurnSummary describes a completed conversation turn.
type TurnSummary struct {
	ConnectionID      string
	MessageID         string
	Grounded          bool
	FailReason        string
	CitationCount     int
	UngroundedNumbers []string
	GenerationError   string
	ActionProposed    string
}

func NewTurnCompleted(s TurnSummary, at time.Time) BaseEvent {
	ungrounded := s.UngroundedNumbers
	if ungrounded == nil {
		ungrounded = []string{}
	}
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"connection_id":      s.ConnectionID,
			"message_id":         s.MessageID,
			"grounded":           s.Grounded,
			"fail_reason":        s.FailReason,
			"citation_count":     s.CitationCount,
			"ungrounded_numbers": ungrounded,
			"generation_error":   s.GenerationError,
			"action_proposed":    s.ActionProposed,
			"occurred_at":        at,
		},
		OccurredAt: at,
	}
}

func NewActionExecuted(connectionID, suggestionID, kind string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeActionExecuted,
		Data: map[string]interface{}{
			"connection_id": connectionID,
			"suggestion_id": suggestionID,
			"action":        kind,
			"occurred_at":   at,
		},
		OccurredAt: at,
	}
}
