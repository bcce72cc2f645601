package dto

import "time"

// EventMessage is the wire form of a session event on the in-process bus.
type EventMessage struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurredAt"`
}
