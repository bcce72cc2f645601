package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTurnCompleted(t *testing.T) {
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	evt := NewTurnCompleted(TurnSummary{
		ConnectionID:  "conn-1",
		MessageID:     "m1",
		Grounded:      false,
		FailReason:    "ungrounded_numbers",
		CitationCount: 1,
	}, at)

	assert.Equal(t, TypeTurnCompleted, evt.EventType())
	assert.Equal(t, at, evt.Timestamp())
	assert.Equal(t, "conn-1", evt.Payload()["connection_id"])
	assert.Equal(t, "ungrounded_numbers", evt.Payload()["fail_reason"])
	assert.Equal(t, []string{}, evt.Payload()["ungrounded_numbers"])
}

func TestNewActionExecuted(t *testing.T) {
	at := time.Now()
	evt := NewActionExecuted("conn-1", "s1", "send_sms", at)

	assert.Equal(t, TypeActionExecuted, evt.EventType())
	assert.Equal(t, "s1", evt.Payload()["suggestion_id"])
	assert.Equal(t, "send_sms", evt.Payload()["action"])
}
