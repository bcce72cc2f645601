package nats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guarded-chat-be/pkg/events"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "chat.events.turn_completed", Subject(events.TypeTurnCompleted))
	assert.Equal(t, "chat.events.action_executed", Subject(events.TypeActionExecuted))
}

func TestEnvelopeCarriesTypeAndTime(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	data, err := encode(events.NewActionExecuted("conn-1", "s-1", "send_sms", at))
	require.NoError(t, err)

	got, err := decode(data)
	require.NoError(t, err)
	assert.Equal(t, events.TypeActionExecuted, got.EventType())
	assert.True(t, got.Timestamp().Equal(at))
	assert.Equal(t, "s-1", got.Payload()["suggestion_id"])
}

func TestDecodeRejectsBadInput(t *testing.T) {
	_, err := decode([]byte("not json"))
	assert.Error(t, err)

	_, err = decode([]byte(`{"payload":{}}`))
	assert.Error(t, err)
}
