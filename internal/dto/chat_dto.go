package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"guarded-chat-be/pkg/session"
)

var ErrMalformedFrame = errors.New("malformed frame")

type frameEnvelope struct {
	Type string `json:"type"`
}

// MessageFrame starts a turn. Only text is required; id is an opaque
// correlation tag for logs and events and defaults to "".
type MessageFrame struct {
	ID   string  `json:"id"`
	Text *string `json:"text" validate:"required"`
}

type CancelFrame struct{}

type ConfirmActionFrame struct {
	SuggestionID string `json:"suggestionId" validate:"required"`
}

// Inbound is a decoded peer frame; exactly one of the pointers is set.
type Inbound struct {
	Type          string
	Message       *MessageFrame
	Cancel        *CancelFrame
	ConfirmAction *ConfirmActionFrame
}

// DecodeInbound parses and validates a raw websocket frame. Any failure wraps
// ErrMalformedFrame.
func DecodeInbound(data []byte, v *validator.Validate) (Inbound, error) {
	var env frameEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	in := Inbound{Type: env.Type}
	var target interface{}
	switch env.Type {
	case session.TypeMessage:
		in.Message = &MessageFrame{}
		target = in.Message
	case session.TypeCancel:
		in.Cancel = &CancelFrame{}
		return in, nil
	case session.TypeConfirmAction:
		in.ConfirmAction = &ConfirmActionFrame{}
		target = in.ConfirmAction
	default:
		return Inbound{}, fmt.Errorf("%w: unknown type %q", ErrMalformedFrame, env.Type)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if err := v.Struct(target); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return in, nil
}
