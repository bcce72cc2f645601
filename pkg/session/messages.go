package session

import (
	"guarded-chat-be/pkg/action"
	"guarded-chat-be/pkg/grounding"
)

// Inbound frame types.
const (
	TypeMessage       = "message"
	TypeCancel        = "cancel"
	TypeConfirmAction = "confirm_action"
)

// Outbound frame types.
const (
	TypeStream           = "stream"
	TypeStreamEnd        = "stream_end"
	TypeResponse         = "response"
	TypeActionSuggestion = "action_suggestion"
	TypeActionExecuted   = "action_executed"
)

type EndReason string

const (
	ReasonDone      EndReason = "done"
	ReasonCancelled EndReason = "cancelled"
)

// Message is a frame sent to the peer.
type Message interface {
	MessageType() string
}

type StreamMessage struct {
	Type  string `json:"type"`
	Delta string `json:"delta"`
}

type StreamEndMessage struct {
	Type   string    `json:"type"`
	Reason EndReason `json:"reason"`
}

type ResponseMessage struct {
	Type      string               `json:"type"`
	Text      string               `json:"text"`
	Citations []grounding.Citation `json:"citations"`
}

type ActionSuggestionMessage struct {
	Type         string         `json:"type"`
	SuggestionID string         `json:"suggestionId"`
	Action       action.Kind    `json:"action"`
	Payload      map[string]any `json:"payload"`
}

// ActionResult carries exactly one of Success or Ignored.
type ActionResult struct {
	Success bool `json:"success,omitempty"`
	Ignored bool `json:"ignored,omitempty"`
}

type ActionExecutedMessage struct {
	Type         string       `json:"type"`
	SuggestionID string       `json:"suggestionId"`
	Result       ActionResult `json:"result"`
}

func (m StreamMessage) MessageType() string { return m.Type }
func (m StreamEndMessage) MessageType() string { return m.Type }
func (m ResponseMessage) MessageType() string { return m.Type }
func (m ActionSuggestionMessage) MessageType() string { return m.Type }
func (m ActionExecutedMessage) MessageType() string { return m.Type }

func NewStream(delta string) StreamMessage {
	return StreamMessage{Type: TypeStream, Delta: delta}
}

func NewStreamEnd(reason EndReason) StreamEndMessage {
	return StreamEndMessage{Type: TypeStreamEnd, Reason: reason}
}

func NewResponse(text string, citations []grounding.Citation) ResponseMessage {
	if citations == nil {
		citations = []grounding.Citation{}
	}
	return ResponseMessage{Type: TypeResponse, Text: text, Citations: citations}
}

func NewActionSuggestion(p action.PendingAction) ActionSuggestionMessage {
	payload := p.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return ActionSuggestionMessage{
		Type:         TypeActionSuggestion,
		SuggestionID: p.ID,
		Action:       p.Kind,
		Payload:      payload,
	}
}

func NewActionExecuted(suggestionID string, result ActionResult) ActionExecutedMessage {
	return ActionExecutedMessage{Type: TypeActionExecuted, SuggestionID: suggestionID, Result: result}
}
