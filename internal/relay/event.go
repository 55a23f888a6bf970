package relay

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Event is one of the four outbound event kinds: JoinEvent, LeaveEvent,
// MessageEvent and ErrorEvent. The set is closed; Encode matches it
// exhaustively.
type Event interface {
	isEvent()
}

// JoinEvent announces a participant entering the room.
type JoinEvent struct {
	Username string
	Color    string
}

// LeaveEvent announces a participant leaving the room.
type LeaveEvent struct {
	Username string
}

// MessageEvent carries an edit delta and/or a cursor position from one
// participant to the room. Absent payloads stay nil and are omitted on the
// wire.
type MessageEvent struct {
	Username string
	Color    string
	Message  json.RawMessage
	Cursor   json.RawMessage
}

// ErrorEvent is sent to a single connection, never broadcast.
type ErrorEvent struct {
	Message string
}

func (JoinEvent) isEvent()    {}
func (LeaveEvent) isEvent()   {}
func (MessageEvent) isEvent() {}
func (ErrorEvent) isEvent()   {}

type joinWire struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Color    string `json:"color"`
}

type leaveWire struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

type messageWire struct {
	Type     string          `json:"type"`
	Message  json.RawMessage `json:"message,omitempty"`
	Username string          `json:"username"`
	Color    string          `json:"color"`
	Cursor   json.RawMessage `json:"cursor,omitempty"`
}

type errorWire struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Encode serializes an event to its wire frame.
func Encode(ev Event) ([]byte, error) {
	switch e := ev.(type) {
	case JoinEvent:
		return json.Marshal(joinWire{Type: "join", Username: e.Username, Color: e.Color})
	case LeaveEvent:
		return json.Marshal(leaveWire{Type: "leave", Username: e.Username})
	case MessageEvent:
		return json.Marshal(messageWire{
			Type:     "message",
			Message:  e.Message,
			Username: e.Username,
			Color:    e.Color,
			Cursor:   e.Cursor,
		})
	case ErrorEvent:
		return json.Marshal(errorWire{Type: "error", Message: e.Message})
	default:
		return nil, fmt.Errorf("unknown event type %T", ev)
	}
}

// ErrEmptyPayload reports an inbound frame carrying neither a message nor
// a cursor.
var ErrEmptyPayload = errors.New("empty payload")

// Inbound is a client frame: an edit delta, a cursor position, or both.
type Inbound struct {
	Message json.RawMessage `json:"message"`
	Cursor  json.RawMessage `json:"cursor"`
}

// ParseInbound decodes a client frame. It fails on malformed JSON and on
// frames where both fields are absent or empty; JSON null and "" count as
// absent, and are normalized to nil so they never reappear on the wire.
func ParseInbound(data []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Inbound{}, err
	}
	if !present(in.Message) {
		in.Message = nil
	}
	if !present(in.Cursor) {
		in.Cursor = nil
	}
	if in.Message == nil && in.Cursor == nil {
		return Inbound{}, ErrEmptyPayload
	}
	return in, nil
}

func present(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", `""`:
		return false
	}
	return true
}
