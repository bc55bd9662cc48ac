package devserver

import (
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
)

// encodeEvent turns a backend stream message into a wire envelope. Messages
// that describe the connection itself are not forwarded.
func encodeEvent(msg tea.Msg) (client.Envelope, bool, error) {
	var (
		typ     client.EventType
		payload any
	)
	switch msg := msg.(type) {
	case client.NarrativeMsg:
		typ, payload = client.EventNarrative, msg.Payload
	case client.ToolCallMsg:
		typ, payload = client.EventToolCall, msg.Payload
	case client.ToolResultMsg:
		typ, payload = client.EventToolResult, msg.Payload
	case client.GameUpdateMsg:
		typ, payload = client.EventGameUpdate, msg.Payload
	case client.CombatUpdateMsg:
		typ, payload = client.EventCombatUpdate, msg.Payload
	case client.StreamErrorMsg:
		typ, payload = client.EventError, msg.Payload
	case client.CompleteMsg:
		typ, payload = client.EventComplete, struct{}{}
	default:
		return client.Envelope{}, false, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return client.Envelope{}, false, fmt.Errorf("encode %s: %w", typ, err)
	}
	return client.Envelope{Type: typ, Payload: data}, true, nil
}
