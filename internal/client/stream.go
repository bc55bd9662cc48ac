package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// Stream delivers live game events as Bubble Tea messages. Listen connects
// (retrying with backoff) and yields StreamConnectedMsg; ReadLoop yields the
// next event, or StreamDisconnectedMsg when the connection drops.
type Stream interface {
	Listen(ctx context.Context) tea.Cmd
	ReadLoop(ctx context.Context) tea.Cmd
	Close() error
}

// StreamFactory opens a stream for one game session.
type StreamFactory func(gameID string) Stream

// Transport names accepted by NewStreamFactory.
const (
	TransportSSE       = "sse"
	TransportWebSocket = "ws"
)

// NewStreamFactory returns a factory for the named transport against the
// given HTTP base URL.
func NewStreamFactory(transport, baseURL, token string) (StreamFactory, error) {
	switch transport {
	case "", TransportSSE:
		return func(gameID string) Stream {
			return NewSSEStream(baseURL+"/api/game/"+url.PathEscape(gameID)+"/sse", token)
		}, nil
	case TransportWebSocket:
		wsBase, err := DeriveWSBase(baseURL)
		if err != nil {
			return nil, err
		}
		return func(gameID string) Stream {
			return NewWSStream(wsBase+"/api/game/"+url.PathEscape(gameID)+"/ws", token)
		}, nil
	default:
		return nil, fmt.Errorf("unknown stream transport %q", transport)
	}
}

// DeriveWSBase converts http://host:port → ws://host:port.
func DeriveWSBase(httpBase string) (string, error) {
	u, err := url.Parse(httpBase)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	scheme := "ws"
	if strings.HasPrefix(u.Scheme, "https") {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s%s", scheme, u.Host, strings.TrimSuffix(u.Path, "/")), nil
}

// --- Bubble Tea messages ---

// StreamConnectedMsg is sent when the stream connects.
type StreamConnectedMsg struct{}

// StreamDisconnectedMsg is sent when the connection drops.
type StreamDisconnectedMsg struct{ Err error }

// NarrativeMsg delivers DM prose.
type NarrativeMsg struct{ Payload NarrativePayload }

// ToolCallMsg reports an agent tool call.
type ToolCallMsg struct{ Payload ToolCallPayload }

// ToolResultMsg reports a tool result.
type ToolResultMsg struct{ Payload ToolResultPayload }

// GameUpdateMsg delivers a fresh session snapshot.
type GameUpdateMsg struct{ Payload GameUpdatePayload }

// CombatUpdateMsg delivers encounter changes.
type CombatUpdateMsg struct{ Payload CombatUpdatePayload }

// StreamErrorMsg wraps a backend error event.
type StreamErrorMsg struct{ Payload ErrorPayload }

// CompleteMsg marks the end of processing for the last action.
type CompleteMsg struct{}

// decodeEvent turns one event into a Bubble Tea message. Keepalive events
// and unknown or malformed payloads yield nil so the reader moves on.
func decodeEvent(typ EventType, data []byte) tea.Msg {
	switch typ {
	case EventNarrative:
		var p NarrativePayload
		if json.Unmarshal(data, &p) == nil {
			return NarrativeMsg{Payload: p}
		}
	case EventToolCall:
		var p ToolCallPayload
		if json.Unmarshal(data, &p) == nil {
			return ToolCallMsg{Payload: p}
		}
	case EventToolResult:
		var p ToolResultPayload
		if json.Unmarshal(data, &p) == nil {
			return ToolResultMsg{Payload: p}
		}
	case EventGameUpdate:
		var p GameUpdatePayload
		if json.Unmarshal(data, &p) == nil && p.GameState != nil {
			return GameUpdateMsg{Payload: p}
		}
	case EventCombatUpdate:
		var p CombatUpdatePayload
		if json.Unmarshal(data, &p) == nil {
			return CombatUpdateMsg{Payload: p}
		}
	case EventError:
		var p ErrorPayload
		if json.Unmarshal(data, &p) == nil {
			return StreamErrorMsg{Payload: p}
		}
		return StreamErrorMsg{Payload: ErrorPayload{Error: string(data)}}
	case EventComplete:
		return CompleteMsg{}
	}
	return nil
}

// sleepCtx waits for d or until ctx is done, reporting whether the full
// delay elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
