package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/chat"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/debug"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/status"
)

// handleStream applies a live event and re-arms the stream. ok is false for
// messages that are not stream events. Events arriving after the stream was
// closed are dropped.
func (m *Model) handleStream(msg tea.Msg) (cmd tea.Cmd, ok bool) {
	switch msg.(type) {
	case client.StreamConnectedMsg, client.StreamDisconnectedMsg,
		client.NarrativeMsg, client.ToolCallMsg, client.ToolResultMsg,
		client.GameUpdateMsg, client.CombatUpdateMsg,
		client.StreamErrorMsg, client.CompleteMsg:
	default:
		return nil, false
	}
	if m.stream == nil || m.game == nil {
		return nil, true
	}
	ctx := m.streamCtx

	switch msg := msg.(type) {
	case client.StreamConnectedMsg:
		m.setConnected(true)
		m.debug.Add(debug.KindNet, "stream connected")

	case client.StreamDisconnectedMsg:
		m.setConnected(false)
		m.debug.Addf(debug.KindNet, "stream disconnected: %v", msg.Err)
		return m.stream.Listen(ctx), true

	case client.NarrativeMsg:
		m.debug.Addf(debug.KindEvent, "narrative (%s)", msg.Payload.AgentType)
		m.game.Chat().AppendLive(chat.KindNarrative, msg.Payload.Content)

	case client.ToolCallMsg:
		line := msg.Payload.ToolName
		if len(msg.Payload.Arguments) > 0 {
			line += " " + string(msg.Payload.Arguments)
		}
		m.debug.Add(debug.KindEvent, "tool_call "+line)
		m.game.Chat().AppendLive(chat.KindTool, line)

	case client.ToolResultMsg:
		line := fmt.Sprintf("%s → %s", msg.Payload.ToolName, msg.Payload.Result)
		m.debug.Add(debug.KindEvent, "tool_result "+line)
		m.game.Chat().AppendLive(chat.KindTool, line)

	case client.GameUpdateMsg:
		m.debug.Add(debug.KindEvent, "game_update")
		return tea.Batch(m.applySnapshot(msg.Payload.GameState), m.stream.ReadLoop(ctx)), true

	case client.CombatUpdateMsg:
		m.debug.Add(debug.KindEvent, "combat_update")
		if cur := m.store.GameStateValue(); cur != nil {
			next := *cur
			next.Combat = msg.Payload.Combat
			return tea.Batch(m.applySnapshot(&next), m.stream.ReadLoop(ctx)), true
		}

	case client.StreamErrorMsg:
		m.store.SetIsProcessing(false)
		m.store.SetError(msg.Payload.Error)

	case client.CompleteMsg:
		m.debug.Add(debug.KindEvent, "complete")
		m.store.SetIsProcessing(false)
	}
	return m.stream.ReadLoop(ctx), true
}

// applySnapshot publishes gs through the store. A rejected snapshot leaves
// the previous one in place and surfaces the validation error.
func (m *Model) applySnapshot(gs *client.GameState) tea.Cmd {
	prev := playerHP(m.store.GameStateValue())
	if err := m.store.SetGameState(gs); err != nil {
		m.fail("game update", err)
		return nil
	}
	next := playerHP(gs)
	if !m.animateHP || prev == next {
		return nil
	}
	return m.hp.retarget(float64(prev), float64(next))
}

func (m *Model) stepHP() tea.Cmd {
	if m.game == nil {
		m.hp.stop()
		return nil
	}
	if m.hp.step() {
		m.game.SetDisplayHP(m.hp.pos)
		return hpFrame()
	}
	m.game.StopHPAnimation()
	return nil
}

func (m *Model) setConnected(v bool) {
	m.connected = v
	m.game.Status().Update(func(p *status.Props) { p.Connected = v })
}

func playerHP(gs *client.GameState) int {
	if gs == nil || gs.Character == nil {
		return 0
	}
	return gs.Character.State.HitPoints.Current
}
