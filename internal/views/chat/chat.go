// Package chat renders the conversation log. DM narration is rendered as
// markdown with glamour; live tool activity from the stream is shown below
// the history until the next snapshot replaces it.
package chat

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/component"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/theme"
)

// Live line kinds.
const (
	KindNarrative = "dm"
	KindTool      = "tool"
	KindSystem    = "system"
)

// Line is a transient stream event shown after the history.
type Line struct {
	Kind string
	Text string
}

// Props holds the chat log state.
type Props struct {
	Width    int
	Height   int
	Style    string // glamour style name, or "auto"
	Messages []client.Message
	Names    map[string]string // speaker id -> display name
	Live     []Line
	Offset   int // lines scrolled up from the bottom
}

// Log is the chat log component.
type Log struct {
	*component.Component[Props]
	store *store.Store

	md      *glamour.TermRenderer
	mdWidth int
	mdStyle string
}

// New creates a chat log bound to s.
func New(s *store.Store, style string, width, height int) *Log {
	l := &Log{store: s}
	l.Component = component.New("chat", l, Props{Width: width, Height: height, Style: style})
	return l
}

func (l *Log) OnMount() {
	component.SubscribeImmediate(l, l.store.GameState(), func(gs *client.GameState) {
		l.Update(func(p *Props) {
			p.Messages, p.Names, p.Live, p.Offset = nil, nil, nil, 0
			if gs == nil {
				return
			}
			p.Messages = gs.ConversationHistory
			p.Names = speakerNames(gs)
		})
	})
}

// AppendLive adds a transient line.
func (l *Log) AppendLive(kind, text string) {
	l.Update(func(p *Props) {
		p.Live = append(p.Live[:len(p.Live):len(p.Live)], Line{Kind: kind, Text: text})
		p.Offset = 0
	})
}

// Scroll moves the viewport by n lines; positive n scrolls up.
func (l *Log) Scroll(n int) {
	l.Update(func(p *Props) { p.Offset = max(p.Offset+n, 0) })
}

// Render draws the visible tail of the log.
func (l *Log) Render(p Props) *dom.Node {
	width := max(p.Width, 30)
	height := max(p.Height, 5)
	inner := width - 4

	var lines []string
	for _, m := range p.Messages {
		lines = append(lines, l.renderMessage(m, p, inner)...)
	}
	for _, ln := range p.Live {
		lines = append(lines, l.renderLive(ln, p, inner)...)
	}
	if len(lines) == 0 {
		lines = []string{theme.StyleDimmed.Render("The story has not begun yet.")}
	}

	visible := height - 3
	end := len(lines) - min(p.Offset, max(len(lines)-visible, 0))
	start := max(end-visible, 0)
	body := strings.Join(lines[start:end], "\n")

	title := theme.StyleHeader.Render("Adventure Log")
	if end < len(lines) {
		title += theme.StyleDimmed.Render(fmt.Sprintf("  ↓ %d more", len(lines)-end))
	}

	return dom.NewBlock(
		dom.NewText(title).WithID("chat-title"),
		dom.NewText(body).WithID("chat-body"),
	).Styled(theme.StyleBorder.Width(width - 2).Height(height - 2).Padding(0, 1))
}

func (l *Log) renderMessage(m client.Message, p Props, width int) []string {
	role := string(m.Role)
	name := speakerLabel(m, p.Names)
	header := lipgloss.NewStyle().Foreground(theme.RoleColor(role)).Bold(true).
		Render(theme.RoleGlyph(role) + " " + name)
	if !m.Timestamp.IsZero() {
		header += " " + theme.StyleDimmed.Render(m.Timestamp.Format("15:04"))
	}

	var body string
	if m.Role == client.RoleDM {
		body = l.markdown(m.Content, p.Style, width)
	} else {
		body = lipgloss.NewStyle().Width(width).Render(m.Content)
	}
	out := []string{header}
	out = append(out, strings.Split(body, "\n")...)
	return append(out, "")
}

func (l *Log) renderLive(ln Line, p Props, width int) []string {
	switch ln.Kind {
	case KindNarrative:
		header := lipgloss.NewStyle().Foreground(theme.ColorDM).Bold(true).Render(theme.RoleGlyph("dm") + " Dungeon Master …")
		return append([]string{header}, strings.Split(l.markdown(ln.Text, p.Style, width), "\n")...)
	case KindTool:
		return []string{lipgloss.NewStyle().Foreground(theme.ColorTool).Width(width).Render(theme.RoleGlyph("tool") + " " + ln.Text)}
	default:
		return []string{theme.StyleDimmed.Width(width).Render(ln.Text)}
	}
}

// markdown renders md for the given width, falling back to wrapped plain
// text when the renderer cannot be built.
func (l *Log) markdown(md, style string, width int) string {
	if l.md == nil || l.mdWidth != width || l.mdStyle != style {
		opt := glamour.WithStandardStyle(style)
		if style == "" || style == "auto" {
			opt = glamour.WithAutoStyle()
		}
		r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(width))
		if err != nil {
			log.Printf("chat: markdown renderer: %v", err)
			return lipgloss.NewStyle().Width(width).Render(md)
		}
		l.md, l.mdWidth, l.mdStyle = r, width, style
	}
	out, err := l.md.Render(md)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(md)
	}
	return strings.Trim(out, "\n")
}

func speakerNames(gs *client.GameState) map[string]string {
	names := make(map[string]string, len(gs.NPCs)+1)
	if gs.Character != nil {
		names[gs.Character.InstanceID] = gs.Character.Sheet.Name
	}
	for _, n := range gs.NPCs {
		names[n.InstanceID] = n.Sheet.Name
	}
	return names
}

func speakerLabel(m client.Message, names map[string]string) string {
	if n, ok := names[m.SpeakerID]; ok && n != "" {
		return n
	}
	switch m.Role {
	case client.RolePlayer:
		return "You"
	case client.RoleDM:
		if m.AgentType != "" && m.AgentType != "narrative" {
			return "Dungeon Master (" + m.AgentType + ")"
		}
		return "Dungeon Master"
	case client.RoleNPC:
		return "NPC"
	}
	return string(m.Role)
}
