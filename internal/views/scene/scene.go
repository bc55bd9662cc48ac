// Package scene renders the left panel of the game screen: where the party
// is, who is nearby and, during an encounter, the initiative order.
package scene

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/component"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/theme"
)

// Props holds the scene panel state.
type Props struct {
	Width  int
	Height int
	State  *client.GameState
}

// Panel is the scene component.
type Panel struct {
	*component.Component[Props]
	store *store.Store
}

// New creates a scene panel bound to s.
func New(s *store.Store, width, height int) *Panel {
	p := &Panel{store: s}
	p.Component = component.New("scene", p, Props{Width: width, Height: height})
	return p
}

func (p *Panel) OnMount() {
	component.SubscribeImmediate(p, p.store.GameState(), func(gs *client.GameState) {
		p.Update(func(pr *Props) { pr.State = gs })
	})
}

// Render draws the panel.
func (p *Panel) Render(pr Props) *dom.Node {
	width := max(pr.Width, 24)
	box := theme.StyleBorder.Width(width - 2).Padding(0, 1)
	if pr.Height > 2 {
		box = box.Height(pr.Height - 2)
	}
	if pr.State == nil {
		return dom.NewBlock(dom.NewText(theme.StyleDimmed.Render("No game loaded"))).Styled(box)
	}
	gs := pr.State
	inner := width - 4

	sections := []*dom.Node{
		dom.NewText(renderLocation(gs, inner)).WithID("scene-location"),
	}
	if gs.InCombat() {
		sections = append(sections, dom.NewText(renderCombat(gs.Combat, inner)).WithID("scene-combat"))
	}
	if present := renderNPCs(gs, inner); present != "" {
		sections = append(sections, dom.NewText(present).WithID("scene-npcs"))
	}
	return dom.NewBlock(sections...).Styled(box)
}

func renderLocation(gs *client.GameState, width int) string {
	title := theme.StyleHeader.Render("Location")
	loc := lipgloss.NewStyle().Foreground(theme.ColorAccent).Width(width).Render(gs.Location)
	when := theme.StyleDimmed.Render(fmt.Sprintf("Day %d, %02d:%02d", gs.GameTime.Day, gs.GameTime.Hour, gs.GameTime.Minute))
	lines := []string{title, loc, when}
	if gs.ActiveAgent != "" {
		lines = append(lines, theme.StyleDimmed.Render("Agent: ")+agentLabel(gs.ActiveAgent))
	}
	return lipgloss.JoinVertical(lipgloss.Left, append(lines, "")...)
}

// renderCombat draws the initiative order with the current turn marked.
func renderCombat(c *client.CombatState, width int) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorDanger).
		Render(fmt.Sprintf("⚔ Combat: round %d", c.Round))

	const colInit = 4
	colName := max(width-colInit-4, 8)
	dimStyle := lipgloss.NewStyle().Foreground(theme.ColorDimmed)
	lines := []string{
		header,
		dimStyle.Render(fmt.Sprintf("  %-*s %s", colInit, "Init", "Combatant")),
		dimStyle.Render("  " + strings.Repeat("─", min(width-2, colInit+colName+1))),
	}
	current, _ := c.Current()
	for _, e := range c.Participants {
		marker := "  "
		if e.EntityID == current.EntityID && e.IsActive {
			marker = "▶ "
		}
		name := e.Name
		if len([]rune(name)) > colName {
			name = string([]rune(name)[:colName-1]) + "…"
		}
		color := theme.ColorHostile
		if e.IsPlayer {
			color = theme.ColorPlayer
		}
		nameStyle := lipgloss.NewStyle().Foreground(color)
		if !e.IsActive {
			nameStyle = nameStyle.Strikethrough(true).Foreground(theme.ColorDimmed)
		}
		lines = append(lines, fmt.Sprintf("%s%-*d %s", marker, colInit, e.Initiative, nameStyle.Render(name)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, append(lines, "")...)
}

// renderNPCs lists NPCs at the scene who are not in the party.
func renderNPCs(gs *client.GameState, width int) string {
	inParty := make(map[string]bool, len(gs.Party.MemberIDs))
	for _, id := range gs.Party.MemberIDs {
		inParty[id] = true
	}
	var lines []string
	for _, n := range gs.NPCs {
		if inParty[n.InstanceID] {
			continue
		}
		dot := lipgloss.NewStyle().Foreground(theme.AttitudeColor(n.Attitude)).Render("●")
		line := dot + " " + n.Sheet.Name
		if n.Sheet.Role != "" {
			line += theme.StyleDimmed.Render(" · " + n.Sheet.Role)
		}
		lines = append(lines, lipgloss.NewStyle().MaxWidth(width).Render(line))
	}
	if len(lines) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{theme.StyleHeader.Render("Nearby")}, lines...)...)
}

func agentLabel(agent string) string {
	switch agent {
	case "combat":
		return lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("combat")
	case "narrative":
		return lipgloss.NewStyle().Foreground(theme.ColorDM).Render("narrative")
	default:
		return agent
	}
}
