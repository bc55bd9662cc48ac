// Package party renders the party roster with hit point bars.
package party

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

const barWidth = 12

// Props holds the roster state.
type Props struct {
	Width    int
	State    *client.GameState
	Selected string
}

// Panel is the party roster component.
type Panel struct {
	*component.Component[Props]
	store *store.Store
}

// New creates a party panel bound to s.
func New(s *store.Store, width int) *Panel {
	p := &Panel{store: s}
	p.Component = component.New("party", p, Props{Width: width})
	return p
}

func (p *Panel) OnMount() {
	component.SubscribeImmediate(p, p.store.GameState(), func(gs *client.GameState) {
		p.Update(func(pr *Props) { pr.State = gs })
	})
	component.SubscribeImmediate(p, p.store.SelectedMember(), func(id string) {
		p.Update(func(pr *Props) { pr.Selected = id })
	})
}

// Render draws one row per member, player first.
func (p *Panel) Render(pr Props) *dom.Node {
	gs := pr.State
	if gs == nil {
		return dom.NewText(theme.StyleDimmed.Render("No party"))
	}
	size := len(gs.Party.MemberIDs) + 1
	header := theme.StyleHeader.Render("Party")
	if gs.Party.MaxSize > 0 {
		header += theme.StyleDimmed.Render(fmt.Sprintf("  %d/%d", size, gs.Party.MaxSize+1))
	}

	root := dom.NewBlock(dom.NewText(header))
	selected := pr.Selected
	if selected == "" {
		selected = gs.PlayerID()
	}
	for _, id := range gs.MemberIDs() {
		m, ok := gs.Member(id)
		if !ok {
			root.AppendChild(dom.NewText(theme.StyleError.Render("? " + id)))
			continue
		}
		root.AppendChild(renderMember(m, id == selected, pr.Width).WithID("member-" + id))
	}
	return root
}

func renderMember(m client.Member, selected bool, width int) *dom.Node {
	marker := "  "
	nameStyle := lipgloss.NewStyle().Foreground(theme.ColorBright)
	if selected {
		marker = theme.StyleSelected.Render("▶ ")
		nameStyle = theme.StyleSelected
	}
	name := m.Sheet.Name
	if m.IsPlayer {
		name += theme.StyleDimmed.Render(" (you)")
	} else if m.Attitude != "" {
		name += " " + lipgloss.NewStyle().Foreground(theme.AttitudeColor(m.Attitude)).Render("●")
	}

	hp := m.State.HitPoints
	var pct float64
	if hp.Maximum > 0 {
		pct = float64(hp.Current) / float64(hp.Maximum)
	}
	bar := theme.Bar(pct, barWidth, theme.HPColor(pct))
	hpLine := fmt.Sprintf("    %s %d/%d", bar, hp.Current, hp.Maximum)
	if hp.Temporary > 0 {
		hpLine += theme.StyleDimmed.Render(fmt.Sprintf(" +%d", hp.Temporary))
	}

	lines := []string{marker + nameStyle.Render(name), hpLine}
	if sub := subtitle(m); sub != "" {
		lines = append(lines, theme.StyleDimmed.Render("    "+sub))
	}
	if len(m.State.Conditions) > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ColorWarning).
			Render("    "+strings.Join(m.State.Conditions, ", ")))
	}
	return dom.NewText(lipgloss.NewStyle().MaxWidth(max(width, 20)).Render(strings.Join(lines, "\n")))
}

func subtitle(m client.Member) string {
	var parts []string
	if m.Sheet.Race != "" {
		parts = append(parts, m.Sheet.Race)
	}
	if m.Sheet.Class != "" {
		parts = append(parts, titleCase(m.Sheet.Class))
	}
	if m.State.Level != nil {
		parts = append(parts, fmt.Sprintf("Lv %d", *m.State.Level))
	}
	if len(parts) == 0 {
		return m.Sheet.Role
	}
	return strings.Join(parts, " · ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
