// Package sheet renders the character sheet of the selected party member.
package sheet

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/component"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/theme"
)

const (
	barWidth   = 16
	labelWidth = 11
)

var (
	styleLabel = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed).
			Width(labelWidth)

	styleValue = lipgloss.NewStyle().
			Foreground(theme.ColorBright)

	styleSectionHeader = lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.ColorDimmed)
)

// Props holds the sheet state. DisplayHP, when Animating, replaces the
// player's current hit points in the HP bar.
type Props struct {
	Width     int
	State     *client.GameState
	Selected  string
	DisplayHP float64
	Animating bool
}

// Sheet is the character sheet component.
type Sheet struct {
	*component.Component[Props]
	store *store.Store
}

// New creates a character sheet bound to s.
func New(s *store.Store, width int) *Sheet {
	c := &Sheet{store: s}
	c.Component = component.New("sheet", c, Props{Width: width})
	return c
}

func (c *Sheet) OnMount() {
	component.SubscribeImmediate(c, c.store.GameState(), func(gs *client.GameState) {
		c.Update(func(p *Props) { p.State = gs })
	})
	component.SubscribeImmediate(c, c.store.SelectedMember(), func(id string) {
		c.Update(func(p *Props) { p.Selected = id })
	})
}

// SetDisplayHP shows hp in place of the player's current hit points until
// StopAnimation.
func (c *Sheet) SetDisplayHP(hp float64) {
	c.Update(func(p *Props) { p.DisplayHP, p.Animating = hp, true })
}

// StopAnimation returns the HP bar to the snapshot value.
func (c *Sheet) StopAnimation() {
	c.Update(func(p *Props) { p.Animating = false })
}

// Render draws the sheet.
func (c *Sheet) Render(p Props) *dom.Node {
	m, ok := p.State.Member(p.Selected)
	if !ok {
		return dom.NewText(theme.StyleDimmed.Render("No character selected"))
	}

	var b strings.Builder
	b.WriteString(theme.StyleHeader.Render(m.Sheet.Name) + "\n")
	b.WriteString(strings.Repeat("─", max(p.Width-2, 10)) + "\n")

	writeRow(&b, "Race", m.Sheet.Race)
	if m.Sheet.Class != "" {
		writeRow(&b, "Class", m.Sheet.Class)
	}
	if m.State.Level != nil {
		writeRow(&b, "Level", fmt.Sprintf("%d", *m.State.Level))
	}
	if m.Sheet.Background != "" {
		writeRow(&b, "Background", m.Sheet.Background)
	}
	if m.Sheet.Alignment != "" {
		writeRow(&b, "Alignment", m.Sheet.Alignment)
	}
	if m.Sheet.Role != "" {
		writeRow(&b, "Role", m.Sheet.Role)
	}
	b.WriteString("\n")

	hp := m.State.HitPoints
	shown := float64(hp.Current)
	if p.Animating && m.IsPlayer {
		shown = p.DisplayHP
	}
	writeRow(&b, "HP", renderHP(shown, hp.Maximum, hp.Temporary))
	writeRow(&b, "AC", fmt.Sprintf("%d", m.State.ArmorClass))
	if len(m.State.Conditions) > 0 {
		writeRow(&b, "Conditions", strings.Join(m.State.Conditions, ", "))
	}

	if a := m.State.Abilities; a != (client.Abilities{}) {
		b.WriteString("\n")
		b.WriteString(styleSectionHeader.Render("Abilities") + "\n")
		b.WriteString(renderAbilities(a) + "\n")
	}

	return dom.NewText(strings.TrimRight(b.String(), "\n")).WithID("sheet-" + m.ID)
}

func renderHP(current float64, maximum, temp int) string {
	var pct float64
	if maximum > 0 {
		pct = current / float64(maximum)
	}
	s := theme.Bar(pct, barWidth, theme.HPColor(pct)) +
		fmt.Sprintf(" %d/%d", int(math.Round(current)), maximum)
	if temp > 0 {
		s += fmt.Sprintf(" (+%d)", temp)
	}
	return s
}

func renderAbilities(a client.Abilities) string {
	scores := []struct {
		name  string
		score int
	}{
		{"STR", a.STR}, {"DEX", a.DEX}, {"CON", a.CON},
		{"INT", a.INT}, {"WIS", a.WIS}, {"CHA", a.CHA},
	}
	var cells []string
	for _, s := range scores {
		cells = append(cells, fmt.Sprintf("%s %2d (%s)", s.name, s.score, Modifier(s.score)))
	}
	return strings.Join(cells[:3], "  ") + "\n" + strings.Join(cells[3:], "  ")
}

// Modifier returns the signed ability modifier for score.
func Modifier(score int) string {
	mod := int(math.Floor(float64(score-10) / 2))
	if mod >= 0 {
		return fmt.Sprintf("+%d", mod)
	}
	return fmt.Sprintf("%d", mod)
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString(styleLabel.Render(label+":") + styleValue.Render(value) + "\n")
}
