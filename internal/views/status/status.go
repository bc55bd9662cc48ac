// Package status renders the top status bar of the game screen.
package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/component"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/theme"
)

// Props holds the status bar state.
type Props struct {
	Width      int
	Connected  bool
	Processing bool
	Spinner    string
	Scenario   string
	Location   string
	Day        int
	Hour       int
	Error      string
}

// Bar is the status bar component.
type Bar struct {
	*component.Component[Props]
	store *store.Store
}

// New creates a status bar bound to s.
func New(s *store.Store, width int) *Bar {
	b := &Bar{store: s}
	b.Component = component.New("status", b, Props{Width: width})
	return b
}

func (b *Bar) OnMount() {
	component.SubscribeImmediate(b, b.store.GameState(), func(gs *client.GameState) {
		b.Update(func(p *Props) {
			p.Scenario, p.Location, p.Day, p.Hour = "", "", 0, 0
			if gs != nil {
				p.Scenario = gs.ScenarioTitle
				p.Location = gs.Location
				p.Day = gs.GameTime.Day
				p.Hour = gs.GameTime.Hour
			}
		})
	})
	component.SubscribeImmediate(b, b.store.Processing(), func(v bool) {
		b.Update(func(p *Props) { p.Processing = v })
	})
	component.SubscribeImmediate(b, b.store.Error(), func(e string) {
		b.Update(func(p *Props) { p.Error = e })
	})
}

// Render draws the bar.
func (b *Bar) Render(p Props) *dom.Node {
	width := p.Width
	if width < 40 {
		width = 40
	}

	var connStr string
	if p.Connected {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● Live")
	} else {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("○ Connecting...")
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := connStr
	if p.Scenario != "" {
		content += sep + theme.StyleHeader.Render(p.Scenario)
	}
	if p.Location != "" {
		content += sep + p.Location
	}
	if p.Day > 0 {
		content += sep + theme.StyleDimmed.Render(fmt.Sprintf("Day %d, %02d:00", p.Day, p.Hour))
	}
	if p.Processing {
		content += sep + lipgloss.NewStyle().Foreground(theme.ColorAccent).Render(p.Spinner+" The DM is thinking...")
	}

	lines := []*dom.Node{dom.NewText(content).WithID("status-line")}
	if p.Error != "" {
		lines = append(lines, dom.NewText("✗ "+p.Error).Styled(theme.StyleError).WithID("status-error"))
	}

	return dom.NewBlock(lines...).Styled(lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder))
}
