// Package setup renders the new game screen: pick a character, then a
// scenario.
package setup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/component"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/theme"
)

// Focus names the list receiving cursor keys.
type Focus int

const (
	FocusCharacters Focus = iota
	FocusScenarios
)

// Props holds the setup state.
type Props struct {
	Width      int
	Characters []client.CharacterSheet
	Scenarios  []client.ScenarioSummary
	CharCursor int
	ScenCursor int
	Focus      Focus
	Loading    bool
	Starting   bool
	Error      string
}

// Screen is the setup screen component.
type Screen struct {
	*component.Component[Props]
	store *store.Store
}

// New creates a setup screen in the loading state.
func New(s *store.Store, width int) *Screen {
	c := &Screen{store: s}
	c.Component = component.New("setup", c, Props{Width: width, Loading: true})
	return c
}

func (c *Screen) OnMount() {
	component.SubscribeImmediate(c, c.store.Error(), func(e string) {
		c.Update(func(p *Props) {
			p.Error = e
			if e != "" {
				p.Starting = false
			}
		})
	})
}

// SetCatalog fills both lists and ends loading.
func (c *Screen) SetCatalog(chars []client.CharacterSheet, scenarios []client.ScenarioSummary) {
	c.Update(func(p *Props) {
		p.Characters, p.Scenarios, p.Loading = chars, scenarios, false
		p.CharCursor = min(p.CharCursor, max(len(chars)-1, 0))
		p.ScenCursor = min(p.ScenCursor, max(len(scenarios)-1, 0))
	})
}

// Move shifts the cursor of the focused list.
func (c *Screen) Move(delta int) {
	c.Update(func(p *Props) {
		if p.Focus == FocusCharacters {
			p.CharCursor = clamp(p.CharCursor+delta, len(p.Characters))
		} else {
			p.ScenCursor = clamp(p.ScenCursor+delta, len(p.Scenarios))
		}
	})
}

// ToggleFocus switches between the two lists.
func (c *Screen) ToggleFocus() {
	c.Update(func(p *Props) {
		if p.Focus == FocusCharacters {
			p.Focus = FocusScenarios
		} else {
			p.Focus = FocusCharacters
		}
	})
}

// Choice returns the request for the highlighted character and scenario.
// ok is false until a character is available.
func (c *Screen) Choice() (client.NewGameRequest, bool) {
	p := c.Props()
	if len(p.Characters) == 0 {
		return client.NewGameRequest{}, false
	}
	req := client.NewGameRequest{CharacterID: p.Characters[p.CharCursor].ID}
	if len(p.Scenarios) > 0 {
		req.ScenarioID = p.Scenarios[p.ScenCursor].ID
	}
	return req, true
}

// MarkStarting shows that a new game request is in flight.
func (c *Screen) MarkStarting() {
	c.Update(func(p *Props) { p.Starting = true })
}

func clamp(i, n int) int {
	return max(0, min(i, n-1))
}

// Render draws both lists side by side.
func (c *Screen) Render(p Props) *dom.Node {
	width := max(p.Width, 60)
	colWidth := (width - 8) / 2

	header := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorAccent).Render("New Adventure")
	if p.Loading {
		return dom.NewBlock(
			dom.NewText(header),
			dom.NewText(theme.StyleDimmed.Render("Loading characters and scenarios...")),
		).Styled(theme.StyleBorder.Width(width - 2).Padding(1, 2))
	}

	var chars []string
	for i, ch := range p.Characters {
		line := ch.Name + theme.StyleDimmed.Render(" "+ch.Race+" "+ch.Class)
		chars = append(chars, item(i == p.CharCursor, p.Focus == FocusCharacters, line))
	}
	var scens []string
	for i, sc := range p.Scenarios {
		line := sc.Title
		if i == p.ScenCursor && sc.Description != "" {
			line += "\n" + theme.StyleDimmed.Width(colWidth-4).Render("  "+sc.Description)
		}
		scens = append(scens, item(i == p.ScenCursor, p.Focus == FocusScenarios, line))
	}

	footer := theme.StyleDimmed.Render("↑/↓:move  tab:switch list  enter:start  esc:back")
	if p.Starting {
		footer = lipgloss.NewStyle().Foreground(theme.ColorAccent).Render("Starting your adventure...")
	}

	rows := []*dom.Node{
		dom.NewText(header),
		dom.NewText(""),
		dom.NewRow(
			column("Character", chars, p.Focus == FocusCharacters, colWidth).WithID("setup-characters"),
			column("Scenario", scens, p.Focus == FocusScenarios, colWidth).WithID("setup-scenarios"),
		),
	}
	if p.Error != "" {
		rows = append(rows, dom.NewText(theme.StyleError.Render("✗ "+p.Error)))
	}
	rows = append(rows, dom.NewText(footer))
	return dom.NewBlock(rows...).Styled(theme.StyleBorder.Width(width - 2).Padding(1, 2))
}

func column(title string, items []string, focused bool, width int) *dom.Node {
	box := theme.StyleBorder
	if focused {
		box = theme.StyleActiveBorder
	}
	if len(items) == 0 {
		items = []string{theme.StyleDimmed.Render("  none available")}
	}
	body := theme.StyleHeader.Render(title) + "\n" + strings.Join(items, "\n")
	return dom.NewText(body).Styled(box.Width(width).Padding(0, 1))
}

func item(selected, focused bool, text string) string {
	switch {
	case selected && focused:
		return theme.StyleSelected.Render("▶ ") + text
	case selected:
		return "› " + text
	default:
		return "  " + text
	}
}
