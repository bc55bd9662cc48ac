// Package gamelist renders the saved game picker shown at startup.
package gamelist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/component"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/theme"
)

// Props holds the picker state. Row 0 is always "new adventure"; saved
// games follow.
type Props struct {
	Width   int
	Games   []client.GameSummary
	Cursor  int
	Loading bool
	Error   string
	Now     time.Time
}

// List is the game list screen.
type List struct {
	*component.Component[Props]
	store *store.Store
}

// New creates a game list in the loading state.
func New(s *store.Store, width int) *List {
	l := &List{store: s}
	l.Component = component.New("gamelist", l, Props{Width: width, Loading: true, Now: time.Now()})
	return l
}

func (l *List) OnMount() {
	component.SubscribeImmediate(l, l.store.Error(), func(e string) {
		l.Update(func(p *Props) { p.Error = e })
	})
}

// SetGames replaces the list and ends loading.
func (l *List) SetGames(games []client.GameSummary) {
	l.Update(func(p *Props) {
		p.Games, p.Loading, p.Now = games, false, time.Now()
		p.Cursor = min(p.Cursor, len(games))
	})
}

// Move shifts the cursor by delta, clamped to the rows.
func (l *List) Move(delta int) {
	l.Update(func(p *Props) {
		p.Cursor = max(0, min(p.Cursor+delta, len(p.Games)))
	})
}

// Selected returns the game under the cursor, or ok=false when the cursor
// is on "new adventure".
func (l *List) Selected() (client.GameSummary, bool) {
	p := l.Props()
	if p.Cursor == 0 || p.Cursor > len(p.Games) {
		return client.GameSummary{}, false
	}
	return p.Games[p.Cursor-1], true
}

// Render draws the picker.
func (l *List) Render(p Props) *dom.Node {
	width := max(p.Width, 50)
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorAccent).Render("⚔ D&D AI Dungeon Master")

	rows := []*dom.Node{
		dom.NewText(title),
		dom.NewText(theme.StyleDimmed.Render("Continue a saved adventure or start a new one.")),
		dom.NewText(""),
		dom.NewText(row(p.Cursor == 0, lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("+ New adventure"))).WithID("row-new"),
	}

	switch {
	case p.Loading:
		rows = append(rows, dom.NewText(theme.StyleDimmed.Render("  Loading saved games...")))
	case len(p.Games) == 0:
		rows = append(rows, dom.NewText(theme.StyleDimmed.Render("  No saved games")))
	}
	for i, g := range p.Games {
		rows = append(rows, dom.NewText(row(p.Cursor == i+1, describe(g, p.Now))).WithID("row-"+g.GameID))
	}

	if p.Error != "" {
		rows = append(rows, dom.NewText(""), dom.NewText(theme.StyleError.Render("✗ "+p.Error)))
	}
	rows = append(rows, dom.NewText(""), dom.NewText(theme.StyleDimmed.Render("↑/↓:move  enter:select  r:refresh  q:quit")))

	return dom.NewBlock(rows...).Styled(theme.StyleBorder.Width(width - 2).Padding(1, 2))
}

func row(selected bool, text string) string {
	if selected {
		return theme.StyleSelected.Render("▶ ") + text
	}
	return "  " + text
}

func describe(g client.GameSummary, now time.Time) string {
	name := lipgloss.NewStyle().Foreground(theme.ColorBright).Bold(true).Render(g.CharacterName)
	parts := []string{fmt.Sprintf("%s (Lv %d)", name, g.Level)}
	if g.ScenarioTitle != "" {
		parts = append(parts, g.ScenarioTitle)
	}
	if g.Location != "" {
		parts = append(parts, g.Location)
	}
	s := strings.Join(parts, theme.StyleDimmed.Render(" · "))
	if !g.LastSaved.IsZero() {
		s += theme.StyleDimmed.Render("  " + formatAge(now.Sub(g.LastSaved)))
	}
	return s
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
