// Package debug keeps the session event log shown by the ctrl+d overlay:
// backend traffic, stream events and every store publish.
package debug

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/theme"
)

const maxEntries = 200

// Kind groups entries for colouring and filtering.
type Kind string

const (
	KindNet   Kind = "net"
	KindEvent Kind = "evt"
	KindState Kind = "st"
	KindError Kind = "err"
	KindUI    Kind = "ui"
)

// filterOrder is the tab order of the overlay; "" shows everything.
var filterOrder = []Kind{"", KindNet, KindEvent, KindState, KindError, KindUI}

// Entry is one log line. Field names the store field for KindState.
type Entry struct {
	Time    time.Time
	Kind    Kind
	Field   string
	Message string
}

// Model holds the log and the overlay's scroll and filter.
type Model struct {
	Entries []Entry
	Offset  int  // lines scrolled up from the newest visible entry
	Limit   int  // max entries kept; 0 means maxEntries
	Filter  Kind // "" shows every kind

	now func() time.Time
}

func New() Model {
	return Model{now: time.Now}
}

// Add records message under kind.
func (m *Model) Add(kind Kind, message string) {
	m.add(Entry{Kind: kind, Message: message})
}

// Addf is Add with formatting.
func (m *Model) Addf(kind Kind, format string, args ...any) {
	m.add(Entry{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// State records a publish of the named store field.
func (m *Model) State(field, format string, args ...any) {
	m.add(Entry{Kind: KindState, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (m *Model) add(e Entry) {
	if m.now == nil {
		m.now = time.Now
	}
	e.Time = m.now()
	e.Message = strings.ReplaceAll(e.Message, "\n", " ")
	m.Entries = append(m.Entries, e)

	limit := m.Limit
	if limit <= 0 {
		limit = maxEntries
	}
	if len(m.Entries) > limit {
		m.Entries = m.Entries[len(m.Entries)-limit:]
	}
	m.Offset = 0
}

// CycleFilter moves to the next kind filter, wrapping back to all.
func (m *Model) CycleFilter() {
	i := 0
	for j, k := range filterOrder {
		if k == m.Filter {
			i = j
			break
		}
	}
	m.Filter = filterOrder[(i+1)%len(filterOrder)]
	m.Offset = 0
}

// Visible returns the entries passing the filter, oldest first.
func (m Model) Visible() []Entry {
	if m.Filter == "" {
		return m.Entries
	}
	var out []Entry
	for _, e := range m.Entries {
		if e.Kind == m.Filter {
			out = append(out, e)
		}
	}
	return out
}

// Counts tallies entries per kind.
func (m Model) Counts() map[Kind]int {
	counts := make(map[Kind]int, len(filterOrder))
	for _, e := range m.Entries {
		counts[e.Kind]++
	}
	return counts
}

func (m *Model) ScrollUp(n int) {
	m.Offset = min(m.Offset+n, max(len(m.Visible())-1, 0))
}

func (m *Model) ScrollDown(n int) {
	m.Offset = max(m.Offset-n, 0)
}

// View renders the overlay panel.
func (m Model) View(width, height int) string {
	innerW := max(width-4, 20)
	visibleLines := max(height-8, 3)

	title := theme.StyleHeader.Render(" DEBUG LOG ")
	tabs := m.tabs()
	help := theme.StyleDimmed.Render("j/k:scroll  tab:filter  esc:close")

	entries := m.Visible()
	var body string
	if len(entries) == 0 {
		body = theme.StyleDimmed.Render("  No events recorded yet.")
	} else {
		end := max(len(entries)-m.Offset, 0)
		start := max(end-visibleLines, 0)
		lines := make([]string, 0, end-start)
		for _, e := range entries[start:end] {
			lines = append(lines, renderEntry(e, innerW))
		}
		body = strings.Join(lines, "\n")
	}

	more := ""
	if m.Offset > 0 {
		more = theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d more", m.Offset))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, tabs, "", body, more, help)
	return lipgloss.NewStyle().
		Width(innerW).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}

// tabs renders "all(n) net(n) ..." with the active filter highlighted.
func (m Model) tabs() string {
	counts := m.Counts()
	parts := make([]string, 0, len(filterOrder))
	for _, k := range filterOrder {
		label, n := string(k), counts[k]
		if k == "" {
			label, n = "all", len(m.Entries)
		}
		tab := fmt.Sprintf("%s(%d)", label, n)
		if k == m.Filter {
			parts = append(parts, theme.StyleSelected.Render("["+tab+"]"))
		} else {
			parts = append(parts, lipgloss.NewStyle().Foreground(kindColor(k)).Render(" "+tab+" "))
		}
	}
	return strings.Join(parts, " ")
}

func renderEntry(e Entry, width int) string {
	ts := theme.StyleDimmed.Render(e.Time.Format("15:04:05.000"))
	kind := lipgloss.NewStyle().Foreground(kindColor(e.Kind)).Width(4).Render(string(e.Kind))
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if limit := width - 20; limit > 3 && lipgloss.Width(msg) > limit {
		r := []rune(msg)
		msg = string(r[:min(len(r), limit-3)]) + "..."
	}
	return ts + " " + kind + " " + msg
}

func kindColor(k Kind) lipgloss.Color {
	switch k {
	case KindNet:
		return theme.ColorPlayer
	case KindEvent:
		return theme.ColorDM
	case KindState:
		return theme.ColorNPC
	case KindUI:
		return theme.ColorTool
	case KindError:
		return theme.ColorDanger
	default:
		return theme.ColorDimmed
	}
}
