// Package inventory renders the carried items and coin purse of the
// selected party member.
package inventory

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

// Props holds the inventory state.
type Props struct {
	Width    int
	State    *client.GameState
	Selected string
}

// Panel is the inventory component.
type Panel struct {
	*component.Component[Props]
	store *store.Store
}

// New creates an inventory panel bound to s.
func New(s *store.Store, width int) *Panel {
	p := &Panel{store: s}
	p.Component = component.New("inventory", p, Props{Width: width})
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

// Render draws the item table, equipped items first.
func (p *Panel) Render(pr Props) *dom.Node {
	m, ok := pr.State.Member(pr.Selected)
	if !ok {
		return dom.NewText(theme.StyleDimmed.Render("No character selected"))
	}
	width := max(pr.Width, 24)
	colQty := 4
	colWeight := 6
	colName := max(width-colQty-colWeight-4, 8)

	dimStyle := lipgloss.NewStyle().Foreground(theme.ColorDimmed)
	lines := []string{
		theme.StyleHeader.Render(m.Sheet.Name + "'s pack"),
		dimStyle.Render(fmt.Sprintf("  %-*s %*s %*s", colName, "Item", colQty, "Qty", colWeight, "Wt")),
	}

	items := sortedItems(m.State.Inventory)
	if len(items) == 0 {
		lines = append(lines, dimStyle.Render("  Nothing carried"))
	}
	var total float64
	for _, it := range items {
		total += it.Weight * float64(it.Quantity)
		marker := "  "
		nameStyle := lipgloss.NewStyle().Foreground(theme.ColorBright)
		if it.Equipped {
			marker = lipgloss.NewStyle().Foreground(theme.ColorAccent).Render("◆ ")
		}
		name := it.Name
		if len([]rune(name)) > colName {
			name = string([]rune(name)[:colName-1]) + "…"
		}
		lines = append(lines, fmt.Sprintf("%s%s %*d %*s",
			marker,
			nameStyle.Width(colName).Render(name),
			colQty, it.Quantity,
			colWeight, formatWeight(it.Weight*float64(it.Quantity)),
		))
	}

	lines = append(lines,
		dimStyle.Render("  "+strings.Repeat("─", min(width-2, colName+colQty+colWeight+2))),
		dimStyle.Render(fmt.Sprintf("  Total weight: %s lb", formatWeight(total))),
		"",
		renderCurrency(m.State.Currency),
	)
	return dom.NewText(strings.Join(lines, "\n")).WithID("inventory-" + m.ID)
}

// sortedItems returns equipped items first, each group in original order.
func sortedItems(items []client.InventoryItem) []client.InventoryItem {
	out := make([]client.InventoryItem, 0, len(items))
	for _, it := range items {
		if it.Equipped {
			out = append(out, it)
		}
	}
	for _, it := range items {
		if !it.Equipped {
			out = append(out, it)
		}
	}
	return out
}

func renderCurrency(c client.Currency) string {
	coin := func(n int, label string, color lipgloss.Color) string {
		return lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%d %s", n, label))
	}
	return strings.Join([]string{
		coin(c.Platinum, "pp", theme.ColorBright),
		coin(c.Gold, "gp", theme.ColorAccent),
		coin(c.Silver, "sp", theme.ColorDefault),
		coin(c.Copper, "cp", theme.ColorWarning),
	}, "  ")
}

func formatWeight(w float64) string {
	if w == float64(int(w)) {
		return fmt.Sprintf("%d", int(w))
	}
	return fmt.Sprintf("%.1f", w)
}
