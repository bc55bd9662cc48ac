// Package rightpanel switches the right column of the game screen between
// the party roster, the character sheet and the inventory. It owns exactly
// one mounted child at a time.
package rightpanel

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/component"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/theme"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/inventory"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/party"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/sheet"
)

const slotID = "rightpanel-slot"

var tabs = []struct {
	view  store.PanelView
	label string
}{
	{store.PanelParty, "Party"},
	{store.PanelCharacterSheet, "Sheet"},
	{store.PanelInventory, "Items"},
}

// Props holds the switcher state.
type Props struct {
	Width  int
	Height int
	View   store.PanelView
}

// child is the lifecycle surface shared by the panel views.
type child interface {
	Mount(parent *dom.Node)
	Unmount()
	Element() *dom.Node
}

// Panel is the right panel switcher component.
type Panel struct {
	*component.Component[Props]
	store *store.Store
	child child
	sheet *sheet.Sheet // set while the sheet is the mounted child
}

// New creates a switcher showing the store's current view.
func New(s *store.Store, width, height int) *Panel {
	p := &Panel{store: s}
	p.Component = component.New("rightpanel", p, Props{Width: width, Height: height, View: s.RightPanelView().Get()})
	return p
}

func (p *Panel) OnMount() {
	p.mountChild()
	component.Subscribe(p, p.store.RightPanelView(), func(v store.PanelView) {
		p.Update(func(pr *Props) { pr.View = v })
	})
}

func (p *Panel) OnUpdate(prev Props) {
	if prev.View != p.Props().View || prev.Width != p.Props().Width {
		p.unmountChild()
		p.mountChild()
		return
	}
	// Same child: move its subtree into the freshly rendered slot.
	if p.child != nil {
		p.Element().Find(slotID).AppendChild(p.child.Element())
	}
}

func (p *Panel) OnUnmount() {
	p.unmountChild()
}

// Sheet returns the character sheet while it is the visible child.
func (p *Panel) Sheet() *sheet.Sheet { return p.sheet }

// Current returns the view being shown.
func (p *Panel) Current() store.PanelView { return p.Props().View }

func (p *Panel) mountChild() {
	width := max(p.Props().Width-4, 20)
	switch p.Props().View {
	case store.PanelCharacterSheet:
		p.sheet = sheet.New(p.store, width)
		p.child = p.sheet
	case store.PanelInventory:
		p.child = inventory.New(p.store, width)
	default:
		p.child = party.New(p.store, width)
	}
	p.child.Mount(p.Element().Find(slotID))
}

func (p *Panel) unmountChild() {
	if p.child != nil {
		p.child.Unmount()
	}
	p.child, p.sheet = nil, nil
}

// Render draws the tab strip and an empty slot for the child.
func (p *Panel) Render(pr Props) *dom.Node {
	width := max(pr.Width, 24)
	var labels []string
	for _, t := range tabs {
		if t.view == pr.View {
			labels = append(labels, theme.StyleSelected.Render("["+t.label+"]"))
		} else {
			labels = append(labels, theme.StyleDimmed.Render(" "+t.label+" "))
		}
	}
	box := theme.StyleBorder.Width(width - 2).Padding(0, 1)
	if pr.Height > 2 {
		box = box.Height(pr.Height - 2)
	}
	return dom.NewBlock(
		dom.NewText(lipgloss.JoinHorizontal(lipgloss.Top, labels...)).WithID("rightpanel-tabs"),
		dom.NewBlock().WithID(slotID),
	).Styled(box)
}
