// Package game composes the in-session screen: status bar on top, scene,
// chat log and right panel side by side, action prompt at the bottom.
package game

import (
	"github.com/mmerah/ai-dnd-demo-sub000/internal/component"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/chat"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/rightpanel"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/scene"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/status"
)

// Column widths for the side panels; the chat log takes the rest.
const (
	sceneWidth  = 30
	rightWidth  = 38
	statusLines = 3
	promptLines = 3
	minChat     = 30
)

// Props holds the screen size and chat style.
type Props struct {
	Width         int
	Height        int
	MarkdownStyle string
}

// Screen is the game screen component.
type Screen struct {
	*component.Component[Props]
	store *store.Store

	status *status.Bar
	scene  *scene.Panel
	chat   *chat.Log
	right  *rightpanel.Panel
	prompt *Prompt
}

// New creates the game screen bound to s.
func New(s *store.Store, markdownStyle string, width, height int) *Screen {
	g := &Screen{store: s}
	g.Component = component.New("game", g, Props{Width: width, Height: height, MarkdownStyle: markdownStyle})
	return g
}

type layout struct {
	width, middle, chat int
}

func (p Props) layout() layout {
	w := max(p.Width, sceneWidth+rightWidth+minChat)
	return layout{
		width:  w,
		middle: max(p.Height-statusLines-promptLines-2, 8),
		chat:   w - sceneWidth - rightWidth,
	}
}

func (g *Screen) OnMount() {
	l := g.Props().layout()
	g.status = status.New(g.store, l.width-2)
	g.scene = scene.New(g.store, sceneWidth, l.middle)
	g.chat = chat.New(g.store, g.Props().MarkdownStyle, l.chat, l.middle)
	g.right = rightpanel.New(g.store, rightWidth, l.middle)
	g.prompt = NewPrompt(g.store, l.width-2)

	root := g.Element()
	g.status.Mount(root.Find("game-status"))
	g.scene.Mount(root.Find("game-scene"))
	g.chat.Mount(root.Find("game-chat"))
	g.right.Mount(root.Find("game-right"))
	g.prompt.Mount(root.Find("game-prompt"))
}

func (g *Screen) OnUpdate(prev Props) {
	root := g.Element()
	root.Find("game-status").AppendChild(g.status.Element())
	root.Find("game-scene").AppendChild(g.scene.Element())
	root.Find("game-chat").AppendChild(g.chat.Element())
	root.Find("game-right").AppendChild(g.right.Element())
	root.Find("game-prompt").AppendChild(g.prompt.Element())

	if prev.layout() == g.Props().layout() {
		return
	}
	l := g.Props().layout()
	g.status.Update(func(p *status.Props) { p.Width = l.width - 2 })
	g.scene.Update(func(p *scene.Props) { p.Height = l.middle })
	g.chat.Update(func(p *chat.Props) { p.Width, p.Height = l.chat, l.middle })
	g.right.Update(func(p *rightpanel.Props) { p.Height = l.middle })
	g.prompt.Update(func(p *PromptProps) { p.Width = l.width - 2 })
}

// OnUnmount tears children down before the screen's own subscriptions.
func (g *Screen) OnUnmount() {
	g.prompt.Unmount()
	g.right.Unmount()
	g.chat.Unmount()
	g.scene.Unmount()
	g.status.Unmount()
}

// Resize lays the screen out for a new terminal size.
func (g *Screen) Resize(width, height int) {
	g.Update(func(p *Props) { p.Width, p.Height = width, height })
}

// Render draws the layout skeleton. Children fill the slots.
func (g *Screen) Render(p Props) *dom.Node {
	return dom.NewBlock(
		dom.NewBlock().WithID("game-status"),
		dom.NewRow(
			dom.NewBlock().WithID("game-scene"),
			dom.NewBlock().WithID("game-chat"),
			dom.NewBlock().WithID("game-right"),
		),
		dom.NewBlock().WithID("game-prompt"),
	)
}

// Chat returns the chat log.
func (g *Screen) Chat() *chat.Log { return g.chat }

// Status returns the status bar.
func (g *Screen) Status() *status.Bar { return g.status }

// Prompt returns the action prompt.
func (g *Screen) Prompt() *Prompt { return g.prompt }

// RightPanel returns the right panel switcher.
func (g *Screen) RightPanel() *rightpanel.Panel { return g.right }

// SetDisplayHP forwards an animated HP value to the character sheet when it
// is visible.
func (g *Screen) SetDisplayHP(hp float64) {
	if sh := g.right.Sheet(); sh != nil {
		sh.SetDisplayHP(hp)
	}
}

// StopHPAnimation returns the sheet to snapshot values.
func (g *Screen) StopHPAnimation() {
	if sh := g.right.Sheet(); sh != nil {
		sh.StopAnimation()
	}
}
