package game

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/component"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/theme"
)

const promptHelp = "enter:send  tab:panel  ctrl+n/p:member  pgup/pgdn:scroll  ctrl+d:debug  esc:back"

// PromptProps holds the action prompt state. Input is the rendered text
// input owned by the app.
type PromptProps struct {
	Width      int
	Input      string
	Processing bool
}

// Prompt is the action input line.
type Prompt struct {
	*component.Component[PromptProps]
	store *store.Store
}

// NewPrompt creates a prompt bound to s.
func NewPrompt(s *store.Store, width int) *Prompt {
	p := &Prompt{store: s}
	p.Component = component.New("prompt", p, PromptProps{Width: width})
	return p
}

func (p *Prompt) OnMount() {
	component.SubscribeImmediate(p, p.store.Processing(), func(v bool) {
		p.Update(func(pr *PromptProps) { pr.Processing = v })
	})
}

// SetInput replaces the rendered input line.
func (p *Prompt) SetInput(view string) {
	if view == p.Props().Input {
		return
	}
	p.Update(func(pr *PromptProps) { pr.Input = view })
}

// Render draws the input box and key help.
func (p *Prompt) Render(pr PromptProps) *dom.Node {
	box := theme.StyleActiveBorder
	input := pr.Input
	if pr.Processing {
		box = theme.StyleBorder
		input = theme.StyleDimmed.Render("Waiting for the Dungeon Master...")
	}
	return dom.NewBlock(
		dom.NewText(input).WithID("prompt-input").Styled(box.Width(max(pr.Width-2, 20)).Padding(0, 1)),
		dom.NewText(promptHelp).WithID("prompt-help").Styled(lipgloss.NewStyle().Foreground(theme.ColorDimmed)),
	)
}
