// Package dom is a small retained node tree rendered to the terminal with
// Lip Gloss. Components own subtrees of it and swap them in place.
package dom

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Kind selects how a node lays out its children.
type Kind int

const (
	// Block stacks children vertically.
	Block Kind = iota
	// Row places children side by side, top-aligned.
	Row
	// Text renders its own text and ignores children.
	Text
)

// Node is one element of the tree.
type Node struct {
	Kind  Kind
	Text  string
	Style lipgloss.Style
	ID    string

	parent   *Node
	children []*Node
}

// NewBlock creates a block node with the given children.
func NewBlock(children ...*Node) *Node {
	n := &Node{Kind: Block}
	n.AppendChild(children...)
	return n
}

// NewRow creates a row node with the given children.
func NewRow(children ...*Node) *Node {
	n := &Node{Kind: Row}
	n.AppendChild(children...)
	return n
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Kind: Text, Text: text}
}

// Styled sets the node's style and returns the node.
func (n *Node) Styled(s lipgloss.Style) *Node {
	n.Style = s
	return n
}

// WithID sets the node's id and returns the node.
func (n *Node) WithID(id string) *Node {
	n.ID = id
	return n
}

// AppendChild appends children, detaching each from any previous parent.
// Nil children are ignored.
func (n *Node) AppendChild(children ...*Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.RemoveChild(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// RemoveChild removes child, keeping the order of the remaining children.
// Returns true if the child was found.
func (n *Node) RemoveChild(child *Node) bool {
	i := n.indexOf(child)
	if i < 0 {
		return false
	}
	n.children = append(n.children[:i], n.children[i+1:]...)
	child.parent = nil
	return true
}

// ReplaceChild puts next where old was. Returns false if old is not a child.
func (n *Node) ReplaceChild(old, next *Node) bool {
	i := n.indexOf(old)
	if i < 0 {
		return false
	}
	if old == next {
		return true
	}
	if next.parent != nil {
		next.parent.RemoveChild(next)
		// Removing next may have shifted old.
		i = n.indexOf(old)
	}
	n.children[i] = next
	next.parent = n
	old.parent = nil
	return true
}

// Remove detaches the node from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// Children returns the child nodes.
func (n *Node) Children() []*Node {
	return n.children
}

// Parent returns the parent node, or nil if detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Contains reports whether child is a direct child of n.
func (n *Node) Contains(child *Node) bool {
	return n.indexOf(child) >= 0
}

// Find returns the first node in the subtree with the given id.
func (n *Node) Find(id string) *Node {
	if n.ID == id {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(id); f != nil {
			return f
		}
	}
	return nil
}

// Render draws the subtree.
func (n *Node) Render() string {
	switch n.Kind {
	case Text:
		return n.Style.Render(n.Text)
	case Row:
		return n.Style.Render(lipgloss.JoinHorizontal(lipgloss.Top, n.renderChildren()...))
	default:
		return n.Style.Render(lipgloss.JoinVertical(lipgloss.Left, n.renderChildren()...))
	}
}

// PlainText returns the text of every text node in the subtree, one per
// line, without styling.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.walkText(&b)
	return strings.TrimSuffix(b.String(), "\n")
}

func (n *Node) walkText(b *strings.Builder) {
	if n.Kind == Text {
		b.WriteString(n.Text)
		b.WriteByte('\n')
		return
	}
	for _, c := range n.children {
		c.walkText(b)
	}
}

func (n *Node) renderChildren() []string {
	out := make([]string, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c.Render())
	}
	return out
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}
