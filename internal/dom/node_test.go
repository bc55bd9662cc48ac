package dom

import (
	"strings"
	"testing"
)

func ids(n *Node) string {
	var out []string
	for _, c := range n.Children() {
		out = append(out, c.ID)
	}
	return strings.Join(out, ",")
}

func TestAppendAndRemove(t *testing.T) {
	root := NewBlock()
	a := NewText("a").WithID("a")
	b := NewText("b").WithID("b")
	c := NewText("c").WithID("c")
	root.AppendChild(a, nil, b, c)

	if got := ids(root); got != "a,b,c" {
		t.Fatalf("children = %s", got)
	}
	if b.Parent() != root {
		t.Error("b should have root as parent")
	}

	if !root.RemoveChild(b) {
		t.Fatal("RemoveChild(b) = false")
	}
	if got := ids(root); got != "a,c" {
		t.Errorf("children after remove = %s, want order kept", got)
	}
	if b.Parent() != nil {
		t.Error("removed node should be detached")
	}
	if root.RemoveChild(b) {
		t.Error("removing twice should report false")
	}
}

func TestAppendReparents(t *testing.T) {
	first := NewBlock()
	second := NewBlock()
	n := NewText("x")
	first.AppendChild(n)
	second.AppendChild(n)

	if first.Contains(n) {
		t.Error("node should have left its first parent")
	}
	if n.Parent() != second {
		t.Error("node should belong to second")
	}
}

func TestReplaceChildKeepsPosition(t *testing.T) {
	root := NewBlock(
		NewText("a").WithID("a"),
		NewText("b").WithID("b"),
		NewText("c").WithID("c"),
	)
	old := root.Find("b")
	next := NewText("B").WithID("B")

	if !root.ReplaceChild(old, next) {
		t.Fatal("ReplaceChild = false")
	}
	if got := ids(root); got != "a,B,c" {
		t.Errorf("children = %s, want a,B,c", got)
	}
	if old.Parent() != nil || next.Parent() != root {
		t.Error("parent links not updated")
	}
	if root.ReplaceChild(old, NewText("z")) {
		t.Error("replacing a non-child should report false")
	}
}

func TestReplaceChildWithSibling(t *testing.T) {
	a := NewText("a").WithID("a")
	b := NewText("b").WithID("b")
	c := NewText("c").WithID("c")
	root := NewBlock(a, b, c)

	root.ReplaceChild(c, a)
	if got := ids(root); got != "b,a" {
		t.Errorf("children = %s, want b,a", got)
	}
}

func TestRenderLayouts(t *testing.T) {
	col := NewBlock(NewText("top"), NewText("bottom"))
	if got := col.Render(); got != "top   \nbottom" {
		t.Errorf("block render = %q", got)
	}

	row := NewRow(NewText("left"), NewText("right"))
	if got := row.Render(); got != "leftright" {
		t.Errorf("row render = %q", got)
	}
}

func TestPlainTextAndFind(t *testing.T) {
	root := NewBlock(
		NewRow(NewText("one"), NewText("two").WithID("two")),
		NewText("three"),
	)
	if got := root.PlainText(); got != "one\ntwo\nthree" {
		t.Errorf("PlainText = %q", got)
	}
	if n := root.Find("two"); n == nil || n.Text != "two" {
		t.Errorf("Find(two) = %v", n)
	}
	if root.Find("missing") != nil {
		t.Error("Find(missing) should be nil")
	}
}

func TestRemoveDetaches(t *testing.T) {
	root := NewBlock()
	n := NewText("x")
	root.AppendChild(n)
	n.Remove()
	if root.Contains(n) || n.Parent() != nil {
		t.Error("Remove should detach the node")
	}
	n.Remove()
}
