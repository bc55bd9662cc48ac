package gamelist

import (
	"strings"
	"testing"
	"time"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
)

func TestGameListCursor(t *testing.T) {
	s := store.New()
	l := New(s, 80)
	root := dom.NewBlock()
	l.Mount(root)

	if !strings.Contains(root.PlainText(), "Loading") {
		t.Fatalf("initial list = %q", root.PlainText())
	}
	if _, ok := l.Selected(); ok {
		t.Error("cursor starts on new adventure")
	}

	l.SetGames([]client.GameSummary{
		{GameID: "g1", CharacterName: "Aldric", Level: 3},
		{GameID: "g2", CharacterName: "Brenna", Level: 2},
	})
	l.Move(1)
	if g, ok := l.Selected(); !ok || g.GameID != "g1" {
		t.Errorf("Selected = %+v, %v", g, ok)
	}
	l.Move(10)
	if g, _ := l.Selected(); g.GameID != "g2" {
		t.Errorf("cursor should clamp to the last game, got %q", g.GameID)
	}
	l.Move(-10)
	if _, ok := l.Selected(); ok {
		t.Error("cursor should clamp to new adventure")
	}
	if !strings.Contains(root.Find("row-new").Text, "▶") {
		t.Error("new adventure row should be highlighted")
	}

	l.SetGames(nil)
	if !strings.Contains(root.PlainText(), "No saved games") {
		t.Error("empty list message missing")
	}
}

func TestGameListShowsStoreError(t *testing.T) {
	s := store.New()
	l := New(s, 80)
	root := dom.NewBlock()
	l.Mount(root)

	s.SetError("backend unreachable")
	if !strings.Contains(root.PlainText(), "backend unreachable") {
		t.Error("error not shown")
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.d); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
