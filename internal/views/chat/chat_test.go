package chat

import (
	"strings"
	"testing"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/viewtest"
)

func mounted(t *testing.T, height int) (*store.Store, *Log) {
	t.Helper()
	s := store.New()
	l := New(s, "notty", 60, height)
	l.Mount(dom.NewBlock())
	return s, l
}

func body(l *Log) string {
	return l.Element().Find("chat-body").Text
}

func TestChatShowsHistory(t *testing.T) {
	s, l := mounted(t, 30)
	if !strings.Contains(body(l), "not begun") {
		t.Errorf("empty log = %q", body(l))
	}

	if err := s.SetGameState(viewtest.GameState()); err != nil {
		t.Fatal(err)
	}
	out := body(l)
	for _, want := range []string{"Dungeon Master", "road", "Phandalin", "Aldric", "I look around"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestLiveLinesClearedBySnapshot(t *testing.T) {
	s, l := mounted(t, 30)
	gs := viewtest.GameState()
	if err := s.SetGameState(gs); err != nil {
		t.Fatal(err)
	}

	l.AppendLive(KindTool, "roll_dice 1d20")
	l.AppendLive(KindNarrative, "The goblin snarls.")
	if !strings.Contains(body(l), "roll_dice") || !strings.Contains(body(l), "snarls") {
		t.Fatalf("live lines missing:\n%s", body(l))
	}

	next := *gs
	next.ConversationHistory = append(gs.ConversationHistory[:2:2], client.Message{Role: client.RoleDM, Content: "The goblin flees."})
	if err := s.SetGameState(&next); err != nil {
		t.Fatal(err)
	}
	if len(l.Props().Live) != 0 {
		t.Errorf("Live = %v, want cleared", l.Props().Live)
	}
	if !strings.Contains(body(l), "flees") {
		t.Error("new message missing")
	}
}

func TestChatScrolling(t *testing.T) {
	s, l := mounted(t, 8)
	gs := viewtest.GameState()
	for i := 0; i < 10; i++ {
		gs.ConversationHistory = append(gs.ConversationHistory, client.Message{Role: client.RolePlayer, Content: "step"})
	}
	if err := s.SetGameState(gs); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(body(l), "Phandalin") {
		t.Fatal("oldest message should be scrolled out of a short log")
	}

	l.Scroll(1000)
	if !strings.Contains(body(l), "Phandalin") {
		t.Errorf("scrolling up should reveal the first message:\n%s", body(l))
	}
	if !strings.Contains(l.Element().Find("chat-title").Text, "more") {
		t.Error("title should show the hidden line count")
	}

	l.Scroll(-5000)
	if l.Props().Offset != 0 {
		t.Errorf("Offset = %d, want 0", l.Props().Offset)
	}
}

func TestSpeakerLabel(t *testing.T) {
	names := map[string]string{"npc-1": "Elena"}
	tests := []struct {
		msg  client.Message
		want string
	}{
		{client.Message{Role: client.RoleNPC, SpeakerID: "npc-1"}, "Elena"},
		{client.Message{Role: client.RolePlayer}, "You"},
		{client.Message{Role: client.RoleDM, AgentType: "narrative"}, "Dungeon Master"},
		{client.Message{Role: client.RoleDM, AgentType: "combat"}, "Dungeon Master (combat)"},
		{client.Message{Role: client.RoleNPC, SpeakerID: "ghost"}, "NPC"},
	}
	for _, tt := range tests {
		if got := speakerLabel(tt.msg, names); got != tt.want {
			t.Errorf("speakerLabel(%+v) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}
