package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
)

func intPtr(v int) *int { return &v }

func validState() *client.GameState {
	return &client.GameState{
		GameID:   "game-1",
		Location: "The Prancing Pony",
		Character: &client.CharacterInstance{
			InstanceID: "player",
			Sheet:      client.CharacterSheet{Name: "Aldric"},
			State: client.EntityState{
				Level:     intPtr(3),
				HitPoints: client.HitPoints{Current: 12, Maximum: 24},
			},
		},
		Party: client.Party{MemberIDs: []string{"npc-1"}},
	}
}

func TestSetGameStateValid(t *testing.T) {
	s := New()
	gs := validState()
	if err := s.SetGameState(gs); err != nil {
		t.Fatalf("SetGameState: %v", err)
	}
	if got := s.GameStateValue(); got != gs {
		t.Errorf("GameStateValue = %p, want %p", got, gs)
	}
}

func TestSetGameStateAcceptsBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*client.GameState)
	}{
		{"zero hp", func(g *client.GameState) { g.Character.State.HitPoints.Current = 0 }},
		{"level 1", func(g *client.GameState) { g.Character.State.Level = intPtr(1) }},
		{"level 20", func(g *client.GameState) { g.Character.State.Level = intPtr(20) }},
		{"no level", func(g *client.GameState) { g.Character.State.Level = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := validState()
			tt.mutate(gs)
			if err := New().SetGameState(gs); err != nil {
				t.Errorf("SetGameState: %v", err)
			}
		})
	}
}

func TestSetGameStateInvalidLeavesStoreUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		mutate func(*client.GameState)
	}{
		{"missing id", "game_id", func(g *client.GameState) { g.GameID = "" }},
		{"blank id", "game_id", func(g *client.GameState) { g.GameID = "  " }},
		{"missing character", "character", func(g *client.GameState) { g.Character = nil }},
		{"missing location", "location", func(g *client.GameState) { g.Location = "" }},
		{"negative hp", "character.hit_points.current", func(g *client.GameState) { g.Character.State.HitPoints.Current = -1 }},
		{"level 0", "character.level", func(g *client.GameState) { g.Character.State.Level = intPtr(0) }},
		{"level 21", "character.level", func(g *client.GameState) { g.Character.State.Level = intPtr(21) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			prev := validState()
			if err := s.SetGameState(prev); err != nil {
				t.Fatal(err)
			}
			s.SetError("earlier failure")

			notified := 0
			s.OnGameStateChange(func(*client.GameState) { notified++ })

			bad := validState()
			tt.mutate(bad)
			err := s.SetGameState(bad)

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
			if s.GameStateValue() != prev {
				t.Error("game state changed after failed validation")
			}
			if notified != 0 {
				t.Errorf("listeners notified %d times", notified)
			}
			if got := s.Snapshot().Error; got != "earlier failure" {
				t.Errorf("error = %q, want it untouched", got)
			}
		})
	}
}

func TestSetGameStateNil(t *testing.T) {
	s := New()
	var ve *ValidationError
	if err := s.SetGameState(nil); !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestSetGameStateClearsErrorAfterPublish(t *testing.T) {
	s := New()
	s.SetError("stale")

	var order []string
	s.OnGameStateChange(func(*client.GameState) { order = append(order, "state") })
	s.OnErrorChange(func(e string) { order = append(order, "error="+e) })

	if err := s.SetGameState(validState()); err != nil {
		t.Fatal(err)
	}
	if strings.Join(order, ",") != "state,error=" {
		t.Errorf("order = %v, want state then cleared error", order)
	}
}

func TestClearGameState(t *testing.T) {
	s := New()
	if err := s.SetGameState(validState()); err != nil {
		t.Fatal(err)
	}
	s.ClearGameState()
	if s.GameStateValue() != nil {
		t.Error("expected nil game state")
	}
}

func TestSetSelectedMemberID(t *testing.T) {
	s := New()
	if err := s.SetGameState(validState()); err != nil {
		t.Fatal(err)
	}

	if err := s.SetSelectedMemberID("npc-1"); err != nil {
		t.Fatalf("SetSelectedMemberID(npc-1): %v", err)
	}
	if got := s.Snapshot().SelectedMemberID; got != "npc-1" {
		t.Errorf("selected = %q", got)
	}

	err := s.SetSelectedMemberID("npc-2")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	for _, want := range []string{`"npc-2"`, `{"player","npc-1"}`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
	if got := s.Snapshot().SelectedMemberID; got != "npc-1" {
		t.Errorf("selected = %q after failed set", got)
	}
}

func TestSetSelectedMemberIDWithoutGame(t *testing.T) {
	s := New()
	if err := s.SetSelectedMemberID("anyone"); err != nil {
		t.Fatalf("SetSelectedMemberID: %v", err)
	}
	if got := s.Snapshot().SelectedMemberID; got != "anyone" {
		t.Errorf("selected = %q", got)
	}
}

func TestNextMember(t *testing.T) {
	s := New()
	gs := validState()
	gs.Party.MemberIDs = []string{"npc-1", "npc-2"}
	if err := s.SetGameState(gs); err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		delta int
		want  string
	}{
		{1, "player"}, // nothing selected yet: start at the player
		{1, "npc-1"},
		{1, "npc-2"},
		{1, "player"},
		{-1, "npc-2"},
	}
	for i, st := range steps {
		if err := s.NextMember(st.delta); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got := s.Snapshot().SelectedMemberID; got != st.want {
			t.Errorf("step %d: selected = %q, want %q", i, got, st.want)
		}
	}

	if err := New().NextMember(1); err == nil {
		t.Error("expected error without a game")
	}
}

func TestCycleRightPanelView(t *testing.T) {
	s := New()
	want := []PanelView{PanelCharacterSheet, PanelInventory, PanelParty}
	for _, w := range want {
		s.CycleRightPanelView()
		if got := s.Snapshot().RightPanelView; got != w {
			t.Errorf("view = %q, want %q", got, w)
		}
	}
}

func TestResetFiresEachListenerOnce(t *testing.T) {
	s := New()
	if err := s.SetGameState(validState()); err != nil {
		t.Fatal(err)
	}
	s.SetIsProcessing(true)
	if err := s.SetSelectedMemberID("npc-1"); err != nil {
		t.Fatal(err)
	}
	s.SetError("boom")
	s.SetRightPanelView(PanelInventory)

	counts := map[string]int{}
	var (
		gotState     = validState()
		gotProc      = true
		gotMember    = "x"
		gotErr       = "x"
		gotPanelView PanelView
	)
	s.SubscribeAll(Handlers{
		OnGameState:      func(g *client.GameState) { counts["state"]++; gotState = g },
		OnProcessing:     func(b bool) { counts["proc"]++; gotProc = b },
		OnSelectedMember: func(m string) { counts["member"]++; gotMember = m },
		OnError:          func(e string) { counts["error"]++; gotErr = e },
		OnRightPanelView: func(v PanelView) { counts["panel"]++; gotPanelView = v },
	})

	s.Reset()

	for _, k := range []string{"state", "proc", "member", "error", "panel"} {
		if counts[k] != 1 {
			t.Errorf("%s fired %d times, want 1", k, counts[k])
		}
	}
	if gotState != nil || gotProc || gotMember != "" || gotErr != "" || gotPanelView != PanelParty {
		t.Errorf("unexpected reset values: %v %v %q %q %q", gotState, gotProc, gotMember, gotErr, gotPanelView)
	}
	if snap := s.Snapshot(); snap != (AppState{RightPanelView: PanelParty}) {
		t.Errorf("Snapshot after reset = %+v", snap)
	}
}

func TestSubscribeAllUnsubscribe(t *testing.T) {
	s := New()
	calls := 0
	unsub := s.SubscribeAll(Handlers{OnError: func(string) { calls++ }})
	unsub()
	s.SetError("x")
	if calls != 0 {
		t.Errorf("OnError fired %d times after unsubscribe", calls)
	}
}

func TestSubscribeAllOnlyRegistersGivenHandlers(t *testing.T) {
	s := New()
	other := 0
	s.OnErrorChange(func(string) { other++ })

	unsub := s.SubscribeAll(Handlers{OnProcessing: func(bool) {}})
	if n := s.processing.ListenerCount(); n != 1 {
		t.Fatalf("processing listeners = %d, want 1", n)
	}
	if n := s.gameState.ListenerCount(); n != 0 {
		t.Errorf("game state listeners = %d, want 0", n)
	}

	unsub()
	if n := s.processing.ListenerCount(); n != 0 {
		t.Errorf("processing listeners = %d after unsubscribe", n)
	}
	s.SetError("still here")
	if other != 1 {
		t.Errorf("unrelated listener fired %d times, want 1", other)
	}
}

func TestSnapshotIsPointInTime(t *testing.T) {
	s := New()
	s.SetIsProcessing(true)
	snap := s.Snapshot()
	s.SetIsProcessing(false)
	if !snap.IsProcessing {
		t.Error("snapshot changed after a later write")
	}
}

func TestStateErrorUnwrap(t *testing.T) {
	inner := errors.New("disk on fire")
	err := error(&StateError{Op: "set game state", Err: inner})
	if !errors.Is(err, inner) {
		t.Error("StateError should unwrap to the inner error")
	}
}

func TestSelectionResetWhenRosterShrinks(t *testing.T) {
	s := New()
	if err := s.SetGameState(validState()); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSelectedMemberID("npc-1"); err != nil {
		t.Fatal(err)
	}

	var events []string
	s.SubscribeAll(Handlers{
		OnGameState:      func(*client.GameState) { events = append(events, "state") },
		OnSelectedMember: func(id string) { events = append(events, "member:"+id) },
	})

	next := validState()
	next.Party.MemberIDs = nil
	if err := s.SetGameState(next); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().SelectedMemberID; got != "" {
		t.Errorf("selected after roster shrink = %q, allowed = %v", got, next.MemberIDs())
	}
	if strings.Join(events, ",") != "state,member:" {
		t.Errorf("events = %v, want snapshot then selection reset", events)
	}
}

func TestSelectionKeptWhenStillListed(t *testing.T) {
	s := New()
	if err := s.SetGameState(validState()); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSelectedMemberID("npc-1"); err != nil {
		t.Fatal(err)
	}
	next := validState()
	next.Party.MemberIDs = []string{"npc-2", "npc-1"}
	if err := s.SetGameState(next); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().SelectedMemberID; got != "npc-1" {
		t.Errorf("SelectedMemberID = %q, want npc-1", got)
	}
}

func TestSelectionBeforeLoadIsCheckedAgainstFirstSnapshot(t *testing.T) {
	s := New()
	if err := s.SetSelectedMemberID("npc-9"); err != nil {
		t.Fatalf("selection without a snapshot should be accepted: %v", err)
	}
	if err := s.SetGameState(validState()); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().SelectedMemberID; got != "" {
		t.Errorf("SelectedMemberID = %q, want reset", got)
	}
}

func TestWriteFailureBecomesStateError(t *testing.T) {
	var s Store // not built with New: no observables
	err := s.SetGameState(validState())
	var se *StateError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StateError", err)
	}
	if se.Op != "set game state" || se.Err == nil {
		t.Errorf("StateError = %+v", se)
	}

	var ve *ValidationError
	if err := s.SetGameState(nil); !errors.As(err, &ve) {
		t.Errorf("validation runs before the write: err = %v", err)
	}
}
