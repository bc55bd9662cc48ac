package rightpanel

import (
	"strings"
	"testing"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/viewtest"
)

func setup(t *testing.T) (*store.Store, *dom.Node, *Panel) {
	t.Helper()
	s := store.New()
	if err := s.SetGameState(viewtest.GameState()); err != nil {
		t.Fatal(err)
	}
	root := dom.NewBlock()
	p := New(s, 40, 20)
	p.Mount(root)
	return s, root, p
}

func TestSwitchesChildWithStore(t *testing.T) {
	s, root, p := setup(t)

	if root.Find("member-player") == nil || root.Find("member-npc-elena") == nil {
		t.Fatalf("party view should list both members:\n%s", root.PlainText())
	}
	if p.Sheet() != nil {
		t.Error("sheet should not be mounted on the party view")
	}

	s.CycleRightPanelView()
	if p.Current() != store.PanelCharacterSheet {
		t.Fatalf("Current = %q", p.Current())
	}
	if root.Find("member-player") != nil {
		t.Error("party rows should be gone after switching")
	}
	if root.Find("sheet-player") == nil || p.Sheet() == nil {
		t.Fatalf("sheet missing:\n%s", root.PlainText())
	}

	s.SetRightPanelView(store.PanelInventory)
	if root.Find("inventory-player") == nil {
		t.Fatalf("inventory missing:\n%s", root.PlainText())
	}
	if p.Sheet() != nil {
		t.Error("sheet reference should be dropped once unmounted")
	}
	if !strings.Contains(root.Find("rightpanel-tabs").Text, "[Items]") {
		t.Error("inventory tab should be highlighted")
	}
}

func TestChildFollowsSelection(t *testing.T) {
	s, root, _ := setup(t)
	s.SetRightPanelView(store.PanelCharacterSheet)

	if err := s.SetSelectedMemberID("npc-elena"); err != nil {
		t.Fatal(err)
	}
	if root.Find("sheet-npc-elena") == nil {
		t.Errorf("sheet should show the selected member:\n%s", root.PlainText())
	}
}

func TestRerenderKeepsChild(t *testing.T) {
	s, root, p := setup(t)
	p.Update(func(pr *Props) { pr.Height = 30 })

	if root.Find("member-player") == nil {
		t.Fatal("child lost after re-render")
	}
	// The child is still subscribed and rendered inside the new slot.
	if err := s.SetSelectedMemberID("npc-elena"); err != nil {
		t.Fatal(err)
	}
	slot := p.Element().Find(slotID)
	if len(slot.Children()) != 1 || !strings.Contains(slot.PlainText(), "▶") {
		t.Errorf("slot = %q", slot.PlainText())
	}
}

func TestUnmountReleasesChildSubscriptions(t *testing.T) {
	s, _, p := setup(t)
	p.Unmount()

	s.SetRightPanelView(store.PanelInventory)
	if p.IsMounted() || p.Sheet() != nil {
		t.Error("panel should be fully unmounted")
	}
	if p.Props().View != store.PanelParty {
		t.Error("unmounted panel should not react to view changes")
	}
}
