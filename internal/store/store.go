// Package store holds the per-session application state.
//
// A Store owns five observables and is their only writer. Snapshots and
// member selections are validated before anything is published, so a
// listener never sees a value that breaks an invariant. Create one Store at
// the composition root and pass it to every screen; Reset returns it to its
// defaults between sessions.
package store

import (
	"fmt"
	"slices"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/observable"
)

// PanelView selects what the right-hand panel of the game screen shows.
type PanelView string

const (
	PanelParty          PanelView = "party"
	PanelCharacterSheet PanelView = "character-sheet"
	PanelInventory      PanelView = "inventory"
)

var panelOrder = []PanelView{PanelParty, PanelCharacterSheet, PanelInventory}

// AppState is a point-in-time copy of every field. It is not reactive.
type AppState struct {
	GameState        *client.GameState
	IsProcessing     bool
	SelectedMemberID string
	Error            string
	RightPanelView   PanelView
}

// Handlers groups optional callbacks for SubscribeAll.
type Handlers struct {
	OnGameState      func(*client.GameState)
	OnProcessing     func(bool)
	OnSelectedMember func(string)
	OnError          func(string)
	OnRightPanelView func(PanelView)
}

// Store is the validating aggregate of application state.
type Store struct {
	gameState      *observable.Observable[*client.GameState]
	processing     *observable.Observable[bool]
	selectedMember *observable.Observable[string]
	errMsg         *observable.Observable[string]
	rightPanelView *observable.Observable[PanelView]
}

// New creates a store holding the default state.
func New() *Store {
	return &Store{
		gameState:      observable.New[*client.GameState](nil),
		processing:     observable.New(false),
		selectedMember: observable.New(""),
		errMsg:         observable.New(""),
		rightPanelView: observable.New(PanelParty),
	}
}

// SetGameState validates gs and publishes it, then clears the error. On a
// validation failure nothing is published and the error is left alone.
// A selected member that gs no longer lists is reset to "" (the player)
// right after the snapshot is published.
func (s *Store) SetGameState(gs *client.GameState) (err error) {
	if err := ValidateGameState(gs); err != nil {
		return err
	}
	defer recoverInto(&err, "set game state")
	s.gameState.Set(gs)
	if id := s.selectedMember.Get(); id != "" && !slices.Contains(gs.MemberIDs(), id) {
		s.selectedMember.Set("")
	}
	s.errMsg.Set("")
	return nil
}

// ClearGameState publishes an empty snapshot.
func (s *Store) ClearGameState() {
	s.gameState.Set(nil)
}

// SetIsProcessing publishes the processing flag.
func (s *Store) SetIsProcessing(v bool) {
	s.processing.Set(v)
}

// SetError publishes a user-visible error message.
func (s *Store) SetError(msg string) {
	s.errMsg.Set(msg)
}

// ClearError publishes the empty error.
func (s *Store) ClearError() {
	s.errMsg.Set("")
}

// SetRightPanelView publishes the right panel mode.
func (s *Store) SetRightPanelView(v PanelView) {
	s.rightPanelView.Set(v)
}

// CycleRightPanelView advances party -> character-sheet -> inventory -> party.
func (s *Store) CycleRightPanelView() {
	i := slices.Index(panelOrder, s.rightPanelView.Get())
	s.rightPanelView.Set(panelOrder[(i+1)%len(panelOrder)])
}

// SetSelectedMemberID publishes the selected party member. With a snapshot
// loaded, id must be the player or one of the party member ids; with none
// loaded any id is accepted.
func (s *Store) SetSelectedMemberID(id string) (err error) {
	if gs := s.gameState.Get(); gs != nil {
		if err := validateMember(gs, id); err != nil {
			return err
		}
	}
	defer recoverInto(&err, "set selected member")
	s.selectedMember.Set(id)
	return nil
}

// NextMember moves the selection delta steps through the player and party
// roster, wrapping around. It needs a loaded snapshot.
func (s *Store) NextMember(delta int) error {
	gs := s.gameState.Get()
	if gs == nil {
		return &ValidationError{Field: "game_state", Msg: "no game loaded"}
	}
	ids := gs.MemberIDs()
	if len(ids) == 0 {
		return &ValidationError{Field: "party", Msg: "no selectable members"}
	}
	i := slices.Index(ids, s.selectedMember.Get())
	if i < 0 {
		i = 0
	} else {
		i = ((i+delta)%len(ids) + len(ids)) % len(ids)
	}
	return s.SetSelectedMemberID(ids[i])
}

// Reset publishes the default value of every field.
func (s *Store) Reset() {
	s.gameState.Set(nil)
	s.processing.Set(false)
	s.selectedMember.Set("")
	s.errMsg.Set("")
	s.rightPanelView.Set(PanelParty)
}

// Snapshot reads all five fields.
func (s *Store) Snapshot() AppState {
	return AppState{
		GameState:        s.gameState.Get(),
		IsProcessing:     s.processing.Get(),
		SelectedMemberID: s.selectedMember.Get(),
		Error:            s.errMsg.Get(),
		RightPanelView:   s.rightPanelView.Get(),
	}
}

// GameStateValue returns the current snapshot, or nil.
func (s *Store) GameStateValue() *client.GameState { return s.gameState.Get() }

// Read-only sources for component subscriptions.

func (s *Store) GameState() observable.Source[*client.GameState] { return s.gameState }
func (s *Store) Processing() observable.Source[bool]             { return s.processing }
func (s *Store) SelectedMember() observable.Source[string]       { return s.selectedMember }
func (s *Store) Error() observable.Source[string]                { return s.errMsg }
func (s *Store) RightPanelView() observable.Source[PanelView]    { return s.rightPanelView }

func (s *Store) OnGameStateChange(fn func(*client.GameState)) observable.Unsubscribe {
	return s.gameState.Subscribe(fn)
}

func (s *Store) OnProcessingChange(fn func(bool)) observable.Unsubscribe {
	return s.processing.Subscribe(fn)
}

func (s *Store) OnSelectedMemberChange(fn func(string)) observable.Unsubscribe {
	return s.selectedMember.Subscribe(fn)
}

func (s *Store) OnErrorChange(fn func(string)) observable.Unsubscribe {
	return s.errMsg.Subscribe(fn)
}

func (s *Store) OnRightPanelViewChange(fn func(PanelView)) observable.Unsubscribe {
	return s.rightPanelView.Subscribe(fn)
}

// SubscribeAll registers the non-nil handlers. The returned func removes
// exactly those registrations.
func (s *Store) SubscribeAll(h Handlers) func() {
	var unsubs []observable.Unsubscribe
	if h.OnGameState != nil {
		unsubs = append(unsubs, s.gameState.Subscribe(h.OnGameState))
	}
	if h.OnProcessing != nil {
		unsubs = append(unsubs, s.processing.Subscribe(h.OnProcessing))
	}
	if h.OnSelectedMember != nil {
		unsubs = append(unsubs, s.selectedMember.Subscribe(h.OnSelectedMember))
	}
	if h.OnError != nil {
		unsubs = append(unsubs, s.errMsg.Subscribe(h.OnError))
	}
	if h.OnRightPanelView != nil {
		unsubs = append(unsubs, s.rightPanelView.Subscribe(h.OnRightPanelView))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// recoverInto turns a panic in a store write into a *StateError. Listener
// panics never get here since Observable.Set recovers them; this guards the
// write itself, such as a Store not built with New.
func recoverInto(err *error, op string) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = &StateError{Op: op, Err: e}
			return
		}
		*err = &StateError{Op: op, Err: fmt.Errorf("%v", r)}
	}
}
