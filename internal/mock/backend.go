// Package mock provides an offline backend for running the client without a
// game server. It implements client.API and serves scripted live events
// through client.Stream.
package mock

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
)

const eventBuffer = 64

// Backend is an in-memory game server.
type Backend struct {
	mu     sync.Mutex
	games  map[string]*client.GameState
	events map[string]chan tea.Msg
	order  []string
	nextID int
	tick   time.Duration
	rng    *rand.Rand
	now    func() time.Time
}

var _ client.API = (*Backend)(nil)

// NewBackend creates a backend that paces scripted events tick apart.
func NewBackend(tick time.Duration, seed int64) *Backend {
	return &Backend{
		games:  make(map[string]*client.GameState),
		events: make(map[string]chan tea.Msg),
		tick:   tick,
		rng:    rand.New(rand.NewSource(seed)),
		now:    time.Now,
	}
}

// ListGames returns saved games, most recent first.
func (b *Backend) ListGames(context.Context) ([]client.GameSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]client.GameSummary, 0, len(b.order))
	for i := len(b.order) - 1; i >= 0; i-- {
		gs := b.games[b.order[i]]
		level := 0
		if gs.Character.State.Level != nil {
			level = *gs.Character.State.Level
		}
		out = append(out, client.GameSummary{
			GameID:        gs.GameID,
			CharacterName: gs.Character.Sheet.Name,
			ScenarioTitle: gs.ScenarioTitle,
			Location:      gs.Location,
			Level:         level,
			LastSaved:     gs.LastSaved,
		})
	}
	return out, nil
}

// ListCharacters returns the pre-made characters.
func (b *Backend) ListCharacters(context.Context) ([]client.CharacterSheet, error) {
	out := make([]client.CharacterSheet, 0, len(characters))
	for _, c := range characters {
		out = append(out, c.Sheet)
	}
	return out, nil
}

// ListScenarios returns the available adventures.
func (b *Backend) ListScenarios(context.Context) ([]client.ScenarioSummary, error) {
	return slices.Clone(scenarios), nil
}

// NewGame starts a session for the chosen character and scenario.
func (b *Backend) NewGame(_ context.Context, req client.NewGameRequest) (*client.NewGameResponse, error) {
	idx := slices.IndexFunc(characters, func(c client.CharacterInstance) bool { return c.Sheet.ID == req.CharacterID })
	if idx < 0 {
		return nil, fmt.Errorf("unknown character %q", req.CharacterID)
	}
	scenario := scenarios[0]
	if req.ScenarioID != "" {
		i := slices.IndexFunc(scenarios, func(s client.ScenarioSummary) bool { return s.ID == req.ScenarioID })
		if i < 0 {
			return nil, fmt.Errorf("unknown scenario %q", req.ScenarioID)
		}
		scenario = scenarios[i]
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := fmt.Sprintf("mock-%s-%d", scenario.ID, b.nextID)
	now := b.now()
	ch := cloneCharacter(characters[idx])
	npcs := make([]client.NPCInstance, 0, len(companions))
	for _, n := range companions {
		npcs = append(npcs, cloneNPC(n))
	}
	b.games[id] = &client.GameState{
		GameID:        id,
		ScenarioID:    scenario.ID,
		ScenarioTitle: scenario.Title,
		Character:     &ch,
		Location:      scenarioLocations[scenario.ID][0],
		Party:         client.Party{MemberIDs: []string{companions[0].InstanceID}, MaxSize: 4},
		NPCs:          npcs,
		ConversationHistory: []client.Message{{
			Role:      client.RoleDM,
			Content:   fmt.Sprintf("**%s**\n\n%s", scenario.Title, scenario.Description),
			AgentType: "narrative",
			Timestamp: now,
		}},
		ActiveAgent: "narrative",
		GameTime:    client.GameTime{Day: 1, Hour: 9},
		CreatedAt:   now,
		LastSaved:   now,
	}
	b.order = append(b.order, id)
	b.events[id] = make(chan tea.Msg, eventBuffer)
	return &client.NewGameResponse{GameID: id, Status: "created"}, nil
}

// GetGame returns a copy of the session snapshot.
func (b *Backend) GetGame(_ context.Context, gameID string) (*client.GameState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	gs, ok := b.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %q not found", gameID)
	}
	return cloneState(gs), nil
}

// SendAction resolves the action and schedules its events on the stream.
func (b *Backend) SendAction(_ context.Context, gameID, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Errorf("empty action")
	}

	b.mu.Lock()
	gs, ok := b.games[gameID]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("game %q not found", gameID)
	}
	next := cloneState(gs)
	script := b.resolve(next, message)
	next.LastSaved = b.now()
	b.games[gameID] = next
	out := cloneState(next)
	ch := b.events[gameID]
	b.mu.Unlock()

	script = append(script, client.GameUpdateMsg{Payload: client.GameUpdatePayload{GameState: out}}, client.CompleteMsg{})
	go b.play(ch, script)
	return nil
}

func (b *Backend) play(ch chan<- tea.Msg, script []tea.Msg) {
	for _, msg := range script {
		if b.tick > 0 {
			time.Sleep(b.tick)
		}
		ch <- msg
	}
}

// StreamFactory returns streams reading this backend's scripted events.
func (b *Backend) StreamFactory() client.StreamFactory {
	return func(gameID string) client.Stream {
		b.mu.Lock()
		ch := b.events[gameID]
		b.mu.Unlock()
		return &stream{events: ch}
	}
}

// stream hands scripted events to the Bubble Tea loop.
type stream struct {
	events <-chan tea.Msg
}

func (s *stream) Listen(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		if s.events == nil {
			// Unknown game: nothing will ever arrive.
			<-ctx.Done()
			return nil
		}
		return client.StreamConnectedMsg{}
	}
}

func (s *stream) ReadLoop(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-s.events:
			return msg
		}
	}
}

func (s *stream) Close() error { return nil }
