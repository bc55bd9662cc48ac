package devserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/mock"
)

func newTestServer(t *testing.T, token string) (*Server, *httptest.Server) {
	t.Helper()
	backend := mock.NewBackend(0, 42)
	s := NewServer(Options{API: backend, Streams: backend.StreamFactory(), AuthToken: token})
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return s, ts
}

func newGame(t *testing.T, api client.API) string {
	t.Helper()
	resp, err := api.NewGame(context.Background(), client.NewGameRequest{CharacterID: "aldric-swiftarrow"})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return resp.GameID
}

// playTurn sends an action and reads stream events until the turn completes.
func playTurn(t *testing.T, api client.API, stream client.Stream, gameID, action string) []tea.Msg {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, ok := stream.Listen(ctx)().(client.StreamConnectedMsg); !ok {
		t.Fatal("expected StreamConnectedMsg")
	}
	if _, ok := stream.ReadLoop(ctx)().(client.GameUpdateMsg); !ok {
		t.Fatal("first event should be the current snapshot")
	}
	if err := api.SendAction(ctx, gameID, action); err != nil {
		t.Fatalf("SendAction: %v", err)
	}

	var msgs []tea.Msg
	for {
		msg := stream.ReadLoop(ctx)()
		switch msg.(type) {
		case nil:
			t.Fatalf("stream ended early after %d events", len(msgs))
		case client.StreamDisconnectedMsg:
			t.Fatalf("stream dropped: %v", msg)
		case client.CompleteMsg:
			return msgs
		}
		msgs = append(msgs, msg)
	}
}

func lastLocation(msgs []tea.Msg) string {
	loc := ""
	for _, m := range msgs {
		if u, ok := m.(client.GameUpdateMsg); ok {
			loc = u.Payload.GameState.Location
		}
	}
	return loc
}

func TestRESTRoutes(t *testing.T) {
	_, ts := newTestServer(t, "")
	api := client.NewHTTPClient(ts.URL, "", 0)
	ctx := context.Background()

	chars, err := api.ListCharacters(ctx)
	if err != nil || len(chars) == 0 {
		t.Fatalf("ListCharacters = %v, %v", chars, err)
	}
	scenarios, err := api.ListScenarios(ctx)
	if err != nil || len(scenarios) == 0 {
		t.Fatalf("ListScenarios = %v, %v", scenarios, err)
	}

	id := newGame(t, api)
	gs, err := api.GetGame(ctx, id)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if gs.GameID != id || gs.Character.Sheet.Name != "Aldric Swiftarrow" {
		t.Errorf("GetGame = %+v", gs)
	}

	games, err := api.ListGames(ctx)
	if err != nil || len(games) != 1 || games[0].GameID != id {
		t.Errorf("ListGames = %+v, %v", games, err)
	}
}

func TestRESTErrors(t *testing.T) {
	_, ts := newTestServer(t, "")
	api := client.NewHTTPClient(ts.URL, "", 0)
	ctx := context.Background()
	id := newGame(t, api)

	tests := []struct {
		name string
		call func() error
		code int
	}{
		{"unknown game", func() error { _, err := api.GetGame(ctx, "nope"); return err }, http.StatusNotFound},
		{"action on unknown game", func() error { return api.SendAction(ctx, "nope", "look") }, http.StatusNotFound},
		{"empty action", func() error { return api.SendAction(ctx, id, "  ") }, http.StatusBadRequest},
		{"unknown character", func() error {
			_, err := api.NewGame(ctx, client.NewGameRequest{CharacterID: "nobody"})
			return err
		}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var se *client.StatusError
			if err := tt.call(); !errors.As(err, &se) || se.Code != tt.code {
				t.Errorf("err = %v, want status %d", err, tt.code)
			}
		})
	}
}

func TestAuthorizeREST(t *testing.T) {
	_, ts := newTestServer(t, "secret")

	var se *client.StatusError
	_, err := client.NewHTTPClient(ts.URL, "", 0).ListGames(context.Background())
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Errorf("no token: err = %v", err)
	}
	if _, err := client.NewHTTPClient(ts.URL, "secret", 0).ListGames(context.Background()); err != nil {
		t.Errorf("bearer token: %v", err)
	}

	resp, err := http.Get(ts.URL + "/api/games?token=secret")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("query token: status %d", resp.StatusCode)
	}
}

func TestSSEStreamPlaysTurn(t *testing.T) {
	s, ts := newTestServer(t, "secret")
	api := client.NewHTTPClient(ts.URL, "secret", 0)
	id := newGame(t, api)

	streams, err := client.NewStreamFactory(client.TransportSSE, ts.URL, "secret")
	if err != nil {
		t.Fatal(err)
	}
	stream := streams(id)
	defer stream.Close()

	msgs := playTurn(t, api, stream, id, "travel north")
	if got := lastLocation(msgs); got != "Triboar Trail" {
		t.Errorf("location = %q, events = %#v", got, msgs)
	}
	if n := s.Hub().ClientCount(id); n != 1 {
		t.Errorf("ClientCount = %d, want 1", n)
	}
}

func TestWSStreamPlaysTurn(t *testing.T) {
	_, ts := newTestServer(t, "secret")
	api := client.NewHTTPClient(ts.URL, "secret", 0)
	id := newGame(t, api)

	streams, err := client.NewStreamFactory(client.TransportWebSocket, ts.URL, "secret")
	if err != nil {
		t.Fatal(err)
	}
	stream := streams(id)
	defer stream.Close()

	msgs := playTurn(t, api, stream, id, "attack the goblin")
	var sawCombat, sawRoll bool
	for _, m := range msgs {
		switch m := m.(type) {
		case client.CombatUpdateMsg:
			sawCombat = m.Payload.Combat != nil && m.Payload.Combat.IsActive
		case client.ToolCallMsg:
			sawRoll = sawRoll || m.Payload.ToolName == "roll_dice"
		}
	}
	if !sawCombat || !sawRoll {
		t.Errorf("missing combat events: %#v", msgs)
	}
	if seq := stream.(*client.WSStream).Seq(); seq == 0 {
		t.Error("published events should carry sequence numbers")
	}
}

func TestWSRejectsBadToken(t *testing.T) {
	_, ts := newTestServer(t, "secret")
	api := client.NewHTTPClient(ts.URL, "secret", 0)
	id := newGame(t, api)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/game/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "auth", "token": "wrong"}); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Errorf("read err = %v, want policy violation close", err)
	}
}

func TestStreamUnknownGame(t *testing.T) {
	_, ts := newTestServer(t, "")
	resp, err := http.Get(ts.URL + "/api/game/nope/sse")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCheckOrigin(t *testing.T) {
	open := NewServer(Options{})
	restricted := NewServer(Options{AllowedOrigins: []string{"https://dm.example.com", " "}})
	t.Cleanup(open.Close)
	t.Cleanup(restricted.Close)

	tests := []struct {
		name   string
		s      *Server
		origin string
		want   bool
	}{
		{"no origin", open, "", true},
		{"same host", open, "http://game.local:8123", true},
		{"localhost", open, "http://localhost:3000", true},
		{"loopback v6", open, "http://[::1]:3000", true},
		{"foreign", open, "https://evil.example", false},
		{"allowed", restricted, "https://dm.example.com", true},
		{"allowed host other scheme", restricted, "http://dm.example.com", true},
		{"not allowed", restricted, "http://localhost:3000", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://game.local:8123/api/game/g/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := tt.s.checkOrigin(r); got != tt.want {
				t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
