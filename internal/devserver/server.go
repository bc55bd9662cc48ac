// Package devserver serves a client.API over the game backend's HTTP
// contract: REST routes plus live events on SSE and WebSocket. It lets the
// TUI and its transports run end to end against the offline backend.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
)

const (
	writeTimeout = 10 * time.Second
	authTimeout  = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	API     client.API
	Streams client.StreamFactory

	// AuthToken, when set, is required on every route.
	AuthToken      string
	AllowedOrigins []string
	// Heartbeat is the SSE keepalive interval; 0 means 15s.
	Heartbeat time.Duration
}

type Server struct {
	api            client.API
	streams        client.StreamFactory
	hub            *Hub
	authToken      string
	allowedOrigins map[string]bool
	allowedHosts   map[string]bool
	heartbeat      time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	pumps map[string]bool
	wg    sync.WaitGroup
}

func NewServer(opts Options) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		api:            opts.API,
		streams:        opts.Streams,
		hub:            NewHub(),
		authToken:      opts.AuthToken,
		allowedOrigins: make(map[string]bool),
		allowedHosts:   make(map[string]bool),
		heartbeat:      opts.Heartbeat,
		ctx:            ctx,
		cancel:         cancel,
		pumps:          make(map[string]bool),
	}
	if s.heartbeat <= 0 {
		s.heartbeat = 15 * time.Second
	}

	for _, origin := range opts.AllowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		s.allowedOrigins[trimmed] = true
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			s.allowedHosts[parsed.Host] = true
		}
	}
	return s
}

// Hub exposes the event fan-out, mainly for tests.
func (s *Server) Hub() *Hub { return s.hub }

// Close stops the event pumps and ends open streams.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/games", s.guard(s.handleGames))
	mux.HandleFunc("GET /api/characters", s.guard(s.handleCharacters))
	mux.HandleFunc("GET /api/scenarios", s.guard(s.handleScenarios))
	mux.HandleFunc("POST /api/game/new", s.guard(s.handleNewGame))
	mux.HandleFunc("GET /api/game/{id}", s.guard(s.handleGame))
	mux.HandleFunc("POST /api/game/{id}/action", s.guard(s.handleAction))
	mux.HandleFunc("GET /api/game/{id}/sse", s.guard(s.handleSSE))
	// The WebSocket client may authenticate with its first message.
	mux.HandleFunc("GET /api/game/{id}/ws", s.handleWS)
}

func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authorize(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.api.ListGames(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	chars, err := s.api.ListCharacters(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, chars)
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.api.ListScenarios(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req client.NewGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	resp, err := s.api.NewGame(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("devserver: game %s created", resp.GameID)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	gs, err := s.api.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.api.GetGame(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	var req client.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	// Start forwarding before the backend begins emitting the turn.
	s.ensurePump(id)
	if err := s.api.SendAction(r.Context(), id, req.Message); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "processing"})
}

// follow subscribes to id after checking the game exists, and queues the
// current snapshot so a (re)connecting client starts in sync.
func (s *Server) follow(ctx context.Context, id string) (*subscriber, int, error) {
	gs, err := s.api.GetGame(ctx, id)
	if err != nil {
		return nil, http.StatusNotFound, err
	}
	env, _, err := encodeEvent(client.GameUpdateMsg{Payload: client.GameUpdatePayload{GameState: gs}})
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	s.ensurePump(id)
	return s.hub.Subscribe(id, env), http.StatusOK, nil
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	sub, code, err := s.follow(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), code)
		return
	}
	defer s.hub.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "event: %s\ndata: {}\n\n", client.EventConnected)
	flusher.Flush()

	log.Printf("devserver: sse client connected: %s", r.RemoteAddr)
	defer log.Printf("devserver: sse client disconnected: %s", r.RemoteAddr)

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprintf(w, "event: %s\ndata: {}\n\n", client.EventHeartbeat)
		case env, ok := <-sub.send:
			if !ok {
				return
			}
			if env.Seq > 0 {
				fmt.Fprintf(w, "id: %d\n", env.Seq)
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", env.Type, env.Payload)
		}
		flusher.Flush()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.api.GetGame(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: s.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("devserver: ws upgrade error: %v", err)
		return
	}

	if !s.authorize(r) && !s.authorizeConn(conn) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized"),
			time.Now().Add(writeTimeout))
		conn.Close()
		return
	}

	sub, _, err := s.follow(r.Context(), id)
	if err != nil {
		conn.Close()
		return
	}
	log.Printf("devserver: ws client connected: %s", r.RemoteAddr)

	go s.writePump(conn, sub)
	go func() {
		defer func() {
			s.hub.Unsubscribe(sub)
			log.Printf("devserver: ws client disconnected: %s", r.RemoteAddr)
		}()
		// Reading keeps the default ping handler answering client pings.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// authorizeConn accepts a first message of {"type":"auth","token":...}.
func (s *Server) authorizeConn(conn *websocket.Conn) bool {
	conn.SetReadDeadline(time.Now().Add(authTimeout))
	defer conn.SetReadDeadline(time.Time{})
	var msg struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		return false
	}
	return msg.Type == "auth" && msg.Token == s.authToken
}

func (s *Server) writePump(conn *websocket.Conn, sub *subscriber) {
	defer conn.Close()
	for {
		select {
		case <-s.ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeTimeout))
			return
		case env, ok := <-sub.send:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(env); err != nil {
				s.hub.Unsubscribe(sub)
				return
			}
		}
	}
}

// ensurePump starts forwarding id's backend events to the hub, once per
// game for the life of the server.
func (s *Server) ensurePump(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pumps[id] || s.ctx.Err() != nil {
		return
	}
	s.pumps[id] = true
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.pump(id)
	}()
}

func (s *Server) pump(id string) {
	stream := s.streams(id)
	defer stream.Close()

	if _, ok := stream.Listen(s.ctx)().(client.StreamConnectedMsg); !ok {
		return
	}
	for {
		msg := stream.ReadLoop(s.ctx)()
		switch msg.(type) {
		case nil:
			return
		case client.StreamDisconnectedMsg:
			if _, ok := stream.Listen(s.ctx)().(client.StreamConnectedMsg); !ok {
				return
			}
			continue
		}
		env, ok, err := encodeEvent(msg)
		if err != nil {
			log.Printf("devserver: %v", err)
			continue
		}
		if ok {
			s.hub.Publish(id, env)
		}
	}
}

func (s *Server) authorize(r *http.Request) bool {
	if s.authToken == "" {
		return true
	}

	if r.URL.Query().Get("token") == s.authToken {
		return true
	}

	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.authToken {
		return true
	}

	return false
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(s.allowedOrigins) > 0 {
		if s.allowedOrigins[origin] {
			return true
		}
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			return s.allowedHosts[parsed.Host]
		}
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := parsed.Hostname()
	return parsed.Host == r.Host || host == "localhost" || host == "127.0.0.1" || host == "::1"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("devserver: encode response: %v", err)
	}
}

// ListenAndServe serves mux on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, mux *http.ServeMux) error {
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	log.Printf("devserver: listening on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
