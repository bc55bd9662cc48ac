package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// SSEStream reads the backend's text/event-stream for one game.
type SSEStream struct {
	url    string
	token  string
	client *http.Client

	mu          sync.Mutex
	body        io.ReadCloser
	reader      *bufio.Reader
	lastEventID string
}

var _ Stream = (*SSEStream)(nil)

// NewSSEStream creates a stream for the given event-stream URL.
func NewSSEStream(url, token string) *SSEStream {
	// No client timeout: the response body stays open for the session.
	return &SSEStream{url: url, token: token, client: &http.Client{}}
}

// Listen returns a Bubble Tea command that connects, retrying with
// exponential backoff until ctx is cancelled.
func (s *SSEStream) Listen(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		delay := reconnectBaseDelay
		for {
			if ctx.Err() != nil {
				return nil
			}

			body, err := s.dial(ctx)
			if err != nil {
				log.Printf("sse dial error: %v (retry in %v)", err, delay)
				if !sleepCtx(ctx, delay) {
					return nil
				}
				delay = min(delay*2, reconnectMaxDelay)
				continue
			}

			s.mu.Lock()
			if s.body != nil {
				s.body.Close()
			}
			s.body = body
			s.reader = bufio.NewReader(body)
			s.mu.Unlock()

			return StreamConnectedMsg{}
		}
	}
}

func (s *SSEStream) dial(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	s.mu.Lock()
	if s.lastEventID != "" {
		req.Header.Set("Last-Event-ID", s.lastEventID)
	}
	s.mu.Unlock()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %d %s", s.url, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return resp.Body, nil
}

// ReadLoop returns a Bubble Tea command that reads events until one maps to
// a message. Start it after StreamConnectedMsg and again after each event.
func (s *SSEStream) ReadLoop(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		s.mu.Lock()
		r := s.reader
		body := s.body
		s.mu.Unlock()
		if r == nil {
			return StreamDisconnectedMsg{Err: fmt.Errorf("no connection")}
		}

		for {
			ev, err := readEvent(r)
			if err != nil {
				s.mu.Lock()
				if s.body == body {
					s.body = nil
					s.reader = nil
				}
				s.mu.Unlock()
				body.Close()
				if ctx.Err() != nil {
					return nil
				}
				return StreamDisconnectedMsg{Err: err}
			}

			if ev.id != "" {
				s.mu.Lock()
				s.lastEventID = ev.id
				s.mu.Unlock()
			}

			if msg := ev.decode(); msg != nil {
				return msg
			}
		}
	}
}

// Close drops the current connection.
func (s *SSEStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.body == nil {
		return nil
	}
	err := s.body.Close()
	s.body = nil
	s.reader = nil
	return err
}

type sseEvent struct {
	id   string
	typ  string
	data string
}

// decode maps the event to a message. Unnamed events carry a JSON envelope.
func (e sseEvent) decode() tea.Msg {
	if e.typ == "" || e.typ == "message" {
		var env Envelope
		if json.Unmarshal([]byte(e.data), &env) != nil {
			return nil
		}
		return decodeEvent(env.Type, env.Payload)
	}
	return decodeEvent(EventType(e.typ), []byte(e.data))
}

// readEvent reads lines up to the blank line that terminates an event.
// Comment lines and events without data are skipped.
func readEvent(r *bufio.Reader) (sseEvent, error) {
	var ev sseEvent
	var data []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return sseEvent{}, err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if len(data) == 0 {
				ev = sseEvent{}
				continue
			}
			ev.data = strings.Join(data, "\n")
			return ev, nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			ev.typ = value
		case "data":
			data = append(data, value)
		case "id":
			ev.id = value
		}
	}
}
