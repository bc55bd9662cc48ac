package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// API is the REST surface the screens depend on. HTTPClient talks to a real
// backend; the mock package provides an offline implementation.
type API interface {
	ListGames(ctx context.Context) ([]GameSummary, error)
	ListCharacters(ctx context.Context) ([]CharacterSheet, error)
	ListScenarios(ctx context.Context) ([]ScenarioSummary, error)
	NewGame(ctx context.Context, req NewGameRequest) (*NewGameResponse, error)
	GetGame(ctx context.Context, gameID string) (*GameState, error)
	SendAction(ctx context.Context, gameID, message string) error
}

// HTTPClient makes REST calls to the game backend.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

var _ API = (*HTTPClient)(nil)

// NewHTTPClient creates a client targeting the given base URL (e.g. "http://127.0.0.1:8123").
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend root this client targets.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// ListGames fetches /api/games.
func (c *HTTPClient) ListGames(ctx context.Context) ([]GameSummary, error) {
	var out []GameSummary
	if err := c.get(ctx, "/api/games", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCharacters fetches /api/characters.
func (c *HTTPClient) ListCharacters(ctx context.Context) ([]CharacterSheet, error) {
	var out []CharacterSheet
	if err := c.get(ctx, "/api/characters", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListScenarios fetches /api/scenarios.
func (c *HTTPClient) ListScenarios(ctx context.Context) ([]ScenarioSummary, error) {
	var out []ScenarioSummary
	if err := c.get(ctx, "/api/scenarios", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NewGame sends POST /api/game/new.
func (c *HTTPClient) NewGame(ctx context.Context, req NewGameRequest) (*NewGameResponse, error) {
	var out NewGameResponse
	if err := c.post(ctx, "/api/game/new", req, &out); err != nil {
		return nil, err
	}
	if out.GameID == "" {
		return nil, fmt.Errorf("POST /api/game/new: response has no game_id")
	}
	return &out, nil
}

// GetGame fetches /api/game/{id}.
func (c *HTTPClient) GetGame(ctx context.Context, gameID string) (*GameState, error) {
	var out GameState
	if err := c.get(ctx, "/api/game/"+url.PathEscape(gameID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendAction sends POST /api/game/{id}/action. The response only
// acknowledges the action; results arrive on the live stream.
func (c *HTTPClient) SendAction(ctx context.Context, gameID, message string) error {
	return c.post(ctx, "/api/game/"+url.PathEscape(gameID)+"/action", ActionRequest{Message: message}, nil)
}

func (c *HTTPClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{Method: http.MethodGet, Path: path, Code: resp.StatusCode, Body: string(body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &StatusError{Method: http.MethodPost, Path: path, Code: resp.StatusCode, Body: string(respBody)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, e.Body)
}
