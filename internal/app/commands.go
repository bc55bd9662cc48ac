package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
)

// REST results delivered back to Update.
type (
	gamesLoadedMsg struct {
		games []client.GameSummary
		err   error
	}
	catalogLoadedMsg struct {
		characters []client.CharacterSheet
		scenarios  []client.ScenarioSummary
		err        error
	}
	gameStartedMsg struct {
		gameID string
		err    error
	}
	gameLoadedMsg struct {
		state *client.GameState
		err   error
	}
	actionSentMsg struct {
		err error
	}
)

func loadGames(ctx context.Context, api client.API) tea.Cmd {
	return func() tea.Msg {
		games, err := api.ListGames(ctx)
		return gamesLoadedMsg{games: games, err: err}
	}
}

func loadCatalog(ctx context.Context, api client.API) tea.Cmd {
	return func() tea.Msg {
		chars, err := api.ListCharacters(ctx)
		if err != nil {
			return catalogLoadedMsg{err: err}
		}
		scenarios, err := api.ListScenarios(ctx)
		return catalogLoadedMsg{characters: chars, scenarios: scenarios, err: err}
	}
}

func startGame(ctx context.Context, api client.API, req client.NewGameRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := api.NewGame(ctx, req)
		if err != nil {
			return gameStartedMsg{err: err}
		}
		return gameStartedMsg{gameID: resp.GameID}
	}
}

func loadGame(ctx context.Context, api client.API, gameID string) tea.Cmd {
	return func() tea.Msg {
		gs, err := api.GetGame(ctx, gameID)
		return gameLoadedMsg{state: gs, err: err}
	}
}

func sendAction(ctx context.Context, api client.API, gameID, message string) tea.Cmd {
	return func() tea.Msg {
		return actionSentMsg{err: api.SendAction(ctx, gameID, message)}
	}
}
