package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/chat"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/debug"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/game"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/gamelist"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/setup"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/views/status"
)

// Screen identifies the active top-level screen.
type Screen int

const (
	ScreenGameList Screen = iota
	ScreenSetup
	ScreenGame
)

// Options wires the model to its collaborators.
type Options struct {
	API           client.API
	Streams       client.StreamFactory
	Store         *store.Store
	MarkdownStyle string
	AnimateHP     bool
	MaxLogLines   int
}

// Model is the root Bubble Tea model. It owns the screen state machine and
// is the only code that writes to the store.
type Model struct {
	api     client.API
	streams client.StreamFactory
	store   *store.Store
	ctx     context.Context
	cancel  context.CancelFunc

	keys          KeyMap
	width         int
	height        int
	markdownStyle string
	animateHP     bool

	// Screens. Exactly one is mounted under root.
	screen Screen
	root   *dom.Node
	list   *gamelist.List
	setup  *setup.Screen
	game   *game.Screen

	// Session.
	gameID       string
	stream       client.Stream
	streamCtx    context.Context
	streamCancel context.CancelFunc
	connected    bool

	input     textinput.Model
	spinner   spinner.Model
	hp        hpAnim
	debug     debug.Model
	showDebug bool
	unwatch   func()
}

// New creates the root model showing the game list.
func New(opts Options) *Model {
	ctx, cancel := context.WithCancel(context.Background())

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What do you do?"
	ti.CharLimit = 500

	m := &Model{
		api:           opts.API,
		streams:       opts.Streams,
		store:         opts.Store,
		ctx:           ctx,
		cancel:        cancel,
		keys:          DefaultKeyMap(),
		markdownStyle: opts.MarkdownStyle,
		animateHP:     opts.AnimateHP,
		root:          dom.NewBlock(),
		input:         ti,
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		hp:            newHPAnim(),
		debug:         debug.New(),
	}
	m.debug.Limit = opts.MaxLogLines
	m.unwatch = m.store.SubscribeAll(store.Handlers{
		OnGameState: func(gs *client.GameState) {
			if gs == nil {
				m.debug.State("game_state", "cleared")
				return
			}
			m.debug.State("game_state", "%s at %s (%d messages)", gs.GameID, gs.Location, len(gs.ConversationHistory))
		},
		OnProcessing:     func(v bool) { m.debug.State("processing", "%t", v) },
		OnSelectedMember: func(id string) { m.debug.State("selected_member", "%q", id) },
		OnRightPanelView: func(v store.PanelView) { m.debug.State("right_panel_view", "%s", v) },
		OnError: func(e string) {
			if e != "" {
				m.debug.Add(debug.KindError, e)
			}
		},
	})
	m.showList()
	return m
}

// Init loads the saved games.
func (m *Model) Init() tea.Cmd {
	return loadGames(m.ctx, m.api)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.store.Processing().Get() || m.game == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		frame := m.spinner.View()
		m.game.Status().Update(func(p *status.Props) { p.Spinner = frame })
		return m, cmd

	case hpFrameMsg:
		return m, m.stepHP()

	case gamesLoadedMsg:
		if m.list == nil {
			return m, nil
		}
		if msg.err != nil {
			m.fail("load games", msg.err)
		}
		m.list.SetGames(msg.games)
		return m, nil

	case catalogLoadedMsg:
		if m.setup == nil {
			return m, nil
		}
		if msg.err != nil {
			m.fail("load catalog", msg.err)
		}
		m.setup.SetCatalog(msg.characters, msg.scenarios)
		return m, nil

	case gameStartedMsg:
		if msg.err != nil {
			m.fail("new game", msg.err)
			return m, nil
		}
		m.debug.Addf(debug.KindNet, "created game %s", msg.gameID)
		return m, loadGame(m.ctx, m.api, msg.gameID)

	case gameLoadedMsg:
		if msg.err != nil {
			m.fail("load game", msg.err)
			return m, nil
		}
		return m, m.enterGame(msg.state)

	case actionSentMsg:
		if msg.err != nil {
			m.store.SetIsProcessing(false)
			m.fail("send action", msg.err)
		}
		return m, nil
	}

	if cmd, ok := m.handleStream(msg); ok {
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, m.quit()
	}

	if m.showDebug {
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Debug):
			m.showDebug = false
		case key.Matches(msg, m.keys.Up):
			m.debug.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.debug.ScrollDown(1)
		case key.Matches(msg, m.keys.Tab):
			m.debug.CycleFilter()
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.Debug) {
		m.showDebug = true
		return m, nil
	}

	switch m.screen {
	case ScreenGameList:
		return m.listKey(msg)
	case ScreenSetup:
		return m.setupKey(msg)
	default:
		return m.gameKey(msg)
	}
}

func (m *Model) listKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Up):
		m.list.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.list.Move(1)
	case key.Matches(msg, m.keys.Refresh):
		m.store.ClearError()
		return m, loadGames(m.ctx, m.api)
	case key.Matches(msg, m.keys.Enter):
		m.store.ClearError()
		if g, ok := m.list.Selected(); ok {
			m.debug.Addf(debug.KindNet, "GET game %s", g.GameID)
			return m, loadGame(m.ctx, m.api, g.GameID)
		}
		m.showSetup()
		return m, loadCatalog(m.ctx, m.api)
	}
	return m, nil
}

func (m *Model) setupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.store.ClearError()
		m.showList()
		return m, loadGames(m.ctx, m.api)
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Up):
		m.setup.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.setup.Move(1)
	case key.Matches(msg, m.keys.Tab):
		m.setup.ToggleFocus()
	case key.Matches(msg, m.keys.Enter):
		req, ok := m.setup.Choice()
		if !ok || m.setup.Props().Starting {
			return m, nil
		}
		m.store.ClearError()
		m.setup.MarkStarting()
		m.debug.Addf(debug.KindNet, "POST new game %s/%s", req.CharacterID, req.ScenarioID)
		return m, startGame(m.ctx, m.api, req)
	}
	return m, nil
}

func (m *Model) gameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.leaveGame()
		return m, loadGames(m.ctx, m.api)
	case key.Matches(msg, m.keys.Tab):
		m.store.CycleRightPanelView()
		return m, nil
	case key.Matches(msg, m.keys.NextMember):
		if err := m.store.NextMember(1); err != nil {
			m.fail("select member", err)
		}
		return m, nil
	case key.Matches(msg, m.keys.PrevMember):
		if err := m.store.NextMember(-1); err != nil {
			m.fail("select member", err)
		}
		return m, nil
	case key.Matches(msg, m.keys.ScrollUp):
		m.game.Chat().Scroll(5)
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.game.Chat().Scroll(-5)
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		return m, m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.game.Prompt().SetInput(m.input.View())
	return m, cmd
}

// submit sends the typed action unless one is already in flight.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.store.Processing().Get() {
		return nil
	}
	m.input.Reset()
	m.game.Prompt().SetInput(m.input.View())
	m.store.ClearError()
	m.store.SetIsProcessing(true)
	m.game.Chat().AppendLive(chat.KindSystem, "You: "+text)
	m.debug.Addf(debug.KindNet, "POST action %q", text)
	return tea.Batch(sendAction(m.ctx, m.api, m.gameID, text), m.spinner.Tick)
}

// enterGame publishes the loaded snapshot and switches to the game screen.
// A snapshot the store rejects keeps the current screen.
func (m *Model) enterGame(gs *client.GameState) tea.Cmd {
	m.store.Reset()
	if err := m.store.SetGameState(gs); err != nil {
		m.fail("load game", err)
		return nil
	}
	m.gameID = gs.GameID
	focus := m.showGame()
	m.streamCtx, m.streamCancel = context.WithCancel(m.ctx)
	m.stream = m.streams(gs.GameID)
	m.debug.Addf(debug.KindNet, "opening stream for %s", gs.GameID)
	return tea.Batch(focus, m.stream.Listen(m.streamCtx))
}

func (m *Model) leaveGame() {
	m.closeStream()
	m.hp.stop()
	m.input.Reset()
	m.gameID = ""
	m.store.Reset()
	m.showList()
}

func (m *Model) closeStream() {
	if m.streamCancel != nil {
		m.streamCancel()
	}
	if m.stream != nil {
		if err := m.stream.Close(); err != nil {
			log.Printf("app: close stream: %v", err)
		}
	}
	m.stream, m.streamCtx, m.streamCancel = nil, nil, nil
	m.connected = false
}

func (m *Model) quit() tea.Cmd {
	m.closeStream()
	if m.unwatch != nil {
		m.unwatch()
		m.unwatch = nil
	}
	m.cancel()
	return tea.Quit
}

// fail funnels err into the store's error field.
func (m *Model) fail(op string, err error) {
	msg := fmt.Sprintf("%s: %v", op, err)
	var verr *store.ValidationError
	var serr *client.StatusError
	switch {
	case errors.As(err, &verr):
		msg = fmt.Sprintf("%s: rejected game state: %v", op, verr)
	case errors.As(err, &serr):
		msg = fmt.Sprintf("%s: server returned %d", op, serr.Code)
	}
	log.Printf("app: %s", msg)
	m.store.SetError(msg)
}

// --- screens ---

func (m *Model) unmountScreen() {
	if m.list != nil {
		m.list.Unmount()
		m.list = nil
	}
	if m.setup != nil {
		m.setup.Unmount()
		m.setup = nil
	}
	if m.game != nil {
		m.game.Unmount()
		m.game = nil
	}
}

func (m *Model) showList() {
	m.unmountScreen()
	m.list = gamelist.New(m.store, m.width)
	m.list.Mount(m.root)
	m.screen = ScreenGameList
}

func (m *Model) showSetup() {
	m.unmountScreen()
	m.setup = setup.New(m.store, m.width)
	m.setup.Mount(m.root)
	m.screen = ScreenSetup
}

func (m *Model) showGame() tea.Cmd {
	m.unmountScreen()
	m.game = game.New(m.store, m.markdownStyle, m.width, m.height)
	m.game.Mount(m.root)
	m.screen = ScreenGame
	cmd := m.input.Focus()
	m.game.Prompt().SetInput(m.input.View())
	return cmd
}

func (m *Model) resize() {
	switch {
	case m.list != nil:
		m.list.Update(func(p *gamelist.Props) { p.Width = m.width })
	case m.setup != nil:
		m.setup.Update(func(p *setup.Props) { p.Width = m.width })
	case m.game != nil:
		m.game.Resize(m.width, m.height)
	}
}

// View renders the full TUI.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.showDebug {
		return m.debug.View(m.width, m.height)
	}
	return m.root.Render()
}
