package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/app"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/config"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/mock"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/store"
)

func main() {
	configPath := flag.String("config", "dnd-tui.yaml", "Path to YAML config file")
	serverURL := flag.String("url", "", "Base URL of the game backend (overrides config)")
	token := flag.String("token", "", "Bearer token (overrides config)")
	transport := flag.String("transport", "", "Live event transport: sse or ws (overrides config)")
	logFile := flag.String("log", "", "Write the client log to this file (overrides config)")
	offline := flag.Bool("mock", false, "Play against the built-in offline backend")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: config: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			cfg.Server.URL = *serverURL
		case "token":
			cfg.Server.Token = *token
		case "transport":
			cfg.Stream.Transport = *transport
		case "log":
			cfg.Log.File = *logFile
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The alt screen owns stdout; log to a file or nowhere.
	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "dnd-tui")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	var (
		api     client.API
		streams client.StreamFactory
	)
	if *offline {
		backend := mock.NewBackend(400*time.Millisecond, time.Now().UnixNano())
		api, streams = backend, backend.StreamFactory()
		log.Printf("using offline backend")
	} else {
		api = client.NewHTTPClient(cfg.Server.URL, cfg.Server.Token, cfg.Server.Timeout)
		streams, err = client.NewStreamFactory(cfg.Stream.Transport, cfg.Server.URL, cfg.Server.Token)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Printf("backend %s (%s)", cfg.Server.URL, cfg.Stream.Transport)
	}

	m := app.New(app.Options{
		API:           api,
		Streams:       streams,
		Store:         store.New(),
		MarkdownStyle: cfg.UI.MarkdownStyle,
		AnimateHP:     cfg.UI.AnimateHP,
		MaxLogLines:   cfg.UI.MaxLogLines,
	})

	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, opts...)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
