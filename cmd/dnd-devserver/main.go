package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/config"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/devserver"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/mock"
)

func main() {
	configPath := flag.String("config", "dnd-tui.yaml", "Path to YAML config file shared with the client")
	addr := flag.String("addr", "", "Listen address (default: host:port of server.url)")
	tick := flag.Duration("tick", 400*time.Millisecond, "Delay between scripted events")
	origins := flag.String("origins", "", "Comma-separated WebSocket origins to allow")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	listen := *addr
	if listen == "" {
		if listen, err = cfg.Server.ListenAddr(); err != nil {
			log.Fatalf("Invalid listen address: %v", err)
		}
	}

	backend := mock.NewBackend(*tick, time.Now().UnixNano())
	var allowed []string
	if *origins != "" {
		allowed = strings.Split(*origins, ",")
	}
	server := devserver.NewServer(devserver.Options{
		API:            backend,
		Streams:        backend.StreamFactory(),
		AuthToken:      cfg.Server.Token,
		AllowedOrigins: allowed,
	})

	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := devserver.ListenAndServe(ctx, listen, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Shutting down...")
	server.Close()
}
