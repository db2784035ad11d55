package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/energylog/internal/api"
	"github.com/jask/energylog/internal/config"
	"github.com/jask/energylog/internal/logging"
	"github.com/jask/energylog/internal/prefs"
	"github.com/jask/energylog/internal/secrets"
	"github.com/jask/energylog/internal/tui"
)

// tokenName is the secrets entry holding the client token.
const tokenName = "api"

func main() {
	var (
		configPath = flag.String("config", "", "config file (default ~/.config/energylog/config.toml)")
		storeToken = flag.String("store-token", "", "save the API token in the secrets store and exit")
	)
	flag.Parse()
	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// the terminal belongs to the UI, so logs only go to a file
	logger, closer, err := logging.New(cfg.Log.Level, cfg.Log.File, io.Discard)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	store, err := secrets.DefaultStore()
	if err != nil {
		log.Fatalf("secrets: %v", err)
	}
	if *storeToken != "" {
		if err := store.Put(tokenName, *storeToken); err != nil {
			log.Fatalf("store token: %v", err)
		}
		fmt.Println("token saved")
		return
	}

	token := cfg.ResolveAPIToken()
	if token == "" {
		if tok, err := store.Get(tokenName); err == nil {
			token = tok
		}
	}

	client, err := api.New(cfg.API.BaseURL, api.WithToken(token), api.WithTimeout(cfg.API.Timeout))
	if err != nil {
		log.Fatalf("api: %v", err)
	}

	p, err := prefs.DefaultStore()
	if err != nil {
		logger.Warn("prefs unavailable", "error", err)
		p = nil
	}

	app := tui.New(ctx, cfg, client, p, logger)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
