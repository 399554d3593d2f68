package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wuggawugga/adventurebot/internal/config"
	"github.com/wuggawugga/adventurebot/internal/game"
	"github.com/wuggawugga/adventurebot/internal/logger"
	"github.com/wuggawugga/adventurebot/internal/storage"
	"github.com/wuggawugga/adventurebot/pkg/adventure"
	"github.com/wuggawugga/adventurebot/pkg/gamedata"
)

// The console plays a single local "guild" against a live Redis, with
// the terminal standing in for the chat platform.
const (
	consoleGuild   = "console"
	consoleChannel = "console"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg)

	theme, err := gamedata.LoadTheme(cfg.DataDir, cfg.Theme)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load theme %q: %v\n", cfg.Theme, err)
		os.Exit(1)
	}

	tunables := adventure.DefaultTunables()
	if cfg.TunablesPath != "" {
		tunables, err = adventure.LoadTunables(cfg.TunablesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load tunables: %v\n", err)
			os.Exit(1)
		}
	}

	store := storage.NewRedisStore(cfg.RedisAddr, log)
	if err := store.Ping(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Could not connect to Redis at %s.\nTry: docker-compose up -d\n", cfg.RedisAddr)
		os.Exit(1)
	}
	defer func() {
		_ = store.Close()
	}()

	prompter := newConsolePrompter()
	svc := game.New(game.Options{
		Store:           store,
		Ledger:          storage.NewRedisLedger(store.Client(), log),
		Themes:          gamedata.NewStore(theme),
		Prompter:        prompter,
		Tunables:        tunables,
		Logger:          log,
		Countdown:       cfg.AdventureCountdown,
		ReactionTimeout: cfg.ReactionTimeout,
	})

	fmt.Print("Play as which user? ")
	var userID string
	if _, err := fmt.Scanln(&userID); err != nil || userID == "" {
		fmt.Fprintf(os.Stderr, "Invalid user name\n")
		os.Exit(1)
	}

	p := tea.NewProgram(newConsoleUI(svc, prompter, userID),
		tea.WithAltScreen())
	prompter.attach(p)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
