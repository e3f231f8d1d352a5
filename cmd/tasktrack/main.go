package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasktrack/internal/api"
	"github.com/nhle/tasktrack/internal/app"
	"github.com/nhle/tasktrack/internal/model"
	"github.com/nhle/tasktrack/internal/notify"
	"github.com/nhle/tasktrack/internal/session"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	serverURL := flag.String("server", "", "override the API base URL")
	noKeyring := flag.Bool("no-keyring", false, "keep the session in memory instead of the system keyring")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tasktrack: %v\n", err)
		os.Exit(1)
	}

	// Seed the config file on first run so there is something to edit.
	if _, statErr := os.Stat(*configPath); os.IsNotExist(statErr) {
		if err := model.SaveConfig(*configPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "tasktrack: writing default config: %v\n", err)
		}
	}

	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
	}

	// The terminal belongs to the TUI; debug logs go to a file.
	if os.Getenv("TASKTRACK_DEBUG") != "" {
		f, err := tea.LogToFile("tasktrack-debug.log", "debug")
		if err != nil {
			fmt.Fprintf(os.Stderr, "tasktrack: opening debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	sessions, err := openSessionStore(*noKeyring)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tasktrack: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.Server.BaseURL, time.Duration(cfg.Server.TimeoutSec)*time.Second)
	sink := notify.NewDesktopSink()

	program := tea.NewProgram(
		app.New(client, sessions, sink, cfg),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tasktrack: %v\n", err)
		os.Exit(1)
	}
}

// openSessionStore prefers the system keyring, falling back to an in-memory
// session for hosts without a usable backend.
func openSessionStore(noKeyring bool) (session.Store, error) {
	if noKeyring {
		return session.NewMemoryStore(), nil
	}

	store, err := session.OpenKeyring()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tasktrack: keyring unavailable (%v); sessions will not persist\n", err)
		return session.NewMemoryStore(), nil
	}
	return store, nil
}
