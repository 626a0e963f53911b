package main

import (
	"fmt"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zdy718/ClearDollar/internal/client"
	"github.com/zdy718/ClearDollar/internal/config"
	"github.com/zdy718/ClearDollar/internal/logger"
	"github.com/zdy718/ClearDollar/internal/tui"
)

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("tui error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Keep the terminal clean: only errors reach stderr while the UI runs.
	logger.Init(cfg.Env, "error")
	defer logger.Sync()

	if cfg.UserID == "" {
		return fmt.Errorf("CLEARDOLLAR_USER_ID is required")
	}

	api := client.New(cfg.APIURL, &http.Client{Timeout: cfg.RequestTimeout})
	model := tui.New(api, cfg.UserID, cfg.RequestTimeout)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
