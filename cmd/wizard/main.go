package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tokenforge/internal/adapters/in/tui"
	"tokenforge/internal/infra/config"
	"tokenforge/internal/platform/di"
)

func main() {
	cfg := config.Load()

	// Route logs to a file; stdout belongs to the TUI.
	if f, err := os.OpenFile("tokenforge-wizard.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	cont, err := di.Build(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer cont.Close()

	model := tui.New(cont.IssuanceUC, cont.FeePayer, cfg.DefaultNetwork)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "wizard error: %v\n", err)
		os.Exit(1)
	}
}
