package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pctl/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive project browser",
	Long:  "Launch a full-screen terminal UI for browsing projects and ticking off memo items.",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := newManager()
		if err != nil {
			fmt.Println("Error:", err)
			return nil
		}
		if err := loadTree(context.Background(), mgr); err != nil {
			fmt.Println("Error loading projects:", err)
			return nil
		}

		app := ui.NewApp(mgr)
		p := tea.NewProgram(app, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running application: %w", err)
		}
		return nil
	},
}
