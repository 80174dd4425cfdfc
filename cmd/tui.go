// ABOUTME: Command launching the full-screen terminal interface

package cmd

import (
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Games-on/arena-cli/internal/app"
	"github.com/Games-on/arena-cli/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the full-screen terminal interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		// No stderr sink here: inside the alt screen, notifications go
		// through the TUI status bar instead.
		a, err := app.New(apiURL)
		if err != nil {
			return err
		}

		p := tea.NewProgram(tui.New(a), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
