// ABOUTME: Health command probing service connectivity

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity to the service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.Services.Health(ctx); err != nil {
			return fmt.Errorf("service unreachable: %w", err)
		}

		if IsJSONOutput() {
			printJSON(os.Stdout, map[string]string{"status": "ok", "url": a.Config.APIBaseURL})
			return nil
		}
		fmt.Fprintf(os.Stdout, "Service at %s is healthy.\n", a.Config.APIBaseURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
