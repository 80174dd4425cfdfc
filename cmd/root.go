// ABOUTME: Root command for the arena CLI
// ABOUTME: Handles global flags, wiring, and the capability check helper

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Games-on/arena-cli/internal/app"
	"github.com/Games-on/arena-cli/internal/gate"
	"github.com/Games-on/arena-cli/internal/logger"
	"github.com/Games-on/arena-cli/internal/notify"
	"github.com/Games-on/arena-cli/internal/session"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "CLI for the Arena tournament platform",
	Long: `arena is a terminal client for the Arena tournament platform.

Browse tournaments and news, manage your session, and administer the
platform when your account has the role for it. Run "arena tui" for the
full-screen interface.

Environment Variables:
  ARENA_API_URL  Service API URL (default: http://localhost:8080)`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Service API URL (overrides ARENA_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// runContext returns a context cancelled on SIGINT/SIGTERM.
func runContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// newApp wires the component graph with notifications printed to stderr.
func newApp() (*app.App, error) {
	a, err := app.New(apiURL)
	if err != nil {
		return nil, err
	}
	a.Notifier.AddSink(stderrSink(os.Stderr))
	return a, nil
}

// stderrSink renders notifications for the non-TUI surface.
func stderrSink(w io.Writer) notify.Sink {
	return func(n notify.Notification) {
		switch n.Level {
		case notify.LevelError:
			fmt.Fprintf(w, "error: %s\n", n.Message)
		case notify.LevelSuccess:
			fmt.Fprintf(w, "%s\n", n.Message)
		default:
			fmt.Fprintf(w, "note: %s\n", n.Message)
		}
	}
}

// requireCapability resolves the session and checks the requirement the way
// the TUI gates its screens. Commands that need auth or a role call this
// before doing anything.
func requireCapability(ctx context.Context, a *app.App, req gate.Requirement) error {
	a.Session.Initialize(ctx)
	snap := a.Session.Snapshot()

	decision := gate.Evaluate(snap, req)
	switch decision.Action {
	case gate.ActionAllow:
		return nil
	case gate.ActionRedirect:
		if decision.Route == gate.RouteLogin {
			return errors.New("not logged in; run \"arena login\" first")
		}
		return fmt.Errorf("this action requires one of the roles: %s", strings.Join(req.Roles, ", "))
	default:
		// CapabilityGate never redirects a still-loading session; for a
		// one-shot command that means the startup resolution failed.
		if snap.Err != "" {
			return fmt.Errorf("could not resolve session: %s", snap.Err)
		}
		return errors.New("could not resolve session")
	}
}

func staffOnly() gate.Requirement {
	return gate.RoleIn(session.RoleAdmin, session.RoleOrganizer)
}

// printJSON writes v as indented JSON to w.
func printJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}
