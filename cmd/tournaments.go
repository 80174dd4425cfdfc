// ABOUTME: Tournament commands: public browsing plus role-gated administration

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Games-on/arena-cli/internal/app"
	"github.com/Games-on/arena-cli/internal/cache"
	"github.com/Games-on/arena-cli/internal/services"
)

var (
	listPage   int
	listLimit  int
	listSearch string

	tournamentName        string
	tournamentDescription string
	tournamentFormat      string
	tournamentMaxTeams    int
)

var tournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "Browse and manage tournaments",
}

var tournamentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tournaments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}

		res, err := a.Services.Tournaments.List(ctx, listParams(), cache.Options{})
		if err != nil {
			return err
		}
		page := res.Data.(*services.TournamentPage)

		if IsJSONOutput() {
			printJSON(os.Stdout, page.Items)
			return nil
		}
		if len(page.Items) == 0 {
			fmt.Fprintln(os.Stdout, "No tournaments found.")
			return nil
		}
		for _, t := range page.Items {
			fmt.Fprintf(os.Stdout, "%4d  %-30s  %-12s  teams %d/%d\n", t.ID, t.Name, t.Status, t.TeamCount, t.MaxTeams)
		}
		if page.Pagination.TotalPages > 1 {
			fmt.Fprintf(os.Stdout, "Page %d of %d (%d total)\n",
				page.Pagination.CurrentPage, page.Pagination.TotalPages, page.Pagination.TotalItems)
		}
		return nil
	},
}

var tournamentsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one tournament",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}

		res, err := a.Services.Tournaments.Get(ctx, id)
		if err != nil {
			return err
		}
		t := res.Data.(*services.Tournament)

		if IsJSONOutput() {
			printJSON(os.Stdout, t)
			return nil
		}
		fmt.Fprintf(os.Stdout, "%s (#%d)\nStatus: %s\nTeams:  %d/%d\n\n%s\n", t.Name, t.ID, t.Status, t.TeamCount, t.MaxTeams, t.Description)
		return nil
	},
}

var tournamentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a tournament (staff only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireCapability(ctx, a, staffOnly()); err != nil {
			return err
		}

		t, err := a.Services.Tournaments.Create(ctx, services.CreateTournamentRequest{
			Name:        tournamentName,
			Description: tournamentDescription,
			Format:      tournamentFormat,
			MaxTeams:    tournamentMaxTeams,
		})
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			printJSON(os.Stdout, t)
		}
		return nil
	},
}

var tournamentsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a tournament (staff only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireCapability(ctx, a, staffOnly()); err != nil {
			return err
		}

		t, err := a.Services.Tournaments.Update(ctx, id, services.CreateTournamentRequest{
			Name:        tournamentName,
			Description: tournamentDescription,
			Format:      tournamentFormat,
			MaxTeams:    tournamentMaxTeams,
		})
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			printJSON(os.Stdout, t)
		}
		return nil
	},
}

var tournamentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a tournament (staff only)",
	Args:  cobra.ExactArgs(1),
	RunE:  tournamentAction(func(ctx context.Context, a *app.App, id int) error { return a.Services.Tournaments.Delete(ctx, id) }),
}

var tournamentsStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start a tournament (staff only)",
	Args:  cobra.ExactArgs(1),
	RunE:  tournamentAction(func(ctx context.Context, a *app.App, id int) error { return a.Services.Tournaments.Start(ctx, id) }),
}

var tournamentsGenerateBracketCmd = &cobra.Command{
	Use:   "generate-bracket <id>",
	Short: "Generate the knockout bracket (staff only)",
	Args:  cobra.ExactArgs(1),
	RunE:  tournamentAction(func(ctx context.Context, a *app.App, id int) error { return a.Services.Tournaments.GenerateBracket(ctx, id) }),
}

var tournamentsStartKnockoutCmd = &cobra.Command{
	Use:   "start-knockout <id>",
	Short: "Start the knockout stage (staff only)",
	Args:  cobra.ExactArgs(1),
	RunE:  tournamentAction(func(ctx context.Context, a *app.App, id int) error { return a.Services.Tournaments.StartKnockout(ctx, id) }),
}

var tournamentsAdvanceRoundCmd = &cobra.Command{
	Use:   "advance-round <id>",
	Short: "Advance the knockout to the next round (staff only)",
	Args:  cobra.ExactArgs(1),
	RunE:  tournamentAction(func(ctx context.Context, a *app.App, id int) error { return a.Services.Tournaments.AdvanceRound(ctx, id) }),
}

var tournamentsCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Complete the tournament (staff only)",
	Args:  cobra.ExactArgs(1),
	RunE:  tournamentAction(func(ctx context.Context, a *app.App, id int) error { return a.Services.Tournaments.Complete(ctx, id) }),
}

func init() {
	tournamentsListCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	tournamentsListCmd.Flags().IntVar(&listLimit, "limit", 10, "Items per page")
	tournamentsListCmd.Flags().StringVar(&listSearch, "search", "", "Search term")

	for _, c := range []*cobra.Command{tournamentsCreateCmd, tournamentsUpdateCmd} {
		c.Flags().StringVar(&tournamentName, "name", "", "Tournament name")
		c.Flags().StringVar(&tournamentDescription, "description", "", "Tournament description")
		c.Flags().StringVar(&tournamentFormat, "format", "", "Tournament format")
		c.Flags().IntVar(&tournamentMaxTeams, "max-teams", 0, "Maximum number of teams")
	}
	tournamentsCreateCmd.MarkFlagRequired("name")

	tournamentsCmd.AddCommand(
		tournamentsListCmd, tournamentsGetCmd, tournamentsCreateCmd, tournamentsUpdateCmd,
		tournamentsDeleteCmd, tournamentsStartCmd, tournamentsGenerateBracketCmd,
		tournamentsStartKnockoutCmd, tournamentsAdvanceRoundCmd, tournamentsCompleteCmd,
	)
	rootCmd.AddCommand(tournamentsCmd)
}

// tournamentAction wraps the staff-only lifecycle commands: parse the id,
// wire the app, check the capability, run.
func tournamentAction(fn func(ctx context.Context, a *app.App, id int) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireCapability(ctx, a, staffOnly()); err != nil {
			return err
		}
		return fn(ctx, a, id)
	}
}

func listParams() services.ListParams {
	return services.ListParams{Page: listPage, Limit: listLimit, Search: listSearch}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
