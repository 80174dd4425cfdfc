// ABOUTME: Match commands: listings, bracket view, score and status updates

package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Games-on/arena-cli/internal/cache"
	"github.com/Games-on/arena-cli/internal/services"
)

var (
	matchTournamentID int
	matchScore1       int
	matchScore2       int
	matchStatus       string
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Browse and manage matches",
}

var matchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List matches in a tournament",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}

		res, err := a.Services.Matches.ListByTournament(ctx, matchTournamentID, cache.Options{})
		if err != nil {
			return err
		}
		matches := res.Data.([]services.Match)

		if IsJSONOutput() {
			printJSON(os.Stdout, matches)
			return nil
		}
		if len(matches) == 0 {
			fmt.Fprintln(os.Stdout, "No matches scheduled.")
			return nil
		}
		for _, m := range matches {
			fmt.Fprintf(os.Stdout, "%4d  round %d  %-20s %d : %d %-20s  [%s]\n",
				m.ID, m.Round, teamLabel(m.Team1), m.Score1, m.Score2, teamLabel(m.Team2), m.Status)
		}
		return nil
	},
}

var matchesBracketCmd = &cobra.Command{
	Use:   "bracket",
	Short: "Show a tournament's knockout bracket",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}

		res, err := a.Services.Matches.Bracket(ctx, matchTournamentID)
		if err != nil {
			return err
		}
		bracket := res.Data.(*services.Bracket)

		if IsJSONOutput() {
			printJSON(os.Stdout, bracket)
			return nil
		}

		rounds := make([]string, 0, len(bracket.Rounds))
		for r := range bracket.Rounds {
			rounds = append(rounds, r)
		}
		sort.Strings(rounds)
		for _, r := range rounds {
			fmt.Fprintf(os.Stdout, "Round %s:\n", r)
			for _, m := range bracket.Rounds[r] {
				fmt.Fprintf(os.Stdout, "  %-20s %d : %d %-20s  [%s]\n",
					teamLabel(m.Team1), m.Score1, m.Score2, teamLabel(m.Team2), m.Status)
			}
		}
		return nil
	},
}

var matchesScoreCmd = &cobra.Command{
	Use:   "score <id>",
	Short: "Update a match score (staff only)",
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

		match, err := a.Services.Matches.UpdateScore(ctx, id, services.ScoreRequest{
			Team1Score: matchScore1,
			Team2Score: matchScore2,
		})
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			printJSON(os.Stdout, match)
		}
		return nil
	},
}

var matchesStatusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Update a match status (staff only)",
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

		match, err := a.Services.Matches.UpdateStatus(ctx, id, services.StatusRequest{Status: matchStatus})
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			printJSON(os.Stdout, match)
		}
		return nil
	},
}

func teamLabel(t *services.Team) string {
	if t == nil {
		return "TBD"
	}
	return t.Name
}

func init() {
	matchesListCmd.Flags().IntVar(&matchTournamentID, "tournament", 0, "Tournament id")
	matchesListCmd.MarkFlagRequired("tournament")
	matchesBracketCmd.Flags().IntVar(&matchTournamentID, "tournament", 0, "Tournament id")
	matchesBracketCmd.MarkFlagRequired("tournament")

	matchesScoreCmd.Flags().IntVar(&matchScore1, "team1", 0, "Team 1 score")
	matchesScoreCmd.Flags().IntVar(&matchScore2, "team2", 0, "Team 2 score")
	matchesStatusCmd.Flags().StringVar(&matchStatus, "status", "", "New status")
	matchesStatusCmd.MarkFlagRequired("status")

	matchesCmd.AddCommand(matchesListCmd, matchesBracketCmd, matchesScoreCmd, matchesStatusCmd)
	rootCmd.AddCommand(matchesCmd)
}
