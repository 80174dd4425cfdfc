// ABOUTME: Team commands: list by tournament, register

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Games-on/arena-cli/internal/gate"
	"github.com/Games-on/arena-cli/internal/services"
)

var (
	teamTournamentID int
	teamName         string
	teamCaptain      string
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Browse and register teams",
}

var teamsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List teams in a tournament",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}

		res, err := a.Services.Teams.ListByTournament(ctx, teamTournamentID)
		if err != nil {
			return err
		}
		teams := res.Data.([]services.Team)

		if IsJSONOutput() {
			printJSON(os.Stdout, teams)
			return nil
		}
		if len(teams) == 0 {
			fmt.Fprintln(os.Stdout, "No teams registered.")
			return nil
		}
		for _, t := range teams {
			fmt.Fprintf(os.Stdout, "%4d  %-30s  captain %s (%d members)\n", t.ID, t.Name, t.CaptainName, t.MemberCount)
		}
		return nil
	},
}

var teamsRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a team into a tournament",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireCapability(ctx, a, gate.Authenticated()); err != nil {
			return err
		}

		team, err := a.Services.Teams.Register(ctx, teamTournamentID, services.RegisterTeamRequest{
			Name:        teamName,
			CaptainName: teamCaptain,
		})
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			printJSON(os.Stdout, team)
		}
		return nil
	},
}

func init() {
	teamsListCmd.Flags().IntVar(&teamTournamentID, "tournament", 0, "Tournament id")
	teamsListCmd.MarkFlagRequired("tournament")

	teamsRegisterCmd.Flags().IntVar(&teamTournamentID, "tournament", 0, "Tournament id")
	teamsRegisterCmd.Flags().StringVar(&teamName, "name", "", "Team name")
	teamsRegisterCmd.Flags().StringVar(&teamCaptain, "captain", "", "Captain name")
	teamsRegisterCmd.MarkFlagRequired("tournament")
	teamsRegisterCmd.MarkFlagRequired("name")

	teamsCmd.AddCommand(teamsListCmd, teamsRegisterCmd)
	rootCmd.AddCommand(teamsCmd)
}
