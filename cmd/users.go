// ABOUTME: Admin user-management commands

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Games-on/arena-cli/internal/cache"
	"github.com/Games-on/arena-cli/internal/services"
	"github.com/Games-on/arena-cli/internal/session"
)

var (
	userPage   int
	userLimit  int
	userSearch string
	userRole   string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage platform users (staff only)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
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

		p := services.ListParams{Page: userPage, Limit: userLimit, Search: userSearch}
		res, err := a.Services.Users.List(ctx, p, cache.Options{})
		if err != nil {
			return err
		}
		users := res.Data.([]session.User)

		if IsJSONOutput() {
			printJSON(os.Stdout, users)
			return nil
		}
		for _, u := range users {
			fmt.Fprintf(os.Stdout, "%4d  %-25s  %-30s  %s\n", u.ID, u.Name, u.Email, u.Role)
		}
		return nil
	},
}

var usersSetRoleCmd = &cobra.Command{
	Use:   "set-role <id>",
	Short: "Change a user's role",
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
		return a.Services.Users.SetRole(ctx, id, userRole)
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user account",
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
		return a.Services.Users.Delete(ctx, id)
	},
}

func init() {
	usersListCmd.Flags().IntVar(&userPage, "page", 1, "Page number")
	usersListCmd.Flags().IntVar(&userLimit, "limit", 20, "Items per page")
	usersListCmd.Flags().StringVar(&userSearch, "search", "", "Search term")
	usersSetRoleCmd.Flags().StringVar(&userRole, "role", "", "New role (ADMIN, ORGANIZER, USER)")
	usersSetRoleCmd.MarkFlagRequired("role")

	usersCmd.AddCommand(usersListCmd, usersSetRoleCmd, usersDeleteCmd)
	rootCmd.AddCommand(usersCmd)
}
