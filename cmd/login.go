// ABOUTME: Login, logout, register, and whoami commands
// ABOUTME: All session transitions go through the session machine, never around it

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Games-on/arena-cli/internal/gate"
	"github.com/Games-on/arena-cli/internal/session"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the platform",
	Long:  `Authenticate against the platform and store the session credential locally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}

		if err := requireCapability(ctx, a, gate.AuthenticatedReversed()); err != nil {
			snap := a.Session.Snapshot()
			if snap.Authenticated() {
				fmt.Fprintf(os.Stdout, "Already logged in as %s. Run \"arena logout\" first.\n", snap.User.Email)
				return nil
			}
			return err
		}

		if loginEmail == "" || loginPassword == "" {
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Email").Value(&loginEmail),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&loginPassword),
			))
			if err := form.Run(); err != nil {
				return err
			}
		}

		if err := a.Session.Login(ctx, loginEmail, loginPassword); err != nil {
			return fmt.Errorf("login failed: %s", a.Session.Snapshot().Err)
		}

		user := a.Session.Snapshot().User
		if IsJSONOutput() {
			printJSON(os.Stdout, user)
			return nil
		}
		fmt.Fprintf(os.Stdout, "Logged in as %s (%s)\n", user.Name, user.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the stored credential",
	Long:  `Clear the local session. The remote logout call is best-effort; the local credential is removed regardless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}

		a.Session.Logout(ctx)
		fmt.Fprintln(os.Stdout, "Logged out.")
		return nil
	},
}

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}

		if registerName == "" || registerEmail == "" || registerPassword == "" {
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Name").Value(&registerName),
				huh.NewInput().Title("Email").Value(&registerEmail),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&registerPassword),
			))
			if err := form.Run(); err != nil {
				return err
			}
		}

		user, err := a.Session.Register(ctx, session.RegisterRequest{
			Name:     registerName,
			Email:    registerEmail,
			Password: registerPassword,
		})
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			printJSON(os.Stdout, user)
			return nil
		}
		fmt.Fprintf(os.Stdout, "Account created for %s. Run \"arena login\" to sign in.\n", user.Email)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}

		a.Session.Initialize(ctx)
		snap := a.Session.Snapshot()

		if !snap.Authenticated() {
			if snap.Err != "" {
				return fmt.Errorf("session could not be resolved: %s", snap.Err)
			}
			fmt.Fprintln(os.Stdout, "Not logged in.")
			return nil
		}

		if IsJSONOutput() {
			printJSON(os.Stdout, snap.User)
			return nil
		}

		fmt.Fprintf(os.Stdout, "%s <%s> role=%s\n", snap.User.Name, snap.User.Email, snap.User.Role)
		if info, ok := session.InspectToken(a.Tokens.Token()); ok && !info.ExpiresAt.IsZero() {
			fmt.Fprintf(os.Stdout, "Token expires %s\n", info.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password (prompted when omitted)")

	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd)
}
