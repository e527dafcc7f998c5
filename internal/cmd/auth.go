package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crmkit/crmctl/internal/errors"
	"github.com/crmkit/crmctl/internal/tui"
	"github.com/crmkit/crmctl/internal/ux"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the authentication session",
	Long: `Manage the authentication session for the CRM backend.

The auth command provides subcommands for registering, logging in, logging
out, and inspecting the current session. The credential token is stored in
the crmctl home directory with owner-only permissions.

Examples:
  crmctl auth login --username jane
  crmctl auth register --username jane --email jane@example.com
  crmctl auth whoami
  crmctl auth logout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// authLoginCmd handles user login
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the CRM backend",
	Long: `Log in to the CRM backend with your username and password.

Missing credentials are prompted for interactively. After logging in, the
issued token is saved locally and attached to every subsequent command.

Examples:
  crmctl auth login --username jane
  crmctl auth login --username jane --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appFrom(cmd)

		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		var err error
		if username == "" && tui.ShouldPrompt() {
			username, err = tui.PromptForString(tui.Prompt{Message: "Username", Required: true})
			if err != nil {
				return err
			}
		}
		if password == "" && tui.ShouldPrompt() {
			password, err = tui.PromptForPassword("Password")
			if err != nil {
				return err
			}
		}

		if err := app.Session.Login(cmd.Context(), username, password); err != nil {
			return err
		}

		user := app.Session.User()
		fmt.Printf("Logged in as %s\n", user.FullName())
		return nil
	},
}

// authRegisterCmd creates a new account
var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new user account",
	Long: `Register a new user account with the CRM backend.

All fields are validated locally before anything is sent: every field must
be non-empty and the password confirmation must match. Registration does not
log you in; run 'crmctl auth login' afterwards.

Examples:
  crmctl auth register --username jane --email jane@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appFrom(cmd)

		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		passwordConfirm, _ := cmd.Flags().GetString("password-confirm")

		var err error
		if username == "" && tui.ShouldPrompt() {
			username, err = tui.PromptForString(tui.Prompt{Message: "Username", Required: true})
			if err != nil {
				return err
			}
		}
		if email == "" && tui.ShouldPrompt() {
			email, err = tui.PromptForString(tui.Prompt{Message: "Email", Required: true})
			if err != nil {
				return err
			}
		}
		if password == "" && tui.ShouldPrompt() {
			password, err = tui.PromptForPassword("Password")
			if err != nil {
				return err
			}
		}
		if passwordConfirm == "" && tui.ShouldPrompt() {
			passwordConfirm, err = tui.PromptForPassword("Confirm password")
			if err != nil {
				return err
			}
		}

		user, err := app.Session.Register(cmd.Context(), username, email, password, passwordConfirm)
		if err != nil {
			printFieldErrors(err)
			return err
		}

		fmt.Printf("Account created for %s. Run 'crmctl auth login' to sign in.\n", user.Username)
		return nil
	},
}

// authLogoutCmd clears the session
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and remove the stored token",
	Long: `Log out from the CRM backend.

The token is revoked on the backend on a best-effort basis and always
removed locally, even if the revoke call fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appFrom(cmd)

		if err := app.Session.Initialize(cmd.Context()); err != nil {
			return err
		}
		if err := app.Session.Logout(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Logged out.")
		return nil
	},
}

// authWhoamiCmd shows the current user
var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireAuth(cmd)
		if err != nil {
			return err
		}

		formatter, err := ux.NewFormatter(flagOutput, nil)
		if err != nil {
			return err
		}
		return formatter.Format(app.Session.User())
	},
}

// printFieldErrors renders field-keyed validation messages next to their
// field names; the non-field message stays in the returned error
func printFieldErrors(err error) {
	for field, messages := range errors.FieldsOf(err) {
		for _, message := range messages {
			fmt.Printf("  %s: %s\n", field, message)
		}
	}
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)

	authLoginCmd.Flags().String("username", "", "Username")
	authLoginCmd.Flags().String("password", "", "Password (prompted when omitted)")

	authRegisterCmd.Flags().String("username", "", "Username")
	authRegisterCmd.Flags().String("email", "", "Email address")
	authRegisterCmd.Flags().String("password", "", "Password (prompted when omitted)")
	authRegisterCmd.Flags().String("password-confirm", "", "Password confirmation (prompted when omitted)")
}
