package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

func findCommand(t *testing.T, parent *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, sub := range parent.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	t.Fatalf("command %q not registered under %q", name, parent.Name())
	return nil
}

func TestRootCommand_Registration(t *testing.T) {
	for _, name := range []string{"auth", "subscription", "dashboard", "team", "version"} {
		findCommand(t, rootCmd, name)
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"api-url", "output", "debug"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag --%s not registered", name)
		}
	}
}

func TestRootCommand_SilencesUsageOnErrors(t *testing.T) {
	// Runtime failures must not dump the usage text
	if !rootCmd.SilenceUsage || !rootCmd.SilenceErrors {
		t.Error("root command should silence cobra's usage and error output")
	}
}

func TestAuthCommand_Subcommands(t *testing.T) {
	auth := findCommand(t, rootCmd, "auth")
	for _, name := range []string{"login", "register", "logout", "whoami"} {
		findCommand(t, auth, name)
	}

	login := findCommand(t, auth, "login")
	if login.Flags().Lookup("username") == nil || login.Flags().Lookup("password") == nil {
		t.Error("auth login should accept --username and --password")
	}

	register := findCommand(t, auth, "register")
	for _, flag := range []string{"username", "email", "password", "password-confirm"} {
		if register.Flags().Lookup(flag) == nil {
			t.Errorf("auth register should accept --%s", flag)
		}
	}
}

func TestSubscriptionCommand_Subcommands(t *testing.T) {
	subscription := findCommand(t, rootCmd, "subscription")
	for _, name := range []string{"plans", "status", "select", "checkout", "confirm", "cancel"} {
		findCommand(t, subscription, name)
	}

	cancel := findCommand(t, subscription, "cancel")
	if cancel.Flags().Lookup("yes") == nil {
		t.Error("subscription cancel should accept --yes")
	}
}

func TestTeamCommand_Subcommands(t *testing.T) {
	team := findCommand(t, rootCmd, "team")
	findCommand(t, team, "show")
	findCommand(t, team, "add-member")
}

func TestDashboardCommand_PlainFlag(t *testing.T) {
	dashboard := findCommand(t, rootCmd, "dashboard")
	if dashboard.Flags().Lookup("plain") == nil {
		t.Error("dashboard should accept --plain")
	}
}
