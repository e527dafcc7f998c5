package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmkit/crmctl/internal/api"
	"github.com/crmkit/crmctl/internal/subscription"
	"github.com/crmkit/crmctl/internal/ux"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Inspect and manage your team",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// teamView is the output shape for the team record
type teamView struct {
	ID      int        `json:"id" yaml:"id"`
	Name    string     `json:"name" yaml:"name"`
	Plan    string     `json:"plan" yaml:"plan"`
	Status  string     `json:"status" yaml:"status"`
	Members []string   `json:"members" yaml:"members"`
	Limits  limitsView `json:"limits" yaml:"limits"`
}

type limitsView struct {
	MaxLeads   int `json:"max_leads" yaml:"max_leads"`
	MaxClients int `json:"max_clients" yaml:"max_clients"`
}

func (v teamView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Team:   %s (#%d)\n", v.Name, v.ID)
	fmt.Fprintf(&b, "Plan:   %s\n", v.Plan)
	fmt.Fprintf(&b, "Status: %s\n", v.Status)
	fmt.Fprintf(&b, "Limits: %s leads, %s clients\n", limitLabel(v.Limits.MaxLeads), limitLabel(v.Limits.MaxClients))
	b.WriteString("Members:")
	for _, member := range v.Members {
		fmt.Fprintf(&b, "\n  - %s", member)
	}
	return b.String()
}

func limitLabel(n int) string {
	if n == subscription.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", n)
}

func teamViewOf(team *api.Team) teamView {
	view := teamView{
		ID:     team.ID,
		Name:   team.Name,
		Plan:   "Free",
		Status: team.PlanStatus,
	}

	planID := subscription.FreePlanID
	if team.Plan != nil {
		view.Plan = team.Plan.Name
		planID = subscription.NormalizePlanID(team.Plan.Name)
	}
	if plan, ok := subscription.FindPlan(planID); ok {
		view.Limits = limitsView{MaxLeads: plan.MaxLeads, MaxClients: plan.MaxClients}
	}

	for _, member := range team.Members {
		label := member.Username
		if name := member.FullName(); name != "" && name != member.Username {
			label = fmt.Sprintf("%s (%s)", name, member.Username)
		}
		view.Members = append(view.Members, label)
	}
	return view
}

// teamShowCmd prints the team record
var teamShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your team, its members, and plan limits",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireAuth(cmd)
		if err != nil {
			return err
		}

		team, err := app.Client.MyTeam(cmd.Context())
		if err != nil {
			return err
		}

		formatter, err := ux.NewFormatter(flagOutput, nil)
		if err != nil {
			return err
		}
		return formatter.Format(teamViewOf(team))
	},
}

// teamAddMemberCmd invites a user onto the team
var teamAddMemberCmd = &cobra.Command{
	Use:   "add-member <email>",
	Short: "Add an existing user to your team by email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireAuth(cmd)
		if err != nil {
			return err
		}

		email := args[0]
		if err := app.Client.AddMember(cmd.Context(), email); err != nil {
			return err
		}

		fmt.Printf("Added %s to the team.\n", email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(teamCmd)

	teamCmd.AddCommand(teamShowCmd)
	teamCmd.AddCommand(teamAddMemberCmd)
}
