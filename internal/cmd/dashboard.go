package cmd

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/crmkit/crmctl/internal/api"
	"github.com/crmkit/crmctl/internal/dashboard"
	"github.com/crmkit/crmctl/internal/subscription"
	"github.com/crmkit/crmctl/internal/tui"
	"github.com/crmkit/crmctl/internal/ux"
)

var flagDashboardPlain bool

// dashboardView is the output shape for the non-interactive dashboard
type dashboardView struct {
	TotalLeads     int      `json:"total_leads" yaml:"total_leads"`
	TotalClients   int      `json:"total_clients" yaml:"total_clients"`
	ConversionRate int      `json:"conversion_rate" yaml:"conversion_rate"`
	PipelineValue  float64  `json:"pipeline_value" yaml:"pipeline_value"`
	Plan           string   `json:"plan" yaml:"plan"`
	Errors         []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func (v dashboardView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Leads:      %d\n", v.TotalLeads)
	fmt.Fprintf(&b, "Clients:    %d\n", v.TotalClients)
	fmt.Fprintf(&b, "Conversion: %d%%\n", v.ConversionRate)
	fmt.Fprintf(&b, "Pipeline:   $%.0f\n", v.PipelineValue)
	fmt.Fprintf(&b, "Plan:       %s", v.Plan)
	for _, msg := range v.Errors {
		fmt.Fprintf(&b, "\nwarning: %s", msg)
	}
	return b.String()
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the CRM overview",
	Long: `Show the CRM overview: lead and client counts, conversion rate,
pipeline value, and the team's plan.

Leads, clients, and team data load independently; when one feed fails the
others still render, with the failed one marked unavailable. In a terminal
the dashboard is interactive; use --plain (or pipe the output) for a
one-shot render.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireAuth(cmd)
		if err != nil {
			return err
		}

		if flagDashboardPlain || flagOutput != "text" || !tui.IsInteractive() {
			return runDashboardPlain(cmd)
		}

		model := tui.NewDashboardModel(app.Client)
		program := tea.NewProgram(model, tea.WithAltScreen())
		_, err = program.Run()
		return err
	},
}

// runDashboardPlain fetches all feeds once and prints the summary
func runDashboardPlain(cmd *cobra.Command) error {
	app := appFrom(cmd)

	snap := dashboard.Fetch(cmd.Context(), app.Client)
	metrics := snap.ComputeMetrics()

	view := dashboardView{
		TotalLeads:     metrics.TotalLeads,
		TotalClients:   metrics.TotalClients,
		ConversionRate: metrics.ConversionRate,
		PipelineValue:  metrics.PipelineValue,
		Plan:           "Free",
	}
	if snap.Team.Ok() && snap.Team.Value != nil && snap.Team.Value.Plan != nil {
		team := snap.Team.Value
		id := subscription.NormalizePlanID(team.Plan.Name)
		status := api.PlanStatusCancelled
		if team.PlanActive() {
			status = api.PlanStatusActive
		}
		view.Plan = fmt.Sprintf("%s (%s, %s)", team.Plan.Name, id, status)
	}
	for _, err := range snap.Errs() {
		view.Errors = append(view.Errors, err.Error())
	}

	formatter, err := ux.NewFormatter(flagOutput, nil)
	if err != nil {
		return err
	}
	return formatter.Format(view)
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().BoolVar(&flagDashboardPlain, "plain", false, "Print once instead of the interactive view")
}
