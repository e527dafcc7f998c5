package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmkit/crmctl/internal/api"
	"github.com/crmkit/crmctl/internal/errors"
	"github.com/crmkit/crmctl/internal/subscription"
	"github.com/crmkit/crmctl/internal/tui"
	"github.com/crmkit/crmctl/internal/ux"
)

var subscriptionCmd = &cobra.Command{
	Use:     "subscription",
	Aliases: []string{"sub"},
	Short:   "Manage the team's subscription plan",
	Long: `Manage the team's subscription plan.

Switching to the free tier commits immediately. Switching to a paid tier
hands off to the payment provider's hosted checkout page; the new plan
becomes active only after the payment completes and is confirmed.

Examples:
  crmctl subscription plans
  crmctl subscription select free
  crmctl subscription checkout smallteam
  crmctl subscription confirm
  crmctl subscription cancel`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// planView is the output shape for one catalog entry
type planView struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Price     float64  `json:"price" yaml:"price"`
	Features  []string `json:"features" yaml:"features"`
	Committed bool     `json:"committed" yaml:"committed"`
}

// planListView renders the catalog as text
type planListView []planView

func (l planListView) String() string {
	var b strings.Builder
	for _, plan := range l {
		marker := " "
		if plan.Committed {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %-10s %-12s $%.0f/month\n", marker, plan.ID, plan.Name, plan.Price)
		for _, feature := range plan.Features {
			fmt.Fprintf(&b, "    - %s\n", feature)
		}
	}
	b.WriteString("\n* current plan")
	return b.String()
}

// subscriptionPlansCmd lists the plan catalog
var subscriptionPlansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List available plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireAuth(cmd)
		if err != nil {
			return err
		}
		if err := app.Subscription.Load(cmd.Context()); err != nil {
			return err
		}

		committed := app.Subscription.CommittedPlanID()
		list := make(planListView, 0, len(subscription.Catalog))
		for _, plan := range subscription.Catalog {
			list = append(list, planView{
				ID:        plan.ID,
				Name:      plan.Name,
				Price:     plan.MonthlyPrice,
				Features:  plan.Features,
				Committed: plan.ID == committed,
			})
		}

		formatter, err := ux.NewFormatter(flagOutput, nil)
		if err != nil {
			return err
		}
		return formatter.Format(list)
	},
}

// statusView is the output shape for the current subscription
type statusView struct {
	Plan    string `json:"plan" yaml:"plan"`
	PlanID  string `json:"plan_id" yaml:"plan_id"`
	Status  string `json:"status" yaml:"status"`
	EndDate string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
}

func (v statusView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan:   %s (%s)\n", v.Plan, v.PlanID)
	fmt.Fprintf(&b, "Status: %s", v.Status)
	if v.EndDate != "" {
		fmt.Fprintf(&b, "\nRenews: %s", v.EndDate)
	}
	return b.String()
}

func statusOf(team *api.Team) statusView {
	view := statusView{
		Plan:   "Free",
		PlanID: subscription.FreePlanID,
		Status: team.PlanStatus,
	}
	if team.Plan != nil {
		view.Plan = team.Plan.Name
		view.PlanID = subscription.NormalizePlanID(team.Plan.Name)
	}
	if ends, ok := team.PlanEnds(); ok {
		view.EndDate = ends.Format("2006-01-02")
	}
	return view
}

// subscriptionStatusCmd shows the committed plan
var subscriptionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the team's current subscription",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireAuth(cmd)
		if err != nil {
			return err
		}
		if err := app.Subscription.Load(cmd.Context()); err != nil {
			return err
		}

		formatter, err := ux.NewFormatter(flagOutput, nil)
		if err != nil {
			return err
		}
		return formatter.Format(statusOf(app.Subscription.Team()))
	},
}

// subscriptionSelectCmd selects a plan
var subscriptionSelectCmd = &cobra.Command{
	Use:   "select <plan>",
	Short: "Select a plan",
	Long: `Select a plan by id (free, smallteam, bigteam).

Selecting the free tier commits immediately. Selecting a paid tier records
the choice; run 'crmctl subscription checkout <plan>' to proceed to payment.
Selecting the plan you are already on does nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireAuth(cmd)
		if err != nil {
			return err
		}
		if err := app.Subscription.Load(cmd.Context()); err != nil {
			return err
		}

		planID := args[0]
		committed := app.Subscription.CommittedPlanID()
		if err := app.Subscription.Select(cmd.Context(), planID); err != nil {
			return err
		}

		switch {
		case planID == committed:
			fmt.Printf("Already on the %s plan.\n", planID)
		case planID == subscription.FreePlanID:
			fmt.Println("Switched to the free plan.")
		default:
			fmt.Printf("Selected %s. Run 'crmctl subscription checkout %s' to proceed to payment.\n", planID, planID)
		}
		return nil
	},
}

// subscriptionCheckoutCmd starts the hosted payment handoff
var subscriptionCheckoutCmd = &cobra.Command{
	Use:   "checkout <plan>",
	Short: "Proceed to payment for a paid plan",
	Long: `Proceed to payment for a paid plan.

Prints the hosted checkout URL of the payment provider. Open it in a
browser, complete the payment there, then run 'crmctl subscription confirm'
to activate the plan. Nothing changes until the payment completes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// The free tier has no payment step; routing it through Select here
		// would commit the downgrade before checkout even starts.
		planID := subscription.NormalizePlanID(args[0])
		if planID == subscription.FreePlanID {
			return errors.New(errors.ErrCodePlanUpgrade, "the free plan has no checkout").
				WithSuggestion("Run 'crmctl subscription select free' to switch to the free plan")
		}

		app, err := requireAuth(cmd)
		if err != nil {
			return err
		}
		if err := app.Subscription.Load(cmd.Context()); err != nil {
			return err
		}
		if err := app.Subscription.Select(cmd.Context(), planID); err != nil {
			return err
		}

		redirect, err := app.Subscription.Checkout(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println("Open the checkout page in your browser:")
		fmt.Printf("\n  %s\n\n", redirect.URL)
		fmt.Println("After paying, run 'crmctl subscription confirm'.")
		return nil
	},
}

// subscriptionConfirmCmd syncs the plan after returning from checkout
var subscriptionConfirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Confirm the subscription after checkout",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireAuth(cmd)
		if err != nil {
			return err
		}
		if err := app.Subscription.ConfirmPayment(cmd.Context()); err != nil {
			return err
		}

		formatter, err := ux.NewFormatter(flagOutput, nil)
		if err != nil {
			return err
		}
		return formatter.Format(statusOf(app.Subscription.Team()))
	},
}

// subscriptionCancelCmd cancels the paid subscription
var subscriptionCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the paid subscription",
	Long: `Cancel the team's paid subscription.

Asks for confirmation first (skip with --yes). Premium access continues
until the end of the current billing period; afterwards the team is on the
free plan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireAuth(cmd)
		if err != nil {
			return err
		}
		if err := app.Subscription.Load(cmd.Context()); err != nil {
			return err
		}

		if err := app.Subscription.OpenCancel(); err != nil {
			return err
		}

		assumeYes, _ := cmd.Flags().GetBool("yes")
		if !assumeYes {
			if !tui.ShouldPrompt() {
				app.Subscription.DismissCancel()
				return fmt.Errorf("refusing to cancel without confirmation; pass --yes")
			}
			message := "Cancel your subscription? Premium access continues until the end of the billing period."
			confirmed, err := tui.PromptForConfirmation(message, false)
			if err != nil {
				return err
			}
			if !confirmed {
				app.Subscription.DismissCancel()
				fmt.Println("Kept the current subscription.")
				return nil
			}
		}

		if err := app.Subscription.ConfirmCancel(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Subscription cancelled. You are on the free plan.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(subscriptionCmd)

	subscriptionCmd.AddCommand(subscriptionPlansCmd)
	subscriptionCmd.AddCommand(subscriptionStatusCmd)
	subscriptionCmd.AddCommand(subscriptionSelectCmd)
	subscriptionCmd.AddCommand(subscriptionCheckoutCmd)
	subscriptionCmd.AddCommand(subscriptionConfirmCmd)
	subscriptionCmd.AddCommand(subscriptionCancelCmd)

	subscriptionCancelCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}
