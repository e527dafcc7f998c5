// Package subscription tracks the team's billing plan and drives the
// upgrade, checkout handoff, and cancellation workflows.
package subscription

import (
	"context"
	"sync"

	"github.com/crmkit/crmctl/internal/api"
	"github.com/crmkit/crmctl/internal/errors"
	"github.com/crmkit/crmctl/internal/log"
)

// CheckoutRedirect is the handle for a hosted checkout handoff.
//
// The process does not observe the payment outcome; the new plan is only
// confirmed by a later team refetch (ConfirmPayment).
type CheckoutRedirect struct {
	PublicKey string
	SessionID string
	URL       string
}

// checkoutBaseURL is the payment provider's hosted checkout endpoint
const checkoutBaseURL = "https://checkout.stripe.com/c/pay/"

// Controller owns the subscription state machine.
//
// It keeps two distinct plan fields: the committed plan (what the backend
// bills for, derived from the team record) and the locally selected plan id
// (the last tier the user chose to view or confirm). The two are never
// collapsed: a selection only becomes committed through the free-tier
// shortcut, a completed checkout, or a cancellation.
type Controller struct {
	client *api.Client
	logger *log.Logger

	mu            sync.Mutex
	team          *api.Team
	selectedPlan  string
	cancelPending bool
	inFlight      bool
}

// NewController creates a subscription controller over the given API client
func NewController(client *api.Client, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Controller{
		client: client,
		logger: logger,
	}
}

// Load fetches the team record and initializes the selection to the
// committed plan
func (c *Controller) Load(ctx context.Context) error {
	c.setInFlight(true)
	defer c.setInFlight(false)

	team, err := c.client.MyTeam(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.team = team
	c.selectedPlan = committedPlanID(team)
	return nil
}

// Team returns the last fetched team record, or nil before Load
func (c *Controller) Team() *api.Team {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.team == nil {
		return nil
	}
	team := *c.team
	return &team
}

// SelectedPlanID returns the locally selected plan id
func (c *Controller) SelectedPlanID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedPlan
}

// CommittedPlanID returns the normalized id of the plan the backend
// currently bills for, or "free" when no plan is set
func (c *Controller) CommittedPlanID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return committedPlanID(c.team)
}

func committedPlanID(team *api.Team) string {
	if team == nil || team.Plan == nil {
		return FreePlanID
	}
	return NormalizePlanID(team.Plan.Name)
}

// InFlight reports whether a backend call is outstanding. Callers should
// disable the triggering control while this is true.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Select chooses a plan.
//
// Selecting the committed plan is a no-op. Selecting the free tier commits
// immediately: one upgrade call followed by one refetch. Selecting a paid
// tier only records the local selection; committing requires Checkout.
func (c *Controller) Select(ctx context.Context, planID string) error {
	if _, ok := FindPlan(planID); !ok {
		return errors.NewPlanUnknownError(planID)
	}

	if planID == c.CommittedPlanID() {
		return nil
	}

	if planID != FreePlanID {
		c.mu.Lock()
		c.selectedPlan = planID
		c.mu.Unlock()
		return nil
	}

	c.setInFlight(true)
	defer c.setInFlight(false)

	if _, err := c.client.UpgradePlan(ctx, FreePlanID); err != nil {
		return errors.Wrap(errors.ErrCodePlanUpgrade, "failed to switch to the free plan", err)
	}

	team, err := c.client.MyTeam(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.team = team
	c.selectedPlan = FreePlanID
	return nil
}

// CanCheckout reports whether the current selection is a paid tier that
// differs from the committed plan
func (c *Controller) CanCheckout() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedPlan != FreePlanID && c.selectedPlan != committedPlanID(c.team)
}

// Checkout prepares the hosted payment handoff for the selected paid plan.
//
// It fetches the provider's public key and asks the backend for a checkout
// session. Nothing is committed: if either step fails the controller stays
// in its prior state, and even on success the plan changes only after the
// provider redirect completes and the team is refetched.
func (c *Controller) Checkout(ctx context.Context) (*CheckoutRedirect, error) {
	if !c.CanCheckout() {
		return nil, errors.New(errors.ErrCodePlanUpgrade, "no uncommitted paid plan selected")
	}
	planID := c.SelectedPlanID()

	c.setInFlight(true)
	defer c.setInFlight(false)

	pubKey, err := c.client.StripePublicKey(ctx)
	if err != nil {
		return nil, errors.NewPaymentSetupError("public key", err)
	}

	sessionID, err := c.client.CreateCheckoutSession(ctx, planID)
	if err != nil {
		return nil, errors.NewPaymentSetupError("checkout session", err)
	}

	return &CheckoutRedirect{
		PublicKey: pubKey,
		SessionID: sessionID,
		URL:       checkoutBaseURL + sessionID,
	}, nil
}

// ConfirmPayment asks the backend to sync the subscription with the payment
// provider after the user returns from hosted checkout, then adopts the
// refreshed team record
func (c *Controller) ConfirmPayment(ctx context.Context) error {
	c.setInFlight(true)
	defer c.setInFlight(false)

	team, err := c.client.CheckSession(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodePaymentConfirm, "could not confirm the subscription", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.team = team
	c.selectedPlan = committedPlanID(team)
	return nil
}

// CancelPending reports whether the cancellation confirmation is open
func (c *Controller) CancelPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelPending
}

// OpenCancel opens the cancellation confirmation. No backend call is made
// until ConfirmCancel.
func (c *Controller) OpenCancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.team == nil || !c.team.PlanActive() || committedPlanID(c.team) == FreePlanID {
		return errors.New(errors.ErrCodePlanCancel, "no active paid subscription to cancel")
	}

	c.cancelPending = true
	return nil
}

// DismissCancel closes the cancellation confirmation without any call
func (c *Controller) DismissCancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPending = false
}

// ConfirmCancel issues the cancel call exactly once.
//
// The confirmation closes regardless of outcome. On success the team is
// refetched and the selection resets to the free tier; on failure the plan
// state is left untouched and the error surfaces to the caller.
func (c *Controller) ConfirmCancel(ctx context.Context) error {
	c.mu.Lock()
	if !c.cancelPending {
		c.mu.Unlock()
		return errors.New(errors.ErrCodePlanCancel, "cancellation has not been confirmed")
	}
	c.cancelPending = false
	c.mu.Unlock()

	c.setInFlight(true)
	defer c.setInFlight(false)

	cancelled, err := c.client.CancelPlan(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodePlanCancel, "failed to cancel the subscription", err)
	}

	team, err := c.client.MyTeam(ctx)
	if err != nil {
		// The cancellation went through; fall back to its response
		c.logger.Warn("refetch after cancellation failed", "error", err.Error())
		team = cancelled
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.team = team
	c.selectedPlan = FreePlanID
	return nil
}

func (c *Controller) setInFlight(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = v
}
