package api

import (
	"context"
	"net/http"
	"time"
)

// Plan statuses as reported by the backend
const (
	PlanStatusActive    = "active"
	PlanStatusCancelled = "cancelled"
)

// Plan represents a billing plan record attached to a team
type Plan struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	MaxLeads   int     `json:"max_leads"`
	MaxClients int     `json:"max_clients"`
	Price      float64 `json:"price"`
}

// Team represents the caller's team, including its billing state
type Team struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Members     []User `json:"members"`
	CreatedBy   User   `json:"created_by"`
	Plan        *Plan  `json:"plan"`
	PlanStatus  string `json:"plan_status"`
	PlanEndDate string `json:"plan_end_date"`
}

// PlanActive reports whether the team's plan is active
func (t *Team) PlanActive() bool {
	return t.PlanStatus == PlanStatusActive
}

// PlanEnds parses the plan end date, if set
func (t *Team) PlanEnds() (time.Time, bool) {
	if t.PlanEndDate == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, t.PlanEndDate); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// MyTeam retrieves the caller's team record
func (c *Client) MyTeam(ctx context.Context) (*Team, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/team/get-my-team/", nil)
	if err != nil {
		return nil, err
	}

	var team Team
	if err := parseResponse(resp, &team); err != nil {
		return nil, err
	}

	return &team, nil
}

// UpgradePlan switches the team to the given plan id
func (c *Client) UpgradePlan(ctx context.Context, planID string) (*Team, error) {
	req := map[string]string{"plan": planID}

	resp, err := c.doRequest(ctx, http.MethodPost, "/team/upgrade-plan/", req)
	if err != nil {
		return nil, err
	}

	var team Team
	if err := parseResponse(resp, &team); err != nil {
		return nil, err
	}

	return &team, nil
}

// AddMember invites an existing user onto the caller's team
func (c *Client) AddMember(ctx context.Context, email string) error {
	req := map[string]string{"email": email}

	resp, err := c.doRequest(ctx, http.MethodPost, "/team/add-member/", req)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}
