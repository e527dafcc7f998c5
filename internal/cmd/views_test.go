package cmd

import (
	"strings"
	"testing"

	"github.com/crmkit/crmctl/internal/api"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		team api.Team
		want statusView
	}{
		{
			name: "free tier",
			team: api.Team{PlanStatus: api.PlanStatusActive},
			want: statusView{Plan: "Free", PlanID: "free", Status: "active"},
		},
		{
			name: "paid plan",
			team: api.Team{
				Plan:       &api.Plan{Name: "Small Team"},
				PlanStatus: api.PlanStatusActive,
			},
			want: statusView{Plan: "Small Team", PlanID: "smallteam", Status: "active"},
		},
		{
			name: "cancelled with end date",
			team: api.Team{
				Plan:        &api.Plan{Name: "Big Team"},
				PlanStatus:  api.PlanStatusCancelled,
				PlanEndDate: "2026-09-30",
			},
			want: statusView{Plan: "Big Team", PlanID: "bigteam", Status: "cancelled", EndDate: "2026-09-30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusOf(&tt.team); got != tt.want {
				t.Errorf("statusOf() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlanListView_String(t *testing.T) {
	list := planListView{
		{ID: "free", Name: "Free", Price: 0, Features: []string{"5 leads"}, Committed: true},
		{ID: "smallteam", Name: "Small Team", Price: 19},
	}

	out := list.String()
	if !strings.Contains(out, "* free") {
		t.Errorf("committed plan should carry the marker:\n%s", out)
	}
	if !strings.Contains(out, "$19/month") {
		t.Errorf("price missing:\n%s", out)
	}
	if !strings.Contains(out, "- 5 leads") {
		t.Errorf("features missing:\n%s", out)
	}
}

func TestTeamViewOf(t *testing.T) {
	team := api.Team{
		ID:         3,
		Name:       "Acme",
		Plan:       &api.Plan{Name: "Small Team"},
		PlanStatus: api.PlanStatusActive,
		Members: []api.User{
			{Username: "jane", FirstName: "Jane", LastName: "Doe"},
			{Username: "bob"},
		},
	}

	view := teamViewOf(&team)

	if view.Plan != "Small Team" {
		t.Errorf("Plan = %q", view.Plan)
	}
	if view.Limits.MaxLeads != 25 || view.Limits.MaxClients != 25 {
		t.Errorf("Limits = %+v, want the smallteam caps", view.Limits)
	}
	if len(view.Members) != 2 {
		t.Fatalf("Members = %v", view.Members)
	}
	if view.Members[0] != "Jane Doe (jane)" || view.Members[1] != "bob" {
		t.Errorf("Members = %v", view.Members)
	}
}

func TestTeamViewOf_UnlimitedRendersAsText(t *testing.T) {
	team := api.Team{
		Name:       "Acme",
		Plan:       &api.Plan{Name: "Big Team"},
		PlanStatus: api.PlanStatusActive,
	}

	out := teamViewOf(&team).String()
	if !strings.Contains(out, "unlimited leads, unlimited clients") {
		t.Errorf("bigteam limits should render as unlimited:\n%s", out)
	}
}

func TestDashboardView_String(t *testing.T) {
	view := dashboardView{
		TotalLeads:     4,
		TotalClients:   1,
		ConversionRate: 25,
		PipelineValue:  4000,
		Plan:           "Free",
		Errors:         []string{"clients feed unavailable"},
	}

	out := view.String()
	for _, want := range []string{"Leads:      4", "Conversion: 25%", "$4000", "warning: clients feed unavailable"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
