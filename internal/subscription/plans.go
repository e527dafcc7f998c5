package subscription

import "strings"

// FreePlanID is the identifier of the free tier
const FreePlanID = "free"

// PlanDescriptor is a static catalog entry for a billing tier.
// Capacity limits are descriptive only; enforcement belongs to the backend.
type PlanDescriptor struct {
	ID           string
	Name         string
	MonthlyPrice float64
	Features     []string
	MaxLeads     int
	MaxClients   int
}

// Unlimited marks a capacity with no cap
const Unlimited = 0

// Catalog is the build-time plan catalog. It is never fetched.
var Catalog = []PlanDescriptor{
	{
		ID:           FreePlanID,
		Name:         "Free",
		MonthlyPrice: 0,
		Features:     []string{"5 leads", "5 clients", "Basic CRM features"},
		MaxLeads:     5,
		MaxClients:   5,
	},
	{
		ID:           "smallteam",
		Name:         "Small Team",
		MonthlyPrice: 19,
		Features:     []string{"25 leads", "25 clients", "Email notifications", "Priority support"},
		MaxLeads:     25,
		MaxClients:   25,
	},
	{
		ID:           "bigteam",
		Name:         "Big Team",
		MonthlyPrice: 49,
		Features:     []string{"Unlimited leads", "Unlimited clients", "Advanced analytics", "Priority support", "API access"},
		MaxLeads:     Unlimited,
		MaxClients:   Unlimited,
	},
}

// NormalizePlanID converts a plan display name into its catalog identifier:
// lower-cased with all whitespace stripped ("Small Team" -> "smallteam").
// An empty name maps to the free tier.
func NormalizePlanID(name string) string {
	id := strings.ToLower(name)
	id = strings.Join(strings.Fields(id), "")
	if id == "" {
		return FreePlanID
	}
	return id
}

// FindPlan looks up a catalog entry by identifier
func FindPlan(id string) (PlanDescriptor, bool) {
	for _, plan := range Catalog {
		if plan.ID == id {
			return plan, true
		}
	}
	return PlanDescriptor{}, false
}
