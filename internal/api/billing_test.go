package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestClient_StripePublicKey(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stripe/get-stripe-pub-key/" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(PublicKeyResponse{PubKey: "pk_test_123"})
	}))

	client := NewClient(server.URL)
	key, err := client.StripePublicKey(context.Background())
	if err != nil {
		t.Fatalf("StripePublicKey() error = %v", err)
	}
	if key != "pk_test_123" {
		t.Errorf("key = %q, want %q", key, "pk_test_123")
	}
}

func TestClient_CreateCheckoutSession(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stripe/create-checkout-session/" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["plan"] != "smallteam" {
			t.Errorf("plan = %q, want %q", req["plan"], "smallteam")
		}

		json.NewEncoder(w).Encode(CheckoutSessionResponse{SessionID: "cs_test_42"})
	}))

	client := NewClient(server.URL)
	sessionID, err := client.CreateCheckoutSession(context.Background(), "smallteam")
	if err != nil {
		t.Fatalf("CreateCheckoutSession() error = %v", err)
	}
	if sessionID != "cs_test_42" {
		t.Errorf("sessionID = %q, want %q", sessionID, "cs_test_42")
	}
}

func TestClient_CheckSession(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stripe/check_session/" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(Team{
			ID:         3,
			Plan:       &Plan{ID: 2, Name: "Small team"},
			PlanStatus: PlanStatusActive,
		})
	}))

	client := NewClient(server.URL)
	team, err := client.CheckSession(context.Background())
	if err != nil {
		t.Fatalf("CheckSession() error = %v", err)
	}
	if team.Plan == nil || team.Plan.Name != "Small team" {
		t.Errorf("Plan = %+v, want Small team", team.Plan)
	}
}

func TestClient_CancelPlan(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stripe/cancel_plan/" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(Team{
			ID:          3,
			Plan:        &Plan{ID: 2, Name: "Small team"},
			PlanStatus:  PlanStatusCancelled,
			PlanEndDate: "2026-09-30",
		})
	}))

	client := NewClient(server.URL)
	team, err := client.CancelPlan(context.Background())
	if err != nil {
		t.Fatalf("CancelPlan() error = %v", err)
	}
	if team.PlanActive() {
		t.Error("PlanActive() = true for a cancelled plan")
	}
	if _, ok := team.PlanEnds(); !ok {
		t.Error("expected a parsable plan end date")
	}
}
