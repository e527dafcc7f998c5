package cmd

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/crmkit/crmctl/internal/api"
	"github.com/crmkit/crmctl/internal/errors"
)

// newTestServer starts an HTTP server bound to IPv4-only loopback so tests work
// inside restricted sandboxes that forbid IPv6 listeners.
func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("unable to start test server: %v", err)
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	server.Start()
	t.Cleanup(server.Close)
	return server
}

// crmBackend serves the endpoints the command tree touches and counts the
// billing mutations
type crmBackend struct {
	mu           sync.Mutex
	team         api.Team
	upgradeCalls int
}

func (b *crmBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		switch r.URL.Path {
		case "/users/me/":
			json.NewEncoder(w).Encode(api.User{ID: 1, Username: "jane"})
		case "/team/get-my-team/":
			json.NewEncoder(w).Encode(b.team)
		case "/team/upgrade-plan/":
			b.upgradeCalls++
			json.NewEncoder(w).Encode(b.team)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// runCommand executes the root command against the given backend with a
// logged-in session
func runCommand(t *testing.T, backend *crmBackend, args ...string) error {
	t.Helper()

	server := newTestServer(t, backend.handler())

	home := t.TempDir()
	credentials := filepath.Join(home, "credentials.json")
	if err := os.WriteFile(credentials, []byte(`{"token": "tok-valid"}`), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CRM_HOME", home)
	t.Setenv("CRM_API_URL", server.URL)
	t.Setenv("CRM_CREDENTIALS_FILE", credentials)

	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs([]string{})
	return rootCmd.Execute()
}

func TestSubscriptionCheckout_FreePlanRejectedWithoutCommit(t *testing.T) {
	backend := &crmBackend{team: api.Team{
		ID:         3,
		Name:       "Acme",
		Plan:       &api.Plan{ID: 2, Name: "Small Team", Price: 19},
		PlanStatus: api.PlanStatusActive,
	}}

	err := runCommand(t, backend, "subscription", "checkout", "free")

	if !errors.IsCode(err, errors.ErrCodePlanUpgrade) {
		t.Fatalf("expected %s, got %v", errors.ErrCodePlanUpgrade, err)
	}
	// The failed checkout must not have downgraded the paid team
	if backend.upgradeCalls != 0 {
		t.Errorf("upgradeCalls = %d, want 0", backend.upgradeCalls)
	}
}

func TestSubscriptionCheckout_FreePlanDisplayNameRejected(t *testing.T) {
	backend := &crmBackend{team: api.Team{
		ID:         3,
		Plan:       &api.Plan{ID: 2, Name: "Small Team", Price: 19},
		PlanStatus: api.PlanStatusActive,
	}}

	// The guard normalizes display names the same way plan ids are
	err := runCommand(t, backend, "subscription", "checkout", "Free")

	if !errors.IsCode(err, errors.ErrCodePlanUpgrade) {
		t.Fatalf("expected %s, got %v", errors.ErrCodePlanUpgrade, err)
	}
	if backend.upgradeCalls != 0 {
		t.Errorf("upgradeCalls = %d, want 0", backend.upgradeCalls)
	}
}
