// Package dashboard assembles the overview screen's data: leads, clients,
// and team are fetched concurrently into independent result slots, so a
// failure in one feed never blanks the others.
package dashboard

import (
	"context"
	"sync"

	"github.com/crmkit/crmctl/internal/api"
)

// Result is one slot of the dashboard: either a value or the error that
// prevented it from loading.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok reports whether the slot loaded successfully
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Snapshot holds the three dashboard feeds, each resolved independently
type Snapshot struct {
	Leads   Result[[]api.Lead]
	Clients Result[[]api.ClientRecord]
	Team    Result[*api.Team]
}

// Fetch loads all three feeds concurrently. It always returns a snapshot;
// per-feed failures are recorded in their slots.
func Fetch(ctx context.Context, client *api.Client) *Snapshot {
	var snap Snapshot
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		snap.Leads.Value, snap.Leads.Err = client.Leads(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Clients.Value, snap.Clients.Err = client.Clients(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Team.Value, snap.Team.Err = client.MyTeam(ctx)
	}()
	wg.Wait()

	return &snap
}

// Metrics are the derived summary numbers shown on the overview cards
type Metrics struct {
	TotalLeads     int
	TotalClients   int
	ConversionRate int
	PipelineValue  float64
}

// ComputeMetrics derives summary numbers from the loaded slots.
// Slots that failed contribute zero values.
func (s *Snapshot) ComputeMetrics() Metrics {
	var m Metrics

	if s.Leads.Ok() {
		m.TotalLeads = len(s.Leads.Value)
		for _, lead := range s.Leads.Value {
			if lead.Status != "lost" {
				m.PipelineValue += lead.EstimatedValue
			}
		}
	}
	if s.Clients.Ok() {
		m.TotalClients = len(s.Clients.Value)
	}
	if m.TotalLeads > 0 {
		m.ConversionRate = int(float64(m.TotalClients)/float64(m.TotalLeads)*100 + 0.5)
	}

	return m
}

// Errs returns the errors of all failed slots, in a stable order
func (s *Snapshot) Errs() []error {
	var errs []error
	if s.Leads.Err != nil {
		errs = append(errs, s.Leads.Err)
	}
	if s.Clients.Err != nil {
		errs = append(errs, s.Clients.Err)
	}
	if s.Team.Err != nil {
		errs = append(errs, s.Team.Err)
	}
	return errs
}
