// Package tui holds the interactive surfaces of crmctl: huh prompts and the
// bubbletea dashboard.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/crmkit/crmctl/internal/api"
	"github.com/crmkit/crmctl/internal/dashboard"
	"github.com/crmkit/crmctl/internal/subscription"
)

// slotState tracks the loading lifecycle of one dashboard feed
type slotState int

const (
	slotLoading slotState = iota
	slotLoaded
	slotFailed
)

// Messages delivered when a feed resolves

// LeadsLoadedMsg carries the leads slot result
type LeadsLoadedMsg struct {
	Leads []api.Lead
	Err   error
}

// ClientsLoadedMsg carries the clients slot result
type ClientsLoadedMsg struct {
	Clients []api.ClientRecord
	Err     error
}

// TeamLoadedMsg carries the team slot result
type TeamLoadedMsg struct {
	Team *api.Team
	Err  error
}

// DashboardModel is the bubbletea model for the overview screen.
//
// The three feeds load independently: each has its own state and error, so
// a failing feed renders as a failed card while the others still populate.
type DashboardModel struct {
	client *api.Client

	spinner spinner.Model
	styles  Styles
	width   int

	leadsState   slotState
	clientsState slotState
	teamState    slotState

	snap dashboard.Snapshot

	quitting bool
}

// Styles contains lipgloss styles for the dashboard
type Styles struct {
	Title  lipgloss.Style
	Card   lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Error  lipgloss.Style
	Muted  lipgloss.Style
	Status lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2).
			MarginRight(1),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Value: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Status: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")),
	}
}

// NewDashboardModel creates the overview model
func NewDashboardModel(client *api.Client) DashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	return DashboardModel{
		client:  client,
		spinner: sp,
		styles:  DefaultStyles(),
	}
}

// Init starts the spinner and the three feed fetches (required by Bubble Tea)
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.fetchLeads(),
		m.fetchClients(),
		m.fetchTeam(),
	)
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case LeadsLoadedMsg:
		m.snap.Leads = dashboard.Result[[]api.Lead]{Value: msg.Leads, Err: msg.Err}
		m.leadsState = stateFor(msg.Err)
		return m, nil

	case ClientsLoadedMsg:
		m.snap.Clients = dashboard.Result[[]api.ClientRecord]{Value: msg.Clients, Err: msg.Err}
		m.clientsState = stateFor(msg.Err)
		return m, nil

	case TeamLoadedMsg:
		m.snap.Team = dashboard.Result[*api.Team]{Value: msg.Team, Err: msg.Err}
		m.teamState = stateFor(msg.Err)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func stateFor(err error) slotState {
	if err != nil {
		return slotFailed
	}
	return slotLoaded
}

// View renders the dashboard (required by Bubble Tea)
func (m DashboardModel) View() string {
	if m.quitting {
		return ""
	}

	var cards []string
	metrics := m.snap.ComputeMetrics()

	cards = append(cards, m.metricCard("Leads", m.leadsState, fmt.Sprintf("%d", metrics.TotalLeads)))
	cards = append(cards, m.metricCard("Clients", m.clientsState, fmt.Sprintf("%d", metrics.TotalClients)))
	cards = append(cards, m.metricCard("Conversion", m.leadsState, fmt.Sprintf("%d%%", metrics.ConversionRate)))
	cards = append(cards, m.metricCard("Pipeline", m.leadsState, fmt.Sprintf("$%.0f", metrics.PipelineValue)))

	body := lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	out := m.styles.Title.Render("Dashboard") + "\n" +
		body + "\n" +
		m.planLine() + "\n" +
		m.styles.Muted.Render("q: quit")

	return out
}

// metricCard renders one summary card, showing the spinner while its feed is
// still loading and an error marker when it failed
func (m DashboardModel) metricCard(label string, state slotState, value string) string {
	var rendered string
	switch state {
	case slotLoading:
		rendered = m.spinner.View()
	case slotFailed:
		rendered = m.styles.Error.Render("unavailable")
	default:
		rendered = m.styles.Value.Render(value)
	}

	return m.styles.Card.Render(m.styles.Label.Render(label) + "\n" + rendered)
}

// planLine renders the team's plan summary under the cards
func (m DashboardModel) planLine() string {
	switch m.teamState {
	case slotLoading:
		return m.styles.Muted.Render("Loading team…")
	case slotFailed:
		return m.styles.Error.Render("Team data unavailable")
	}

	team := m.snap.Team.Value
	if team == nil || team.Plan == nil {
		return m.styles.Muted.Render("Plan: Free")
	}

	status := "cancelled"
	if team.PlanActive() {
		status = "active"
	}
	id := subscription.NormalizePlanID(team.Plan.Name)
	return m.styles.Status.Render(fmt.Sprintf("Plan: %s (%s, %s)", team.Plan.Name, id, status))
}

// Loaded reports whether all three feeds have resolved
func (m DashboardModel) Loaded() bool {
	return m.leadsState != slotLoading &&
		m.clientsState != slotLoading &&
		m.teamState != slotLoading
}

func (m DashboardModel) fetchLeads() tea.Cmd {
	return func() tea.Msg {
		leads, err := m.client.Leads(context.Background())
		return LeadsLoadedMsg{Leads: leads, Err: err}
	}
}

func (m DashboardModel) fetchClients() tea.Cmd {
	return func() tea.Msg {
		clients, err := m.client.Clients(context.Background())
		return ClientsLoadedMsg{Clients: clients, Err: err}
	}
}

func (m DashboardModel) fetchTeam() tea.Cmd {
	return func() tea.Msg {
		team, err := m.client.MyTeam(context.Background())
		return TeamLoadedMsg{Team: team, Err: err}
	}
}
