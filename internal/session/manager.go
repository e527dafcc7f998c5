// Package session owns the authentication lifecycle: it is the single
// source of truth for whether a valid authenticated user exists and the only
// writer of the persisted credential token.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/crmkit/crmctl/internal/api"
	"github.com/crmkit/crmctl/internal/errors"
	"github.com/crmkit/crmctl/internal/log"
)

// Manager coordinates login, registration, logout, and startup hydration.
//
// Every state-changing operation is tagged with a generation number taken
// when it starts. An operation only commits its result if the generation is
// still current when its response arrives; a login superseded by a logout
// therefore cannot re-authenticate the session.
type Manager struct {
	client *api.Client
	store  TokenStore
	logger *log.Logger

	mu            sync.Mutex
	initialized   bool
	authenticated bool
	user          *api.User
	loading       bool
	generation    uint64
}

// NewManager creates a session manager over the given API client and token
// store
func NewManager(client *api.Client, store TokenStore, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Manager{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Authenticated reports whether a valid authenticated user exists
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// User returns the hydrated user profile, or nil when unauthenticated
func (m *Manager) User() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	user := *m.user
	return &user
}

// Loading reports whether a session operation is in flight. Callers should
// disable the triggering control while this is true.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Initialize hydrates the session from any persisted token.
//
// It runs at most once per process; later calls are no-ops. A token that the
// backend no longer accepts is deleted, leaving the session indistinguishable
// from one that was never logged in.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return nil
	}
	m.initialized = true
	m.loading = true
	gen := m.generation
	m.mu.Unlock()

	defer m.clearLoading()

	token, err := m.store.Load()
	if err != nil {
		m.logger.Warn("could not read stored credentials", "error", err.Error())
		return nil
	}
	if token == "" {
		return nil
	}

	m.client.SetToken(token)
	user, err := m.client.CurrentUser(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return nil
	}

	if err != nil {
		m.client.ClearToken()
		if clearErr := m.store.Clear(); clearErr != nil {
			m.logger.Warn("could not delete stale credentials", "error", clearErr.Error())
		}
		m.authenticated = false
		m.user = nil
		m.logger.Debug("stored token rejected, starting logged out")
		return nil
	}

	m.authenticated = true
	m.user = user
	return nil
}

// Login authenticates with the backend and persists the issued token.
//
// Both fields are validated locally first; an empty field fails without any
// network traffic. On failure the session stays unauthenticated and no token
// is stored.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return errors.NewFieldRequiredError("username")
	}
	if password == "" {
		return errors.NewFieldRequiredError("password")
	}

	gen := m.beginOperation()
	defer m.clearLoading()

	loginResp, err := m.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if m.stale(gen) {
		return errors.New(errors.ErrCodeRequestSuperseded, "login superseded by a newer session operation")
	}

	m.client.SetToken(loginResp.AuthToken)
	user, err := m.client.CurrentUser(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		// The token was already attached for the profile fetch; detach it so
		// the discarded login leaves no trace
		m.client.ClearToken()
		return errors.New(errors.ErrCodeRequestSuperseded, "login superseded by a newer session operation")
	}

	if err != nil {
		m.client.ClearToken()
		return err
	}

	if err := m.store.Save(loginResp.AuthToken); err != nil {
		m.client.ClearToken()
		return err
	}

	m.authenticated = true
	m.user = user
	return nil
}

// Register creates an account without authenticating.
//
// All fields must be non-empty and the confirmation must match the password
// before any network call is made. Backend rejections come back field-keyed.
func (m *Manager) Register(ctx context.Context, username, email, password, passwordConfirm string) (*api.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.NewFieldRequiredError("username")
	}
	if strings.TrimSpace(email) == "" {
		return nil, errors.NewFieldRequiredError("email")
	}
	if password == "" {
		return nil, errors.NewFieldRequiredError("password")
	}
	if passwordConfirm == "" {
		return nil, errors.NewFieldRequiredError("password_confirm")
	}
	if password != passwordConfirm {
		return nil, errors.NewPasswordMismatchError()
	}

	m.setLoading(true)
	defer m.clearLoading()

	return m.client.Register(ctx, username, email, password)
}

// Logout revokes the token on the backend and clears all local state.
//
// The revoke call is best-effort: a network failure is logged and swallowed
// so that local logout always succeeds. Logout is idempotent.
func (m *Manager) Logout(ctx context.Context) error {
	m.beginOperation()
	defer m.clearLoading()

	if m.client.HasToken() {
		if err := m.client.Logout(ctx); err != nil {
			// Local logout wins over guaranteed server-side revocation
			m.logger.Warn("token revocation failed, clearing local session anyway", "error", err.Error())
		}
	}

	m.client.ClearToken()
	if err := m.store.Clear(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.authenticated = false
	m.user = nil
	return nil
}

// beginOperation bumps the session generation, marks the manager loading,
// and returns the generation owned by the caller
func (m *Manager) beginOperation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.loading = true
	return m.generation
}

func (m *Manager) stale(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen != m.generation
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = v
}

func (m *Manager) clearLoading() {
	m.setLoading(false)
}
