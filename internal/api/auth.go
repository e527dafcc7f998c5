package api

import (
	"context"
	"net/http"

	"github.com/crmkit/crmctl/internal/errors"
)

// LoginRequest represents a token login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the token issued on successful login
type LoginResponse struct {
	AuthToken string `json:"auth_token"`
}

// RegisterRequest represents an account creation request.
// The backend requires the password duplicated into re_password.
type RegisterRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RePassword string `json:"re_password"`
}

// User represents a CRM user profile
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName returns the display name, falling back to the username
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// Login exchanges credentials for an auth token.
// The token is NOT attached to the client; the session manager decides
// whether to adopt it.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	req := LoginRequest{
		Username: username,
		Password: password,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/token/login/", req)
	if err != nil {
		return nil, err
	}

	var loginResp LoginResponse
	if err := parseResponse(resp, &loginResp); err != nil {
		// A field-keyed 400 on the login endpoint means bad credentials
		if errors.IsCode(err, errors.ErrCodeFieldRejected) {
			cred := errors.NewInvalidCredentialsError()
			cred.Cause = err
			return nil, cred
		}
		return nil, err
	}

	return &loginResp, nil
}

// Logout revokes the current token on the backend
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/token/logout/", nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// Register creates a new user account without authenticating
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	req := RegisterRequest{
		Username:   username,
		Email:      email,
		Password:   password,
		RePassword: password,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/users/", req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := parseResponse(resp, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// CurrentUser retrieves the profile of the authenticated user
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/users/me/", nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := parseResponse(resp, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
