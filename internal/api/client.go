// Package api implements the client for the CRM REST backend.
//
// The backend is a Django REST Framework service using djoser token
// authentication: tokens travel in an "Authorization: Token <value>" header
// and validation failures come back as field-keyed JSON error maps.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crmkit/crmctl/internal/errors"
)

// Client is the CRM backend API client
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	token      string
}

// NewClient creates a new CRM API client
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken sets the authentication token attached to subsequent requests
func (c *Client) SetToken(token string) {
	c.token = token
}

// ClearToken removes the authentication token
func (c *Client) ClearToken() {
	c.token = ""
}

// HasToken reports whether a token is currently attached
func (c *Client) HasToken() bool {
	return c.token != ""
}

// doRequest performs an HTTP request with authentication
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError(err)
	}

	return resp, nil
}

// parseResponse parses the response body into the target struct.
//
// Non-2xx responses are mapped onto the error taxonomy: 401 means the token
// is missing or no longer valid, a 400 with a JSON object body is a
// field-keyed validation rejection, everything else is an unexpected status.
func parseResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return decodeAPIError(resp.StatusCode, body)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return errors.Wrap(errors.ErrCodeDecodeFailed, "failed to decode response", err)
		}
	}

	return nil
}

// decodeAPIError turns an error response into a CRMError
func decodeAPIError(status int, body []byte) error {
	if status == http.StatusUnauthorized {
		return errors.NewSessionExpiredError()
	}

	if status == http.StatusBadRequest {
		// DRF reports validation failures as {"field": ["msg", ...], ...},
		// sometimes with messages as plain strings
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(body, &raw); err == nil && len(raw) > 0 {
			fields := make(map[string][]string, len(raw))
			for name, value := range raw {
				var many []string
				if err := json.Unmarshal(value, &many); err == nil {
					fields[name] = many
					continue
				}
				var one string
				if err := json.Unmarshal(value, &one); err == nil {
					fields[name] = []string{one}
				}
			}
			if len(fields) > 0 {
				return errors.NewFieldRejectedError(fields)
			}
		}
	}

	excerpt := strings.TrimSpace(string(body))
	if len(excerpt) > 200 {
		excerpt = excerpt[:200]
	}
	return errors.New(errors.ErrCodeUnexpectedStatus,
		fmt.Sprintf("request failed with status %d: %s", status, excerpt))
}
