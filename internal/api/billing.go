package api

import (
	"context"
	"net/http"
)

// PublicKeyResponse carries the payment provider's publishable key
type PublicKeyResponse struct {
	PubKey string `json:"pub_key"`
}

// CheckoutSessionResponse carries the id of a hosted checkout session
type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// StripePublicKey fetches the payment provider's publishable key
func (c *Client) StripePublicKey(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/stripe/get-stripe-pub-key/", nil)
	if err != nil {
		return "", err
	}

	var keyResp PublicKeyResponse
	if err := parseResponse(resp, &keyResp); err != nil {
		return "", err
	}

	return keyResp.PubKey, nil
}

// CreateCheckoutSession asks the backend for a hosted checkout session for
// the given paid plan
func (c *Client) CreateCheckoutSession(ctx context.Context, planID string) (string, error) {
	req := map[string]string{"plan": planID}

	resp, err := c.doRequest(ctx, http.MethodPost, "/stripe/create-checkout-session/", req)
	if err != nil {
		return "", err
	}

	var sessionResp CheckoutSessionResponse
	if err := parseResponse(resp, &sessionResp); err != nil {
		return "", err
	}

	return sessionResp.SessionID, nil
}

// CheckSession asks the backend to sync the team's subscription with the
// payment provider after the user returns from hosted checkout
func (c *Client) CheckSession(ctx context.Context) (*Team, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/stripe/check_session/", nil)
	if err != nil {
		return nil, err
	}

	var team Team
	if err := parseResponse(resp, &team); err != nil {
		return nil, err
	}

	return &team, nil
}

// CancelPlan cancels the team's paid subscription
func (c *Client) CancelPlan(ctx context.Context) (*Team, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/stripe/cancel_plan/", nil)
	if err != nil {
		return nil, err
	}

	var team Team
	if err := parseResponse(resp, &team); err != nil {
		return nil, err
	}

	return &team, nil
}
