package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// Lead represents a sales lead
type Lead struct {
	ID             int     `json:"id"`
	Company        string  `json:"company"`
	ContactPerson  string  `json:"contact_person"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Website        string  `json:"website,omitempty"`
	Confidence     int     `json:"confidence,omitempty"`
	EstimatedValue float64 `json:"estimated_value,omitempty"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	CreatedAt      string  `json:"created_at"`
}

// ClientRecord represents a converted client
type ClientRecord struct {
	ID            int    `json:"id"`
	Company       string `json:"company"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Website       string `json:"website,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// listEnvelope accepts either a bare JSON array or a DRF-paginated object
// ({"count": ..., "results": [...]}) for the same endpoint.
type listEnvelope[T any] struct {
	items []T
}

func (l *listEnvelope[T]) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &l.items); err == nil {
		return nil
	}

	var paginated struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &paginated); err != nil {
		return err
	}
	l.items = paginated.Results
	return nil
}

// Leads retrieves all leads visible to the caller
func (c *Client) Leads(ctx context.Context) ([]Lead, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/leads/", nil)
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope[Lead]
	if err := parseResponse(resp, &envelope); err != nil {
		return nil, err
	}

	return envelope.items, nil
}

// Clients retrieves all clients visible to the caller
func (c *Client) Clients(ctx context.Context) ([]ClientRecord, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/clients/", nil)
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope[ClientRecord]
	if err := parseResponse(resp, &envelope); err != nil {
		return nil, err
	}

	return envelope.items, nil
}
