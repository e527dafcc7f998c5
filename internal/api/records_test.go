package api

import (
	"context"
	"net/http"
	"testing"
)

func TestClient_Leads_BareArray(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leads/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id": 1, "company": "Acme", "status": "new"}]`))
	}))

	client := NewClient(server.URL)
	leads, err := client.Leads(context.Background())
	if err != nil {
		t.Fatalf("Leads() error = %v", err)
	}
	if len(leads) != 1 || leads[0].Company != "Acme" {
		t.Errorf("Leads() = %+v, want one Acme lead", leads)
	}
}

func TestClient_Leads_PaginatedEnvelope(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 2, "next": null, "results": [
			{"id": 1, "company": "Acme", "status": "new"},
			{"id": 2, "company": "Globex", "status": "contacted"}
		]}`))
	}))

	client := NewClient(server.URL)
	leads, err := client.Leads(context.Background())
	if err != nil {
		t.Fatalf("Leads() error = %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("len(leads) = %d, want 2", len(leads))
	}
	if leads[1].Company != "Globex" {
		t.Errorf("leads[1].Company = %q, want %q", leads[1].Company, "Globex")
	}
}

func TestClient_Clients(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clients/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"results": [{"id": 5, "company": "Initech"}]}`))
	}))

	client := NewClient(server.URL)
	clients, err := client.Clients(context.Background())
	if err != nil {
		t.Fatalf("Clients() error = %v", err)
	}
	if len(clients) != 1 || clients[0].Company != "Initech" {
		t.Errorf("Clients() = %+v, want one Initech client", clients)
	}
}
