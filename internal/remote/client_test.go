package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"contract-admin-api/config"
)

func TestGetAllUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/clients" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("contract_id") != "7" {
			t.Fatalf("expected contract_id param, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"items":[{"id":1,"name":"ACME"},{"id":2,"name":"Norte"}]}}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, "/api/clients")
	params := url.Values{}
	params.Set("contract_id", "7")

	rows, err := svc.GetAll(context.Background(), params)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["name"] != "ACME" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
}

func TestGetByIDNormalizesWrappedRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/clients/42" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"id":42,"name":"ACME"}}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, "/api/clients")
	rec, err := svc.GetByID(context.Background(), "42")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if rec["name"] != "ACME" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestCreateSendsJSONBody(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":9,"name":"Nueva"}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, "/api/clients")
	rec, err := svc.Create(context.Background(), map[string]interface{}{"name": "Nueva"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got["name"] != "Nueva" {
		t.Fatalf("server did not receive payload: %v", got)
	}
	if rec["id"].(float64) != 9 {
		t.Fatalf("unexpected response record: %v", rec)
	}
}

func TestPatchSendsSingleField(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Fatalf("expected PATCH, got %s", r.Method)
		}
		if r.URL.Path != "/api/contracts/3" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"id":3,"amount":1500.5}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, "/api/contracts")
	if _, err := svc.Patch(context.Background(), "3", "amount", 1500.5); err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if len(got) != 1 || got["amount"].(float64) != 1500.5 {
		t.Fatalf("expected single-field body, got %v", got)
	}
}

func TestDeleteTolerantOfEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("expected DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	svc := NewService(srv.URL, "/api/clients")
	if err := svc.Delete(context.Background(), "5"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}

func TestUpstreamErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"rut ya registrado"}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, "/api/clients")
	_, err := svc.Create(context.Background(), map[string]interface{}{"rut": "1-9"})
	if err == nil {
		t.Fatal("expected error")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %T", err)
	}
	if se.Status != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d", se.Status)
	}
	if se.Body != `{"error":"rut ya registrado"}` {
		t.Fatalf("unexpected body %q", se.Body)
	}
}

func TestGetAllNeverReturnsNilOnOddPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"nothing here"}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, "/api/clients")
	rows, err := svc.GetAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if rows == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestRegistryAppliesOverridesAndCaches(t *testing.T) {
	cfg := config.Config{
		UpstreamBaseURL: "http://services.internal",
		UpstreamOverrides: map[string]string{
			"contracts": "http://contracts.internal",
		},
	}
	reg := NewRegistry(cfg)

	clients, err := reg.For("clients")
	if err != nil {
		t.Fatalf("For(clients) failed: %v", err)
	}
	if clients.BaseURL != "http://services.internal" {
		t.Fatalf("unexpected base URL %q", clients.BaseURL)
	}

	contracts, err := reg.For("contracts")
	if err != nil {
		t.Fatalf("For(contracts) failed: %v", err)
	}
	if contracts.BaseURL != "http://contracts.internal" {
		t.Fatalf("override not applied: %q", contracts.BaseURL)
	}

	again, _ := reg.For("clients")
	if again != clients {
		t.Fatal("expected cached service instance")
	}

	mixed, err := reg.For(" Contracts ")
	if err != nil {
		t.Fatalf("For( Contracts ) failed: %v", err)
	}
	if mixed != contracts {
		t.Fatal("expected mixed-case lookup to hit the same cached service")
	}

	if _, err := reg.For("nope"); err == nil {
		t.Fatal("expected error for unknown entity")
	}
}
