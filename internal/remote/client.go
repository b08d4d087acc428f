// Package remote talks to the per-entity REST microservices. Every list
// response passes through normalize before anything downstream sees it, so
// the gateway tolerates the services' inconsistent payload wrapping.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"contract-admin-api/internal/normalize"
)

// StatusError carries the upstream HTTP status and body so the page layer
// can surface a human-readable message.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Body)
}

// Service is the REST client for one entity microservice.
type Service struct {
	BaseURL  string
	Endpoint string
	HTTP     *http.Client
}

func NewService(baseURL, endpoint string) *Service {
	return &Service{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		Endpoint: endpoint,
		HTTP:     http.DefaultClient,
	}
}

func (s *Service) url(id string) string {
	u := s.BaseURL + s.Endpoint
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

// GetAll fetches the entity list, optionally scoped by query params.
func (s *Service) GetAll(ctx context.Context, params url.Values) ([]map[string]interface{}, error) {
	target := s.url("")
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	body, err := s.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return normalize.List(body), nil
}

// GetByID fetches a single record.
func (s *Service) GetByID(ctx context.Context, id string) (map[string]interface{}, error) {
	body, err := s.do(ctx, http.MethodGet, s.url(id), nil)
	if err != nil {
		return nil, err
	}
	return normalize.Record(body), nil
}

// Create posts a new record and returns the (normalized) created record.
func (s *Service) Create(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	body, err := s.do(ctx, http.MethodPost, s.url(""), payload)
	if err != nil {
		return nil, err
	}
	return normalize.Record(body), nil
}

// Update sends the full-form payload for a record (the modal edit path).
func (s *Service) Update(ctx context.Context, id string, payload map[string]interface{}) (map[string]interface{}, error) {
	body, err := s.do(ctx, http.MethodPut, s.url(id), payload)
	if err != nil {
		return nil, err
	}
	return normalize.Record(body), nil
}

// Patch sends a single-field change (the inline edit path).
func (s *Service) Patch(ctx context.Context, id string, field string, value interface{}) (map[string]interface{}, error) {
	body, err := s.do(ctx, http.MethodPatch, s.url(id), map[string]interface{}{field: value})
	if err != nil {
		return nil, err
	}
	return normalize.Record(body), nil
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.do(ctx, http.MethodDelete, s.url(id), nil)
	return err
}

func (s *Service) do(ctx context.Context, method, target string, payload interface{}) (interface{}, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	client := s.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decoded, nil
}
