package remote

import (
	"fmt"
	"strings"
	"sync"

	"contract-admin-api/config"
	"contract-admin-api/internal/entityconfig"
)

// Registry hands out one Service per entity, honoring per-entity base URL
// overrides from configuration. Services are built lazily and shared.
type Registry struct {
	cfg config.Config

	mu       sync.Mutex
	services map[string]*Service
}

func NewRegistry(cfg config.Config) *Registry {
	return &Registry{cfg: cfg, services: make(map[string]*Service)}
}

// For returns the client for the named entity. Entities are keyed by their
// canonical slug ("contracts"), never the display name, so per-entity base
// URL overrides resolve against the same key the config uses.
func (r *Registry) For(entity string) (*Service, error) {
	slug := strings.ToLower(strings.TrimSpace(entity))
	ec, ok := entityconfig.Lookup(slug)
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", entity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if svc, ok := r.services[slug]; ok {
		return svc, nil
	}
	svc := NewService(r.cfg.ServiceBaseURL(slug), ec.Endpoint)
	r.services[slug] = svc
	return svc, nil
}
