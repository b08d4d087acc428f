package entities

import (
	"context"
	"net/url"

	"contract-admin-api/internal/audit"
	"contract-admin-api/internal/configstore"
	"contract-admin-api/internal/entityconfig"
	"contract-admin-api/internal/form"
	"contract-admin-api/internal/mapper"
	"contract-admin-api/internal/remote"
	"contract-admin-api/internal/selection"
	"contract-admin-api/internal/table"
)

// RemotePort is the slice of the upstream client the entity service uses.
type RemotePort interface {
	GetAll(ctx context.Context, params url.Values) ([]map[string]interface{}, error)
	GetByID(ctx context.Context, id string) (map[string]interface{}, error)
	Create(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error)
	Update(ctx context.Context, id string, payload map[string]interface{}) (map[string]interface{}, error)
	Patch(ctx context.Context, id string, field string, value interface{}) (map[string]interface{}, error)
	Delete(ctx context.Context, id string) error
}

// RemoteResolverPort hands out one upstream client per entity.
type RemoteResolverPort interface {
	For(entity string) (RemotePort, error)
}

// RegistryResolver adapts remote.Registry to RemoteResolverPort.
type RegistryResolver struct {
	Registry *remote.Registry
}

func (r RegistryResolver) For(entity string) (RemotePort, error) {
	svc, err := r.Registry.For(entity)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

type SelectionPort interface {
	Get(userID uint) (selection.Selection, error)
}

type OverridesPort interface {
	OverridesFor(entity string) (map[string]configstore.ColumnOverride, error)
}

type AuditPort interface {
	Log(entry audit.AuditLog, metadata interface{}) error
}

type EntityServicePort interface {
	ResolveConfig(entity string) (entityconfig.EntityConfig, error)
	List(ctx context.Context, userID uint, entity string, q table.Query) (*table.Page, error)
	Detail(ctx context.Context, entity, id string) (map[string]interface{}, error)
	Create(ctx context.Context, entity string, values map[string]interface{}) (map[string]interface{}, error)
	Update(ctx context.Context, entity, id string, values map[string]interface{}) (map[string]interface{}, error)
	UpdateCell(ctx context.Context, entity, id, column, value string) (*CellUpdateResult, error)
	Delete(ctx context.Context, entity, id string) error
	FormFields(ctx context.Context, entity string) ([]form.Field, error)
	Export(ctx context.Context, userID uint, entity, format string, q table.Query) (*ExportResult, error)
}

// CellUpdateResult reports one committed inline edit.
type CellUpdateResult struct {
	Row        mapper.Row  `json:"row"`
	Column     string      `json:"column"`
	RealColumn string      `json:"real_column"`
	OldValue   interface{} `json:"old_value"`
	NewValue   interface{} `json:"new_value"`
}

// ExportResult is a rendered download.
type ExportResult struct {
	Data        []byte
	ContentType string
	Filename    string
}
