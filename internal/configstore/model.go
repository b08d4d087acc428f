package configstore

import (
	"time"

	"gorm.io/datatypes"

	"contract-admin-api/internal/entityconfig"
)

// EntityConfigRecord is one stored override document for an entity's base
// configuration. Only the latest active record per entity is served.
type EntityConfigRecord struct {
	ID         int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	EntityName string         `json:"entity_name" gorm:"uniqueIndex;not null"`
	Version    int            `json:"version" gorm:"not null;default:1"`
	Checksum   string         `json:"checksum" gorm:"type:text;not null"`
	Overrides  datatypes.JSON `json:"overrides" gorm:"type:jsonb;not null"`
	IsActive   bool           `json:"is_active" gorm:"not null;default:true"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"not null;autoUpdateTime"`
}

func (EntityConfigRecord) TableName() string { return "entity_config" }

// ColumnOverride adjusts one column of the base catalog config. Nil fields
// leave the base value untouched.
type ColumnOverride struct {
	Editable    *bool                 `json:"editable,omitempty"`
	Required    *bool                 `json:"required,omitempty"`
	HideInTable *bool                 `json:"hide_in_table,omitempty"`
	HideInForm  *bool                 `json:"hide_in_form,omitempty"`
	Options     []entityconfig.Option `json:"options,omitempty"`
	Placeholder *string               `json:"placeholder,omitempty"`
}
