package configstore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"contract-admin-api/internal/entityconfig"
)

type ConfigStoreService struct {
	DB *gorm.DB
}

type GetConfigResult struct {
	NotModified bool
	Record      *EntityConfigRecord
}

// GetByEntityIfModified:
// - Finds the active override record by entity name (case-insensitive).
// - If clientLastModified is present and the record not newer => NotModified=true.
func (s *ConfigStoreService) GetByEntityIfModified(entity string, clientLastModified *time.Time) (*GetConfigResult, error) {
	name := strings.TrimSpace(entity)
	if name == "" {
		return nil, errors.New("entity is required")
	}

	var rec EntityConfigRecord
	err := s.DB.
		Where("is_active = ?", true).
		Where("lower(entity_name) = lower(?)", name).
		Order("updated_at desc").
		First(&rec).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}

	// Client has a cached copy; only send overrides when the record is newer
	if clientLastModified != nil {
		if !rec.UpdatedAt.After(*clientLastModified) {
			return &GetConfigResult{NotModified: true, Record: &rec}, nil
		}
	}

	return &GetConfigResult{NotModified: false, Record: &rec}, nil
}

// Save validates the overrides against the base catalog config and upserts
// the entity's record, bumping its version.
func (s *ConfigStoreService) Save(entity string, overrides map[string]ColumnOverride) (*EntityConfigRecord, error) {
	key := strings.ToLower(strings.TrimSpace(entity))
	base, ok := entityconfig.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("unknown entity: %s", entity)
	}

	for header := range overrides {
		if base.Column(header) == nil {
			return nil, fmt.Errorf("unknown column %q for entity %s", header, key)
		}
	}

	raw, err := json.Marshal(overrides)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(raw)
	checksum := hex.EncodeToString(sum[:])

	var rec EntityConfigRecord
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Where("lower(entity_name) = lower(?)", key).
			First(&rec).Error

		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			rec = EntityConfigRecord{
				EntityName: key,
				Version:    1,
				Checksum:   checksum,
				Overrides:  datatypes.JSON(raw),
				IsActive:   true,
			}
			return tx.Create(&rec).Error
		}

		rec.Version++
		rec.Checksum = checksum
		rec.Overrides = datatypes.JSON(raw)
		rec.IsActive = true
		return tx.Save(&rec).Error
	})
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// OverridesFor returns the active override set for an entity, or an empty
// map when none is stored.
func (s *ConfigStoreService) OverridesFor(entity string) (map[string]ColumnOverride, error) {
	res, err := s.GetByEntityIfModified(entity, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return map[string]ColumnOverride{}, nil
		}
		return nil, err
	}

	out := map[string]ColumnOverride{}
	if len(res.Record.Overrides) > 0 {
		if err := json.Unmarshal(res.Record.Overrides, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ApplyOverrides returns a copy of cfg with the stored column overrides
// applied. Unknown headers are ignored.
func ApplyOverrides(cfg entityconfig.EntityConfig, overrides map[string]ColumnOverride) entityconfig.EntityConfig {
	if len(overrides) == 0 {
		return cfg
	}

	out := entityconfig.Clone(cfg)
	for i := range out.Columns {
		ov, ok := overrides[out.Columns[i].Header]
		if !ok {
			continue
		}
		if ov.Editable != nil {
			v := *ov.Editable
			out.Columns[i].Editable = &v
		}
		if ov.Required != nil {
			out.Columns[i].Required = *ov.Required
		}
		if ov.HideInTable != nil {
			out.Columns[i].HideInTable = *ov.HideInTable
		}
		if ov.HideInForm != nil {
			out.Columns[i].HideInForm = *ov.HideInForm
		}
		if len(ov.Options) > 0 {
			out.Columns[i].Options = append([]entityconfig.Option(nil), ov.Options...)
		}
		if ov.Placeholder != nil {
			out.Columns[i].Placeholder = *ov.Placeholder
		}
	}
	return out
}
