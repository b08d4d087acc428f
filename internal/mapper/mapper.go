// Package mapper translates between the microservices' record shapes and
// the header-keyed rows the grid renders, and derives form field descriptors
// from an entity config. Its functions never fail on malformed records: a
// missing value maps to "".
package mapper

import (
	"fmt"
	"strings"

	"contract-admin-api/internal/entityconfig"
	"contract-admin-api/internal/form"
)

// Row is one display-ready grid row, keyed by column header plus "id".
type Row map[string]interface{}

var idAliases = []string{"id", "uuid"}

// BackendToTable projects backend records into grid rows following the
// config's column order. The id is resolved through the alias chain; column
// values come from MapFrom when present, otherwise the first defined
// PossibleKeys hit (falling back to the BackendKey itself).
func BackendToTable(records []map[string]interface{}, cfg entityconfig.EntityConfig) []Row {
	rows := make([]Row, 0, len(records))

	for i, rec := range records {
		row := Row{"id": resolveID(rec, cfg.IDAliases)}

		for _, col := range cfg.Columns {
			if col.MapFrom != nil {
				row[col.Header] = col.MapFrom(rec, i)
				continue
			}
			row[col.Header] = lookupValue(rec, col)
		}

		rows = append(rows, row)
	}

	return rows
}

// TableToBackend builds an upstream payload from a row. Only columns bound
// to a BackendKey contribute; strings are trimmed, email-ish fields are
// lowercased, and column codecs produce the typed value.
func TableToBackend(row Row, cfg entityconfig.EntityConfig) map[string]interface{} {
	payload := map[string]interface{}{}

	for _, col := range cfg.Columns {
		if col.BackendKey == "" {
			continue
		}

		v, ok := row[col.Header]
		if !ok {
			continue
		}

		payload[col.BackendKey] = EncodeValue(v, col)
	}

	return payload
}

// EncodeValue normalizes one cell/form value for an upstream write: trim,
// email lowercasing, then the column codec.
func EncodeValue(v interface{}, col entityconfig.ColumnSpec) interface{} {
	s, isString := v.(string)
	if isString {
		s = strings.TrimSpace(s)
		if isEmailColumn(col) {
			s = strings.ToLower(s)
		}
		if col.Codec != nil {
			typed, err := col.Codec.Decode(s)
			if err == nil {
				return typed
			}
			// Malformed input reaches here only when validation was skipped;
			// pass the string through and let the upstream DTO reject it.
			return s
		}
		return s
	}

	return v
}

// FormFields derives the form descriptors for an entity: columns with a
// BackendKey that are editable and not hidden from forms. HideInForm is
// honored on its own, independent of Editable.
func FormFields(cfg entityconfig.EntityConfig) []form.Field {
	out := make([]form.Field, 0, len(cfg.Columns))

	for _, col := range cfg.Columns {
		if col.BackendKey == "" || !col.IsEditable() || col.HideInForm {
			continue
		}

		out = append(out, form.Field{
			Name:           col.BackendKey,
			Label:          col.Header,
			Type:           col.Type,
			Required:       col.Required,
			Placeholder:    col.Placeholder,
			Options:        append([]entityconfig.Option(nil), col.Options...),
			Pattern:        col.Validation,
			PatternMessage: col.ValidationMessage,
			AllowedChars:   col.AllowedChars,
		})
	}

	return out
}

// RowColumns returns the ordered headers a row carries in the grid. Go maps
// are unordered, so rendering order travels separately from the rows.
func RowColumns(cfg entityconfig.EntityConfig) []string {
	return cfg.TableHeaders()
}

func resolveID(rec map[string]interface{}, extraAliases []string) interface{} {
	for _, key := range idAliases {
		if v, ok := rec[key]; ok && v != nil {
			return v
		}
	}
	for _, key := range extraAliases {
		if v, ok := rec[key]; ok && v != nil {
			return v
		}
	}
	return ""
}

func lookupValue(rec map[string]interface{}, col entityconfig.ColumnSpec) interface{} {
	keys := col.PossibleKeys
	if len(keys) == 0 && col.BackendKey != "" {
		keys = []string{col.BackendKey}
	}

	for _, key := range keys {
		if v, ok := rec[key]; ok && v != nil {
			return displayValue(v, col)
		}
	}
	return ""
}

func displayValue(v interface{}, col entityconfig.ColumnSpec) interface{} {
	switch x := v.(type) {
	case string, float64, bool, int, int64:
		return x
	case []interface{}:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%v", v)
}

func isEmailColumn(col entityconfig.ColumnSpec) bool {
	if col.Type == entityconfig.TypeEmail {
		return true
	}
	key := strings.ToLower(col.BackendKey)
	header := strings.ToLower(col.Header)
	return strings.Contains(key, "email") || strings.Contains(key, "correo") ||
		strings.Contains(header, "email") || strings.Contains(header, "correo")
}
