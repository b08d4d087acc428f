package entityconfig

// ColumnType selects both the table cell rendering hint and the form input
// control for a column.
type ColumnType string

const (
	TypeText      ColumnType = "text"
	TypeNumber    ColumnType = "number"
	TypeEmail     ColumnType = "email"
	TypePassword  ColumnType = "password"
	TypeDate      ColumnType = "date"
	TypeDateTime  ColumnType = "datetime-local"
	TypeSelect    ColumnType = "select"
	TypeCheckbox  ColumnType = "checkbox"
	TypeTextarea  ColumnType = "textarea"
	TypeMultidate ColumnType = "multidate"
	TypeFile      ColumnType = "file"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// MapFromFunc derives a display value from the raw backend record. When set
// on a column it overrides key lookup entirely.
type MapFromFunc func(record map[string]interface{}, index int) interface{}

// ColumnSpec describes one displayed/edited attribute of an entity.
//
// Header doubles as the table-row key and must be unique within a config.
// A column without a BackendKey is synthetic (row index and the like): it is
// rendered but never included in create/update payloads.
type ColumnSpec struct {
	Header     string     `json:"header"`
	BackendKey string     `json:"backend_key,omitempty"`
	Type       ColumnType `json:"type"`
	Options    []Option   `json:"options,omitempty"`

	Required    bool  `json:"required,omitempty"`
	Editable    *bool `json:"editable,omitempty"` // nil means editable
	HideInTable bool  `json:"hide_in_table,omitempty"`
	HideInForm  bool  `json:"hide_in_form,omitempty"`

	Validation        string `json:"validation,omitempty"`
	ValidationMessage string `json:"validation_message,omitempty"`
	AllowedChars      string `json:"allowed_chars,omitempty"` // character class body, e.g. "0-9.,"
	Placeholder       string `json:"placeholder,omitempty"`

	MapFrom      MapFromFunc `json:"-"`
	PossibleKeys []string    `json:"possible_keys,omitempty"`

	// OptionsFrom names a sibling entity whose list endpoint supplies this
	// column's options at form-open time (dependent dropdown).
	OptionsFrom *OptionsSource `json:"options_from,omitempty"`

	Codec Codec `json:"-"`
}

// OptionsSource describes where a dependent dropdown loads its options.
type OptionsSource struct {
	Entity   string `json:"entity"`
	ValueKey string `json:"value_key"`
	LabelKey string `json:"label_key"`
}

// IsEditable reports whether the column accepts user input. Unset means yes.
func (c ColumnSpec) IsEditable() bool {
	return c.Editable == nil || *c.Editable
}

type EntityConfig struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	// Legacy identifier keys tried after "id" and "uuid" when resolving a
	// record's id (backend naming drift across the microservices).
	IDAliases []string     `json:"id_aliases,omitempty"`
	Columns   []ColumnSpec `json:"columns"`
}

// Column returns the spec with the given header, or nil.
func (e *EntityConfig) Column(header string) *ColumnSpec {
	for i := range e.Columns {
		if e.Columns[i].Header == header {
			return &e.Columns[i]
		}
	}
	return nil
}

// ColumnByBackendKey returns the spec bound to the given backend field, or nil.
func (e *EntityConfig) ColumnByBackendKey(key string) *ColumnSpec {
	for i := range e.Columns {
		if e.Columns[i].BackendKey == key {
			return &e.Columns[i]
		}
	}
	return nil
}

// TableHeaders returns the ordered headers shown in the grid.
func (e *EntityConfig) TableHeaders() []string {
	out := make([]string, 0, len(e.Columns))
	for _, c := range e.Columns {
		if c.HideInTable {
			continue
		}
		out = append(out, c.Header)
	}
	return out
}

// ColumnMapping returns header -> backend key for every bound column.
// The table editor uses it to resolve the real field behind an edited cell.
func (e *EntityConfig) ColumnMapping() map[string]string {
	out := make(map[string]string, len(e.Columns))
	for _, c := range e.Columns {
		if c.BackendKey != "" {
			out[c.Header] = c.BackendKey
		}
	}
	return out
}

// NonEditableHeaders returns headers that must never enter cell edit mode:
// explicitly read-only columns plus synthetic ones.
func (e *EntityConfig) NonEditableHeaders() []string {
	var out []string
	for _, c := range e.Columns {
		if !c.IsEditable() || c.BackendKey == "" {
			out = append(out, c.Header)
		}
	}
	return out
}

// SelectColumns returns header -> options for select and checkbox columns.
func (e *EntityConfig) SelectColumns() map[string][]Option {
	out := map[string][]Option{}
	for _, c := range e.Columns {
		if c.Type == TypeSelect || c.Type == TypeCheckbox {
			out[c.Header] = c.Options
		}
	}
	return out
}

func boolPtr(v bool) *bool { return &v }

// ReadOnly marks a column spec non-editable.
func ReadOnly() *bool { return boolPtr(false) }
