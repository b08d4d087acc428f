package entityconfig

// Clone returns a deep copy of the config. Option slices and column slices
// are copied so callers can never alias a catalog config by accident.
func Clone(base EntityConfig) EntityConfig {
	out := base
	out.IDAliases = append([]string(nil), base.IDAliases...)
	out.Columns = make([]ColumnSpec, len(base.Columns))
	for i, c := range base.Columns {
		cc := c
		cc.Options = append([]Option(nil), c.Options...)
		cc.PossibleKeys = append([]string(nil), c.PossibleKeys...)
		if c.Editable != nil {
			v := *c.Editable
			cc.Editable = &v
		}
		out.Columns[i] = cc
	}
	return out
}

// WithOptions builds a fresh config from a base plus per-header option
// overrides (dependent dropdowns fetched at request time). The base is never
// mutated; unknown headers are ignored.
func WithOptions(base EntityConfig, options map[string][]Option) EntityConfig {
	out := Clone(base)
	if len(options) == 0 {
		return out
	}
	for i := range out.Columns {
		if opts, ok := options[out.Columns[i].Header]; ok {
			out.Columns[i].Options = append([]Option(nil), opts...)
		}
	}
	return out
}
