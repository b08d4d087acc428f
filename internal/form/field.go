package form

import (
	"regexp"
	"sync"

	"contract-admin-api/internal/entityconfig"
)

// Field is one control descriptor of a generated form. Name carries the
// backend key; Label the display header.
type Field struct {
	Name           string                  `json:"name"`
	Label          string                  `json:"label"`
	Type           entityconfig.ColumnType `json:"type"`
	Required       bool                    `json:"required"`
	Placeholder    string                  `json:"placeholder,omitempty"`
	Options        []entityconfig.Option   `json:"options,omitempty"`
	Pattern        string                  `json:"pattern,omitempty"`
	PatternMessage string                  `json:"pattern_message,omitempty"`
	AllowedChars   string                  `json:"allowed_chars,omitempty"`
	// OptionsWarning is set when a dependent option fetch failed and the
	// control rendered with an empty option list.
	OptionsWarning string `json:"options_warning,omitempty"`
}

var (
	charClassMu    sync.Mutex
	charClassCache = map[string]*regexp.Regexp{}
)

func allowedClass(chars string) *regexp.Regexp {
	charClassMu.Lock()
	defer charClassMu.Unlock()

	if re, ok := charClassCache[chars]; ok {
		return re
	}
	re, err := regexp.Compile("[^" + chars + "]")
	if err != nil {
		charClassCache[chars] = nil
		return nil
	}
	charClassCache[chars] = re
	return re
}

// FilterInput strips characters outside the field's AllowedChars class,
// silently, as the live keystroke filter does on the client.
func (f Field) FilterInput(s string) string {
	if f.AllowedChars == "" {
		return s
	}
	re := allowedClass(f.AllowedChars)
	if re == nil {
		return s
	}
	return re.ReplaceAllString(s, "")
}

// HasOptions reports whether the field renders an option set (select, or
// checkbox bound to an array value).
func (f Field) HasOptions() bool {
	return f.Type == entityconfig.TypeSelect ||
		(f.Type == entityconfig.TypeCheckbox && len(f.Options) > 0)
}
