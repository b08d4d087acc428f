package entityconfig

import (
	"fmt"
	"time"
)

// RowIndex numbers rows 1..n. Used by the synthetic "#" column.
func RowIndex(_ map[string]interface{}, index int) interface{} {
	return index + 1
}

// YesNo renders a boolean backend field as Sí/No, matching the labels the
// admin screens use.
func YesNo(key string) MapFromFunc {
	return func(record map[string]interface{}, _ int) interface{} {
		v, ok := record[key]
		if !ok || v == nil {
			return "No"
		}
		switch b := v.(type) {
		case bool:
			if b {
				return "Sí"
			}
		case string:
			if b == "true" || b == "1" {
				return "Sí"
			}
		case float64:
			if b != 0 {
				return "Sí"
			}
		}
		return "No"
	}
}

// ShortDate renders a backend timestamp field as YYYY-MM-DD, tolerating
// RFC3339 values and date-only strings.
func ShortDate(key string) MapFromFunc {
	return func(record map[string]interface{}, _ int) interface{} {
		v, ok := record[key]
		if !ok || v == nil {
			return ""
		}
		s := fmt.Sprintf("%v", v)
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Format("2006-01-02")
		}
		if len(s) >= 10 {
			if _, err := time.Parse("2006-01-02", s[:10]); err == nil {
				return s[:10]
			}
		}
		return s
	}
}
