package entityconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Codec converts between the string values the grid and forms carry and the
// typed values the microservice DTOs expect. Columns without a codec pass
// strings through unchanged.
type Codec interface {
	// Decode turns user input into the payload value sent upstream.
	Decode(s string) (interface{}, error)
	// Encode turns a backend value back into its form representation.
	Encode(v interface{}) string
}

type intCodec struct{}

func (intCodec) Decode(s string) (interface{}, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("not a whole number: %q", s)
	}
	return n, nil
}

func (intCodec) Encode(v interface{}) string {
	if v == nil {
		return ""
	}
	switch n := v.(type) {
	case float64:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case int:
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%v", v)
}

type floatCodec struct{}

func (floatCodec) Decode(s string) (interface{}, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

func (floatCodec) Encode(v interface{}) string {
	if v == nil {
		return ""
	}
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

type boolCodec struct{}

func (boolCodec) Decode(s string) (interface{}, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, nil
	case "true", "1", "yes", "sí", "si":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return nil, fmt.Errorf("not a boolean: %q", s)
}

func (boolCodec) Encode(v interface{}) string {
	if v == nil {
		return ""
	}
	if b, ok := v.(bool); ok {
		return strconv.FormatBool(b)
	}
	return fmt.Sprintf("%v", v)
}

type dateCodec struct{}

func (dateCodec) Decode(s string) (interface{}, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return nil, fmt.Errorf("not a date (YYYY-MM-DD): %q", s)
	}
	return s, nil
}

func (dateCodec) Encode(v interface{}) string {
	if v == nil {
		return ""
	}
	s := fmt.Sprintf("%v", v)
	// Backend timestamps come back as RFC3339; keep the date part only.
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

var (
	IntCodec   Codec = intCodec{}
	FloatCodec Codec = floatCodec{}
	BoolCodec  Codec = boolCodec{}
	DateCodec  Codec = dateCodec{}
)
