package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

var truthyTokens = map[string]bool{
	"1":    true,
	"true": true,
	"yes":  true,
	"si":   true,
	"sí":   true,
}

// ParseNumber coerces a raw value into a finite float. Numeric strings may
// carry currency symbols and thousands separators ("$1,200,000 MXN"). Anything
// that does not resolve to a finite number maps to nil.
func ParseNumber(value interface{}) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return finite(float64(v))
	case int32:
		return finite(float64(v))
	case int64:
		return finite(float64(v))
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		return finite(parsed)
	case string:
		stripped := stripNonNumeric(v)
		if stripped == "" || stripped == "-" || stripped == "." {
			return nil
		}
		parsed, err := strconv.ParseFloat(stripped, 64)
		if err != nil {
			return nil
		}
		return finite(parsed)
	default:
		return nil
	}
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func stripNonNumeric(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseBool accepts native booleans, numeric 0/1 and a small set of truthy
// string tokens ("1", "true", "yes", "si", "sí") case-insensitively. Anything
// else is false.
func ParseBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return truthyTokens[strings.ToLower(strings.TrimSpace(v))]
	default:
		if n := ParseNumber(value); n != nil {
			return *n == 1
		}
		return false
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate coerces a Date-like value or ISO-parseable string into an RFC3339
// string. Invalid input maps to nil.
func ParseDate(value interface{}) *string {
	switch v := value.(type) {
	case time.Time:
		formatted := v.UTC().Format(time.RFC3339)
		return &formatted
	case *time.Time:
		if v == nil {
			return nil
		}
		formatted := v.UTC().Format(time.RFC3339)
		return &formatted
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				formatted := parsed.UTC().Format(time.RFC3339)
				return &formatted
			}
		}
		return nil
	default:
		return nil
	}
}

// ParseString trims a raw string value; empty and non-string values map to nil.
func ParseString(value interface{}) *string {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
