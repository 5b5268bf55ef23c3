package extraction

import (
	"encoding/json"
	"strconv"
	"strings"
)

// parseNumber reads "1,234.50"-style text. Anything unparseable is nil.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func stringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// asString coerces a decoded JSON scalar to text.
func asString(v any) *string {
	switch t := v.(type) {
	case string:
		return stringPtr(t)
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		return &s
	case json.Number:
		return stringPtr(t.String())
	case bool:
		s := strconv.FormatBool(t)
		return &s
	}
	return nil
}

func asFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		return parseNumber(t)
	case json.Number:
		return parseNumber(t.String())
	}
	return nil
}

func asInt(v any) *int {
	f := asFloat(v)
	if f == nil {
		return nil
	}
	i := int(*f)
	if float64(i) != *f {
		return nil
	}
	return &i
}
