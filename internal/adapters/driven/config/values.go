// Package config holds the value coercions shared by the ConfigStore
// adapters. TOML decodes integers as int64 and arrays as []any, while values
// set in process keep their Go types; both shapes read the same.
package config

// AsString returns v when it is a string, else "".
func AsString(v any) string {
	s, _ := v.(string)
	return s
}

// AsInt returns v as an int. Floats are truncated. Anything else is 0.
func AsInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// AsFloat returns v as a float64. A rate written as "rate_per_second = 2"
// decodes as an integer and is converted.
func AsFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// AsStringSlice returns the string elements of v. Non-string elements of a
// decoded array are skipped. Anything that is not a list is nil.
func AsStringSlice(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
