// Package numparse converts loosely typed numeric input (JSON numbers,
// numeric strings) into *float64, returning nil for anything that is not a
// finite number. Callers treat nil as "unknown", never as zero.
package numparse

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Float parses v or returns nil.
func Float(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
