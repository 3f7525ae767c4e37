package resolver

import (
	"strconv"
	"strings"
)

// SPKOffset bridges short-form asteroid numbers to NeoWs SPK-IDs:
// asteroid 433 is SPK-ID 2000433.
const SPKOffset = 2_000_000

// Candidates returns the ids to try, in order. A non-negative integer id
// below SPKOffset is followed by its offset form; anything else is tried as is.
func Candidates(identifier string) []string {
	identifier = strings.TrimSpace(identifier)

	n, err := strconv.ParseUint(identifier, 10, 64)
	if err != nil || n >= SPKOffset {
		return []string{identifier}
	}
	return []string{identifier, strconv.FormatUint(n+SPKOffset, 10)}
}

// ResolveCredential returns the first non-empty source. Callers pass sources
// in precedence order: query parameter, header, then environment values.
func ResolveCredential(sources ...string) string {
	for _, s := range sources {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
