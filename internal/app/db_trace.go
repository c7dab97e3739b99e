package app

import "strings"

// Span attributes get the collapsed query only; anything past the cap is
// noise in the trace UI and can blow per-attribute limits.
const maxTracedQueryLength = 512

func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
