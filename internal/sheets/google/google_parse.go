package google

import (
	"fmt"
	"strings"

	ports "pocket/internal/sheets"
)

// archivedIDs extracts the distinct non-empty values of the first column,
// skipping the header, in first-seen order.
func archivedIDs(values [][]any) []string {
	header := fmt.Sprint(ports.Header[0])
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		v := strings.TrimSpace(fmt.Sprint(row[0]))
		if v == "" || v == header {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
