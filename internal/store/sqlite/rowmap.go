package sqlite

import (
	"database/sql"
	"strings"
)

// splitIDList converts a GROUP_CONCAT aggregate into an id list. The result
// is deduplicated and never nil: an empty aggregate is an empty list, not a
// missing field.
func splitIDList(ns sql.NullString) []string {
	ids := []string{}
	if !ns.Valid || ns.String == "" {
		return ids
	}
	seen := make(map[string]struct{})
	for _, id := range strings.Split(ns.String, ",") {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
