package launch

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// maxNameSuggestions bounds the fuzzy-match list on unknown-name failures
const maxNameSuggestions = 3

// suggest ranks corpus entries by edit distance to the query and returns the
// closest ones. Entries at least as far away as the query is long carry no
// signal and are dropped.
func suggest(query string, corpus []string, limit int) []string {
	type ranked struct {
		name     string
		distance int
	}
	var candidates []ranked
	for _, name := range corpus {
		d := levenshtein.ComputeDistance(query, name)
		if d >= len(query) {
			continue
		}
		candidates = append(candidates, ranked{name: name, distance: d})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.name)
	}
	return out
}
