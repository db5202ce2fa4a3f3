package analytics

import (
	"sort"
	"strings"

	"alcyxob/fitlab/internal/domain"
)

const (
	minSuggestInput = 2
	maxSuggestions  = 5
)

// Suggest returns up to five names containing input, case-insensitively, leaving out a
// name equal to the input itself. Inputs shorter than two characters yield nothing.
func Suggest(input string, names []string) []string {
	needle := strings.ToUpper(strings.TrimSpace(input))
	if len([]rune(needle)) < minSuggestInput {
		return []string{}
	}

	out := make([]string, 0, maxSuggestions)
	seen := make(map[string]bool)
	for _, name := range names {
		upper := strings.ToUpper(name)
		if upper == needle || seen[upper] || !strings.Contains(upper, needle) {
			continue
		}
		seen[upper] = true
		out = append(out, name)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// ExerciseNames gathers the names known from the catalog, the load history and the
// plans, upper-cased, deduplicated and sorted.
func ExerciseNames(catalog []domain.CatalogExercise, loads []domain.LoadRecord, plans []domain.WorkoutPlan) []string {
	set := make(map[string]struct{})
	add := func(name string) {
		if n := domain.NormalizeExerciseName(name); n != "" {
			set[n] = struct{}{}
		}
	}
	for _, e := range catalog {
		add(e.Name)
	}
	for _, l := range loads {
		add(l.ExerciseName)
	}
	for _, p := range plans {
		for _, n := range p.ExerciseNames() {
			add(n)
		}
	}

	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
