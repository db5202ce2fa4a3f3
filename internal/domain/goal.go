package domain

// Goals maps a normalized exercise name to a member's target weight in kg.
type Goals map[string]float64

// Get looks up the goal for an exercise in any spelling.
func (g Goals) Get(exercise string) (float64, bool) {
	v, ok := g[NormalizeExerciseName(exercise)]
	return v, ok
}

func (g Goals) Clone() Goals {
	out := make(Goals, len(g))
	for k, v := range g {
		out[k] = v
	}
	return out
}
