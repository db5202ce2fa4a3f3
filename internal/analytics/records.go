// Package analytics derives presentation values from the session collections. Every
// function is pure, takes the current time explicitly when it needs one, and degrades
// to a neutral result on empty input instead of failing.
package analytics

import (
	"math"
	"sort"

	"alcyxob/fitlab/internal/domain"
)

// exerciseHistory returns the records of one (member, exercise) pair, oldest first.
func exerciseHistory(history []domain.LoadRecord, memberID, exercise string) []domain.LoadRecord {
	name := domain.NormalizeExerciseName(exercise)
	var out []domain.LoadRecord
	for _, r := range history {
		if r.MemberID == memberID && domain.NormalizeExerciseName(r.ExerciseName) == name {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// CheckPersonalRecord reports whether weight beats every prior record of the pair.
// A first entry is a baseline, not a record, and a tie is not a record.
func CheckPersonalRecord(history []domain.LoadRecord, memberID, exercise string, weight float64) bool {
	prior := exerciseHistory(history, memberID, exercise)
	if len(prior) == 0 {
		return false
	}
	best := prior[0].WeightKg
	for _, r := range prior[1:] {
		best = math.Max(best, r.WeightKg)
	}
	return weight > best
}

// PersonalRecord is the heaviest record of the pair; the earliest wins a tie.
func PersonalRecord(history []domain.LoadRecord, memberID, exercise string) (domain.LoadRecord, bool) {
	prior := exerciseHistory(history, memberID, exercise)
	if len(prior) == 0 {
		return domain.LoadRecord{}, false
	}
	best := prior[0]
	for _, r := range prior[1:] {
		if r.WeightKg > best.WeightKg {
			best = r
		}
	}
	return best, true
}

// MostRecent is the latest record of the pair, whatever its weight.
func MostRecent(history []domain.LoadRecord, memberID, exercise string) (domain.LoadRecord, bool) {
	prior := exerciseHistory(history, memberID, exercise)
	if len(prior) == 0 {
		return domain.LoadRecord{}, false
	}
	return prior[len(prior)-1], true
}

// RecentHistory returns up to n records of the pair, newest first.
func RecentHistory(history []domain.LoadRecord, memberID, exercise string, n int) []domain.LoadRecord {
	prior := exerciseHistory(history, memberID, exercise)
	out := make([]domain.LoadRecord, 0, n)
	for i := len(prior) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, prior[i])
	}
	return out
}

// LatestPerExercise returns the most recent record of each exercise a member logged,
// newest first.
func LatestPerExercise(history []domain.LoadRecord, memberID string) []domain.LoadRecord {
	latest := make(map[string]domain.LoadRecord)
	for _, r := range history {
		if r.MemberID != memberID {
			continue
		}
		name := domain.NormalizeExerciseName(r.ExerciseName)
		if cur, ok := latest[name]; !ok || r.At.After(cur.At) {
			latest[name] = r
		}
	}
	out := make([]domain.LoadRecord, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Equal(out[j].At) {
			return out[i].ExerciseName < out[j].ExerciseName
		}
		return out[i].At.After(out[j].At)
	})
	return out
}

// ProgressionRow is one record with its change against the previous one.
type ProgressionRow struct {
	Record   domain.LoadRecord `json:"record"`
	Delta    float64           `json:"delta"`
	Baseline bool              `json:"baseline"`
}

// Progression computes signed deltas between chronologically adjacent records.
// The earliest record is the baseline and carries no delta.
func Progression(records []domain.LoadRecord) []ProgressionRow {
	sorted := append([]domain.LoadRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	rows := make([]ProgressionRow, 0, len(sorted))
	for i, r := range sorted {
		if i == 0 {
			rows = append(rows, ProgressionRow{Record: r, Baseline: true})
			continue
		}
		rows = append(rows, ProgressionRow{Record: r, Delta: round2(r.WeightKg - sorted[i-1].WeightKg)})
	}
	return rows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
