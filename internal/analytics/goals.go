package analytics

import (
	"fmt"
	"time"

	"alcyxob/fitlab/internal/domain"
)

type ProjectionStatus string

const (
	ProjectionNone    ProjectionStatus = "no_projection"
	ProjectionMet     ProjectionStatus = "goal_met"
	ProjectionDeficit ProjectionStatus = "deficit"
)

// Projection compares a personal record with a goal. Deficit is only meaningful
// with status deficit.
type Projection struct {
	Status  ProjectionStatus `json:"status"`
	Goal    float64          `json:"goal,omitempty"`
	Record  float64          `json:"record,omitempty"`
	Deficit float64          `json:"deficit,omitempty"`
}

// ProjectGoal reports goal met when record >= goal, else the missing kilos.
// Without a goal there is no projection. A missing record counts as zero.
func ProjectGoal(record float64, goal float64, hasGoal bool) Projection {
	if !hasGoal {
		return Projection{Status: ProjectionNone}
	}
	if record >= goal {
		return Projection{Status: ProjectionMet, Goal: goal, Record: record}
	}
	return Projection{Status: ProjectionDeficit, Goal: goal, Record: record, Deficit: round2(goal - record)}
}

// ExerciseStats is the per-exercise dashboard of a member.
type ExerciseStats struct {
	Exercise       string              `json:"exercise"`
	History        []domain.LoadRecord `json:"history"`
	Record         *domain.LoadRecord  `json:"record,omitempty"`
	Latest         *domain.LoadRecord  `json:"latest,omitempty"`
	Projection     Projection          `json:"projection"`
	EntriesLast30d int                 `json:"entriesLast30d"`
	Progression    []ProgressionRow    `json:"progression"`
	RecentHistory  []domain.LoadRecord `json:"recentHistory"`
}

const statsWindow = 30 * 24 * time.Hour

// Stats assembles ExerciseStats for one (member, exercise) pair.
func Stats(history []domain.LoadRecord, goals domain.Goals, memberID, exercise string, now time.Time) ExerciseStats {
	records := exerciseHistory(history, memberID, exercise)
	stats := ExerciseStats{
		Exercise:      domain.NormalizeExerciseName(exercise),
		History:       records,
		Progression:   Progression(records),
		RecentHistory: RecentHistory(history, memberID, exercise, 3),
	}
	if stats.History == nil {
		stats.History = []domain.LoadRecord{}
	}

	var best float64
	if pr, ok := PersonalRecord(history, memberID, exercise); ok {
		stats.Record = &pr
		best = pr.WeightKg
	}
	if last, ok := MostRecent(history, memberID, exercise); ok {
		stats.Latest = &last
	}

	goal, hasGoal := goals.Get(exercise)
	stats.Projection = ProjectGoal(best, goal, hasGoal)

	for _, r := range records {
		if age := now.Sub(r.At); age >= 0 && age <= statsWindow {
			stats.EntriesLast30d++
		}
	}
	return stats
}

// DaysAgo counts calendar days between t and now in now's location and labels them.
func DaysAgo(t, now time.Time) (int, string) {
	loc := now.Location()
	a := startOfDay(t, loc)
	b := startOfDay(now, loc)
	// Compare as UTC dates so a DST shift does not eat a day.
	days := int(time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC).
		Sub(time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)).Hours() / 24)

	switch {
	case days <= 0:
		return 0, "today"
	case days == 1:
		return 1, "yesterday"
	}
	return days, fmt.Sprintf("%d days ago", days)
}
