package analytics

import "time"

type DurationClass string

const (
	DurationAnomalous  DurationClass = "anomalous"
	DurationOptimal    DurationClass = "optimal"
	DurationAcceptable DurationClass = "acceptable"
)

const (
	minNormalSession  = 30 * time.Minute
	maxNormalSession  = 90 * time.Minute
	minOptimalSession = 45 * time.Minute
	maxOptimalSession = 75 * time.Minute
)

// ClassifyDuration grades a session length. Bounds are inclusive.
func ClassifyDuration(seconds int64) DurationClass {
	d := time.Duration(seconds) * time.Second
	switch {
	case d < minNormalSession || d > maxNormalSession:
		return DurationAnomalous
	case d >= minOptimalSession && d <= maxOptimalSession:
		return DurationOptimal
	}
	return DurationAcceptable
}
