package domain

import (
	"strconv"
	"strings"
	"time"

	"alcyxob/fitlab/internal/apperror"
)

// LoadRecord is one logged weight for an exercise. Append-only.
type LoadRecord struct {
	ID           string    `json:"id"`
	MemberID     string    `json:"memberId"`
	ExerciseName string    `json:"exerciseName"`
	WeightKg     float64   `json:"weightKg"`
	At           time.Time `json:"at"`
}

// NormalizeExerciseName trims and upper-cases an exercise name so that
// "supino reto " and "SUPINO RETO" refer to the same history.
func NormalizeExerciseName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func (r LoadRecord) Validate() error {
	if r.MemberID == "" {
		return apperror.NewValidationError("memberId", "is required")
	}
	if NormalizeExerciseName(r.ExerciseName) == "" {
		return apperror.NewValidationError("exerciseName", "is required")
	}
	if r.WeightKg <= 0 {
		return apperror.NewValidationError("weight", "must be positive")
	}
	return nil
}

// ParseWeight reads a weight typed by a member. Everything except digits and dots is
// dropped first, so "80kg" and " 80 " both read as 80; a comma counts as a decimal point.
func ParseWeight(input string) (float64, error) {
	var b strings.Builder
	for _, r := range strings.ReplaceAll(input, ",", ".") {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, apperror.NewValidationError("weight", "is not a number")
	}
	w, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, apperror.NewValidationError("weight", "is not a number")
	}
	if w <= 0 {
		return 0, apperror.NewValidationError("weight", "must be positive")
	}
	return w, nil
}
