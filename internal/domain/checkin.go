package domain

import (
	"strings"
	"time"

	"alcyxob/fitlab/internal/apperror"
)

// CheckIn records one completed session. Append-only.
type CheckIn struct {
	ID              string    `json:"id"`
	MemberID        string    `json:"memberId"`
	PlanID          string    `json:"planId"`
	DivisionLetter  string    `json:"divisionLetter,omitempty"`
	At              time.Time `json:"at"`
	DurationSeconds int64     `json:"durationSeconds"`
}

func (c CheckIn) Duration() time.Duration {
	return time.Duration(c.DurationSeconds) * time.Second
}

func (c CheckIn) Validate() error {
	if c.MemberID == "" {
		return apperror.NewValidationError("memberId", "is required")
	}
	if c.DurationSeconds < 0 {
		return apperror.NewValidationError("durationSeconds", "must not be negative")
	}
	if c.DivisionLetter != "" && !IsDivisionLetter(c.DivisionLetter) {
		return apperror.NewValidationError("divisionLetter", "must be a single letter A-Z")
	}
	return nil
}

// IsDivisionLetter reports whether s is a single upper-case letter.
func IsDivisionLetter(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}
