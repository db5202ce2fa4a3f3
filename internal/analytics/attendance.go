package analytics

import (
	"math"
	"time"

	"alcyxob/fitlab/internal/domain"
)

// InactivityThreshold is how long a member may go without training before being flagged.
const InactivityThreshold = 3 * 24 * time.Hour

// startOfDay truncates t to midnight in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	return startOfDay(a, loc).Equal(startOfDay(b, loc))
}

// AttendanceRate is the rounded percentage of members (role member) who checked in on
// the calendar day of now. No members means 0.
func AttendanceRate(members []domain.Member, checkIns []domain.CheckIn, now time.Time) int {
	loc := now.Location()
	ids := make(map[string]bool)
	for _, m := range members {
		if m.IsMember() {
			ids[m.ID] = false
		}
	}
	if len(ids) == 0 {
		return 0
	}

	for _, c := range checkIns {
		if _, ok := ids[c.MemberID]; ok && sameDay(c.At, now, loc) {
			ids[c.MemberID] = true
		}
	}

	present := 0
	for _, p := range ids {
		if p {
			present++
		}
	}
	return int(math.Round(float64(present) * 100 / float64(len(ids))))
}

// LastCheckIn is the latest check-in of a member.
func LastCheckIn(checkIns []domain.CheckIn, memberID string) (domain.CheckIn, bool) {
	var last domain.CheckIn
	found := false
	for _, c := range checkIns {
		if c.MemberID == memberID && (!found || c.At.After(last.At)) {
			last, found = c, true
		}
	}
	return last, found
}

// IsAtRisk flags a member whose last check-in is older than the threshold, or who never
// checked in and enrolled longer ago than the threshold.
func IsAtRisk(member domain.Member, checkIns []domain.CheckIn, now time.Time) bool {
	if last, ok := LastCheckIn(checkIns, member.ID); ok {
		return now.Sub(last.At) > InactivityThreshold
	}
	return now.Sub(member.EnrolledAt) > InactivityThreshold
}

// AtRiskMembers returns the members (role member) flagged by IsAtRisk, in input order.
func AtRiskMembers(members []domain.Member, checkIns []domain.CheckIn, now time.Time) []domain.Member {
	out := []domain.Member{}
	for _, m := range members {
		if m.IsMember() && IsAtRisk(m, checkIns, now) {
			out = append(out, m)
		}
	}
	return out
}
