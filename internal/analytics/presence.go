package analytics

import (
	"time"

	"alcyxob/fitlab/internal/domain"
)

type PresenceCell struct {
	Date     time.Time `json:"date"`
	Present  bool      `json:"present"`
	Division string    `json:"division,omitempty"`
}

type PresenceRow struct {
	MemberID string          `json:"memberId"`
	Name     string          `json:"name"`
	Days     [7]PresenceCell `json:"days"`
}

// WeekStart is midnight of the Monday of now's week, in now's location.
func WeekStart(now time.Time) time.Time {
	day := startOfDay(now, now.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeeklyPresence builds a Monday-to-Sunday grid of the current week for every member
// (role member). A cell is present when a check-in falls on that calendar day; it
// carries the division letter of the latest such check-in.
func WeeklyPresence(members []domain.Member, checkIns []domain.CheckIn, now time.Time) []PresenceRow {
	loc := now.Location()
	start := WeekStart(now)

	rows := []PresenceRow{}
	for _, m := range members {
		if !m.IsMember() {
			continue
		}
		row := PresenceRow{MemberID: m.ID, Name: m.Name}
		latest := [7]time.Time{}
		for i := range row.Days {
			row.Days[i].Date = start.AddDate(0, 0, i)
		}
		for _, c := range checkIns {
			if c.MemberID != m.ID {
				continue
			}
			day := startOfDay(c.At, loc)
			for i := range row.Days {
				if !day.Equal(row.Days[i].Date) {
					continue
				}
				if !row.Days[i].Present || c.At.After(latest[i]) {
					row.Days[i].Division = c.DivisionLetter
					latest[i] = c.At
				}
				row.Days[i].Present = true
			}
		}
		rows = append(rows, row)
	}
	return rows
}
