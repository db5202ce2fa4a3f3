package domain

import "time"

// ProgressPhoto is one entry of a member's append-only photo gallery.
type ProgressPhoto struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"memberId"`
	URL       string    `json:"url"`
	ObjectKey string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
