package domain

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"alcyxob/fitlab/internal/apperror"
)

// VideoContent is a video the trainer publishes to members.
type VideoContent struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	PostedAt     time.Time `json:"postedAt"`
	Pinned       bool      `json:"pinned"`
}

func (v VideoContent) Validate() error {
	if strings.TrimSpace(v.Title) == "" {
		return apperror.NewValidationError("title", "is required")
	}
	if strings.TrimSpace(v.Category) == "" {
		return apperror.NewValidationError("category", "is required")
	}
	u, err := url.Parse(v.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return apperror.NewValidationError("url", "must be an absolute URL")
	}
	return nil
}

// SortContent orders pinned items first, then newest first.
func SortContent(items []VideoContent) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Pinned != items[j].Pinned {
			return items[i].Pinned
		}
		return items[i].PostedAt.After(items[j].PostedAt)
	})
}
