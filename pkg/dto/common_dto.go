package dto

import (
	"io"

	"github.com/google/uuid"
)

// AvatarFile represents an uploaded avatar image.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

type IDParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ParseID is a convenience for handlers binding a uuid path parameter.
func (p IDParam) ParseID() (uuid.UUID, error) {
	return uuid.Parse(p.ID)
}

type TierStatus struct {
	TierName      string  `json:"tier_name"`
	NextTier      string  `json:"next_tier"`
	LifetimeEarned int    `json:"lifetime_earned"`
	TargetPoints  int     `json:"target_points"`
	Progress      float64 `json:"progress"` // Percentage
}
