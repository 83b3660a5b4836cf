package dto

import (
	"time"

	"anoa.com/reviewrewards/internal/entity"
	commonDto "anoa.com/reviewrewards/pkg/dto"
)

// UpdateProfileInput represents the input for updating the current profile.
type UpdateProfileInput struct {
	Username *string `json:"username" form:"username"`
	Password *string `json:"password" form:"password"`
	FullName *string `json:"full_name" form:"full_name"`
	Phone    *string `json:"phone" form:"phone"`
	Bio      *string `json:"bio" form:"bio"`
}

// ProfileResponse is returned when updating or fetching the current profile.
type ProfileResponse struct {
	User       *entity.User         `json:"user"`
	Profile    *entity.Profile      `json:"profile"`
	TierStatus commonDto.TierStatus `json:"tier_status"`
}

// PublicProfileResponse is returned when viewing another user's profile. The
// point balance stays private; only the tier is public.
type PublicProfileResponse struct {
	Username   string               `json:"username"`
	AvatarURL  *string              `json:"avatar_url,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	Bio        *string              `json:"bio,omitempty"`
	TierStatus commonDto.TierStatus `json:"tier_status"`
}
