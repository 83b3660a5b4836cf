package dto

import commonDto "anoa.com/reviewrewards/pkg/dto"

// LeaderboardEntry is one row of the earners leaderboard. Position is 1-based.
type LeaderboardEntry struct {
	Username   string                `json:"username"`
	AvatarURL  *string               `json:"avatar_url,omitempty"`
	Position   int                   `json:"position"`
	TierStatus commonDto.TierStatus  `json:"tier_status"`
	WeeklyEarned int                 `json:"weekly_earned"`
	WeeklyLabel  string              `json:"weekly_label,omitempty"`
}
