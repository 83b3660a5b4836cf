package service

import (
	"math"

	commonDto "anoa.com/reviewrewards/pkg/dto"
)

// Tier thresholds, based on lifetime earned points. Tiers never demote:
// redemptions spend the balance but lifetime earnings only grow.
const (
	PointsDiamond  = 15000
	PointsPlatinum = 5000
	PointsGold     = 2000
	PointsSilver   = 500
	PointsBronze   = 0
)

// Weekly activity thresholds for the activity label.
const (
	WeeklyOnFire   = 300
	WeeklyTrending = 150
	WeeklyActive   = 50
)

// GetTierStatus maps lifetime earned points to a tier with progress toward the
// next one.
func GetTierStatus(lifetimeEarned int) commonDto.TierStatus {
	var status commonDto.TierStatus
	status.LifetimeEarned = lifetimeEarned

	switch {
	case lifetimeEarned >= PointsDiamond:
		status.TierName = "Diamond"
		status.NextTier = "Max Tier"
		status.TargetPoints = PointsDiamond
		status.Progress = 100

	case lifetimeEarned >= PointsPlatinum:
		status.TierName = "Platinum"
		status.NextTier = "Diamond"
		status.TargetPoints = PointsDiamond
		status.Progress = (float64(lifetimeEarned) / float64(PointsDiamond)) * 100

	case lifetimeEarned >= PointsGold:
		status.TierName = "Gold"
		status.NextTier = "Platinum"
		status.TargetPoints = PointsPlatinum
		status.Progress = (float64(lifetimeEarned) / float64(PointsPlatinum)) * 100

	case lifetimeEarned >= PointsSilver:
		status.TierName = "Silver"
		status.NextTier = "Gold"
		status.TargetPoints = PointsGold
		status.Progress = (float64(lifetimeEarned) / float64(PointsGold)) * 100

	default:
		status.TierName = "Bronze"
		status.NextTier = "Silver"
		status.TargetPoints = PointsSilver
		if lifetimeEarned > 0 {
			status.Progress = (float64(lifetimeEarned) / float64(PointsSilver)) * 100
		}
	}

	status.Progress = math.Round(status.Progress*100) / 100

	return status
}

// GetWeeklyLabel maps last-7-day earnings to an activity label, or empty.
func GetWeeklyLabel(weeklyEarned int) string {
	switch {
	case weeklyEarned >= WeeklyOnFire:
		return "On Fire!"
	case weeklyEarned >= WeeklyTrending:
		return "Trending"
	case weeklyEarned >= WeeklyActive:
		return "Active"
	default:
		return ""
	}
}
