package service_test

import (
	"testing"

	"anoa.com/reviewrewards/internal/modules/leaderboard/service"
)

func TestGetTierStatus(t *testing.T) {
	cases := []struct {
		lifetimeEarned int
		wantTier       string
		wantNext       string
		wantTarget     int
	}{
		{0, "Bronze", "Silver", 500},
		{499, "Bronze", "Silver", 500},
		{500, "Silver", "Gold", 2000},
		{1999, "Silver", "Gold", 2000},
		{2000, "Gold", "Platinum", 5000},
		{4999, "Gold", "Platinum", 5000},
		{5000, "Platinum", "Diamond", 15000},
		{14999, "Platinum", "Diamond", 15000},
		{15000, "Diamond", "Max Tier", 15000},
		{99999, "Diamond", "Max Tier", 15000},
	}

	for _, tc := range cases {
		status := service.GetTierStatus(tc.lifetimeEarned)
		if status.TierName != tc.wantTier {
			t.Errorf("GetTierStatus(%d): tier = %s, want %s", tc.lifetimeEarned, status.TierName, tc.wantTier)
		}
		if status.NextTier != tc.wantNext {
			t.Errorf("GetTierStatus(%d): next = %s, want %s", tc.lifetimeEarned, status.NextTier, tc.wantNext)
		}
		if status.TargetPoints != tc.wantTarget {
			t.Errorf("GetTierStatus(%d): target = %d, want %d", tc.lifetimeEarned, status.TargetPoints, tc.wantTarget)
		}
		if status.LifetimeEarned != tc.lifetimeEarned {
			t.Errorf("GetTierStatus(%d): lifetime = %d", tc.lifetimeEarned, status.LifetimeEarned)
		}
	}
}

func TestGetTierStatusProgress(t *testing.T) {
	if got := service.GetTierStatus(250).Progress; got != 50 {
		t.Errorf("250 earned: progress = %v, want 50", got)
	}
	if got := service.GetTierStatus(0).Progress; got != 0 {
		t.Errorf("0 earned: progress = %v, want 0", got)
	}
	if got := service.GetTierStatus(20000).Progress; got != 100 {
		t.Errorf("diamond: progress = %v, want 100", got)
	}
	// 1234/2000 = 61.7
	if got := service.GetTierStatus(1234).Progress; got != 61.7 {
		t.Errorf("1234 earned: progress = %v, want 61.7", got)
	}
}

func TestGetWeeklyLabel(t *testing.T) {
	cases := []struct {
		weeklyEarned int
		want         string
	}{
		{0, ""},
		{49, ""},
		{50, "Active"},
		{149, "Active"},
		{150, "Trending"},
		{299, "Trending"},
		{300, "On Fire!"},
		{1000, "On Fire!"},
	}

	for _, tc := range cases {
		if got := service.GetWeeklyLabel(tc.weeklyEarned); got != tc.want {
			t.Errorf("GetWeeklyLabel(%d) = %q, want %q", tc.weeklyEarned, got, tc.want)
		}
	}
}
