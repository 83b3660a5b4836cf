package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	leaderboardDto "anoa.com/reviewrewards/internal/modules/leaderboard/dto"
	leaderboardRepo "anoa.com/reviewrewards/internal/modules/leaderboard/repository"
	"github.com/redis/go-redis/v9"
)

const cacheTTL = 5 * time.Minute

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, limit int, timeframe string) ([]leaderboardDto.LeaderboardEntry, error)
}

type leaderboardService struct {
	repo        leaderboardRepo.LeaderboardRepository
	redisClient *redis.Client
}

func NewLeaderboardService(repo leaderboardRepo.LeaderboardRepository, redisClient *redis.Client) LeaderboardService {
	return &leaderboardService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, limit int, timeframe string) ([]leaderboardDto.LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("leaderboard:%s:%d", timeframe, limit)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var entries []leaderboardDto.LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	stats, err := s.repo.GetTopEarners(ctx, limit, timeframe)
	if err != nil {
		return nil, err
	}

	entries := make([]leaderboardDto.LeaderboardEntry, 0, len(stats))
	for i, stat := range stats {
		entries = append(entries, leaderboardDto.LeaderboardEntry{
			Username:     stat.User.Username,
			AvatarURL:    stat.User.AvatarURL,
			Position:     i + 1,
			TierStatus:   GetTierStatus(stat.LifetimeEarned),
			WeeklyEarned: stat.WeeklyEarned,
			WeeklyLabel:  GetWeeklyLabel(stat.WeeklyEarned),
		})
	}

	if s.redisClient != nil {
		payload, err := json.Marshal(entries)
		if err == nil {
			if err := s.redisClient.Set(ctx, cacheKey, payload, cacheTTL).Err(); err != nil {
				log.Printf("failed to cache leaderboard: %v", err)
			}
		}
	}

	return entries, nil
}
