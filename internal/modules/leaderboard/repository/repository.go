package repository

import (
	"context"
	"time"

	"anoa.com/reviewrewards/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EarnerStats aggregates a user's earnings from the transaction log. Lifetime
// counts only positive amounts, so redemptions and deductions never demote a
// tier.
type EarnerStats struct {
	UserID         uuid.UUID
	User           entity.User
	LifetimeEarned int
	WeeklyEarned   int
}

type LeaderboardRepository interface {
	GetTopEarners(ctx context.Context, limit int, timeframe string) ([]EarnerStats, error)
	GetEarnerStats(ctx context.Context, userID uuid.UUID) (*EarnerStats, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

type sumRow struct {
	UserID uuid.UUID
	Score  int
}

func (r *leaderboardRepository) GetTopEarners(ctx context.Context, limit int, timeframe string) ([]EarnerStats, error) {
	weeklyStart := time.Now().AddDate(0, 0, -7)

	query := r.db.WithContext(ctx).Model(&entity.PointTransaction{}).
		Select("user_id, SUM(amount) as score").
		Where("amount > 0")
	if timeframe == "weekly" {
		query = query.Where("created_at >= ?", weeklyStart)
	}

	var rows []sumRow
	if err := query.
		Group("user_id").
		Order("score DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	userIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		userIDs = append(userIDs, row.UserID)
	}

	var users []entity.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Find(&users, userIDs).Error; err != nil {
		return nil, err
	}
	userMap := make(map[uuid.UUID]entity.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}

	// Lifetime and weekly sums are both needed regardless of timeframe: tiers
	// come from lifetime, activity labels from the weekly sum.
	lifetimeMap, err := r.sumByUser(ctx, userIDs, nil)
	if err != nil {
		return nil, err
	}
	weeklyMap, err := r.sumByUser(ctx, userIDs, &weeklyStart)
	if err != nil {
		return nil, err
	}

	stats := make([]EarnerStats, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, EarnerStats{
			UserID:         row.UserID,
			User:           userMap[row.UserID],
			LifetimeEarned: lifetimeMap[row.UserID],
			WeeklyEarned:   weeklyMap[row.UserID],
		})
	}

	return stats, nil
}

func (r *leaderboardRepository) sumByUser(ctx context.Context, userIDs []uuid.UUID, since *time.Time) (map[uuid.UUID]int, error) {
	query := r.db.WithContext(ctx).Model(&entity.PointTransaction{}).
		Select("user_id, SUM(amount) as score").
		Where("user_id IN ? AND amount > 0", userIDs)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var rows []sumRow
	if err := query.Group("user_id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		result[row.UserID] = row.Score
	}
	return result, nil
}

func (r *leaderboardRepository) GetEarnerStats(ctx context.Context, userID uuid.UUID) (*EarnerStats, error) {
	var lifetime int64
	if err := r.db.WithContext(ctx).Model(&entity.PointTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND amount > 0", userID).
		Scan(&lifetime).Error; err != nil {
		return nil, err
	}

	weeklyStart := time.Now().AddDate(0, 0, -7)
	var weekly int64
	if err := r.db.WithContext(ctx).Model(&entity.PointTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND amount > 0 AND created_at >= ?", userID, weeklyStart).
		Scan(&weekly).Error; err != nil {
		return nil, err
	}

	return &EarnerStats{
		UserID:         userID,
		LifetimeEarned: int(lifetime),
		WeeklyEarned:   int(weekly),
	}, nil
}
