package service

import (
	"context"

	"anoa.com/reviewrewards/internal/entity"
	"anoa.com/reviewrewards/internal/modules/user/repository"
	"gorm.io/gorm"
)

// DashboardStats are the admin dashboard counters.
type DashboardStats struct {
	TotalUsers            int64 `json:"total_users"`
	ActiveMissions        int64 `json:"active_missions"`
	PendingParticipations int64 `json:"pending_participations"`
	PendingRedemptions    int64 `json:"pending_redemptions"`
	PointsIssued          int64 `json:"points_issued"`
	PointsRedeemed        int64 `json:"points_redeemed"`
}

type StatService interface {
	GetTotalUsers(ctx context.Context) (int64, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type statService struct {
	userRepo repository.UserRepository
	db       *gorm.DB
}

func NewStatService(userRepo repository.UserRepository, db *gorm.DB) StatService {
	return &statService{
		userRepo: userRepo,
		db:       db,
	}
}

func (s *statService) GetTotalUsers(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

func (s *statService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&entity.Mission{}).
		Where("status = ?", entity.MissionStatusActive).
		Count(&stats.ActiveMissions).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&entity.MissionParticipation{}).
		Where("status = ?", entity.ParticipationPending).
		Count(&stats.PendingParticipations).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&entity.RedemptionRequest{}).
		Where("status = ?", entity.RedemptionPending).
		Count(&stats.PendingRedemptions).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&entity.PointTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("amount > 0").
		Scan(&stats.PointsIssued).Error; err != nil {
		return nil, err
	}

	// Redeemed is reported as a positive number.
	if err := s.db.WithContext(ctx).Model(&entity.PointTransaction{}).
		Select("COALESCE(-SUM(amount), 0)").
		Where("kind = ?", entity.KindRedeemed).
		Scan(&stats.PointsRedeemed).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
