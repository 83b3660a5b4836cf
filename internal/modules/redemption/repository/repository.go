package repository

import (
	"context"

	"anoa.com/reviewrewards/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RedemptionRepository interface {
	Create(ctx context.Context, req *entity.RedemptionRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RedemptionRequest, error)
	List(ctx context.Context, status string, limit, offset int) ([]entity.RedemptionRequest, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]entity.RedemptionRequest, int64, error)

	// UpdateStatusIf performs a conditional transition: the row is updated only
	// if it is still in the `from` status. Returns whether this caller won.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.RedemptionStatus, notes string) (bool, error)
}

type redemptionRepository struct {
	db *gorm.DB
}

func NewRedemptionRepository(db *gorm.DB) RedemptionRepository {
	return &redemptionRepository{db: db}
}

func (r *redemptionRepository) Create(ctx context.Context, req *entity.RedemptionRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *redemptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RedemptionRequest, error) {
	var req entity.RedemptionRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *redemptionRepository) List(ctx context.Context, status string, limit, offset int) ([]entity.RedemptionRequest, int64, error) {
	var requests []entity.RedemptionRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RedemptionRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "email", "avatar_url")
		}).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *redemptionRepository) ListByUser(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]entity.RedemptionRequest, int64, error) {
	var requests []entity.RedemptionRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RedemptionRequest{}).
		Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *redemptionRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.RedemptionStatus, notes string) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if notes != "" {
		updates["admin_notes"] = notes
	}

	res := r.db.WithContext(ctx).Model(&entity.RedemptionRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
