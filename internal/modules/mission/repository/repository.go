package repository

import (
	"context"

	"anoa.com/reviewrewards/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MissionRepository interface {
	Create(ctx context.Context, mission *entity.Mission) error
	Update(ctx context.Context, mission *entity.Mission) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Mission, error)
	FindAll(ctx context.Context, status, missionType, search string, limit, offset int) ([]entity.Mission, int64, error)

	CreateParticipation(ctx context.Context, p *entity.MissionParticipation) error
	FindParticipationByID(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error)
	FindJoined(ctx context.Context, missionID, userID uuid.UUID) (*entity.MissionParticipation, error)
	CountSubmitted(ctx context.Context, missionID uuid.UUID) (int64, error)
	CountSubmittedByUser(ctx context.Context, missionID, userID uuid.UUID) (int64, error)
	CountEngagedByUser(ctx context.Context, missionID, userID uuid.UUID) (int64, error)

	// UpdateStatusIf performs a conditional transition: the row is updated
	// only if it is still in the `from` status. Returns whether this caller
	// won the transition.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.ParticipationStatus, notes string) (bool, error)
	// SubmitJoined moves a JOINED row to PENDING and attaches the payload.
	SubmitJoined(ctx context.Context, id uuid.UUID, data string) (bool, error)

	ListParticipations(ctx context.Context, status string, limit, offset int) ([]entity.MissionParticipation, int64, error)
	ListParticipationsByUser(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]entity.MissionParticipation, int64, error)
}

type missionRepository struct {
	db *gorm.DB
}

func NewMissionRepository(db *gorm.DB) MissionRepository {
	return &missionRepository{db: db}
}

func (r *missionRepository) Create(ctx context.Context, mission *entity.Mission) error {
	return r.db.WithContext(ctx).Create(mission).Error
}

func (r *missionRepository) Update(ctx context.Context, mission *entity.Mission) error {
	return r.db.WithContext(ctx).Save(mission).Error
}

func (r *missionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Mission{}, "id = ?", id).Error
}

func (r *missionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
	var mission entity.Mission
	if err := r.db.WithContext(ctx).First(&mission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mission, nil
}

func (r *missionRepository) FindAll(ctx context.Context, status, missionType, search string, limit, offset int) ([]entity.Mission, int64, error) {
	var missions []entity.Mission
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Mission{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if missionType != "" {
		query = query.Where("type = ?", missionType)
	}
	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&missions).Error; err != nil {
		return nil, 0, err
	}

	return missions, total, nil
}

func (r *missionRepository) CreateParticipation(ctx context.Context, p *entity.MissionParticipation) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *missionRepository) FindParticipationByID(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error) {
	var p entity.MissionParticipation
	if err := r.db.WithContext(ctx).
		Preload("Mission").
		First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *missionRepository) FindJoined(ctx context.Context, missionID, userID uuid.UUID) (*entity.MissionParticipation, error) {
	var p entity.MissionParticipation
	if err := r.db.WithContext(ctx).
		Where("mission_id = ? AND user_id = ? AND status = ?", missionID, userID, entity.ParticipationJoined).
		Order("created_at DESC").
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Rejected rows never count against quotas: a rejected submission frees its
// slot for a resubmission.

func (r *missionRepository) CountSubmitted(ctx context.Context, missionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.MissionParticipation{}).
		Where("mission_id = ? AND status IN ?", missionID,
			[]entity.ParticipationStatus{entity.ParticipationPending, entity.ParticipationApproved}).
		Count(&count).Error
	return count, err
}

func (r *missionRepository) CountSubmittedByUser(ctx context.Context, missionID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.MissionParticipation{}).
		Where("mission_id = ? AND user_id = ? AND status IN ?", missionID, userID,
			[]entity.ParticipationStatus{entity.ParticipationPending, entity.ParticipationApproved}).
		Count(&count).Error
	return count, err
}

func (r *missionRepository) CountEngagedByUser(ctx context.Context, missionID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.MissionParticipation{}).
		Where("mission_id = ? AND user_id = ? AND status IN ?", missionID, userID,
			[]entity.ParticipationStatus{entity.ParticipationJoined, entity.ParticipationPending, entity.ParticipationApproved}).
		Count(&count).Error
	return count, err
}

func (r *missionRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.ParticipationStatus, notes string) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if notes != "" {
		updates["admin_notes"] = notes
	}

	res := r.db.WithContext(ctx).Model(&entity.MissionParticipation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *missionRepository) SubmitJoined(ctx context.Context, id uuid.UUID, data string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.MissionParticipation{}).
		Where("id = ? AND status = ?", id, entity.ParticipationJoined).
		Updates(map[string]interface{}{
			"status":          entity.ParticipationPending,
			"submission_data": data,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *missionRepository) ListParticipations(ctx context.Context, status string, limit, offset int) ([]entity.MissionParticipation, int64, error) {
	var participations []entity.MissionParticipation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.MissionParticipation{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Mission").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "email", "avatar_url")
		}).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&participations).Error; err != nil {
		return nil, 0, err
	}

	return participations, total, nil
}

func (r *missionRepository) ListParticipationsByUser(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]entity.MissionParticipation, int64, error) {
	var participations []entity.MissionParticipation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.MissionParticipation{}).
		Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Mission").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&participations).Error; err != nil {
		return nil, 0, err
	}

	return participations, total, nil
}
