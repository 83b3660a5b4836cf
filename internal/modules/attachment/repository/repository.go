package repository

import (
	"context"
	"time"

	"anoa.com/reviewrewards/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *entity.Attachment) error
	BindToParticipation(ctx context.Context, attachmentIDs []uint, participationID uuid.UUID, userID uuid.UUID) error
	FindOrphans(ctx context.Context, cutoffTime time.Time) ([]entity.Attachment, error)
	FindByParticipation(ctx context.Context, participationID uuid.UUID) ([]entity.Attachment, error)
	Delete(ctx context.Context, id uint) error
}

type attachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *entity.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// BindToParticipation only binds attachments owned by the user that are not
// already attached to a different submission.
func (r *attachmentRepository) BindToParticipation(ctx context.Context, attachmentIDs []uint, participationID uuid.UUID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Attachment{}).
		Where("id IN ? AND user_id = ?", attachmentIDs, userID).
		Where("participation_id IS NULL OR participation_id = ?", participationID).
		Update("participation_id", participationID).Error
}

func (r *attachmentRepository) FindOrphans(ctx context.Context, cutoffTime time.Time) ([]entity.Attachment, error) {
	var attachments []entity.Attachment
	err := r.db.WithContext(ctx).
		Where("participation_id IS NULL AND created_at < ?", cutoffTime).
		Find(&attachments).Error
	return attachments, err
}

func (r *attachmentRepository) FindByParticipation(ctx context.Context, participationID uuid.UUID) ([]entity.Attachment, error) {
	var attachments []entity.Attachment
	err := r.db.WithContext(ctx).
		Where("participation_id = ?", participationID).
		Find(&attachments).Error
	return attachments, err
}

func (r *attachmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Attachment{}, id).Error
}
