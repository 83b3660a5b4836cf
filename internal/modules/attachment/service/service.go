package service

import (
	"context"
	"log"
	"mime/multipart"
	"time"

	"anoa.com/reviewrewards/internal/entity"
	"anoa.com/reviewrewards/internal/modules/attachment/dto"
	attachmentRepo "anoa.com/reviewrewards/internal/modules/attachment/repository"
	"anoa.com/reviewrewards/pkg/storage"
	"github.com/google/uuid"
)

type AttachmentService interface {
	UploadAttachment(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*dto.UploadAttachmentResponse, error)
	CleanupOrphanAttachments(ctx context.Context) error
}

type attachmentService struct {
	repo        attachmentRepo.AttachmentRepository
	fileStorage storage.ImageStorage
}

func NewAttachmentService(repo attachmentRepo.AttachmentRepository, fileStorage storage.ImageStorage) AttachmentService {
	return &attachmentService{
		repo:        repo,
		fileStorage: fileStorage,
	}
}

func (s *attachmentService) UploadAttachment(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*dto.UploadAttachmentResponse, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	url, err := s.fileStorage.UploadImage(ctx, f, "receipts", file.Filename)
	if err != nil {
		return nil, err
	}

	attachment := &entity.Attachment{
		UserID:   userID,
		FileURL:  url,
		FileType: file.Header.Get("Content-Type"),
	}

	if err := s.repo.Create(ctx, attachment); err != nil {
		return nil, err
	}

	return &dto.UploadAttachmentResponse{
		ID:       attachment.ID,
		FileURL:  attachment.FileURL,
		FileType: attachment.FileType,
	}, nil
}

// CleanupOrphanAttachments removes uploads that were never bound to a
// submission. Storage delete failures are logged and retried on the next run.
func (s *attachmentService) CleanupOrphanAttachments(ctx context.Context) error {
	cutoff := time.Now().Add(-24 * time.Hour)

	orphans, err := s.repo.FindOrphans(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, orphan := range orphans {
		if err := s.fileStorage.DeleteImage(ctx, orphan.FileURL); err != nil {
			log.Printf("failed to delete orphan file %s: %v", orphan.FileURL, err)
			continue
		}
		if err := s.repo.Delete(ctx, orphan.ID); err != nil {
			log.Printf("failed to delete orphan attachment %d: %v", orphan.ID, err)
		}
	}
	return nil
}
