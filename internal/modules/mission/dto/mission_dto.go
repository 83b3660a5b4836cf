package dto

import (
	"time"

	"anoa.com/reviewrewards/internal/entity"
	commonDto "anoa.com/reviewrewards/pkg/dto"
	"github.com/google/uuid"
)

type CreateMissionRequest struct {
	Title                 string     `json:"title" binding:"required,max=150"`
	Description           string     `json:"description"`
	PointsReward          int        `json:"points_reward" binding:"min=0"`
	Type                  string     `json:"type" binding:"required,oneof=REVIEW RECEIPT SOCIAL_PROOF"`
	Status                string     `json:"status" binding:"omitempty,oneof=DRAFT ACTIVE"`
	StartDate             *time.Time `json:"start_date"`
	ExpiresAt             *time.Time `json:"expires_at"`
	MaxSubmissionsPerUser int        `json:"max_submissions_per_user" binding:"omitempty,min=1"`
	TotalMaxSubmissions   *int       `json:"total_max_submissions" binding:"omitempty,min=1"`
}

type UpdateMissionRequest struct {
	Title                 *string    `json:"title" binding:"omitempty,max=150"`
	Description           *string    `json:"description"`
	PointsReward          *int       `json:"points_reward" binding:"omitempty,min=0"`
	Status                *string    `json:"status" binding:"omitempty,oneof=DRAFT ACTIVE COMPLETED"`
	ExpiresAt             *time.Time `json:"expires_at"`
	MaxSubmissionsPerUser *int       `json:"max_submissions_per_user" binding:"omitempty,min=1"`
	TotalMaxSubmissions   *int       `json:"total_max_submissions" binding:"omitempty,min=1"`
}

type MissionFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=DRAFT ACTIVE COMPLETED"`
	Type   string `form:"type" binding:"omitempty,oneof=REVIEW RECEIPT SOCIAL_PROOF"`
	Search string `form:"search"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type MissionResponse struct {
	ID                    uuid.UUID            `json:"id"`
	Title                 string               `json:"title"`
	Description           string               `json:"description"`
	PointsReward          int                  `json:"points_reward"`
	Type                  entity.MissionType   `json:"type"`
	Status                entity.MissionStatus `json:"status"`
	StartDate             string               `json:"start_date"`
	ExpiresAt             *string              `json:"expires_at,omitempty"`
	MaxSubmissionsPerUser int                  `json:"max_submissions_per_user"`
	TotalMaxSubmissions   *int                 `json:"total_max_submissions,omitempty"`
	CreatedAt             string               `json:"created_at"`
}

type PaginatedMissionResponse struct {
	Data []MissionResponse        `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

// Submission payloads are tagged variants: exactly one field must be set and
// it must match the mission type.

type ReviewSubmission struct {
	ProductName string `json:"product_name" binding:"required,max=150"`
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	Content     string `json:"content" binding:"required"`
}

type ReceiptSubmission struct {
	StoreName    string  `json:"store_name" binding:"required,max=150"`
	PurchaseDate string  `json:"purchase_date" binding:"required"`
	TotalAmount  float64 `json:"total_amount" binding:"omitempty,gt=0"`
}

type SocialProofSubmission struct {
	Platform string `json:"platform" binding:"required,max=50"`
	PostURL  string `json:"post_url" binding:"required,url"`
}

type SubmissionPayload struct {
	Review      *ReviewSubmission      `json:"review,omitempty"`
	Receipt     *ReceiptSubmission     `json:"receipt,omitempty"`
	SocialProof *SocialProofSubmission `json:"social_proof,omitempty"`
}

// Matches reports whether the payload carries exactly the variant required by
// the mission type.
func (p SubmissionPayload) Matches(missionType entity.MissionType) bool {
	set := 0
	if p.Review != nil {
		set++
	}
	if p.Receipt != nil {
		set++
	}
	if p.SocialProof != nil {
		set++
	}
	if set != 1 {
		return false
	}

	switch missionType {
	case entity.MissionTypeReview:
		return p.Review != nil
	case entity.MissionTypeReceipt:
		return p.Receipt != nil
	case entity.MissionTypeSocialProof:
		return p.SocialProof != nil
	}
	return false
}

type SubmitRequest struct {
	Payload       SubmissionPayload `json:"payload" binding:"required"`
	AttachmentIDs []uint            `json:"attachment_ids"`
}

type AdjudicateRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

type ParticipationFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=JOINED PENDING APPROVED REJECTED"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type ParticipationResponse struct {
	ID             uuid.UUID                  `json:"id"`
	MissionID      uuid.UUID                  `json:"mission_id"`
	MissionTitle   string                     `json:"mission_title"`
	PointsReward   int                        `json:"points_reward"`
	Username       string                     `json:"username,omitempty"`
	Status         entity.ParticipationStatus `json:"status"`
	SubmissionData string                     `json:"submission_data,omitempty"`
	AdminNotes     string                     `json:"admin_notes,omitempty"`
	CreatedAt      string                     `json:"created_at"`
	UpdatedAt      string                     `json:"updated_at"`
}

type PaginatedParticipationResponse struct {
	Data []ParticipationResponse  `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
