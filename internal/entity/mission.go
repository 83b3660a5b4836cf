package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MissionType string

const (
	MissionTypeReview      MissionType = "REVIEW"
	MissionTypeReceipt     MissionType = "RECEIPT"
	MissionTypeSocialProof MissionType = "SOCIAL_PROOF"
)

type MissionStatus string

const (
	MissionStatusDraft     MissionStatus = "DRAFT"
	MissionStatusActive    MissionStatus = "ACTIVE"
	MissionStatusCompleted MissionStatus = "COMPLETED"
)

type Mission struct {
	ID                    uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Title                 string        `gorm:"size:150;not null" json:"title"`
	Description           string        `gorm:"type:text" json:"description"`
	PointsReward          int           `gorm:"not null" json:"points_reward"`
	Type                  MissionType   `gorm:"size:20;not null;index" json:"type"`
	Status                MissionStatus `gorm:"size:20;not null;default:DRAFT;index" json:"status"`
	StartDate             time.Time     `json:"start_date"`
	ExpiresAt             *time.Time    `json:"expires_at,omitempty"`
	MaxSubmissionsPerUser int           `gorm:"not null;default:1" json:"max_submissions_per_user"`
	TotalMaxSubmissions   *int          `json:"total_max_submissions,omitempty"`
	CreatedAt             time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Mission) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}

type ParticipationStatus string

const (
	ParticipationJoined   ParticipationStatus = "JOINED"
	ParticipationPending  ParticipationStatus = "PENDING"
	ParticipationApproved ParticipationStatus = "APPROVED"
	ParticipationRejected ParticipationStatus = "REJECTED"
)

// MissionParticipation tracks one user's attempt at one mission. Rejected rows
// are kept for audit; a resubmission is always a new row.
type MissionParticipation struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	MissionID      uuid.UUID           `gorm:"type:uuid;not null;index:idx_participation_mission_user,priority:1" json:"mission_id"`
	Mission        Mission             `gorm:"foreignKey:MissionID" json:"mission,omitempty"`
	UserID         uuid.UUID           `gorm:"type:uuid;not null;index:idx_participation_mission_user,priority:2" json:"user_id"`
	User           User                `gorm:"foreignKey:UserID" json:"-"`
	Status         ParticipationStatus `gorm:"size:20;not null;index" json:"status"`
	SubmissionData string              `gorm:"type:jsonb" json:"submission_data,omitempty"`
	AdminNotes     string              `gorm:"type:text" json:"admin_notes,omitempty"`
	CreatedAt      time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *MissionParticipation) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}
