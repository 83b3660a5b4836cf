package entity

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is an uploaded media file (receipt photo, review image, proof
// screenshot). It is created unbound and linked to a participation at submit
// time; unbound rows older than the cleanup cutoff are garbage collected.
type Attachment struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid" json:"user_id"`
	ParticipationID *uuid.UUID `gorm:"type:uuid;index" json:"participation_id,omitempty"`
	FileURL         string     `gorm:"type:text;not null" json:"file_url"`
	FileType        string     `gorm:"size:50" json:"file_type"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
