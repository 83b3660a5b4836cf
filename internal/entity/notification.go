package entity

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	ActorID    *uuid.UUID `gorm:"type:uuid" json:"actor_id,omitempty"` // admin who adjudicated, nil for system events
	EntityID   uuid.UUID  `gorm:"type:uuid;not null" json:"entity_id"`
	EntityType string     `gorm:"type:varchar(50);not null" json:"entity_type"` // 'participation', 'redemption', 'ledger'
	Type       string     `gorm:"type:varchar(50);not null" json:"type"`        // 'mission_approved', 'mission_rejected', 'redemption_approved', 'redemption_rejected', 'points_adjusted'
	Message    string     `gorm:"type:text" json:"message"`
	IsRead     bool       `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`

	User  *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}
