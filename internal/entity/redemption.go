package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RedemptionType string

const (
	RedemptionCash        RedemptionType = "CASH"
	RedemptionGiftVoucher RedemptionType = "GIFT_VOUCHER"
)

type RedemptionStatus string

const (
	RedemptionPending  RedemptionStatus = "PENDING"
	RedemptionApproved RedemptionStatus = "APPROVED"
	RedemptionRejected RedemptionStatus = "REJECTED"
)

// RedemptionRequest reserves points at creation time: the debit happens before
// the row is inserted, so a PENDING row always has its funds already deducted.
type RedemptionRequest struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	User           User             `gorm:"foreignKey:UserID" json:"-"`
	PointsAmount   int              `gorm:"not null" json:"points_amount"`
	Type           RedemptionType   `gorm:"size:20;not null;column:redemption_type" json:"redemption_type"`
	PaymentDetails string           `gorm:"type:jsonb" json:"payment_details,omitempty"`
	Status         RedemptionStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	AdminNotes     string           `gorm:"type:text" json:"admin_notes,omitempty"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *RedemptionRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
