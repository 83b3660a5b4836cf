package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionKind string

const (
	KindEarned   TransactionKind = "EARNED"
	KindRedeemed TransactionKind = "REDEEMED"
	KindRefunded TransactionKind = "REFUNDED"
	KindAdjusted TransactionKind = "ADJUSTED"
	KindDeducted TransactionKind = "DEDUCTED"
)

type TransactionSource string

const (
	SourceMissionReview     TransactionSource = "MISSION_REVIEW"
	SourceReceiptSubmission TransactionSource = "RECEIPT_SUBMISSION"
	SourceRedemption        TransactionSource = "REDEMPTION"
	SourceAdminAdjustment   TransactionSource = "ADMIN_ADJUSTMENT"
)

// PointTransaction is an append-only log entry. Amount is signed: positive for
// credits, negative for debits. Rows are never updated or deleted; corrections
// are new offsetting entries.
type PointTransaction struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID         `gorm:"type:uuid;not null;index:idx_txn_user_date,priority:1" json:"user_id"`
	User        User              `gorm:"foreignKey:UserID" json:"-"`
	Amount      int               `gorm:"not null" json:"amount"`
	Kind        TransactionKind   `gorm:"size:20;not null" json:"kind"`
	Source      TransactionSource `gorm:"size:30;not null" json:"source"`
	SourceID    *uuid.UUID        `gorm:"type:uuid;index" json:"source_id,omitempty"`
	Description string            `gorm:"type:text" json:"description"`
	CreatedAt   time.Time         `gorm:"autoCreateTime;index:idx_txn_user_date,priority:2" json:"created_at"`
}

func (t *PointTransaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}
