package dto

import (
	"anoa.com/reviewrewards/internal/entity"
	commonDto "anoa.com/reviewrewards/pkg/dto"
	"github.com/google/uuid"
)

// Payment details are tagged variants: exactly one must be set and it must
// match the redemption type.

type CashPaymentDetails struct {
	BankName      string `json:"bank_name" binding:"required,max=100"`
	AccountNumber string `json:"account_number" binding:"required,max=50"`
	AccountHolder string `json:"account_holder" binding:"required,max=150"`
}

type VoucherPaymentDetails struct {
	Provider string `json:"provider" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
}

type PaymentDetails struct {
	Cash    *CashPaymentDetails    `json:"cash,omitempty"`
	Voucher *VoucherPaymentDetails `json:"voucher,omitempty"`
}

func (p PaymentDetails) Matches(redemptionType entity.RedemptionType) bool {
	set := 0
	if p.Cash != nil {
		set++
	}
	if p.Voucher != nil {
		set++
	}
	if set != 1 {
		return false
	}

	switch redemptionType {
	case entity.RedemptionCash:
		return p.Cash != nil
	case entity.RedemptionGiftVoucher:
		return p.Voucher != nil
	}
	return false
}

type CreateRedemptionRequest struct {
	PointsAmount   int            `json:"points_amount" binding:"required,gt=0"`
	Type           string         `json:"type" binding:"required,oneof=CASH GIFT_VOUCHER"`
	PaymentDetails PaymentDetails `json:"payment_details" binding:"required"`
}

type AdjudicateRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

type RedemptionFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type RedemptionResponse struct {
	ID             uuid.UUID               `json:"id"`
	UserID         uuid.UUID               `json:"user_id"`
	Username       string                  `json:"username,omitempty"`
	PointsAmount   int                     `json:"points_amount"`
	Type           entity.RedemptionType   `json:"type"`
	PaymentDetails string                  `json:"payment_details"`
	Status         entity.RedemptionStatus `json:"status"`
	AdminNotes     string                  `json:"admin_notes,omitempty"`
	CreatedAt      string                  `json:"created_at"`
	UpdatedAt      string                  `json:"updated_at"`
}

type PaginatedRedemptionResponse struct {
	Data []RedemptionResponse     `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
