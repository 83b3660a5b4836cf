package dto

import (
	"anoa.com/reviewrewards/internal/entity"
	commonDto "anoa.com/reviewrewards/pkg/dto"
	"github.com/google/uuid"
)

type BalanceResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Points int       `json:"points"`
}

type TransactionResponse struct {
	ID          uuid.UUID                `json:"id"`
	Amount      int                      `json:"amount"`
	Kind        entity.TransactionKind   `json:"kind"`
	Source      entity.TransactionSource `json:"source"`
	SourceID    *uuid.UUID               `json:"source_id,omitempty"`
	Description string                   `json:"description"`
	CreatedAt   string                   `json:"created_at"`
}

type PaginatedTransactionResponse struct {
	Data []TransactionResponse    `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

type HistoryFilter struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// AdjustPointsRequest is the admin balance correction payload. Amount is
// signed: positive grants points, negative deducts them.
type AdjustPointsRequest struct {
	UserID      string `json:"user_id" binding:"required,uuid"`
	Amount      int    `json:"amount" binding:"required"`
	Description string `json:"description" binding:"required,max=500"`
}
