package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"anoa.com/reviewrewards/internal/entity"
	ledgerDto "anoa.com/reviewrewards/internal/modules/ledger/dto"
	ledgerRepo "anoa.com/reviewrewards/internal/modules/ledger/repository"
	"anoa.com/reviewrewards/pkg/apperror"
	commonDto "anoa.com/reviewrewards/pkg/dto"
	"github.com/google/uuid"
)

const DefaultHistoryLimit = 20

// LedgerService is the single authority for balance mutations. Every change
// goes through one atomic balance-update + log-append; the transaction log is
// append-only and always sums to the stored balance.
type LedgerService interface {
	Credit(ctx context.Context, userID uuid.UUID, amount int, kind entity.TransactionKind, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error)
	Debit(ctx context.Context, userID uuid.UUID, amount int, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error)
	Refund(ctx context.Context, userID uuid.UUID, amount int, description string, sourceID *uuid.UUID) (int, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	GetHistory(ctx context.Context, userID uuid.UUID, filter ledgerDto.HistoryFilter) (*ledgerDto.PaginatedTransactionResponse, error)
	AdjustPoints(ctx context.Context, req ledgerDto.AdjustPointsRequest) (int, error)
}

type ledgerService struct {
	repo ledgerRepo.LedgerRepository
}

func NewLedgerService(repo ledgerRepo.LedgerRepository) LedgerService {
	return &ledgerService{repo: repo}
}

func (s *ledgerService) Credit(ctx context.Context, userID uuid.UUID, amount int, kind entity.TransactionKind, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive", apperror.ErrInvalidInput)
	}
	return s.apply(ctx, &entity.PointTransaction{
		UserID:      userID,
		Amount:      amount,
		Kind:        kind,
		Source:      source,
		SourceID:    sourceID,
		Description: description,
	})
}

func (s *ledgerService) Debit(ctx context.Context, userID uuid.UUID, amount int, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive", apperror.ErrInvalidInput)
	}

	kind := entity.KindDeducted
	if source == entity.SourceRedemption {
		kind = entity.KindRedeemed
	}

	return s.apply(ctx, &entity.PointTransaction{
		UserID:      userID,
		Amount:      -amount,
		Kind:        kind,
		Source:      source,
		SourceID:    sourceID,
		Description: description,
	})
}

func (s *ledgerService) Refund(ctx context.Context, userID uuid.UUID, amount int, description string, sourceID *uuid.UUID) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: refund amount must be positive", apperror.ErrInvalidInput)
	}
	return s.apply(ctx, &entity.PointTransaction{
		UserID:      userID,
		Amount:      amount,
		Kind:        entity.KindRefunded,
		Source:      entity.SourceRedemption,
		SourceID:    sourceID,
		Description: description,
	})
}

func (s *ledgerService) apply(ctx context.Context, txn *entity.PointTransaction) (int, error) {
	newBalance, err := s.repo.ApplyChange(ctx, txn)
	if err != nil {
		if errors.Is(err, apperror.ErrInsufficientBalance) || errors.Is(err, apperror.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", apperror.ErrLedgerWrite, err)
	}
	return newBalance, nil
}

func (s *ledgerService) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.GetBalance(ctx, userID)
}

func (s *ledgerService) GetHistory(ctx context.Context, userID uuid.UUID, filter ledgerDto.HistoryFilter) (*ledgerDto.PaginatedTransactionResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = DefaultHistoryLimit
	}

	transactions, total, err := s.repo.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	responses := make([]ledgerDto.TransactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		responses = append(responses, ledgerDto.TransactionResponse{
			ID:          txn.ID,
			Amount:      txn.Amount,
			Kind:        txn.Kind,
			Source:      txn.Source,
			SourceID:    txn.SourceID,
			Description: txn.Description,
			CreatedAt:   txn.CreatedAt.Format(time.RFC3339),
		})
	}

	return &ledgerDto.PaginatedTransactionResponse{
		Data: responses,
		Meta: commonDto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

func (s *ledgerService) AdjustPoints(ctx context.Context, req ledgerDto.AdjustPointsRequest) (int, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid user id", apperror.ErrInvalidInput)
	}
	if req.Amount == 0 {
		return 0, fmt.Errorf("%w: adjustment amount must not be zero", apperror.ErrInvalidInput)
	}

	if req.Amount > 0 {
		return s.Credit(ctx, userID, req.Amount, entity.KindAdjusted, entity.SourceAdminAdjustment, req.Description, nil)
	}
	return s.Debit(ctx, userID, -req.Amount, entity.SourceAdminAdjustment, req.Description, nil)
}
