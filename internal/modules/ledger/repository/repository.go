package repository

import (
	"context"

	"anoa.com/reviewrewards/internal/entity"
	"anoa.com/reviewrewards/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LedgerRepository interface {
	// ApplyChange atomically applies txn.Amount to the user's balance and
	// appends the transaction row. The balance update is guarded so a debit
	// can never take the balance negative. Returns the new balance.
	ApplyChange(ctx context.Context, txn *entity.PointTransaction) (int, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	SumAmounts(ctx context.Context, userID uuid.UUID) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.PointTransaction, int64, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) ApplyChange(ctx context.Context, txn *entity.PointTransaction) (int, error) {
	var newBalance int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Single guarded statement: the WHERE clause makes the balance check
		// and the update one atomic operation, so concurrent debits cannot
		// race the balance below zero.
		res := tx.Model(&entity.Profile{}).
			Where("user_id = ? AND points + ? >= 0", txn.UserID, txn.Amount).
			UpdateColumn("points", gorm.Expr("points + ?", txn.Amount))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Distinguish a missing profile from a rejected debit.
			var count int64
			if err := tx.Model(&entity.Profile{}).
				Where("user_id = ?", txn.UserID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return apperror.ErrNotFound
			}
			return apperror.ErrInsufficientBalance
		}

		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		var profile entity.Profile
		if err := tx.Select("points").
			First(&profile, "user_id = ?", txn.UserID).Error; err != nil {
			return err
		}
		newBalance = profile.Points
		return nil
	})
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}

func (r *ledgerRepository) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).Select("points").
		First(&profile, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, apperror.ErrNotFound
		}
		return 0, err
	}
	return profile.Points, nil
}

func (r *ledgerRepository) SumAmounts(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.PointTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *ledgerRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.PointTransaction, int64, error) {
	var transactions []entity.PointTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PointTransaction{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}
