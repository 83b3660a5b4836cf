package service_test

import (
	"context"
	"errors"
	"testing"

	"anoa.com/reviewrewards/internal/entity"
	ledgerDto "anoa.com/reviewrewards/internal/modules/ledger/dto"
	"anoa.com/reviewrewards/internal/modules/redemption/dto"
	"anoa.com/reviewrewards/internal/modules/redemption/service"
	"anoa.com/reviewrewards/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRedemptionRepository struct {
	createFn         func(ctx context.Context, req *entity.RedemptionRequest) error
	findByIDFn       func(ctx context.Context, id uuid.UUID) (*entity.RedemptionRequest, error)
	listFn           func(ctx context.Context, status string, limit, offset int) ([]entity.RedemptionRequest, int64, error)
	listByUserFn     func(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]entity.RedemptionRequest, int64, error)
	updateStatusIfFn func(ctx context.Context, id uuid.UUID, from, to entity.RedemptionStatus, notes string) (bool, error)
}

func (f *fakeRedemptionRepository) Create(ctx context.Context, req *entity.RedemptionRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return nil
}

func (f *fakeRedemptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RedemptionRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRedemptionRepository) List(ctx context.Context, status string, limit, offset int) ([]entity.RedemptionRequest, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, status, limit, offset)
	}
	return nil, 0, nil
}

func (f *fakeRedemptionRepository) ListByUser(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]entity.RedemptionRequest, int64, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID, status, limit, offset)
	}
	return nil, 0, nil
}

func (f *fakeRedemptionRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.RedemptionStatus, notes string) (bool, error) {
	if f.updateStatusIfFn != nil {
		return f.updateStatusIfFn(ctx, id, from, to, notes)
	}
	return true, nil
}

type fakeLedger struct {
	creditFn func(ctx context.Context, userID uuid.UUID, amount int, kind entity.TransactionKind, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error)
	debitFn  func(ctx context.Context, userID uuid.UUID, amount int, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error)
	refundFn func(ctx context.Context, userID uuid.UUID, amount int, description string, sourceID *uuid.UUID) (int, error)
}

func (f *fakeLedger) Credit(ctx context.Context, userID uuid.UUID, amount int, kind entity.TransactionKind, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error) {
	if f.creditFn != nil {
		return f.creditFn(ctx, userID, amount, kind, source, description, sourceID)
	}
	return 0, nil
}

func (f *fakeLedger) Debit(ctx context.Context, userID uuid.UUID, amount int, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error) {
	if f.debitFn != nil {
		return f.debitFn(ctx, userID, amount, source, description, sourceID)
	}
	return 0, nil
}

func (f *fakeLedger) Refund(ctx context.Context, userID uuid.UUID, amount int, description string, sourceID *uuid.UUID) (int, error) {
	if f.refundFn != nil {
		return f.refundFn(ctx, userID, amount, description, sourceID)
	}
	return 0, nil
}

func (f *fakeLedger) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	return 0, nil
}

func (f *fakeLedger) GetHistory(ctx context.Context, userID uuid.UUID, filter ledgerDto.HistoryFilter) (*ledgerDto.PaginatedTransactionResponse, error) {
	return &ledgerDto.PaginatedTransactionResponse{}, nil
}

func (f *fakeLedger) AdjustPoints(ctx context.Context, req ledgerDto.AdjustPointsRequest) (int, error) {
	return 0, nil
}

func cashRequest(amount int) dto.CreateRedemptionRequest {
	return dto.CreateRedemptionRequest{
		PointsAmount: amount,
		Type:         string(entity.RedemptionCash),
		PaymentDetails: dto.PaymentDetails{
			Cash: &dto.CashPaymentDetails{
				BankName:      "BCA",
				AccountNumber: "1234567890",
				AccountHolder: "Jane Doe",
			},
		},
	}
}

func TestCreateRequestDebitsBeforeInsert(t *testing.T) {
	userID := uuid.New()

	var debited int
	var debitedSourceID *uuid.UUID
	var created *entity.RedemptionRequest
	debitDone := false

	ledger := &fakeLedger{
		debitFn: func(ctx context.Context, uid uuid.UUID, amount int, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error) {
			debited = amount
			debitedSourceID = sourceID
			debitDone = true
			return 300, nil // 500 - 200
		},
	}
	repo := &fakeRedemptionRepository{
		createFn: func(ctx context.Context, req *entity.RedemptionRequest) error {
			if !debitDone {
				t.Error("expected the debit to land before the request row is inserted")
			}
			created = req
			return nil
		},
	}
	svc := service.NewRedemptionService(repo, ledger, nil)

	resp, err := svc.CreateRequest(context.Background(), userID, cashRequest(200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if debited != 200 {
		t.Errorf("expected debit of 200, got %d", debited)
	}
	if created == nil {
		t.Fatal("expected a request row to be created")
	}
	if created.Status != entity.RedemptionPending {
		t.Errorf("expected status PENDING, got %s", created.Status)
	}
	if debitedSourceID == nil || *debitedSourceID != created.ID {
		t.Errorf("expected debit source id %s, got %v", created.ID, debitedSourceID)
	}
	if resp.Status != entity.RedemptionPending {
		t.Errorf("expected response status PENDING, got %s", resp.Status)
	}
}

func TestCreateRequestPassesThroughInsufficientBalance(t *testing.T) {
	ledger := &fakeLedger{
		debitFn: func(ctx context.Context, uid uuid.UUID, amount int, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error) {
			return 0, apperror.ErrInsufficientBalance
		},
	}
	repo := &fakeRedemptionRepository{
		createFn: func(ctx context.Context, req *entity.RedemptionRequest) error {
			t.Error("no request row should be created when the debit fails")
			return nil
		},
	}
	svc := service.NewRedemptionService(repo, ledger, nil)

	_, err := svc.CreateRequest(context.Background(), uuid.New(), cashRequest(1000))
	if !errors.Is(err, apperror.ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestCreateRequestRefundsWhenInsertFails(t *testing.T) {
	userID := uuid.New()
	insertErr := errors.New("insert failed")

	refunds := 0
	ledger := &fakeLedger{
		refundFn: func(ctx context.Context, uid uuid.UUID, amount int, description string, sourceID *uuid.UUID) (int, error) {
			refunds++
			if uid != userID {
				t.Errorf("expected refund to user %s, got %s", userID, uid)
			}
			if amount != 200 {
				t.Errorf("expected refund of 200, got %d", amount)
			}
			return 500, nil
		},
	}
	repo := &fakeRedemptionRepository{
		createFn: func(ctx context.Context, req *entity.RedemptionRequest) error {
			return insertErr
		},
	}
	svc := service.NewRedemptionService(repo, ledger, nil)

	_, err := svc.CreateRequest(context.Background(), userID, cashRequest(200))
	if !errors.Is(err, insertErr) {
		t.Errorf("expected insert error to propagate, got %v", err)
	}
	if refunds != 1 {
		t.Errorf("expected exactly 1 compensating refund, got %d", refunds)
	}
}

func TestCreateRequestRejectsMismatchedPaymentDetails(t *testing.T) {
	req := cashRequest(100)
	req.Type = string(entity.RedemptionGiftVoucher)

	svc := service.NewRedemptionService(&fakeRedemptionRepository{}, &fakeLedger{}, nil)

	_, err := svc.CreateRequest(context.Background(), uuid.New(), req)
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRejectRefundsExactlyOnce(t *testing.T) {
	userID := uuid.New()
	request := &entity.RedemptionRequest{
		ID:           uuid.New(),
		UserID:       userID,
		PointsAmount: 200,
		Type:         entity.RedemptionCash,
		Status:       entity.RedemptionPending,
	}

	refunds := 0
	repo := &fakeRedemptionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.RedemptionRequest, error) {
			return request, nil
		},
		updateStatusIfFn: func(ctx context.Context, id uuid.UUID, from, to entity.RedemptionStatus, notes string) (bool, error) {
			if from == entity.RedemptionPending && to == entity.RedemptionRejected {
				if request.Status != entity.RedemptionPending {
					return false, nil
				}
				request.Status = entity.RedemptionRejected
				return true, nil
			}
			return false, nil
		},
	}
	ledger := &fakeLedger{
		refundFn: func(ctx context.Context, uid uuid.UUID, amount int, description string, sourceID *uuid.UUID) (int, error) {
			refunds++
			if amount != 200 {
				t.Errorf("expected refund of 200, got %d", amount)
			}
			if sourceID == nil || *sourceID != request.ID {
				t.Errorf("expected refund source id %s, got %v", request.ID, sourceID)
			}
			return 500, nil
		},
	}
	svc := service.NewRedemptionService(repo, ledger, nil)

	adminID := uuid.New()
	if err := svc.Reject(context.Background(), adminID, request.ID, "invalid account"); err != nil {
		t.Fatalf("first reject: unexpected error: %v", err)
	}
	if err := svc.Reject(context.Background(), adminID, request.ID, "again"); err != nil {
		t.Fatalf("second reject: unexpected error: %v", err)
	}
	if refunds != 1 {
		t.Errorf("expected exactly 1 refund, got %d", refunds)
	}
}

func TestRejectRevertsStatusWhenRefundFails(t *testing.T) {
	request := &entity.RedemptionRequest{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		PointsAmount: 200,
		Status:       entity.RedemptionPending,
	}

	var reverted bool
	repo := &fakeRedemptionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.RedemptionRequest, error) {
			return request, nil
		},
		updateStatusIfFn: func(ctx context.Context, id uuid.UUID, from, to entity.RedemptionStatus, notes string) (bool, error) {
			if from == entity.RedemptionRejected && to == entity.RedemptionPending {
				reverted = true
			}
			return true, nil
		},
	}
	refundErr := errors.New("ledger unavailable")
	ledger := &fakeLedger{
		refundFn: func(ctx context.Context, uid uuid.UUID, amount int, description string, sourceID *uuid.UUID) (int, error) {
			return 0, refundErr
		},
	}
	svc := service.NewRedemptionService(repo, ledger, nil)

	err := svc.Reject(context.Background(), uuid.New(), request.ID, "")
	if !errors.Is(err, refundErr) {
		t.Errorf("expected refund error to propagate, got %v", err)
	}
	if !reverted {
		t.Error("expected request to revert to PENDING after refund failure")
	}
}

func TestApproveTouchesNoBalance(t *testing.T) {
	request := &entity.RedemptionRequest{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		PointsAmount: 200,
		Status:       entity.RedemptionPending,
	}

	repo := &fakeRedemptionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.RedemptionRequest, error) {
			return request, nil
		},
		updateStatusIfFn: func(ctx context.Context, id uuid.UUID, from, to entity.RedemptionStatus, notes string) (bool, error) {
			request.Status = to
			return true, nil
		},
	}
	ledger := &fakeLedger{
		creditFn: func(ctx context.Context, uid uuid.UUID, amount int, kind entity.TransactionKind, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error) {
			t.Error("approval must not credit")
			return 0, nil
		},
		debitFn: func(ctx context.Context, uid uuid.UUID, amount int, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error) {
			t.Error("approval must not debit")
			return 0, nil
		},
		refundFn: func(ctx context.Context, uid uuid.UUID, amount int, description string, sourceID *uuid.UUID) (int, error) {
			t.Error("approval must not refund")
			return 0, nil
		},
	}
	svc := service.NewRedemptionService(repo, ledger, nil)

	if err := svc.Approve(context.Background(), uuid.New(), request.ID, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.Status != entity.RedemptionApproved {
		t.Errorf("expected status APPROVED, got %s", request.Status)
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	request := &entity.RedemptionRequest{
		ID:     uuid.New(),
		Status: entity.RedemptionApproved,
	}
	repo := &fakeRedemptionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.RedemptionRequest, error) {
			return request, nil
		},
		updateStatusIfFn: func(ctx context.Context, id uuid.UUID, from, to entity.RedemptionStatus, notes string) (bool, error) {
			t.Error("no transition should be attempted for an already approved request")
			return false, nil
		},
	}
	svc := service.NewRedemptionService(repo, &fakeLedger{}, nil)

	if err := svc.Approve(context.Background(), uuid.New(), request.ID, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApproveRejectedRequestConflicts(t *testing.T) {
	request := &entity.RedemptionRequest{
		ID:     uuid.New(),
		Status: entity.RedemptionRejected,
	}
	repo := &fakeRedemptionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.RedemptionRequest, error) {
			return request, nil
		},
	}
	svc := service.NewRedemptionService(repo, &fakeLedger{}, nil)

	err := svc.Approve(context.Background(), uuid.New(), request.ID, "")
	if !errors.Is(err, apperror.ErrAlreadyProcessed) {
		t.Errorf("expected ErrAlreadyProcessed, got %v", err)
	}
}

func TestGetRequestEnforcesOwnership(t *testing.T) {
	owner := uuid.New()
	request := &entity.RedemptionRequest{
		ID:     uuid.New(),
		UserID: owner,
		Status: entity.RedemptionPending,
	}
	repo := &fakeRedemptionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.RedemptionRequest, error) {
			return request, nil
		},
	}
	svc := service.NewRedemptionService(repo, &fakeLedger{}, nil)

	if _, err := svc.GetRequest(context.Background(), owner, request.ID, false); err != nil {
		t.Errorf("owner should see their own request, got %v", err)
	}

	_, err := svc.GetRequest(context.Background(), uuid.New(), request.ID, false)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("expected ErrForbidden for another user, got %v", err)
	}

	if _, err := svc.GetRequest(context.Background(), uuid.New(), request.ID, true); err != nil {
		t.Errorf("admin should see any request, got %v", err)
	}
}

func TestPaymentDetailsMatches(t *testing.T) {
	cash := &dto.CashPaymentDetails{BankName: "BCA", AccountNumber: "123", AccountHolder: "Jane"}
	voucher := &dto.VoucherPaymentDetails{Provider: "amazon", Email: "jane@example.com"}

	cases := []struct {
		name           string
		details        dto.PaymentDetails
		redemptionType entity.RedemptionType
		want           bool
	}{
		{"cash for cash", dto.PaymentDetails{Cash: cash}, entity.RedemptionCash, true},
		{"voucher for voucher", dto.PaymentDetails{Voucher: voucher}, entity.RedemptionGiftVoucher, true},
		{"cash for voucher", dto.PaymentDetails{Cash: cash}, entity.RedemptionGiftVoucher, false},
		{"empty details", dto.PaymentDetails{}, entity.RedemptionCash, false},
		{"both set", dto.PaymentDetails{Cash: cash, Voucher: voucher}, entity.RedemptionCash, false},
	}

	for _, tc := range cases {
		if got := tc.details.Matches(tc.redemptionType); got != tc.want {
			t.Errorf("%s: Matches() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
