package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/reviewrewards/internal/entity"
	ledgerDto "anoa.com/reviewrewards/internal/modules/ledger/dto"
	"anoa.com/reviewrewards/internal/modules/mission/dto"
	"anoa.com/reviewrewards/internal/modules/mission/service"
	"anoa.com/reviewrewards/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeMissionRepository struct {
	createFn                  func(ctx context.Context, mission *entity.Mission) error
	updateFn                  func(ctx context.Context, mission *entity.Mission) error
	deleteFn                  func(ctx context.Context, id uuid.UUID) error
	findByIDFn                func(ctx context.Context, id uuid.UUID) (*entity.Mission, error)
	findAllFn                 func(ctx context.Context, status, missionType, search string, limit, offset int) ([]entity.Mission, int64, error)
	createParticipationFn     func(ctx context.Context, p *entity.MissionParticipation) error
	findParticipationByIDFn   func(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error)
	findJoinedFn              func(ctx context.Context, missionID, userID uuid.UUID) (*entity.MissionParticipation, error)
	countSubmittedFn          func(ctx context.Context, missionID uuid.UUID) (int64, error)
	countSubmittedByUserFn    func(ctx context.Context, missionID, userID uuid.UUID) (int64, error)
	countEngagedByUserFn      func(ctx context.Context, missionID, userID uuid.UUID) (int64, error)
	updateStatusIfFn          func(ctx context.Context, id uuid.UUID, from, to entity.ParticipationStatus, notes string) (bool, error)
	submitJoinedFn            func(ctx context.Context, id uuid.UUID, data string) (bool, error)
	listParticipationsFn      func(ctx context.Context, status string, limit, offset int) ([]entity.MissionParticipation, int64, error)
	listParticipationsByUsrFn func(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]entity.MissionParticipation, int64, error)
}

func (f *fakeMissionRepository) Create(ctx context.Context, mission *entity.Mission) error {
	if f.createFn != nil {
		return f.createFn(ctx, mission)
	}
	return nil
}

func (f *fakeMissionRepository) Update(ctx context.Context, mission *entity.Mission) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, mission)
	}
	return nil
}

func (f *fakeMissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeMissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMissionRepository) FindAll(ctx context.Context, status, missionType, search string, limit, offset int) ([]entity.Mission, int64, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, status, missionType, search, limit, offset)
	}
	return nil, 0, nil
}

func (f *fakeMissionRepository) CreateParticipation(ctx context.Context, p *entity.MissionParticipation) error {
	if f.createParticipationFn != nil {
		return f.createParticipationFn(ctx, p)
	}
	return nil
}

func (f *fakeMissionRepository) FindParticipationByID(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error) {
	if f.findParticipationByIDFn != nil {
		return f.findParticipationByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMissionRepository) FindJoined(ctx context.Context, missionID, userID uuid.UUID) (*entity.MissionParticipation, error) {
	if f.findJoinedFn != nil {
		return f.findJoinedFn(ctx, missionID, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMissionRepository) CountSubmitted(ctx context.Context, missionID uuid.UUID) (int64, error) {
	if f.countSubmittedFn != nil {
		return f.countSubmittedFn(ctx, missionID)
	}
	return 0, nil
}

func (f *fakeMissionRepository) CountSubmittedByUser(ctx context.Context, missionID, userID uuid.UUID) (int64, error) {
	if f.countSubmittedByUserFn != nil {
		return f.countSubmittedByUserFn(ctx, missionID, userID)
	}
	return 0, nil
}

func (f *fakeMissionRepository) CountEngagedByUser(ctx context.Context, missionID, userID uuid.UUID) (int64, error) {
	if f.countEngagedByUserFn != nil {
		return f.countEngagedByUserFn(ctx, missionID, userID)
	}
	return 0, nil
}

func (f *fakeMissionRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.ParticipationStatus, notes string) (bool, error) {
	if f.updateStatusIfFn != nil {
		return f.updateStatusIfFn(ctx, id, from, to, notes)
	}
	return true, nil
}

func (f *fakeMissionRepository) SubmitJoined(ctx context.Context, id uuid.UUID, data string) (bool, error) {
	if f.submitJoinedFn != nil {
		return f.submitJoinedFn(ctx, id, data)
	}
	return true, nil
}

func (f *fakeMissionRepository) ListParticipations(ctx context.Context, status string, limit, offset int) ([]entity.MissionParticipation, int64, error) {
	if f.listParticipationsFn != nil {
		return f.listParticipationsFn(ctx, status, limit, offset)
	}
	return nil, 0, nil
}

func (f *fakeMissionRepository) ListParticipationsByUser(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]entity.MissionParticipation, int64, error) {
	if f.listParticipationsByUsrFn != nil {
		return f.listParticipationsByUsrFn(ctx, userID, status, limit, offset)
	}
	return nil, 0, nil
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

func activeMission(missionType entity.MissionType, reward int) *entity.Mission {
	return &entity.Mission{
		ID:                    uuid.New(),
		Title:                 "Write a product review",
		PointsReward:          reward,
		Type:                  missionType,
		Status:                entity.MissionStatusActive,
		StartDate:             time.Now().Add(-time.Hour),
		MaxSubmissionsPerUser: 1,
	}
}

func reviewPayload() dto.SubmitRequest {
	return dto.SubmitRequest{
		Payload: dto.SubmissionPayload{
			Review: &dto.ReviewSubmission{
				ProductName: "Coffee Maker",
				Rating:      5,
				Content:     "Great machine.",
			},
		},
	}
}

func TestSubmitCreatesPendingParticipation(t *testing.T) {
	mission := activeMission(entity.MissionTypeReview, 100)

	var created *entity.MissionParticipation
	repo := &fakeMissionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
			return mission, nil
		},
		createParticipationFn: func(ctx context.Context, p *entity.MissionParticipation) error {
			created = p
			return nil
		},
	}
	svc := service.NewMissionService(repo, &fakeLedger{}, nil, nil, nil)

	resp, err := svc.Submit(context.Background(), uuid.New(), mission.ID, reviewPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected a participation to be created")
	}
	if created.Status != entity.ParticipationPending {
		t.Errorf("expected status PENDING, got %s", created.Status)
	}
	if created.SubmissionData == "" {
		t.Error("expected submission data to be recorded")
	}
	if resp.Status != entity.ParticipationPending {
		t.Errorf("expected response status PENDING, got %s", resp.Status)
	}
}

func TestSubmitRejectsInactiveMission(t *testing.T) {
	expired := activeMission(entity.MissionTypeReview, 100)
	past := time.Now().Add(-time.Minute)
	expired.ExpiresAt = &past

	draft := activeMission(entity.MissionTypeReview, 100)
	draft.Status = entity.MissionStatusDraft
	draft.ExpiresAt = nil

	notStarted := activeMission(entity.MissionTypeReview, 100)
	notStarted.StartDate = time.Now().Add(time.Hour)

	for name, mission := range map[string]*entity.Mission{
		"expired":     expired,
		"draft":       draft,
		"not started": notStarted,
	} {
		repo := &fakeMissionRepository{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
				return mission, nil
			},
		}
		svc := service.NewMissionService(repo, &fakeLedger{}, nil, nil, nil)

		_, err := svc.Submit(context.Background(), uuid.New(), mission.ID, reviewPayload())
		if !errors.Is(err, apperror.ErrMissionInactive) {
			t.Errorf("%s mission: expected ErrMissionInactive, got %v", name, err)
		}
	}
}

func TestSubmitRejectsPayloadTypeMismatch(t *testing.T) {
	mission := activeMission(entity.MissionTypeReceipt, 100)
	repo := &fakeMissionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
			return mission, nil
		},
	}
	svc := service.NewMissionService(repo, &fakeLedger{}, nil, nil, nil)

	_, err := svc.Submit(context.Background(), uuid.New(), mission.ID, reviewPayload())
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSubmitEnforcesPerUserQuota(t *testing.T) {
	mission := activeMission(entity.MissionTypeReview, 100)
	mission.MaxSubmissionsPerUser = 2

	repo := &fakeMissionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
			return mission, nil
		},
		countSubmittedByUserFn: func(ctx context.Context, missionID, userID uuid.UUID) (int64, error) {
			return 2, nil
		},
	}
	svc := service.NewMissionService(repo, &fakeLedger{}, nil, nil, nil)

	_, err := svc.Submit(context.Background(), uuid.New(), mission.ID, reviewPayload())
	if !errors.Is(err, apperror.ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestSubmitEnforcesGlobalQuota(t *testing.T) {
	mission := activeMission(entity.MissionTypeReview, 100)
	total := 10
	mission.TotalMaxSubmissions = &total

	repo := &fakeMissionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
			return mission, nil
		},
		countSubmittedFn: func(ctx context.Context, missionID uuid.UUID) (int64, error) {
			return 10, nil
		},
	}
	svc := service.NewMissionService(repo, &fakeLedger{}, nil, nil, nil)

	_, err := svc.Submit(context.Background(), uuid.New(), mission.ID, reviewPayload())
	if !errors.Is(err, apperror.ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestSubmitSocialProofRequiresJoin(t *testing.T) {
	mission := activeMission(entity.MissionTypeSocialProof, 50)
	repo := &fakeMissionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
			return mission, nil
		},
	}
	svc := service.NewMissionService(repo, &fakeLedger{}, nil, nil, nil)

	req := dto.SubmitRequest{
		Payload: dto.SubmissionPayload{
			SocialProof: &dto.SocialProofSubmission{
				Platform: "instagram",
				PostURL:  "https://instagram.com/p/abc",
			},
		},
	}

	_, err := svc.Submit(context.Background(), uuid.New(), mission.ID, req)
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
}

func TestSubmitSocialProofMovesJoinedToPending(t *testing.T) {
	mission := activeMission(entity.MissionTypeSocialProof, 50)
	userID := uuid.New()
	joined := &entity.MissionParticipation{
		ID:        uuid.New(),
		MissionID: mission.ID,
		UserID:    userID,
		Status:    entity.ParticipationJoined,
	}

	var submitted bool
	repo := &fakeMissionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
			return mission, nil
		},
		findJoinedFn: func(ctx context.Context, missionID, uid uuid.UUID) (*entity.MissionParticipation, error) {
			return joined, nil
		},
		submitJoinedFn: func(ctx context.Context, id uuid.UUID, data string) (bool, error) {
			if id != joined.ID {
				t.Errorf("expected submit for joined row %s, got %s", joined.ID, id)
			}
			submitted = true
			return true, nil
		},
		findParticipationByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error) {
			return &entity.MissionParticipation{
				ID:        joined.ID,
				MissionID: mission.ID,
				UserID:    userID,
				Status:    entity.ParticipationPending,
				Mission:   *mission,
			}, nil
		},
	}
	svc := service.NewMissionService(repo, &fakeLedger{}, nil, nil, nil)

	req := dto.SubmitRequest{
		Payload: dto.SubmissionPayload{
			SocialProof: &dto.SocialProofSubmission{
				Platform: "instagram",
				PostURL:  "https://instagram.com/p/abc",
			},
		},
	}

	resp, err := svc.Submit(context.Background(), userID, mission.ID, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !submitted {
		t.Error("expected the joined row to be submitted")
	}
	if resp.Status != entity.ParticipationPending {
		t.Errorf("expected status PENDING, got %s", resp.Status)
	}
}

func TestJoinOnlyForSocialProofMissions(t *testing.T) {
	mission := activeMission(entity.MissionTypeReview, 100)
	repo := &fakeMissionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
			return mission, nil
		},
	}
	svc := service.NewMissionService(repo, &fakeLedger{}, nil, nil, nil)

	_, err := svc.Join(context.Background(), uuid.New(), mission.ID)
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
}

func TestApproveCreditsExactlyOnce(t *testing.T) {
	mission := activeMission(entity.MissionTypeReview, 150)
	participation := &entity.MissionParticipation{
		ID:        uuid.New(),
		MissionID: mission.ID,
		UserID:    uuid.New(),
		Status:    entity.ParticipationPending,
		Mission:   *mission,
	}

	creditCalls := 0
	repo := &fakeMissionRepository{
		findParticipationByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error) {
			return participation, nil
		},
		updateStatusIfFn: func(ctx context.Context, id uuid.UUID, from, to entity.ParticipationStatus, notes string) (bool, error) {
			if from == entity.ParticipationPending && to == entity.ParticipationApproved {
				if participation.Status != entity.ParticipationPending {
					return false, nil
				}
				participation.Status = entity.ParticipationApproved
				return true, nil
			}
			return false, nil
		},
	}
	ledger := &fakeLedger{
		creditFn: func(ctx context.Context, userID uuid.UUID, amount int, kind entity.TransactionKind, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error) {
			creditCalls++
			if amount != 150 {
				t.Errorf("expected credit of 150, got %d", amount)
			}
			if kind != entity.KindEarned {
				t.Errorf("expected kind EARNED, got %s", kind)
			}
			if source != entity.SourceMissionReview {
				t.Errorf("expected source MISSION_REVIEW, got %s", source)
			}
			if sourceID == nil || *sourceID != participation.ID {
				t.Errorf("expected source id %s, got %v", participation.ID, sourceID)
			}
			return 150, nil
		},
	}
	svc := service.NewMissionService(repo, ledger, nil, nil, nil)

	adminID := uuid.New()
	if err := svc.Approve(context.Background(), adminID, participation.ID, "looks good"); err != nil {
		t.Fatalf("first approve: unexpected error: %v", err)
	}
	if err := svc.Approve(context.Background(), adminID, participation.ID, "again"); err != nil {
		t.Fatalf("second approve: unexpected error: %v", err)
	}
	if creditCalls != 1 {
		t.Errorf("expected exactly 1 credit, got %d", creditCalls)
	}
}

func TestApproveReceiptMissionUsesReceiptSource(t *testing.T) {
	mission := activeMission(entity.MissionTypeReceipt, 80)
	participation := &entity.MissionParticipation{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Status:  entity.ParticipationPending,
		Mission: *mission,
	}

	var gotSource entity.TransactionSource
	repo := &fakeMissionRepository{
		findParticipationByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error) {
			return participation, nil
		},
	}
	ledger := &fakeLedger{
		creditFn: func(ctx context.Context, userID uuid.UUID, amount int, kind entity.TransactionKind, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error) {
			gotSource = source
			return 80, nil
		},
	}
	svc := service.NewMissionService(repo, ledger, nil, nil, nil)

	if err := svc.Approve(context.Background(), uuid.New(), participation.ID, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSource != entity.SourceReceiptSubmission {
		t.Errorf("expected source RECEIPT_SUBMISSION, got %s", gotSource)
	}
}

func TestApproveRejectedParticipationConflicts(t *testing.T) {
	participation := &entity.MissionParticipation{
		ID:     uuid.New(),
		Status: entity.ParticipationRejected,
	}
	repo := &fakeMissionRepository{
		findParticipationByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error) {
			return participation, nil
		},
	}
	creditCalls := 0
	ledger := &fakeLedger{
		creditFn: func(ctx context.Context, userID uuid.UUID, amount int, kind entity.TransactionKind, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error) {
			creditCalls++
			return 0, nil
		},
	}
	svc := service.NewMissionService(repo, ledger, nil, nil, nil)

	err := svc.Approve(context.Background(), uuid.New(), participation.ID, "")
	if !errors.Is(err, apperror.ErrAlreadyProcessed) {
		t.Errorf("expected ErrAlreadyProcessed, got %v", err)
	}
	if creditCalls != 0 {
		t.Errorf("expected no credit, got %d", creditCalls)
	}
}

func TestApproveLostRaceToConcurrentApprovalIsIdempotent(t *testing.T) {
	// This admin reads PENDING, but another admin wins the conditional update.
	// The refetch sees APPROVED, so the call succeeds without crediting.
	participation := &entity.MissionParticipation{
		ID:     uuid.New(),
		Status: entity.ParticipationPending,
	}

	firstFetch := true
	repo := &fakeMissionRepository{
		findParticipationByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error) {
			if firstFetch {
				firstFetch = false
				return participation, nil
			}
			return &entity.MissionParticipation{ID: participation.ID, Status: entity.ParticipationApproved}, nil
		},
		updateStatusIfFn: func(ctx context.Context, id uuid.UUID, from, to entity.ParticipationStatus, notes string) (bool, error) {
			return false, nil
		},
	}
	creditCalls := 0
	ledger := &fakeLedger{
		creditFn: func(ctx context.Context, userID uuid.UUID, amount int, kind entity.TransactionKind, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error) {
			creditCalls++
			return 0, nil
		},
	}
	svc := service.NewMissionService(repo, ledger, nil, nil, nil)

	if err := svc.Approve(context.Background(), uuid.New(), participation.ID, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creditCalls != 0 {
		t.Errorf("expected no credit from the losing admin, got %d", creditCalls)
	}
}

func TestApproveRevertsStatusWhenCreditFails(t *testing.T) {
	mission := activeMission(entity.MissionTypeReview, 100)
	participation := &entity.MissionParticipation{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Status:  entity.ParticipationPending,
		Mission: *mission,
	}

	var reverted bool
	repo := &fakeMissionRepository{
		findParticipationByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error) {
			return participation, nil
		},
		updateStatusIfFn: func(ctx context.Context, id uuid.UUID, from, to entity.ParticipationStatus, notes string) (bool, error) {
			if from == entity.ParticipationApproved && to == entity.ParticipationPending {
				reverted = true
			}
			return true, nil
		},
	}
	ledgerErr := errors.New("ledger unavailable")
	ledger := &fakeLedger{
		creditFn: func(ctx context.Context, userID uuid.UUID, amount int, kind entity.TransactionKind, source entity.TransactionSource, description string, sourceID *uuid.UUID) (int, error) {
			return 0, ledgerErr
		},
	}
	svc := service.NewMissionService(repo, ledger, nil, nil, nil)

	err := svc.Approve(context.Background(), uuid.New(), participation.ID, "")
	if !errors.Is(err, ledgerErr) {
		t.Errorf("expected credit error to propagate, got %v", err)
	}
	if !reverted {
		t.Error("expected participation to revert to PENDING after credit failure")
	}
}

func TestRejectIsIdempotent(t *testing.T) {
	participation := &entity.MissionParticipation{
		ID:     uuid.New(),
		Status: entity.ParticipationRejected,
	}
	repo := &fakeMissionRepository{
		findParticipationByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error) {
			return participation, nil
		},
		updateStatusIfFn: func(ctx context.Context, id uuid.UUID, from, to entity.ParticipationStatus, notes string) (bool, error) {
			t.Error("no transition should be attempted for an already rejected participation")
			return false, nil
		},
	}
	svc := service.NewMissionService(repo, &fakeLedger{}, nil, nil, nil)

	if err := svc.Reject(context.Background(), uuid.New(), participation.ID, "spam"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteMissionOnlyDrafts(t *testing.T) {
	mission := activeMission(entity.MissionTypeReview, 100)
	repo := &fakeMissionRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
			return mission, nil
		},
	}
	svc := service.NewMissionService(repo, &fakeLedger{}, nil, nil, nil)

	err := svc.DeleteMission(context.Background(), mission.ID)
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest for active mission, got %v", err)
	}
}

func TestSubmissionPayloadMatches(t *testing.T) {
	review := &dto.ReviewSubmission{ProductName: "x", Rating: 4, Content: "ok"}
	receipt := &dto.ReceiptSubmission{StoreName: "store", PurchaseDate: "2026-08-01"}
	proof := &dto.SocialProofSubmission{Platform: "x", PostURL: "https://example.com/p/1"}

	cases := []struct {
		name        string
		payload     dto.SubmissionPayload
		missionType entity.MissionType
		want        bool
	}{
		{"review for review mission", dto.SubmissionPayload{Review: review}, entity.MissionTypeReview, true},
		{"receipt for receipt mission", dto.SubmissionPayload{Receipt: receipt}, entity.MissionTypeReceipt, true},
		{"proof for social mission", dto.SubmissionPayload{SocialProof: proof}, entity.MissionTypeSocialProof, true},
		{"review for receipt mission", dto.SubmissionPayload{Review: review}, entity.MissionTypeReceipt, false},
		{"empty payload", dto.SubmissionPayload{}, entity.MissionTypeReview, false},
		{"two variants set", dto.SubmissionPayload{Review: review, Receipt: receipt}, entity.MissionTypeReview, false},
	}

	for _, tc := range cases {
		if got := tc.payload.Matches(tc.missionType); got != tc.want {
			t.Errorf("%s: Matches() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
