package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"anoa.com/reviewrewards/internal/entity"
	ledgerService "anoa.com/reviewrewards/internal/modules/ledger/service"
	notifService "anoa.com/reviewrewards/internal/modules/notification/service"
	"anoa.com/reviewrewards/internal/modules/redemption/dto"
	redemptionRepo "anoa.com/reviewrewards/internal/modules/redemption/repository"
	"anoa.com/reviewrewards/pkg/apperror"
	commonDto "anoa.com/reviewrewards/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultListLimit = 20

type RedemptionService interface {
	CreateRequest(ctx context.Context, userID uuid.UUID, req dto.CreateRedemptionRequest) (*dto.RedemptionResponse, error)
	Approve(ctx context.Context, adminID, requestID uuid.UUID, notes string) error
	Reject(ctx context.Context, adminID, requestID uuid.UUID, notes string) error
	GetRequest(ctx context.Context, requesterID, requestID uuid.UUID, isAdmin bool) (*dto.RedemptionResponse, error)
	List(ctx context.Context, filter dto.RedemptionFilter) (*dto.PaginatedRedemptionResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, filter dto.RedemptionFilter) (*dto.PaginatedRedemptionResponse, error)
}

type redemptionService struct {
	repo          redemptionRepo.RedemptionRepository
	ledger        ledgerService.LedgerService
	notifications notifService.NotificationService
}

func NewRedemptionService(
	repo redemptionRepo.RedemptionRepository,
	ledger ledgerService.LedgerService,
	notifications notifService.NotificationService,
) RedemptionService {
	return &redemptionService{repo: repo, ledger: ledger, notifications: notifications}
}

// CreateRequest reserves the points immediately: the debit lands before the
// request row exists, so a PENDING request never represents unspent balance.
// The request ID is generated up front so the debit can reference it.
func (s *redemptionService) CreateRequest(ctx context.Context, userID uuid.UUID, req dto.CreateRedemptionRequest) (*dto.RedemptionResponse, error) {
	redemptionType := entity.RedemptionType(req.Type)
	if !req.PaymentDetails.Matches(redemptionType) {
		return nil, fmt.Errorf("%w: payment details do not match redemption type %s", apperror.ErrInvalidInput, req.Type)
	}

	details, err := json.Marshal(req.PaymentDetails)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrInvalidInput, err)
	}

	requestID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Redemption request (%s)", req.Type)
	if _, err := s.ledger.Debit(ctx, userID, req.PointsAmount, entity.SourceRedemption, description, &requestID); err != nil {
		return nil, err
	}

	request := &entity.RedemptionRequest{
		ID:             requestID,
		UserID:         userID,
		PointsAmount:   req.PointsAmount,
		Type:           redemptionType,
		PaymentDetails: string(details),
		Status:         entity.RedemptionPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		// The debit already landed; give the points back so the user is whole.
		if _, refundErr := s.ledger.Refund(ctx, userID, req.PointsAmount, "Refund: failed to record redemption request", &requestID); refundErr != nil {
			log.Printf("CRITICAL: refund after failed redemption insert %s: %v", requestID, refundErr)
		}
		return nil, err
	}

	return toRedemptionResponse(request), nil
}

// Approve transitions PENDING -> APPROVED. The points were already debited at
// creation, so approval touches no balance.
func (s *redemptionService) Approve(ctx context.Context, adminID, requestID uuid.UUID, notes string) error {
	request, err := s.findRequest(ctx, requestID)
	if err != nil {
		return err
	}

	if request.Status == entity.RedemptionApproved {
		return nil // idempotent
	}
	if request.Status != entity.RedemptionPending {
		return fmt.Errorf("%w: request is %s", apperror.ErrAlreadyProcessed, request.Status)
	}

	won, err := s.repo.UpdateStatusIf(ctx, requestID, entity.RedemptionPending, entity.RedemptionApproved, notes)
	if err != nil {
		return err
	}
	if !won {
		current, err := s.findRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if current.Status == entity.RedemptionApproved {
			return nil
		}
		return fmt.Errorf("%w: request is %s", apperror.ErrAlreadyProcessed, current.Status)
	}

	s.notify(ctx, request.UserID, adminID, request.ID, "redemption_approved",
		fmt.Sprintf("Your redemption of %d points was approved.", request.PointsAmount))

	return nil
}

// Reject transitions PENDING -> REJECTED and refunds the reserved points. The
// conditional transition guarantees a single winner, so the refund happens
// exactly once. A failed refund reverts the status so a retry can refund.
func (s *redemptionService) Reject(ctx context.Context, adminID, requestID uuid.UUID, notes string) error {
	request, err := s.findRequest(ctx, requestID)
	if err != nil {
		return err
	}

	if request.Status == entity.RedemptionRejected {
		return nil // idempotent: already refunded
	}
	if request.Status != entity.RedemptionPending {
		return fmt.Errorf("%w: request is %s", apperror.ErrAlreadyProcessed, request.Status)
	}

	won, err := s.repo.UpdateStatusIf(ctx, requestID, entity.RedemptionPending, entity.RedemptionRejected, notes)
	if err != nil {
		return err
	}
	if !won {
		current, err := s.findRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if current.Status == entity.RedemptionRejected {
			return nil // concurrent admin won and refunded
		}
		return fmt.Errorf("%w: request is %s", apperror.ErrAlreadyProcessed, current.Status)
	}

	description := fmt.Sprintf("Refund for rejected redemption (%s)", request.Type)
	if _, err := s.ledger.Refund(ctx, request.UserID, request.PointsAmount, description, &request.ID); err != nil {
		// Revert so the rejection can be retried and refund again.
		if _, revertErr := s.repo.UpdateStatusIf(ctx, requestID, entity.RedemptionRejected, entity.RedemptionPending, ""); revertErr != nil {
			log.Printf("failed to revert redemption %s after refund failure: %v", requestID, revertErr)
		}
		return err
	}

	message := fmt.Sprintf("Your redemption of %d points was rejected and the points were returned.", request.PointsAmount)
	if notes != "" {
		message = fmt.Sprintf("%s Reason: %s", message, notes)
	}
	s.notify(ctx, request.UserID, adminID, request.ID, "redemption_rejected", message)

	return nil
}

func (s *redemptionService) GetRequest(ctx context.Context, requesterID, requestID uuid.UUID, isAdmin bool) (*dto.RedemptionResponse, error) {
	request, err := s.findRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && request.UserID != requesterID {
		return nil, apperror.ErrForbidden
	}
	return toRedemptionResponse(request), nil
}

func (s *redemptionService) List(ctx context.Context, filter dto.RedemptionFilter) (*dto.PaginatedRedemptionResponse, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	requests, total, err := s.repo.List(ctx, filter.Status, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return toPaginatedRedemptions(requests, page, limit, total), nil
}

func (s *redemptionService) ListMine(ctx context.Context, userID uuid.UUID, filter dto.RedemptionFilter) (*dto.PaginatedRedemptionResponse, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	requests, total, err := s.repo.ListByUser(ctx, userID, filter.Status, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return toPaginatedRedemptions(requests, page, limit, total), nil
}

func (s *redemptionService) findRequest(ctx context.Context, requestID uuid.UUID) (*entity.RedemptionRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *redemptionService) notify(ctx context.Context, userID, actorID, entityID uuid.UUID, notifType, message string) {
	if s.notifications == nil {
		return
	}

	aid := actorID
	notification := &entity.Notification{
		UserID:     userID,
		ActorID:    &aid,
		EntityID:   entityID,
		EntityType: "redemption",
		Type:       notifType,
		Message:    message,
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to send %s notification to user %s: %v", notifType, userID, err)
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultListLimit
	}
	return page, limit
}

func toRedemptionResponse(r *entity.RedemptionRequest) *dto.RedemptionResponse {
	return &dto.RedemptionResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		Username:       r.User.Username,
		PointsAmount:   r.PointsAmount,
		Type:           r.Type,
		PaymentDetails: r.PaymentDetails,
		Status:         r.Status,
		AdminNotes:     r.AdminNotes,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
	}
}

func toPaginatedRedemptions(requests []entity.RedemptionRequest, page, limit int, total int64) *dto.PaginatedRedemptionResponse {
	responses := make([]dto.RedemptionResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *toRedemptionResponse(&requests[i]))
	}
	return &dto.PaginatedRedemptionResponse{
		Data: responses,
		Meta: commonDto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			TotalItems:  total,
			Limit:       limit,
		},
	}
}
