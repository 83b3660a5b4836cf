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
	attachmentRepo "anoa.com/reviewrewards/internal/modules/attachment/repository"
	ledgerService "anoa.com/reviewrewards/internal/modules/ledger/service"
	"anoa.com/reviewrewards/internal/modules/mission/dto"
	missionRepo "anoa.com/reviewrewards/internal/modules/mission/repository"
	notifService "anoa.com/reviewrewards/internal/modules/notification/service"
	searchService "anoa.com/reviewrewards/internal/modules/search/service"
	"anoa.com/reviewrewards/pkg/apperror"
	commonDto "anoa.com/reviewrewards/pkg/dto"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const DefaultListLimit = 20

type MissionService interface {
	CreateMission(ctx context.Context, req dto.CreateMissionRequest) (*dto.MissionResponse, error)
	UpdateMission(ctx context.Context, id uuid.UUID, req dto.UpdateMissionRequest) (*dto.MissionResponse, error)
	DeleteMission(ctx context.Context, id uuid.UUID) error
	GetMission(ctx context.Context, id uuid.UUID) (*dto.MissionResponse, error)
	ListMissions(ctx context.Context, filter dto.MissionFilter) (*dto.PaginatedMissionResponse, error)

	Join(ctx context.Context, userID, missionID uuid.UUID) (*dto.ParticipationResponse, error)
	Submit(ctx context.Context, userID, missionID uuid.UUID, req dto.SubmitRequest) (*dto.ParticipationResponse, error)
	Approve(ctx context.Context, adminID, participationID uuid.UUID, notes string) error
	Reject(ctx context.Context, adminID, participationID uuid.UUID, notes string) error
	ListParticipations(ctx context.Context, filter dto.ParticipationFilter) (*dto.PaginatedParticipationResponse, error)
	ListMyParticipations(ctx context.Context, userID uuid.UUID, filter dto.ParticipationFilter) (*dto.PaginatedParticipationResponse, error)
}

type missionService struct {
	repo           missionRepo.MissionRepository
	ledger         ledgerService.LedgerService
	notifications  notifService.NotificationService
	attachmentRepo attachmentRepo.AttachmentRepository
	search         searchService.MissionSearchService
	sanitizer      *bluemonday.Policy
}

func NewMissionService(
	repo missionRepo.MissionRepository,
	ledger ledgerService.LedgerService,
	notifications notifService.NotificationService,
	attachments attachmentRepo.AttachmentRepository,
	search searchService.MissionSearchService,
) MissionService {
	return &missionService{
		repo:           repo,
		ledger:         ledger,
		notifications:  notifications,
		attachmentRepo: attachments,
		search:         search,
		sanitizer:      bluemonday.StrictPolicy(),
	}
}

func (s *missionService) CreateMission(ctx context.Context, req dto.CreateMissionRequest) (*dto.MissionResponse, error) {
	status := entity.MissionStatusDraft
	if req.Status != "" {
		status = entity.MissionStatus(req.Status)
	}

	startDate := time.Now()
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	maxPerUser := req.MaxSubmissionsPerUser
	if maxPerUser < 1 {
		maxPerUser = 1
	}

	mission := &entity.Mission{
		Title:                 req.Title,
		Description:           s.sanitizer.Sanitize(req.Description),
		PointsReward:          req.PointsReward,
		Type:                  entity.MissionType(req.Type),
		Status:                status,
		StartDate:             startDate,
		ExpiresAt:             req.ExpiresAt,
		MaxSubmissionsPerUser: maxPerUser,
		TotalMaxSubmissions:   req.TotalMaxSubmissions,
	}

	if err := s.repo.Create(ctx, mission); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexMission(mission); err != nil {
			log.Printf("failed to index mission %s: %v", mission.ID, err)
		}
	}

	return toMissionResponse(mission), nil
}

func (s *missionService) UpdateMission(ctx context.Context, id uuid.UUID, req dto.UpdateMissionRequest) (*dto.MissionResponse, error) {
	mission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		mission.Title = *req.Title
	}
	if req.Description != nil {
		mission.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.PointsReward != nil {
		mission.PointsReward = *req.PointsReward
	}
	if req.Status != nil {
		mission.Status = entity.MissionStatus(*req.Status)
	}
	if req.ExpiresAt != nil {
		mission.ExpiresAt = req.ExpiresAt
	}
	if req.MaxSubmissionsPerUser != nil {
		mission.MaxSubmissionsPerUser = *req.MaxSubmissionsPerUser
	}
	if req.TotalMaxSubmissions != nil {
		mission.TotalMaxSubmissions = req.TotalMaxSubmissions
	}

	if err := s.repo.Update(ctx, mission); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexMission(mission); err != nil {
			log.Printf("failed to reindex mission %s: %v", mission.ID, err)
		}
	}

	return toMissionResponse(mission), nil
}

func (s *missionService) DeleteMission(ctx context.Context, id uuid.UUID) error {
	mission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	// Published missions may already have participations referencing them.
	if mission.Status != entity.MissionStatusDraft {
		return fmt.Errorf("%w: only draft missions can be deleted", apperror.ErrBadRequest)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteMission(id.String()); err != nil {
			log.Printf("failed to remove mission %s from index: %v", id, err)
		}
	}

	return nil
}

func (s *missionService) GetMission(ctx context.Context, id uuid.UUID) (*dto.MissionResponse, error) {
	mission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return toMissionResponse(mission), nil
}

func (s *missionService) ListMissions(ctx context.Context, filter dto.MissionFilter) (*dto.PaginatedMissionResponse, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	missions, total, err := s.repo.FindAll(ctx, filter.Status, filter.Type, filter.Search, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MissionResponse, 0, len(missions))
	for i := range missions {
		responses = append(responses, *toMissionResponse(&missions[i]))
	}

	return &dto.PaginatedMissionResponse{
		Data: responses,
		Meta: paginationMeta(page, limit, total),
	}, nil
}

// Join creates the explicit JOINED state. Only social-proof missions have a
// join step; review and receipt missions go straight to PENDING on submit.
func (s *missionService) Join(ctx context.Context, userID, missionID uuid.UUID) (*dto.ParticipationResponse, error) {
	mission, err := s.findEligibleMission(ctx, missionID)
	if err != nil {
		return nil, err
	}

	if mission.Type != entity.MissionTypeSocialProof {
		return nil, fmt.Errorf("%w: mission type %s does not require joining, submit directly", apperror.ErrBadRequest, mission.Type)
	}

	if err := s.checkUserQuota(ctx, mission, userID, true); err != nil {
		return nil, err
	}
	if err := s.checkGlobalQuota(ctx, mission); err != nil {
		return nil, err
	}

	participation := &entity.MissionParticipation{
		MissionID: mission.ID,
		UserID:    userID,
		Status:    entity.ParticipationJoined,
	}
	if err := s.repo.CreateParticipation(ctx, participation); err != nil {
		return nil, err
	}

	participation.Mission = *mission
	return toParticipationResponse(participation), nil
}

func (s *missionService) Submit(ctx context.Context, userID, missionID uuid.UUID, req dto.SubmitRequest) (*dto.ParticipationResponse, error) {
	mission, err := s.findEligibleMission(ctx, missionID)
	if err != nil {
		return nil, err
	}

	if !req.Payload.Matches(mission.Type) {
		return nil, fmt.Errorf("%w: submission payload does not match mission type %s", apperror.ErrInvalidInput, mission.Type)
	}
	if req.Payload.Review != nil {
		req.Payload.Review.Content = s.sanitizer.Sanitize(req.Payload.Review.Content)
	}

	data, err := json.Marshal(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrInvalidInput, err)
	}

	if err := s.checkUserQuota(ctx, mission, userID, false); err != nil {
		return nil, err
	}
	if err := s.checkGlobalQuota(ctx, mission); err != nil {
		return nil, err
	}

	var participation *entity.MissionParticipation

	if mission.Type == entity.MissionTypeSocialProof {
		joined, err := s.repo.FindJoined(ctx, missionID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: join the mission before submitting proof", apperror.ErrBadRequest)
			}
			return nil, err
		}

		updated, err := s.repo.SubmitJoined(ctx, joined.ID, string(data))
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, apperror.ErrAlreadyProcessed
		}

		participation, err = s.repo.FindParticipationByID(ctx, joined.ID)
		if err != nil {
			return nil, err
		}
	} else {
		participation = &entity.MissionParticipation{
			MissionID:      mission.ID,
			UserID:         userID,
			Status:         entity.ParticipationPending,
			SubmissionData: string(data),
		}
		if err := s.repo.CreateParticipation(ctx, participation); err != nil {
			return nil, err
		}
		participation.Mission = *mission
	}

	if len(req.AttachmentIDs) > 0 && s.attachmentRepo != nil {
		if err := s.attachmentRepo.BindToParticipation(ctx, req.AttachmentIDs, participation.ID, userID); err != nil {
			log.Printf("failed to bind attachments to participation %s: %v", participation.ID, err)
		}
	}

	return toParticipationResponse(participation), nil
}

// Approve transitions PENDING -> APPROVED and issues exactly one credit. The
// conditional status update decides a single winner between concurrent admins;
// only the winner credits. A failed credit reverts the status so a retry can
// credit again.
func (s *missionService) Approve(ctx context.Context, adminID, participationID uuid.UUID, notes string) error {
	p, err := s.repo.FindParticipationByID(ctx, participationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if p.Status == entity.ParticipationApproved {
		return nil // idempotent: already credited
	}
	if p.Status != entity.ParticipationPending {
		return fmt.Errorf("%w: participation is %s", apperror.ErrAlreadyProcessed, p.Status)
	}

	won, err := s.repo.UpdateStatusIf(ctx, participationID, entity.ParticipationPending, entity.ParticipationApproved, notes)
	if err != nil {
		return err
	}
	if !won {
		current, err := s.repo.FindParticipationByID(ctx, participationID)
		if err != nil {
			return err
		}
		if current.Status == entity.ParticipationApproved {
			return nil // concurrent admin won and credited
		}
		return fmt.Errorf("%w: participation is %s", apperror.ErrAlreadyProcessed, current.Status)
	}

	if p.Mission.PointsReward > 0 {
		description := fmt.Sprintf("Reward for mission %q", p.Mission.Title)
		pid := p.ID
		if _, err := s.ledger.Credit(ctx, p.UserID, p.Mission.PointsReward, entity.KindEarned, creditSource(p.Mission.Type), description, &pid); err != nil {
			// Revert so the approval can be retried and credit again.
			if _, revertErr := s.repo.UpdateStatusIf(ctx, participationID, entity.ParticipationApproved, entity.ParticipationPending, ""); revertErr != nil {
				log.Printf("failed to revert participation %s after credit failure: %v", participationID, revertErr)
			}
			return err
		}
	}

	s.notify(ctx, p.UserID, adminID, p.ID, "participation", "mission_approved",
		fmt.Sprintf("Your submission for %q was approved. +%d points!", p.Mission.Title, p.Mission.PointsReward))

	return nil
}

func (s *missionService) Reject(ctx context.Context, adminID, participationID uuid.UUID, notes string) error {
	p, err := s.repo.FindParticipationByID(ctx, participationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if p.Status == entity.ParticipationRejected {
		return nil // idempotent
	}
	if p.Status != entity.ParticipationPending {
		return fmt.Errorf("%w: participation is %s", apperror.ErrAlreadyProcessed, p.Status)
	}

	won, err := s.repo.UpdateStatusIf(ctx, participationID, entity.ParticipationPending, entity.ParticipationRejected, notes)
	if err != nil {
		return err
	}
	if !won {
		current, err := s.repo.FindParticipationByID(ctx, participationID)
		if err != nil {
			return err
		}
		if current.Status == entity.ParticipationRejected {
			return nil
		}
		return fmt.Errorf("%w: participation is %s", apperror.ErrAlreadyProcessed, current.Status)
	}

	message := fmt.Sprintf("Your submission for %q was rejected.", p.Mission.Title)
	if notes != "" {
		message = fmt.Sprintf("%s Reason: %s", message, notes)
	}
	s.notify(ctx, p.UserID, adminID, p.ID, "participation", "mission_rejected", message)

	return nil
}

func (s *missionService) ListParticipations(ctx context.Context, filter dto.ParticipationFilter) (*dto.PaginatedParticipationResponse, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	participations, total, err := s.repo.ListParticipations(ctx, filter.Status, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return toPaginatedParticipations(participations, page, limit, total), nil
}

func (s *missionService) ListMyParticipations(ctx context.Context, userID uuid.UUID, filter dto.ParticipationFilter) (*dto.PaginatedParticipationResponse, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	participations, total, err := s.repo.ListParticipationsByUser(ctx, userID, filter.Status, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return toPaginatedParticipations(participations, page, limit, total), nil
}

func (s *missionService) findEligibleMission(ctx context.Context, missionID uuid.UUID) (*entity.Mission, error) {
	mission, err := s.repo.FindByID(ctx, missionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	if mission.Status != entity.MissionStatusActive {
		return nil, apperror.ErrMissionInactive
	}
	if now.Before(mission.StartDate) {
		return nil, apperror.ErrMissionInactive
	}
	if mission.ExpiresAt != nil && now.After(*mission.ExpiresAt) {
		return nil, apperror.ErrMissionInactive
	}

	return mission, nil
}

// checkUserQuota counts a JOINED row against the quota only when joining:
// during submit the JOINED row is the slot being consumed.
func (s *missionService) checkUserQuota(ctx context.Context, mission *entity.Mission, userID uuid.UUID, joining bool) error {
	var count int64
	var err error
	if joining {
		count, err = s.repo.CountEngagedByUser(ctx, mission.ID, userID)
	} else {
		count, err = s.repo.CountSubmittedByUser(ctx, mission.ID, userID)
	}
	if err != nil {
		return err
	}
	if count >= int64(mission.MaxSubmissionsPerUser) {
		return apperror.ErrQuotaExceeded
	}
	return nil
}

func (s *missionService) checkGlobalQuota(ctx context.Context, mission *entity.Mission) error {
	if mission.TotalMaxSubmissions == nil {
		return nil
	}
	count, err := s.repo.CountSubmitted(ctx, mission.ID)
	if err != nil {
		return err
	}
	if count >= int64(*mission.TotalMaxSubmissions) {
		return apperror.ErrQuotaExceeded
	}
	return nil
}

func (s *missionService) notify(ctx context.Context, userID, actorID, entityID uuid.UUID, entityType, notifType, message string) {
	if s.notifications == nil {
		return
	}

	aid := actorID
	notification := &entity.Notification{
		UserID:     userID,
		ActorID:    &aid,
		EntityID:   entityID,
		EntityType: entityType,
		Type:       notifType,
		Message:    message,
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to send %s notification to user %s: %v", notifType, userID, err)
	}
}

func creditSource(missionType entity.MissionType) entity.TransactionSource {
	if missionType == entity.MissionTypeReceipt {
		return entity.SourceReceiptSubmission
	}
	return entity.SourceMissionReview
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

func paginationMeta(page, limit int, total int64) commonDto.PaginationMeta {
	return commonDto.PaginationMeta{
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		TotalItems:  total,
		Limit:       limit,
	}
}

func toMissionResponse(m *entity.Mission) *dto.MissionResponse {
	resp := &dto.MissionResponse{
		ID:                    m.ID,
		Title:                 m.Title,
		Description:           m.Description,
		PointsReward:          m.PointsReward,
		Type:                  m.Type,
		Status:                m.Status,
		StartDate:             m.StartDate.Format(time.RFC3339),
		MaxSubmissionsPerUser: m.MaxSubmissionsPerUser,
		TotalMaxSubmissions:   m.TotalMaxSubmissions,
		CreatedAt:             m.CreatedAt.Format(time.RFC3339),
	}
	if m.ExpiresAt != nil {
		expires := m.ExpiresAt.Format(time.RFC3339)
		resp.ExpiresAt = &expires
	}
	return resp
}

func toParticipationResponse(p *entity.MissionParticipation) *dto.ParticipationResponse {
	return &dto.ParticipationResponse{
		ID:             p.ID,
		MissionID:      p.MissionID,
		MissionTitle:   p.Mission.Title,
		PointsReward:   p.Mission.PointsReward,
		Username:       p.User.Username,
		Status:         p.Status,
		SubmissionData: p.SubmissionData,
		AdminNotes:     p.AdminNotes,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
	}
}

func toPaginatedParticipations(participations []entity.MissionParticipation, page, limit int, total int64) *dto.PaginatedParticipationResponse {
	responses := make([]dto.ParticipationResponse, 0, len(participations))
	for i := range participations {
		responses = append(responses, *toParticipationResponse(&participations[i]))
	}
	return &dto.PaginatedParticipationResponse{
		Data: responses,
		Meta: paginationMeta(page, limit, total),
	}
}
