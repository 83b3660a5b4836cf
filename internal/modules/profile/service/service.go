package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/reviewrewards/internal/entity"
	leaderboardRepo "anoa.com/reviewrewards/internal/modules/leaderboard/repository"
	leaderboard "anoa.com/reviewrewards/internal/modules/leaderboard/service"
	profileDto "anoa.com/reviewrewards/internal/modules/profile/dto"
	userRepo "anoa.com/reviewrewards/internal/modules/user/repository"
	commonDto "anoa.com/reviewrewards/pkg/dto"
	"anoa.com/reviewrewards/pkg/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ProfileService interface {
	UpdateProfile(ctx context.Context, userID string, input profileDto.UpdateProfileInput, avatar *commonDto.AvatarFile) (*profileDto.ProfileResponse, error)
	GetProfileByUsername(ctx context.Context, username string) (*profileDto.PublicProfileResponse, error)
	GetCurrentProfile(ctx context.Context, userID string) (*profileDto.ProfileResponse, error)
}

type profileService struct {
	repo            userRepo.UserRepository
	imageStorage    storage.ImageStorage
	leaderboardRepo leaderboardRepo.LeaderboardRepository
}

func NewProfileService(repo userRepo.UserRepository, imageStorage storage.ImageStorage, lbRepo leaderboardRepo.LeaderboardRepository) ProfileService {
	return &profileService{
		repo:            repo,
		imageStorage:    imageStorage,
		leaderboardRepo: lbRepo,
	}
}

func (s *profileService) UpdateProfile(ctx context.Context, userID string, input profileDto.UpdateProfileInput, avatar *commonDto.AvatarFile) (*profileDto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if input.Username != nil && *input.Username != "" && *input.Username != user.Username {
		sanitizedUsername := strings.ReplaceAll(*input.Username, " ", "_")
		if len(sanitizedUsername) < 3 {
			return nil, errors.New("username must be at least 3 characters")
		}
		if len(sanitizedUsername) > 50 {
			return nil, errors.New("username must be at most 50 characters")
		}
		if _, err := s.repo.FindByUsername(ctx, sanitizedUsername); err == nil {
			return nil, errors.New("username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = sanitizedUsername
	}

	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < 8 {
			return nil, errors.New("password must be at least 8 characters")
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if avatar != nil && avatar.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, err
		}
		user.AvatarURL = &url
	}

	var profile *entity.Profile
	if user.Profile != nil {
		profile = user.Profile
		if input.FullName != nil && *input.FullName != "" {
			profile.FullName = *input.FullName
		}
		if input.Phone != nil {
			profile.Phone = normalizeOptional(input.Phone)
		}
		if input.Bio != nil {
			profile.Bio = normalizeOptional(input.Bio)
		}
	}

	if err := s.repo.Update(ctx, user, profile); err != nil {
		return nil, err
	}

	updatedUser, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updatedUser.PasswordHash = ""

	return &profileDto.ProfileResponse{
		User:       updatedUser,
		Profile:    updatedUser.Profile,
		TierStatus: s.tierStatus(ctx, updatedUser),
	}, nil
}

func (s *profileService) GetProfileByUsername(ctx context.Context, username string) (*profileDto.PublicProfileResponse, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.New("user not found")
	}

	response := &profileDto.PublicProfileResponse{
		Username:   user.Username,
		AvatarURL:  user.AvatarURL,
		CreatedAt:  user.CreatedAt,
		TierStatus: s.tierStatus(ctx, user),
	}

	if user.Profile != nil {
		response.Bio = user.Profile.Bio
	}

	return response, nil
}

func (s *profileService) GetCurrentProfile(ctx context.Context, userID string) (*profileDto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	user.PasswordHash = ""

	return &profileDto.ProfileResponse{
		User:       user,
		Profile:    user.Profile,
		TierStatus: s.tierStatus(ctx, user),
	}, nil
}

func (s *profileService) tierStatus(ctx context.Context, user *entity.User) commonDto.TierStatus {
	var lifetimeEarned int
	if s.leaderboardRepo != nil {
		stats, err := s.leaderboardRepo.GetEarnerStats(ctx, user.ID)
		if err == nil && stats != nil {
			lifetimeEarned = stats.LifetimeEarned
		}
	}
	return leaderboard.GetTierStatus(lifetimeEarned)
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	result := trimmed
	return &result
}
