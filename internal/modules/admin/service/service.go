package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/reviewrewards/internal/entity"
	"anoa.com/reviewrewards/internal/modules/admin/dto"
	"anoa.com/reviewrewards/internal/modules/user/repository"
	commonDto "anoa.com/reviewrewards/pkg/dto"
	"anoa.com/reviewrewards/pkg/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminService interface {
	CreateUser(ctx context.Context, input dto.CreateUserInput, avatar *commonDto.AvatarFile) (*dto.AdminUserResponse, error)
	GetAllUsers(ctx context.Context) ([]*dto.AdminUserResponse, error)
	DeleteUser(ctx context.Context, id string) error
	UpdateUser(ctx context.Context, id string, input dto.UpdateAdminUserInput, avatar *commonDto.AvatarFile) (*dto.AdminUserResponse, error)
}

type adminService struct {
	repo         repository.UserRepository
	imageStorage storage.ImageStorage
}

func NewAdminService(repo repository.UserRepository, imageStorage storage.ImageStorage) AdminService {
	return &adminService{
		repo:         repo,
		imageStorage: imageStorage,
	}
}

func (s *adminService) CreateUser(ctx context.Context, input dto.CreateUserInput, avatar *commonDto.AvatarFile) (*dto.AdminUserResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, errors.New("username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := s.repo.FindRoleByName(ctx, input.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %s not found", input.Role)
		}
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var avatarURL *string
	if avatar != nil && avatar.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, err
		}
		avatarURL = &url
	}

	roleID := role.ID
	user := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		RoleID:       &roleID,
		AvatarURL:    avatarURL,
	}

	profile := &entity.Profile{
		FullName: input.FullName,
		Phone:    normalizeOptional(input.Phone),
		Bio:      normalizeOptional(input.Bio),
	}

	if err := s.repo.Create(ctx, user, profile); err != nil {
		return nil, err
	}

	createdUser, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	createdUser.PasswordHash = ""

	return &dto.AdminUserResponse{
		User:    createdUser,
		Role:    &createdUser.Role,
		Profile: createdUser.Profile,
	}, nil
}

func (s *adminService) GetAllUsers(ctx context.Context) ([]*dto.AdminUserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var response []*dto.AdminUserResponse
	for _, u := range users {
		u.PasswordHash = ""
		response = append(response, &dto.AdminUserResponse{
			User:    u,
			Role:    &u.Role,
			Profile: u.Profile,
		})
	}

	return response, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *adminService) UpdateUser(ctx context.Context, id string, input dto.UpdateAdminUserInput, avatar *commonDto.AvatarFile) (*dto.AdminUserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != "" && input.Username != user.Username {
		if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
			return nil, errors.New("username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = input.Username
	}

	if input.Email != "" && input.Email != user.Email {
		if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
			return nil, errors.New("email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = input.Email
	}

	if input.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	// Role grant/revoke.
	if input.Role != "" {
		role, err := s.repo.FindRoleByName(ctx, input.Role)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("role %s not found", input.Role)
			}
			return nil, err
		}
		roleID := role.ID
		user.RoleID = &roleID
		user.Role = *role
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
		if input.FullName != "" {
			profile.FullName = input.FullName
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

	updatedUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updatedUser.PasswordHash = ""

	return &dto.AdminUserResponse{
		User:    updatedUser,
		Role:    &updatedUser.Role,
		Profile: updatedUser.Profile,
	}, nil
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
