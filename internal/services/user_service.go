package services

import (
	"context"
	"fmt"

	"doctorcar-service/internal/models"
	"doctorcar-service/internal/repository"
	"doctorcar-service/internal/utils"

	"github.com/google/uuid"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUserByID retrieves a user profile
func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return user, nil
}

// GetAllUsers lists users, optionally filtered by role (admin view)
func (s *UserService) GetAllUsers(ctx context.Context, role *models.UserRole) ([]models.User, error) {
	users, err := s.userRepo.GetAll(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	return users, nil
}

// UpdateProfile edits the signed-in user's own name and phone
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, request models.UpdateProfileRequest) (*models.User, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	if request.Phone != nil {
		if ok, err := utils.ValidatePhone(*request.Phone); !ok {
			return nil, fmt.Errorf("invalid profile: %w", err)
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, id, request.FullName, request.Phone); err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// UpdateUserRole changes a user's role (admin only at the route level)
func (s *UserService) UpdateUserRole(ctx context.Context, id uuid.UUID, request models.UpdateUserRoleRequest) (*models.User, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRole(ctx, id, request.Role); err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.GetUserByID(ctx, id)
}
