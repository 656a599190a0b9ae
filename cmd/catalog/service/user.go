package service

import (
	"context"
	"fmt"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

// UserService manages catalog roles
type UserService struct {
	repo UserStore
	log  *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo UserStore, log *logger.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// List returns every user that has signed in
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetRole changes the role of a user. Admins cannot demote themselves.
func (s *UserService) SetRole(ctx context.Context, actor *models.User, userID string, role models.Role) (*models.User, error) {
	if role != models.RoleAdmin && role != models.RoleVisitor {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrValidation, role)
	}
	if actor != nil && actor.UserID == userID && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: admins cannot demote themselves", models.ErrValidation)
	}

	if err := s.repo.SetRole(ctx, userID, role); err != nil {
		return nil, fmt.Errorf("failed to set role: %w", err)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	s.log.Info("changed user role", "user_id", userID, "role", role)
	return user, nil
}
