package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"yoga-api/internal/auth"
	"yoga-api/internal/models"
	"yoga-api/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("not allowed to act on this resource")
)

type UserService interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Delete(ctx context.Context, identity *auth.Identity, id int64) error
}

type userService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{users: users, logger: logger}
}

func (s *userService) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Delete removes account id on behalf of identity. The account must exist
// before ownership is checked, so strangers learn 404 before 403.
func (s *userService) Delete(ctx context.Context, identity *auth.Identity, id int64) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CanActOn(identity, user.ID) {
		actor := int64(0)
		if identity != nil {
			actor = identity.ID
		}
		s.logger.Warn("Refused to delete another user's account",
			zap.Int64("actor_id", actor), zap.Int64("target_id", id))
		return ErrForbidden
	}

	if err := s.users.DeleteUser(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User deleted", zap.Int64("user_id", id))
	return nil
}
