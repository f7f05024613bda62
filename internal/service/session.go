package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"yoga-api/internal/models"
	"yoga-api/internal/repository"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrAlreadyParticipating = errors.New("user already participates in this session")
	ErrNotParticipating     = errors.New("user does not participate in this session")
)

type SessionService interface {
	FindAll(ctx context.Context) ([]*models.Session, error)
	FindByID(ctx context.Context, id int64) (*models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, id int64, session *models.Session) error
	Delete(ctx context.Context, id int64) error
	Participate(ctx context.Context, sessionID, userID int64) error
	NoLongerParticipate(ctx context.Context, sessionID, userID int64) error
}

type sessionService struct {
	sessions repository.SessionRepository
	teachers repository.TeacherRepository
	users    repository.UserRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewSessionService(
	sessions repository.SessionRepository,
	teachers repository.TeacherRepository,
	users repository.UserRepository,
	logger *zap.Logger,
) SessionService {
	return &sessionService{
		sessions: sessions,
		teachers: teachers,
		users:    users,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *sessionService) FindAll(ctx context.Context) ([]*models.Session, error) {
	sessions, err := s.sessions.GetAllSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) FindByID(ctx context.Context, id int64) (*models.Session, error) {
	session, err := s.sessions.GetSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// Create stores a new session. The referenced teacher must exist.
func (s *sessionService) Create(ctx context.Context, session *models.Session) error {
	if err := s.checkTeacher(ctx, session.TeacherID); err != nil {
		return err
	}

	now := s.now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Session created", zap.Int64("session_id", session.ID), zap.Int64("teacher_id", session.TeacherID))
	return nil
}

// Update replaces the editable fields of session id. The returned session
// carries the stored participants and creation time.
func (s *sessionService) Update(ctx context.Context, id int64, session *models.Session) error {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkTeacher(ctx, session.TeacherID); err != nil {
		return err
	}

	session.ID = id
	session.Users = current.Users
	session.CreatedAt = current.CreatedAt
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.UpdateSession(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to update session: %w", err)
	}

	s.logger.Info("Session updated", zap.Int64("session_id", id))
	return nil
}

func (s *sessionService) Delete(ctx context.Context, id int64) error {
	if err := s.sessions.DeleteSession(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info("Session deleted", zap.Int64("session_id", id))
	return nil
}

func (s *sessionService) Participate(ctx context.Context, sessionID, userID int64) error {
	session, err := s.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if session.IsParticipant(userID) {
		return ErrAlreadyParticipating
	}

	if err := s.sessions.AddParticipant(ctx, sessionID, userID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyParticipating
		}
		return fmt.Errorf("failed to add participant: %w", err)
	}

	s.logger.Info("User joined session", zap.Int64("session_id", sessionID), zap.Int64("user_id", userID))
	return nil
}

func (s *sessionService) NoLongerParticipate(ctx context.Context, sessionID, userID int64) error {
	session, err := s.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if !session.IsParticipant(userID) {
		return ErrNotParticipating
	}

	if err := s.sessions.RemoveParticipant(ctx, sessionID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotParticipating
		}
		return fmt.Errorf("failed to remove participant: %w", err)
	}

	s.logger.Info("User left session", zap.Int64("session_id", sessionID), zap.Int64("user_id", userID))
	return nil
}

func (s *sessionService) checkTeacher(ctx context.Context, id int64) error {
	if _, err := s.teachers.GetTeacherByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTeacherNotFound
		}
		return fmt.Errorf("failed to get teacher: %w", err)
	}
	return nil
}
