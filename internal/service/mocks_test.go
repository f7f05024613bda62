package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"yoga-api/internal/models"
)

// MockUserRepository implements repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTeacherRepository implements repository.TeacherRepository
type MockTeacherRepository struct {
	mock.Mock
}

func (m *MockTeacherRepository) CreateTeacher(ctx context.Context, teacher *models.Teacher) error {
	return m.Called(ctx, teacher).Error(0)
}

func (m *MockTeacherRepository) GetAllTeachers(ctx context.Context) ([]*models.Teacher, error) {
	args := m.Called(ctx)
	teachers, _ := args.Get(0).([]*models.Teacher)
	return teachers, args.Error(1)
}

func (m *MockTeacherRepository) GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error) {
	args := m.Called(ctx, id)
	teacher, _ := args.Get(0).(*models.Teacher)
	return teacher, args.Error(1)
}

// MockSessionRepository implements repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	if args.Error(0) == nil {
		session.ID = 1
	}
	return args.Error(0)
}

func (m *MockSessionRepository) UpdateSession(ctx context.Context, session *models.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepository) GetAllSessions(ctx context.Context) ([]*models.Session, error) {
	args := m.Called(ctx)
	sessions, _ := args.Get(0).([]*models.Session)
	return sessions, args.Error(1)
}

func (m *MockSessionRepository) GetSessionByID(ctx context.Context, id int64) (*models.Session, error) {
	args := m.Called(ctx, id)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *MockSessionRepository) DeleteSession(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSessionRepository) AddParticipant(ctx context.Context, sessionID, userID int64) error {
	return m.Called(ctx, sessionID, userID).Error(0)
}

func (m *MockSessionRepository) RemoveParticipant(ctx context.Context, sessionID, userID int64) error {
	return m.Called(ctx, sessionID, userID).Error(0)
}
