package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"yoga-api/internal/auth"
	"yoga-api/internal/models"
	"yoga-api/internal/service"
)

// MockAuthService implements service.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, user *models.User, password string) (*models.User, error) {
	args := m.Called(ctx, user, password)
	created, _ := args.Get(0).(*models.User)
	return created, args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, creds service.Credentials) (*auth.Identity, error) {
	args := m.Called(ctx, creds)
	identity, _ := args.Get(0).(*auth.Identity)
	return identity, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, creds service.Credentials) (*service.LoginResult, error) {
	args := m.Called(ctx, creds)
	res, _ := args.Get(0).(*service.LoginResult)
	return res, args.Error(1)
}

func (m *MockAuthService) ResolveIdentity(ctx context.Context, subject string) (*auth.Identity, error) {
	args := m.Called(ctx, subject)
	identity, _ := args.Get(0).(*auth.Identity)
	return identity, args.Error(1)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, admin *models.User, password string) error {
	return m.Called(ctx, admin, password).Error(0)
}

// MockUserService implements service.UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, identity *auth.Identity, id int64) error {
	return m.Called(ctx, identity, id).Error(0)
}

// MockTeacherService implements service.TeacherService
type MockTeacherService struct {
	mock.Mock
}

func (m *MockTeacherService) FindAll(ctx context.Context) ([]*models.Teacher, error) {
	args := m.Called(ctx)
	teachers, _ := args.Get(0).([]*models.Teacher)
	return teachers, args.Error(1)
}

func (m *MockTeacherService) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	args := m.Called(ctx, id)
	teacher, _ := args.Get(0).(*models.Teacher)
	return teacher, args.Error(1)
}

// MockSessionService implements service.SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) FindAll(ctx context.Context) ([]*models.Session, error) {
	args := m.Called(ctx)
	sessions, _ := args.Get(0).([]*models.Session)
	return sessions, args.Error(1)
}

func (m *MockSessionService) FindByID(ctx context.Context, id int64) (*models.Session, error) {
	args := m.Called(ctx, id)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *MockSessionService) Create(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	if args.Error(0) == nil {
		session.ID = 1
	}
	return args.Error(0)
}

func (m *MockSessionService) Update(ctx context.Context, id int64, session *models.Session) error {
	return m.Called(ctx, id, session).Error(0)
}

func (m *MockSessionService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSessionService) Participate(ctx context.Context, sessionID, userID int64) error {
	return m.Called(ctx, sessionID, userID).Error(0)
}

func (m *MockSessionService) NoLongerParticipate(ctx context.Context, sessionID, userID int64) error {
	return m.Called(ctx, sessionID, userID).Error(0)
}
