package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"yoga-api/internal/models"
	"yoga-api/internal/repository"
)

type sessionMocks struct {
	sessions *MockSessionRepository
	teachers *MockTeacherRepository
	users    *MockUserRepository
}

func newSessionService(t *testing.T) (*sessionService, sessionMocks) {
	t.Helper()
	m := sessionMocks{
		sessions: new(MockSessionRepository),
		teachers: new(MockTeacherRepository),
		users:    new(MockUserRepository),
	}
	svc := NewSessionService(m.sessions, m.teachers, m.users, zap.NewNop()).(*sessionService)
	svc.now = func() time.Time { return testNow }
	return svc, m
}

func TestSessionService_FindByID(t *testing.T) {
	svc, m := newSessionService(t)
	ctx := context.Background()

	m.sessions.On("GetSessionByID", ctx, int64(1)).Return(&models.Session{ID: 1, Name: "Flow"}, nil)
	m.sessions.On("GetSessionByID", ctx, int64(2)).Return(nil, repository.ErrNotFound)
	m.sessions.On("GetSessionByID", ctx, int64(3)).Return(nil, errors.New("db down"))

	s, err := svc.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Flow", s.Name)

	_, err = svc.FindByID(ctx, 2)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.FindByID(ctx, 3)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_FindAll(t *testing.T) {
	svc, m := newSessionService(t)
	ctx := context.Background()

	m.sessions.On("GetAllSessions", ctx).Return([]*models.Session{{ID: 1}, {ID: 2}}, nil).Once()
	m.sessions.On("GetAllSessions", ctx).Return(nil, errors.New("db down")).Once()

	sessions, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	_, err = svc.FindAll(ctx)
	assert.Error(t, err)
}

func TestSessionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps times and stores", func(t *testing.T) {
		svc, m := newSessionService(t)
		m.teachers.On("GetTeacherByID", ctx, int64(1)).Return(&models.Teacher{ID: 1}, nil)
		m.sessions.On("CreateSession", ctx, mock.MatchedBy(func(s *models.Session) bool {
			return s.CreatedAt.Equal(testNow) && s.UpdatedAt.Equal(testNow)
		})).Return(nil)

		s := &models.Session{Name: "Flow", TeacherID: 1}
		require.NoError(t, svc.Create(ctx, s))
		assert.Equal(t, int64(1), s.ID)
		m.sessions.AssertExpectations(t)
	})

	t.Run("unknown teacher", func(t *testing.T) {
		svc, m := newSessionService(t)
		m.teachers.On("GetTeacherByID", ctx, int64(9)).Return(nil, repository.ErrNotFound)

		assert.ErrorIs(t, svc.Create(ctx, &models.Session{TeacherID: 9}), ErrTeacherNotFound)
		m.sessions.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
	})
}

func TestSessionService_Update(t *testing.T) {
	ctx := context.Background()
	created := testNow.Add(-time.Hour)

	t.Run("keeps participants and creation time", func(t *testing.T) {
		svc, m := newSessionService(t)
		m.sessions.On("GetSessionByID", ctx, int64(4)).
			Return(&models.Session{ID: 4, Users: []int64{7}, CreatedAt: created}, nil)
		m.teachers.On("GetTeacherByID", ctx, int64(2)).Return(&models.Teacher{ID: 2}, nil)
		m.sessions.On("UpdateSession", ctx, mock.MatchedBy(func(s *models.Session) bool {
			return s.ID == 4 && s.Name == "Yin" && s.UpdatedAt.Equal(testNow)
		})).Return(nil)

		s := &models.Session{Name: "Yin", TeacherID: 2}
		require.NoError(t, svc.Update(ctx, 4, s))
		assert.Equal(t, []int64{7}, s.Users)
		assert.True(t, s.CreatedAt.Equal(created))
	})

	t.Run("missing session", func(t *testing.T) {
		svc, m := newSessionService(t)
		m.sessions.On("GetSessionByID", ctx, int64(4)).Return(nil, repository.ErrNotFound)

		assert.ErrorIs(t, svc.Update(ctx, 4, &models.Session{TeacherID: 2}), ErrSessionNotFound)
		m.teachers.AssertNotCalled(t, "GetTeacherByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown teacher", func(t *testing.T) {
		svc, m := newSessionService(t)
		m.sessions.On("GetSessionByID", ctx, int64(4)).Return(&models.Session{ID: 4}, nil)
		m.teachers.On("GetTeacherByID", ctx, int64(9)).Return(nil, repository.ErrNotFound)

		assert.ErrorIs(t, svc.Update(ctx, 4, &models.Session{TeacherID: 9}), ErrTeacherNotFound)
		m.sessions.AssertNotCalled(t, "UpdateSession", mock.Anything, mock.Anything)
	})
}

func TestSessionService_Delete(t *testing.T) {
	svc, m := newSessionService(t)
	ctx := context.Background()

	m.sessions.On("DeleteSession", ctx, int64(1)).Return(nil)
	m.sessions.On("DeleteSession", ctx, int64(2)).Return(repository.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, 1))
	assert.ErrorIs(t, svc.Delete(ctx, 2), ErrSessionNotFound)
}

func TestSessionService_Participate(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		session *models.Session
		sessErr error
		userErr error
		addErr  error
		want    error
	}{
		{name: "joins", session: &models.Session{ID: 1, Users: []int64{}}},
		{name: "missing session", sessErr: repository.ErrNotFound, want: ErrSessionNotFound},
		{name: "missing user", session: &models.Session{ID: 1}, userErr: repository.ErrNotFound, want: ErrUserNotFound},
		{name: "already in", session: &models.Session{ID: 1, Users: []int64{5}}, want: ErrAlreadyParticipating},
		{name: "concurrent join", session: &models.Session{ID: 1}, addErr: repository.ErrDuplicate, want: ErrAlreadyParticipating},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newSessionService(t)
			m.sessions.On("GetSessionByID", ctx, int64(1)).Return(tc.session, tc.sessErr)
			m.users.On("GetUserByID", ctx, int64(5)).Return(&models.User{ID: 5}, tc.userErr)
			m.sessions.On("AddParticipant", ctx, int64(1), int64(5)).Return(tc.addErr)

			err := svc.Participate(ctx, 1, 5)
			if tc.want == nil {
				require.NoError(t, err)
				m.sessions.AssertCalled(t, "AddParticipant", ctx, int64(1), int64(5))
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSessionService_NoLongerParticipate(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name      string
		session   *models.Session
		sessErr   error
		removeErr error
		want      error
	}{
		{name: "leaves", session: &models.Session{ID: 1, Users: []int64{5}}},
		{name: "missing session", sessErr: repository.ErrNotFound, want: ErrSessionNotFound},
		{name: "not in", session: &models.Session{ID: 1, Users: []int64{6}}, want: ErrNotParticipating},
		{name: "concurrent leave", session: &models.Session{ID: 1, Users: []int64{5}}, removeErr: repository.ErrNotFound, want: ErrNotParticipating},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newSessionService(t)
			m.sessions.On("GetSessionByID", ctx, int64(1)).Return(tc.session, tc.sessErr)
			m.sessions.On("RemoveParticipant", ctx, int64(1), int64(5)).Return(tc.removeErr)

			err := svc.NoLongerParticipate(ctx, 1, 5)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
