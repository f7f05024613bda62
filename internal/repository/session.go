package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"yoga-api/internal/models"
)

// SessionRepository stores yoga sessions and their participants.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	UpdateSession(ctx context.Context, session *models.Session) error
	GetAllSessions(ctx context.Context) ([]*models.Session, error)
	GetSessionByID(ctx context.Context, id int64) (*models.Session, error)
	DeleteSession(ctx context.Context, id int64) error
	AddParticipant(ctx context.Context, sessionID, userID int64) error
	RemoveParticipant(ctx context.Context, sessionID, userID int64) error
}

type sessionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewSessionRepository(db *sqlx.DB, logger *zap.Logger) SessionRepository {
	return &sessionRepository{db: db, logger: logger}
}

const sessionColumns = `id, name, date, teacher_id, description, created_at, updated_at`

type participantRow struct {
	SessionID int64 `db:"session_id"`
	UserID    int64 `db:"user_id"`
}

func (r *sessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := r.db.Rebind(`INSERT INTO sessions (name, date, teacher_id, description, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	err := r.db.QueryRowxContext(ctx, query,
		session.Name, session.Date, session.TeacherID, session.Description, session.CreatedAt, session.UpdatedAt,
	).Scan(&session.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if session.Users == nil {
		session.Users = []int64{}
	}

	r.logger.Debug("Session created", zap.Int64("session_id", session.ID))
	return nil
}

// UpdateSession rewrites the editable fields. Participants and created_at are left alone.
func (r *sessionRepository) UpdateSession(ctx context.Context, session *models.Session) error {
	query := r.db.Rebind(`UPDATE sessions SET name = ?, date = ?, teacher_id = ?, description = ?, updated_at = ?
	          WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query,
		session.Name, session.Date, session.TeacherID, session.Description, session.UpdatedAt, session.ID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res)
}

func (r *sessionRepository) GetAllSessions(ctx context.Context) ([]*models.Session, error) {
	sessions := []*models.Session{}
	if err := r.db.SelectContext(ctx, &sessions, `SELECT `+sessionColumns+` FROM sessions ORDER BY id`); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var rows []participantRow
	query := `SELECT session_id, user_id FROM session_participants ORDER BY session_id, user_id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	byID := make(map[int64]*models.Session, len(sessions))
	for _, s := range sessions {
		s.Users = []int64{}
		byID[s.ID] = s
	}
	for _, row := range rows {
		if s, ok := byID[row.SessionID]; ok {
			s.Users = append(s.Users, row.UserID)
		}
	}
	return sessions, nil
}

func (r *sessionRepository) GetSessionByID(ctx context.Context, id int64) (*models.Session, error) {
	var session models.Session
	query := r.db.Rebind(`SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`)
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	session.Users = []int64{}
	query = r.db.Rebind(`SELECT user_id FROM session_participants WHERE session_id = ? ORDER BY user_id`)
	if err := r.db.SelectContext(ctx, &session.Users, query, id); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, id int64) error {
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM session_participants WHERE session_id = ?`), id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM sessions WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return expectAffected(res)
	})
	if err != nil {
		return err
	}

	r.logger.Debug("Session deleted", zap.Int64("session_id", id))
	return nil
}

func (r *sessionRepository) AddParticipant(ctx context.Context, sessionID, userID int64) error {
	query := r.db.Rebind(`INSERT INTO session_participants (session_id, user_id) VALUES (?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, sessionID, userID); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *sessionRepository) RemoveParticipant(ctx context.Context, sessionID, userID int64) error {
	query := r.db.Rebind(`DELETE FROM session_participants WHERE session_id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, query, sessionID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res)
}

// expectAffected maps a statement that touched no rows to ErrNotFound.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
