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

type TeacherRepository interface {
	CreateTeacher(ctx context.Context, teacher *models.Teacher) error
	GetAllTeachers(ctx context.Context) ([]*models.Teacher, error)
	GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error)
}

type teacherRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTeacherRepository(db *sqlx.DB, logger *zap.Logger) TeacherRepository {
	return &teacherRepository{db: db, logger: logger}
}

func (r *teacherRepository) CreateTeacher(ctx context.Context, teacher *models.Teacher) error {
	query := r.db.Rebind(`INSERT INTO teachers (first_name, last_name, created_at, updated_at)
	          VALUES (?, ?, ?, ?) RETURNING id`)
	err := r.db.QueryRowxContext(ctx, query,
		teacher.FirstName, teacher.LastName, teacher.CreatedAt, teacher.UpdatedAt,
	).Scan(&teacher.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *teacherRepository) GetAllTeachers(ctx context.Context) ([]*models.Teacher, error) {
	teachers := []*models.Teacher{}
	query := `SELECT id, first_name, last_name, created_at, updated_at FROM teachers ORDER BY id`
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return teachers, nil
}

func (r *teacherRepository) GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error) {
	var teacher models.Teacher
	query := r.db.Rebind(`SELECT id, first_name, last_name, created_at, updated_at FROM teachers WHERE id = ?`)
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &teacher, nil
}
