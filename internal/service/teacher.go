package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"yoga-api/internal/models"
	"yoga-api/internal/repository"
)

var ErrTeacherNotFound = errors.New("teacher not found")

type TeacherService interface {
	FindAll(ctx context.Context) ([]*models.Teacher, error)
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
}

type teacherService struct {
	teachers repository.TeacherRepository
	logger   *zap.Logger
}

func NewTeacherService(teachers repository.TeacherRepository, logger *zap.Logger) TeacherService {
	return &teacherService{teachers: teachers, logger: logger}
}

func (s *teacherService) FindAll(ctx context.Context) ([]*models.Teacher, error) {
	teachers, err := s.teachers.GetAllTeachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	return teachers, nil
}

func (s *teacherService) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, err := s.teachers.GetTeacherByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	return teacher, nil
}
