package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"yoga-api/internal/service"
)

type TeacherHandler interface {
	GetAllTeachers(c *gin.Context)
	GetTeacherByID(c *gin.Context)
}

type teacherHandler struct {
	teacherService service.TeacherService
	logger         *zap.Logger
}

func NewTeacherHandler(teacherService service.TeacherService, logger *zap.Logger) TeacherHandler {
	return &teacherHandler{teacherService: teacherService, logger: logger}
}

// GetAllTeachers handles GET /api/teacher
func (h *teacherHandler) GetAllTeachers(c *gin.Context) {
	teachers, err := h.teacherService.FindAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list teachers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get teachers"})
		return
	}
	c.JSON(http.StatusOK, teachers)
}

// GetTeacherByID handles GET /api/teacher/:id
func (h *teacherHandler) GetTeacherByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	teacher, err := h.teacherService.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
			return
		}
		h.logger.Error("Failed to get teacher", zap.Int64("teacher_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get teacher"})
		return
	}

	c.JSON(http.StatusOK, teacher)
}
