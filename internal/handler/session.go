package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"yoga-api/internal/models"
	"yoga-api/internal/service"
)

type SessionHandler interface {
	GetAllSessions(c *gin.Context)
	GetSessionByID(c *gin.Context)
	CreateSession(c *gin.Context)
	UpdateSession(c *gin.Context)
	DeleteSession(c *gin.Context)
	Participate(c *gin.Context)
	NoLongerParticipate(c *gin.Context)
}

type sessionHandler struct {
	sessionService service.SessionService
	logger         *zap.Logger
}

func NewSessionHandler(sessionService service.SessionService, logger *zap.Logger) SessionHandler {
	return &sessionHandler{sessionService: sessionService, logger: logger}
}

type SessionRequest struct {
	Name        string    `json:"name" binding:"required,max=50"`
	Date        time.Time `json:"date" binding:"required"`
	TeacherID   int64     `json:"teacher_id" binding:"required"`
	Description string    `json:"description" binding:"required,max=2500"`
}

// bindSession decodes and validates the request body, answering 400 on failure.
func bindSession(c *gin.Context) (*models.Session, bool) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name must not be blank"})
		return nil, false
	}

	return &models.Session{
		Name:        req.Name,
		Date:        req.Date,
		TeacherID:   req.TeacherID,
		Description: req.Description,
	}, true
}

// GetAllSessions handles GET /api/session
func (h *sessionHandler) GetAllSessions(c *gin.Context) {
	sessions, err := h.sessionService.FindAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list sessions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetSessionByID handles GET /api/session/:id
func (h *sessionHandler) GetSessionByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, id, "Failed to get session", err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// CreateSession handles POST /api/session
func (h *sessionHandler) CreateSession(c *gin.Context) {
	session, ok := bindSession(c)
	if !ok {
		return
	}

	if err := h.sessionService.Create(c.Request.Context(), session); err != nil {
		h.fail(c, 0, "Failed to create session", err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// UpdateSession handles PUT /api/session/:id
func (h *sessionHandler) UpdateSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	session, ok := bindSession(c)
	if !ok {
		return
	}

	if err := h.sessionService.Update(c.Request.Context(), id, session); err != nil {
		h.fail(c, id, "Failed to update session", err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// DeleteSession handles DELETE /api/session/:id
func (h *sessionHandler) DeleteSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, id, "Failed to delete session", err)
		return
	}

	c.Status(http.StatusOK)
}

// Participate handles POST /api/session/:id/participate/:userId
func (h *sessionHandler) Participate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := pathInt(c, "userId")
	if !ok {
		return
	}

	if err := h.sessionService.Participate(c.Request.Context(), id, userID); err != nil {
		h.fail(c, id, "Failed to join session", err)
		return
	}

	c.Status(http.StatusOK)
}

// NoLongerParticipate handles DELETE /api/session/:id/participate/:userId
func (h *sessionHandler) NoLongerParticipate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := pathInt(c, "userId")
	if !ok {
		return
	}

	if err := h.sessionService.NoLongerParticipate(c.Request.Context(), id, userID); err != nil {
		h.fail(c, id, "Failed to leave session", err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *sessionHandler) fail(c *gin.Context, id int64, message string, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrTeacherNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Teacher not found"})
	case errors.Is(err, service.ErrAlreadyParticipating), errors.Is(err, service.ErrNotParticipating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error(message, zap.Int64("session_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
