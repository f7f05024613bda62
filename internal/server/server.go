package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"yoga-api/internal/config"
	"yoga-api/internal/crypto"
	"yoga-api/internal/handler"
	"yoga-api/internal/middleware"
	"yoga-api/internal/models"
	"yoga-api/internal/repository"
	"yoga-api/internal/service"
	"yoga-api/internal/token"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	logger *zap.Logger

	codec       *token.JWTCodec
	hasher      crypto.PasswordHasher
	authService service.AuthService
}

func NewServer(db *sqlx.DB, cfg *config.Config, codec *token.JWTCodec, hasher crypto.PasswordHasher, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		logger: logger,
		codec:  codec,
		hasher: hasher,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	userRepo := repository.NewUserRepository(s.db, s.logger)
	teacherRepo := repository.NewTeacherRepository(s.db, s.logger)
	sessionRepo := repository.NewSessionRepository(s.db, s.logger)

	s.authService = service.NewAuthService(userRepo, s.hasher, s.codec, s.logger)
	userService := service.NewUserService(userRepo, s.logger)
	teacherService := service.NewTeacherService(teacherRepo, s.logger)
	sessionService := service.NewSessionService(sessionRepo, teacherRepo, userRepo, s.logger)

	authHandler := handler.NewAuthHandler(s.authService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	teacherHandler := handler.NewTeacherHandler(teacherService, s.logger)
	sessionHandler := handler.NewSessionHandler(sessionService, s.logger)

	// Every request passes the guard; only protected groups require its result.
	s.router.Use(middleware.TokenGuard(s.codec, s.authService, s.logger))

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.RequireIdentity())
	{
		authRequired.GET("/user/:id", userHandler.GetUserByID)
		authRequired.DELETE("/user/:id", userHandler.DeleteUser)

		authRequired.GET("/teacher", teacherHandler.GetAllTeachers)
		authRequired.GET("/teacher/:id", teacherHandler.GetTeacherByID)

		authRequired.GET("/session", sessionHandler.GetAllSessions)
		authRequired.POST("/session", sessionHandler.CreateSession)
		authRequired.GET("/session/:id", sessionHandler.GetSessionByID)
		authRequired.PUT("/session/:id", sessionHandler.UpdateSession)
		authRequired.DELETE("/session/:id", sessionHandler.DeleteSession)
		authRequired.POST("/session/:id/participate/:userId", sessionHandler.Participate)
		authRequired.DELETE("/session/:id/participate/:userId", sessionHandler.NoLongerParticipate)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Bootstrap creates the configured admin account when it is missing.
func (s *Server) Bootstrap(ctx context.Context) error {
	admin := s.cfg.BootstrapAdmin
	if !admin.Enabled {
		return nil
	}

	return s.authService.EnsureAdmin(ctx, &models.User{
		Email:     admin.Email,
		FirstName: admin.FirstName,
		LastName:  admin.LastName,
	}, admin.Password)
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// for up to the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout(),
		WriteTimeout: s.cfg.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	s.logger.Info("Server exited")
	return nil
}
