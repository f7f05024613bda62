package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"yoga-api/internal/auth"
	"yoga-api/internal/crypto"
	"yoga-api/internal/models"
	"yoga-api/internal/repository"
	"yoga-api/internal/token"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateIdentity  = errors.New("email is already taken")
	ErrUnknownSubject     = errors.New("token subject not found")
)

const TokenType = "Bearer"

// Credentials are the transient login inputs. They are never stored or logged.
type Credentials struct {
	Email    string
	Password string
}

// LoginResult is handed back to the client after a successful login.
type LoginResult struct {
	Token     string
	Type      string
	ExpiresAt time.Time
	Identity  *auth.Identity
}

// TokenIssuer signs tokens for an authenticated subject.
type TokenIssuer interface {
	Issue(subject string) (string, *token.Claims, error)
}

type AuthService interface {
	Register(ctx context.Context, user *models.User, password string) (*models.User, error)
	Authenticate(ctx context.Context, creds Credentials) (*auth.Identity, error)
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)
	ResolveIdentity(ctx context.Context, subject string) (*auth.Identity, error)
	EnsureAdmin(ctx context.Context, admin *models.User, password string) error
}

type authService struct {
	users  repository.UserRepository
	hasher crypto.PasswordHasher
	tokens TokenIssuer
	logger *zap.Logger
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, hasher crypto.PasswordHasher, tokens TokenIssuer, logger *zap.Logger) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, user *models.User, password string) (*models.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		s.logger.Error("Failed to check existing email", zap.Error(err))
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if exists {
		return nil, ErrDuplicateIdentity
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	created := &models.User{
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		PasswordHash: passwordHash,
		Admin:        user.Admin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, created); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateIdentity
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.Int64("user_id", created.ID))
	return created, nil
}

// Authenticate checks creds against the credential store. An unknown email
// and a wrong password fail identically.
func (s *authService) Authenticate(ctx context.Context, creds Credentials) (*auth.Identity, error) {
	user, err := s.users.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// burn a hash so unknown emails cost about as much as known ones
			_, _ = s.hasher.Hash(creds.Password)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	ok, err := s.hasher.Verify(creds.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error("Stored password hash is unreadable", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return auth.NewIdentity(user), nil
}

func (s *authService) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	identity, err := s.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	tokenString, claims, err := s.tokens.Issue(identity.Email)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in", zap.Int64("user_id", identity.ID))

	return &LoginResult{
		Token:     tokenString,
		Type:      TokenType,
		ExpiresAt: claims.ExpiresAt,
		Identity:  identity,
	}, nil
}

// ResolveIdentity re-reads the token subject from the store so a deleted
// account or a changed admin flag takes effect on the next request.
func (s *authService) ResolveIdentity(ctx context.Context, subject string) (*auth.Identity, error) {
	user, err := s.users.GetUserByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}
	return auth.NewIdentity(user), nil
}

// EnsureAdmin registers admin unless an account with its email exists.
func (s *authService) EnsureAdmin(ctx context.Context, admin *models.User, password string) error {
	seed := *admin
	seed.Admin = true

	_, err := s.Register(ctx, &seed, password)
	if errors.Is(err, ErrDuplicateIdentity) {
		s.logger.Debug("Bootstrap admin already present")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	s.logger.Info("Bootstrap admin created")
	return nil
}
