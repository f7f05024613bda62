package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"yoga-api/internal/auth"
	"yoga-api/internal/handler"
	"yoga-api/internal/service"
	"yoga-api/internal/token"
)

// IdentityKey is the gin context key the resolved identity is stored under.
const IdentityKey = "identity"

const bearerPrefix = "Bearer "

const msgAuthRequired = "Full authentication is required to access this resource"

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// IdentityResolver turns a verified token subject into the current identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, subject string) (*auth.Identity, error)
}

// TokenGuard creates a Gin middleware that attaches the bearer's identity to
// the request when the token verifies and its subject still exists. It never
// rejects a request itself; protected routes add RequireIdentity.
func TokenGuard(verifier TokenVerifier, resolver IdentityResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			logRejectedToken(logger, c, err)
			c.Next()
			return
		}

		identity, err := resolver.ResolveIdentity(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, service.ErrUnknownSubject) {
				logger.Warn("Token subject no longer exists", zap.String("path", c.Request.URL.Path))
			} else {
				logger.Error("Cannot set user authentication", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(auth.NewContext(c.Request.Context(), identity))
		c.Set(IdentityKey, identity)

		logger.Debug("User authenticated", zap.Int64("user_id", identity.ID))
		c.Next()
	}
}

// RequireIdentity answers 401 for requests the guard left anonymous.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.FromContext(c.Request.Context()); !ok {
			handler.RespondUnauthorized(c, msgAuthRequired)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	tokenString, found := strings.CutPrefix(header, bearerPrefix)
	if !found {
		return "", false
	}
	tokenString = strings.TrimSpace(tokenString)
	return tokenString, tokenString != ""
}

func logRejectedToken(logger *zap.Logger, c *gin.Context, err error) {
	path := zap.String("path", c.Request.URL.Path)
	switch {
	case errors.Is(err, token.ErrExpired):
		logger.Debug("JWT token is expired", path)
	case errors.Is(err, token.ErrBadSignature):
		logger.Warn("Invalid JWT signature", path)
	case errors.Is(err, token.ErrMalformedToken):
		logger.Warn("Invalid JWT token", path)
	default:
		logger.Warn("JWT token rejected", path, zap.Error(err))
	}
}
