// Package token issues and verifies the signed bearer tokens that carry a
// user's identity between requests.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"yoga-api/internal/crypto"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("bad token signature")
	ErrExpired        = errors.New("token expired")
	ErrInvalidTTL     = errors.New("token ttl must be positive")
	ErrEmptySubject   = errors.New("token subject is empty")
)

// Claims is what a verified token says about its bearer.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Clock abstracts "now" so expiry can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

var signingMethod = jwt.SigningMethodHS512

// JWTCodec encodes claims as HS512-signed compact JWTs
// (base64url, no padding: header.payload.signature).
// It holds no mutable state and is safe for concurrent use.
type JWTCodec struct {
	key   []byte
	ttl   time.Duration
	clock Clock
}

func NewJWTCodec(key *crypto.SigningKey, ttl time.Duration, clock Clock) (*JWTCodec, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	if clock == nil {
		clock = SystemClock
	}
	return &JWTCodec{key: key.Bytes(), ttl: ttl, clock: clock}, nil
}

// Issue signs a token for subject valid from now until now+ttl.
func (c *JWTCodec) Issue(subject string) (string, *Claims, error) {
	if subject == "" {
		return "", nil, ErrEmptySubject
	}

	now := c.clock.Now()
	registered := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	tokenString, err := jwt.NewWithClaims(signingMethod, registered).SignedString(c.key)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, toClaims(&registered), nil
}

// Verify checks the token's structure, signature and expiry, in that order.
// It fails with ErrMalformedToken, ErrBadSignature or ErrExpired.
func (c *JWTCodec) Verify(tokenString string) (*Claims, error) {
	registered := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, registered,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return c.key, nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, ErrBadSignature
	}
	if registered.Subject == "" {
		return nil, ErrMalformedToken
	}

	return toClaims(registered), nil
}

// classify folds jwt's error tree into the three codec failures.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		// missing exp, nbf in the future and similar claim problems
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}

func toClaims(r *jwt.RegisteredClaims) *Claims {
	claims := &Claims{Subject: r.Subject}
	if r.IssuedAt != nil {
		claims.IssuedAt = r.IssuedAt.Time
	}
	if r.ExpiresAt != nil {
		claims.ExpiresAt = r.ExpiresAt.Time
	}
	return claims
}
