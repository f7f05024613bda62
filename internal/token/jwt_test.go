package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoga-api/internal/crypto"
)

var (
	secretA = strings.Repeat("a", 64)
	secretB = strings.Repeat("b", 64)
	t0      = time.Date(2024, 7, 25, 10, 0, 0, 0, time.UTC)
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newCodec(t *testing.T, secret string, ttl time.Duration, clock Clock) *JWTCodec {
	t.Helper()
	key, err := crypto.NewSigningKey(secret)
	require.NoError(t, err)
	codec, err := NewJWTCodec(key, ttl, clock)
	require.NoError(t, err)
	return codec
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	clock := &fakeClock{now: t0}
	codec := newCodec(t, secretA, time.Hour, clock)

	tok, issued, err := codec.Issue("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(tok, ".")))
	assert.NotContains(t, tok, "=")
	assert.True(t, issued.IssuedAt.Equal(t0))
	assert.True(t, issued.ExpiresAt.Equal(t0.Add(time.Hour)))

	for _, offset := range []time.Duration{0, time.Minute, 59*time.Minute + 59*time.Second} {
		clock.now = t0.Add(offset)
		claims, err := codec.Verify(tok)
		require.NoError(t, err, "offset %s", offset)
		assert.Equal(t, "a@x.com", claims.Subject)
		assert.True(t, claims.ExpiresAt.Equal(issued.ExpiresAt))
	}
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	clock := &fakeClock{now: t0}
	ttl := 30 * time.Minute
	codec := newCodec(t, secretA, ttl, clock)

	tok, _, err := codec.Issue("a@x.com")
	require.NoError(t, err)

	clock.now = t0.Add(ttl - time.Nanosecond)
	_, err = codec.Verify(tok)
	require.NoError(t, err, "strictly before expiry must verify")

	clock.now = t0.Add(ttl)
	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, ErrExpired, "now == exp is expired")

	clock.now = t0.Add(ttl + time.Hour)
	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	clock := &fakeClock{now: t0}
	tok, _, err := newCodec(t, secretB, time.Hour, clock).Issue("a@x.com")
	require.NoError(t, err)

	_, err = newCodec(t, secretA, time.Hour, clock).Verify(tok)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerify_Malformed(t *testing.T) {
	codec := newCodec(t, secretA, time.Hour, &fakeClock{now: t0})

	for _, raw := range []string{
		"",
		"abc",
		"a.b",
		"a.b.c.d",
		"invalid.token.value",
		"not.a.jwt",
	} {
		_, err := codec.Verify(raw)
		assert.ErrorIs(t, err, ErrMalformedToken, "token %q", raw)
	}
}

func TestVerify_TamperedSegmentsNeverVerify(t *testing.T) {
	clock := &fakeClock{now: t0}
	codec := newCodec(t, secretA, time.Hour, clock)

	tok, _, err := codec.Issue("a@x.com")
	require.NoError(t, err)
	parts := strings.Split(tok, ".")

	for seg := 1; seg <= 2; seg++ {
		for i := range parts[seg] {
			tampered := make([]string, 3)
			copy(tampered, parts)
			tampered[seg] = flipChar(parts[seg], i)

			claims, err := codec.Verify(strings.Join(tampered, "."))
			require.Error(t, err, "segment %d index %d verified", seg, i)
			assert.Nil(t, claims)
			assert.True(t,
				errorIsAny(err, ErrBadSignature, ErrMalformedToken),
				"segment %d index %d: unexpected error %v", seg, i, err)
		}
	}
}

func TestVerify_ForgedPayloadReusingSignature(t *testing.T) {
	codec := newCodec(t, secretA, time.Hour, &fakeClock{now: t0})

	tok, _, err := codec.Issue("user@x.com")
	require.NoError(t, err)
	parts := strings.Split(tok, ".")

	forged, err := json.Marshal(map[string]any{
		"sub": "admin@x.com",
		"iat": t0.Unix(),
		"exp": t0.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = codec.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	codec := newCodec(t, secretA, time.Hour, &fakeClock{now: t0})
	claims := jwt.RegisteredClaims{
		Subject:   "a@x.com",
		ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour)),
	}

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretA))
	require.NoError(t, err)
	_, err = codec.Verify(hs256)
	assert.ErrorIs(t, err, ErrBadSignature)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = codec.Verify(none)
	assert.Error(t, err)
	assert.True(t, errorIsAny(err, ErrBadSignature, ErrMalformedToken), "got %v", err)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	codec := newCodec(t, secretA, time.Hour, &fakeClock{now: t0})

	tok, err := jwt.NewWithClaims(signingMethod, jwt.RegisteredClaims{Subject: "a@x.com"}).
		SignedString([]byte(secretA))
	require.NoError(t, err)

	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestNewJWTCodec_Validation(t *testing.T) {
	key, err := crypto.NewSigningKey(secretA)
	require.NoError(t, err)

	_, err = NewJWTCodec(key, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidTTL)

	codec, err := NewJWTCodec(key, time.Minute, nil)
	require.NoError(t, err)

	_, _, err = codec.Issue("")
	assert.ErrorIs(t, err, ErrEmptySubject)
}

// flipChar swaps the character at i for a different base64url character.
func flipChar(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func errorIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
