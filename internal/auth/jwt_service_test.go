package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authapi/internal/model"
)

var testIdentity = Identity{UserID: 42, Email: "a@x.com", Role: model.RoleAdmin}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.Issue(testIdentity)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, claims.Identity)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_TokensAreUnique(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	a, err := svc.Issue(testIdentity)
	require.NoError(t, err)
	b, err := svc.Issue(testIdentity)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJWTService_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	issuer := NewJWTService("test-secret", time.Hour, WithClock(func() time.Time { return issuedAt }))
	verifier := NewJWTService("test-secret", time.Hour)

	token, err := issuer.Issue(testIdentity)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidUntilExpiry(t *testing.T) {
	now := time.Now()
	clock := now
	svc := NewJWTService("test-secret", time.Hour, WithClock(func() time.Time { return clock }))

	token, err := svc.Issue(testIdentity)
	require.NoError(t, err)

	clock = now.Add(59 * time.Minute)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	clock = now.Add(61 * time.Minute)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Tampered(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.Issue(testIdentity)
	require.NoError(t, err)

	for i := range token {
		if token[i] == '.' {
			continue
		}
		b := []byte(token)
		b[i] = flipHighBit(b[i])
		_, err := svc.Verify(string(b))
		assert.ErrorIs(t, err, ErrInvalidToken, "altered byte %d must be rejected", i)
	}
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", time.Hour).Issue(testIdentity)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Malformed(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	for _, token := range []string{"", "abc", "a.b.c", strings.Repeat(".", 5)} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		Identity: testIdentity,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsMissingExpiry(t *testing.T) {
	claims := &Claims{Identity: testIdentity}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsIncompleteIdentity(t *testing.T) {
	claims := &Claims{
		Identity: Identity{UserID: 1, Email: "a@x.com", Role: "root"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTService_DefaultExpiry(t *testing.T) {
	assert.Equal(t, DefaultTokenExpiry, NewJWTService("s", 0).Expiry())
}

func TestIdentityFor(t *testing.T) {
	id := IdentityFor(model.PublicUser{ID: 3, Name: "A", Email: "a@x.com", Role: model.RoleUser})
	assert.Equal(t, Identity{UserID: 3, Email: "a@x.com", Role: model.RoleUser}, id)
	assert.False(t, id.IsAdmin())
}

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// flipHighBit swaps a base64url character for the one whose 6-bit value
// differs in the most significant bit, so the decoded bytes always change.
func flipHighBit(ch byte) byte {
	idx := strings.IndexByte(base64URLAlphabet, ch)
	return base64URLAlphabet[idx^0x20]
}
