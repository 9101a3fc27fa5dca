// internal/session/token_test.go
package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, secret string, claims tokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyMapsClaims(t *testing.T) {
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	signed := mintToken(t, "test-secret", tokenClaims{
		Email:     "rider@example.com",
		FullName:  "Test Rider",
		AvatarURL: "https://cdn.example.com/avatar.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "proomtb-auth",
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	v := NewTokenVerifier("test-secret", "proomtb-auth")
	sess, err := v.Verify(signed)

	require.NoError(t, err)
	assert.Equal(t, "user-123", sess.UserID)
	assert.Equal(t, "rider@example.com", sess.Email)
	assert.Equal(t, "Test Rider", sess.FullName)
	assert.Equal(t, "https://cdn.example.com/avatar.png", sess.AvatarURL)
	assert.WithinDuration(t, expires, sess.ExpiresAt, time.Second)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed := mintToken(t, "other-secret", tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
	})

	v := NewTokenVerifier("test-secret", "")
	_, err := v.Verify(signed)

	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	signed := mintToken(t, "test-secret", tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	v := NewTokenVerifier("test-secret", "")
	_, err := v.Verify(signed)

	assert.Error(t, err)
}

func TestVerifyRequiresSubject(t *testing.T) {
	signed := mintToken(t, "test-secret", tokenClaims{Email: "nobody@example.com"})

	v := NewTokenVerifier("test-secret", "")
	_, err := v.Verify(signed)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no subject")
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	signed := mintToken(t, "test-secret", tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user-123",
			Issuer:  "someone-else",
		},
	})

	v := NewTokenVerifier("test-secret", "proomtb-auth")
	_, err := v.Verify(signed)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "issuer mismatch")
}

func TestVerifyAllowsAnyIssuerWhenUnconfigured(t *testing.T) {
	signed := mintToken(t, "test-secret", tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user-123",
			Issuer:  "someone-else",
		},
	})

	v := NewTokenVerifier("test-secret", "")
	_, err := v.Verify(signed)

	assert.NoError(t, err)
}
