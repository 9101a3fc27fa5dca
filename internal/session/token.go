// internal/session/token.go
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenVerifier validates access tokens issued by the external identity
// provider. This service only verifies; it never mints tokens.
type TokenVerifier struct {
	secret []byte
	issuer string
}

type tokenClaims struct {
	Email     string `json:"email"`
	FullName  string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	jwt.RegisteredClaims
}

func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Verify parses and validates a provider token and maps its claims onto a
// Session.
func (v *TokenVerifier) Verify(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session token claims")
	}

	if claims.Subject == "" {
		return nil, errors.New("session token has no subject")
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, errors.New("session token issuer mismatch")
	}

	sess := &Session{
		UserID:    claims.Subject,
		Email:     claims.Email,
		FullName:  claims.FullName,
		AvatarURL: claims.AvatarURL,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	} else {
		sess.ExpiresAt = time.Time{}
	}
	return sess, nil
}
