package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Adapter implements SessionTokenSigner
var _ driven.SessionTokenSigner = (*Adapter)(nil)

// sessionClaims carries the session id in a signed cookie value
type sessionClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Adapter signs and verifies session tokens with HS256
type Adapter struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAdapter creates a new session token adapter.
// A zero ttl issues tokens without an expiry claim.
func NewAdapter(secret string, ttl time.Duration) *Adapter {
	return &Adapter{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for the session id
func (a *Adapter) Issue(sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("%w: empty session id", domain.ErrInvalidInput)
	}

	now := a.now()
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if a.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(a.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Parse validates a token and returns its session id
func (a *Adapter) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.SessionID, nil
}
