// Package auth supplies the bearer credential attached to backend calls.
// Obtaining and refreshing tokens is the backend's business; this package
// only holds the current token and refuses to hand out one that has visibly
// expired.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/recipekeeper/internal/common"
)

// SessionProvider yields the access token for the next request.
type SessionProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// expirySkew treats tokens about to expire as already expired so that a
// multi-minute import does not start with a token that dies mid-flight.
const expirySkew = 30 * time.Second

var now = time.Now

// TokenSession holds one bearer token. The signature is not verified here;
// the backend does that. Claims are parsed only to learn the expiry.
type TokenSession struct {
	mu        sync.RWMutex
	token     string
	subject   string
	expiresAt time.Time
}

func NewTokenSession() *TokenSession {
	return &TokenSession{}
}

// SetToken installs a new token after checking that it parses as a JWT.
func (s *TokenSession) SetToken(token string) error {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), common.BearerPrefix))
	if token == "" {
		return common.ErrInvalidToken
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.subject = claims.Subject
	s.expiresAt = exp
	return nil
}

// Clear forgets the token (sign-out).
func (s *TokenSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.subject, s.expiresAt = "", "", time.Time{}
}

// SignedIn reports whether a token is present, expired or not.
func (s *TokenSession) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Subject returns the "sub" claim of the current token.
func (s *TokenSession) Subject() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subject
}

// ExpiresAt returns the token expiry; zero means the token carries none.
func (s *TokenSession) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *TokenSession) AccessToken(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return "", common.ErrNoSession
	}
	if !s.expiresAt.IsZero() && !now().Add(expirySkew).Before(s.expiresAt) {
		return "", common.ErrSessionExpired
	}
	return s.token, nil
}

// IsSessionError reports whether err means the user has to sign in again.
func IsSessionError(err error) bool {
	return errors.Is(err, common.ErrNoSession) ||
		errors.Is(err, common.ErrSessionExpired) ||
		errors.Is(err, common.ErrInvalidToken)
}
