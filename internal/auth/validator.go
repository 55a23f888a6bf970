// Package auth validates the bearer credential a client presents when
// opening a connection. Validation never fails the connection: any problem
// with the token degrades the session to a guest identity.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"docshare-sync/internal/models"
	"docshare-sync/internal/repo"
)

// Decode failure reasons. They never reach the client; Validate maps each
// of them to an anonymous identity.
var (
	ErrNoToken      = errors.New("no token presented")
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingClaim = errors.New("token has no user_id claim")
	ErrNoUserStore  = errors.New("no user store configured")
	ErrUnknownUser  = errors.New("token references unknown user")
	ErrStoreFailure = errors.New("user lookup failed")
)

// Validator decodes bearer tokens into identities.
type Validator struct {
	secret []byte
	users  repo.UserRepo
	logger *zap.Logger
}

// NewValidator creates a Validator. users may be nil, in which case every
// token degrades to guest.
func NewValidator(secret string, users repo.UserRepo, logger *zap.Logger) *Validator {
	return &Validator{secret: []byte(secret), users: users, logger: logger}
}

// Validate resolves token to an identity. An absent, malformed, expired or
// otherwise unusable token yields Anonymous; the reason is logged, never
// surfaced. Anonymous participation is permitted, so this cannot fail.
func (v *Validator) Validate(ctx context.Context, token string) models.Identity {
	id, err := v.decode(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			v.logger.Debug("token rejected, continuing as guest", zap.Error(err))
		}
		return models.Anonymous
	}
	return id
}

// decode is the strict path: every failure is an explicit error so the
// guest fallback in Validate stays a deliberate, testable branch.
func (v *Validator) decode(ctx context.Context, token string) (models.Identity, error) {
	if token == "" {
		return models.Anonymous, ErrNoToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return models.Anonymous, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return models.Anonymous, ErrInvalidToken
	}
	rawID, ok := claims["user_id"]
	if !ok {
		return models.Anonymous, ErrMissingClaim
	}
	userID, ok := claimInt64(rawID)
	if !ok {
		return models.Anonymous, ErrMissingClaim
	}

	if v.users == nil {
		return models.Anonymous, ErrNoUserStore
	}
	u, err := v.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return models.Anonymous, ErrUnknownUser
	}
	if err != nil {
		return models.Anonymous, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	return models.Identity{Authenticated: true, UserID: u.ID, Username: u.Username}, nil
}

// claimInt64 coerces a JSON claim value to int64. Numbers arrive as
// float64 from the JSON decoder.
func claimInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
