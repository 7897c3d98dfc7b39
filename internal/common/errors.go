// Package common defines shared constants and sentinel errors used across
// recipekeeper client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Cache / repository errors.
	ErrorNotFound = errors.New("not found")

	// Session errors.
	ErrNoSession      = errors.New("not signed in")
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionExpired = errors.New("session expired")
)
