// Package common contains header names and sentinel errors shared by the
// recipekeeper client packages.
package common

// Headers attached to every backend request.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)
