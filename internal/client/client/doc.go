// Package client is the boundary between the recipekeeper client and its
// backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): URL and
//     media imports, token balance, receipt redemption, recipe reads and a
//     liveness probe.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that attaches the
//     bearer token from an auth.SessionProvider and a fresh request id to
//     every call and maps transport failures and HTTP statuses onto the
//     errors below.
//
// # Error Handling
//
// Conditions the UI distinguishes are exposed as sentinel errors matched with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrInsufficientBalance,
// ErrCanceled. Backend-reported content problems (page not found, video not
// supported, OCR failure) arrive as *ContentError, carrying the backend text.
//
// The client never retries; a retry is always a new call by the user.
package client
