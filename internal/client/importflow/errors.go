package importflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/importer"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

var (
	ErrImportInProgress = errors.New("an import is already running")
	ErrInvalidRequest   = errors.New("invalid import request")
	ErrDiscarded        = errors.New("import screen was closed")
)

// InsufficientTokensError is raised before any backend call when the local
// balance cannot cover the import.
type InsufficientTokensError struct {
	Required  int
	Available int
}

func (e *InsufficientTokensError) Error() string {
	return fmt.Sprintf("import needs %d tokens, %d available", e.Required, e.Available)
}

// UserMessage turns any import error into text fit for the error banner.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		ite *InsufficientTokensError
		ce  *client.ContentError
	)
	switch {
	case errors.As(err, &ite):
		return fmt.Sprintf("This import costs %d tokens but you have %d. Buy more tokens to continue.", ite.Required, ite.Available)
	case errors.Is(err, ErrImportInProgress):
		return "An import is already running."
	case errors.Is(err, importer.ErrEmptyRequest):
		return "Paste a link or pick photos or a PDF first."
	case errors.Is(err, importer.ErrUnclassifiable):
		return "That doesn't look like a valid web address."
	case errors.Is(err, importer.ErrRangeWithoutVideo):
		return "Start and end times can only be used with video links."
	case errors.Is(err, importer.ErrInvalidTimestamp), errors.Is(err, importer.ErrInvalidRange):
		return "Check the start and end times: use m:ss and make the start earlier than the end."
	case errors.Is(err, importer.ErrInvalidLanguage):
		return "That language is not supported."
	case errors.Is(err, client.ErrInsufficientBalance):
		return "You don't have enough tokens for this import."
	case errors.Is(err, client.ErrUnauthorized):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, client.ErrUnavailable):
		return "Can't reach the server. Check your connection and try again."
	case errors.Is(err, client.ErrCanceled), errors.Is(err, context.Canceled), errors.Is(err, ErrDiscarded):
		return "Import canceled."
	case errors.As(err, &ce):
		return ce.Error()
	default:
		return "Something went wrong. Please try again."
	}
}

// reasonFor classifies a gateway failure for routing in the UI.
func reasonFor(err error) models.ErrorReason {
	var ce *client.ContentError
	switch {
	case errors.Is(err, client.ErrInsufficientBalance):
		return models.ReasonInsufficientTokens
	case errors.Is(err, client.ErrUnauthorized):
		return models.ReasonUnauthorized
	case errors.Is(err, client.ErrUnavailable):
		return models.ReasonNetwork
	case errors.Is(err, client.ErrCanceled), errors.Is(err, context.Canceled):
		return models.ReasonCanceled
	case errors.As(err, &ce):
		return models.ReasonContent
	default:
		return models.ReasonUnknown
	}
}
