package client

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrUnavailable         = errors.New("server unavailable")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrCanceled            = errors.New("request canceled")
)

// CodeInsufficientTokens is the backend error code for a failed server-side
// balance check.
const CodeInsufficientTokens = "insufficient_tokens"

const maxMessageRunes = 300

// ContentError is a backend verdict about the submitted content itself:
// unparseable page, unsupported video, OCR failure, unknown recipe.
type ContentError struct {
	Status  int
	Code    string
	Message string
}

func (e *ContentError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected content (status %d)", e.Status)
	}
	return e.Message
}

// sanitizeMessage collapses whitespace and bounds the length of backend text
// before it is shown to the user.
func sanitizeMessage(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxMessageRunes {
		return s
	}
	r := []rune(s)
	return string(r[:maxMessageRunes-1]) + "…"
}
