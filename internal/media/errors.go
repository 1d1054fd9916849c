package media

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound means the requested format or URL could not be located.
	ErrNotFound = errors.New("not found")

	// ErrInvalidFormat means the caller asked for a format id the backend does not offer.
	ErrInvalidFormat = errors.New("invalid format_id")
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// NotFound returns an error reading exactly msg that matches ErrNotFound.
func NotFound(msg string) error { return &kindError{msg: msg, kind: ErrNotFound} }

// InvalidFormat returns an error reading exactly msg that matches ErrInvalidFormat.
func InvalidFormat(msg string) error { return &kindError{msg: msg, kind: ErrInvalidFormat} }

// UpstreamError carries the status and message an external service answered
// with, so handlers can pass them through unchanged.
type UpstreamError struct {
	Service string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "upstream error"
	}
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Service, e.Status)
	}
	return e.Message
}

// StatusCode maps err to the HTTP status a handler should reply with.
func StatusCode(err error) int {
	var ue *UpstreamError
	switch {
	case errors.As(err, &ue) && ue.Status > 0:
		return ue.Status
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var blockedPatterns = []string{
	"sign in to confirm you're not a bot",
	"sign in to confirm your age",
	"this video is age restricted",
	"cookies are no longer valid",
	"cookies have been rotated",
	"login required",
	"http error 403",
}

// IsBlocked reports whether err looks like the site refused us (bot check,
// expired cookies, 403) rather than a plain extraction failure.
func IsBlocked(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range blockedPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
