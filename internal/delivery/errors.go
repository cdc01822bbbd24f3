package delivery

import (
	"errors"
	"fmt"
)

// Failure codes for one delivery attempt. Every code here is retryable
// through the fallback chain; anything else that goes wrong is fatal.
const (
	CodeFetchFailed = "fetch_failed"
	CodeFetchHTML   = "fetch_html"
	CodeNotVideo    = "fetch_not_video"
	CodeFavicon     = "fetch_favicon"
	CodeTooSmall    = "fetch_too_small"
)

// ErrTransformUnavailable means delivery needed the external transform
// engine for a remux and it is not installed. This is a deployment problem,
// not a bad link, so it maps to a distinct configuration error.
var ErrTransformUnavailable = errors.New("ffmpeg not found")

// ErrExhausted means every fallback candidate was rejected before any
// network attempt produced a classifiable failure.
var ErrExhausted = errors.New("no deliverable candidate")

// StreamError is a retryable delivery failure: the upstream answered, but
// with something that is not the expected media.
type StreamError struct {
	Code   string
	Status int // upstream HTTP status, for fetch_failed
}

func (e *StreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s:%d", e.Code, e.Status)
	}
	return e.Code
}

// Retryable reports whether the failure may be retried with the next
// fallback candidate.
func Retryable(err error) bool {
	var se *StreamError
	return errors.As(err, &se)
}
