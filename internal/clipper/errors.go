package clipper

import (
	"context"
	"errors"
	"net/http"

	"video-cutter/internal/fetcher"
	"video-cutter/internal/source"
	"video-cutter/internal/timecode"
	"video-cutter/internal/transcoder"
)

// Kind categorizes a failed clip request.
type Kind string

const (
	// InvalidRequest covers malformed timestamps, bad ranges and source selection errors.
	InvalidRequest Kind = "invalid_request"
	// SourceUnavailable covers uploads that are not video and remote fetches that failed.
	SourceUnavailable Kind = "source_unavailable"
	// TranscodeError covers ffmpeg failures and missing output.
	TranscodeError Kind = "transcode_error"
	// Internal covers everything else.
	Internal Kind = "internal"
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case InvalidRequest, SourceUnavailable:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified clip failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != e.Err.Error() {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with the given kind. The message defaults to err's text.
func NewError(kind Kind, message string, err error) *Error {
	if message == "" && err != nil {
		message = err.Error()
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// Classify maps an error from any stage of the pipeline to an *Error.
// A nil error returns nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	switch {
	case errors.Is(err, timecode.ErrInvalidFormat),
		errors.Is(err, source.ErrNoSource),
		errors.Is(err, source.ErrAmbiguousSource):
		return NewError(InvalidRequest, "", err)

	case errors.Is(err, source.ErrNotVideo),
		errors.Is(err, source.ErrEmptyUpload),
		errors.Is(err, fetcher.ErrAllAttemptsFailed),
		errors.Is(err, fetcher.ErrNoFormats),
		errors.Is(err, fetcher.ErrNoFile):
		return NewError(SourceUnavailable, "", err)

	case errors.Is(err, transcoder.ErrTranscode):
		return NewError(TranscodeError, "", err)

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NewError(Internal, "request cancelled", err)

	default:
		return NewError(Internal, "", err)
	}
}

// Outcome returns the metric label for err, "success" when nil.
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	return string(Classify(err).Kind)
}
