// Package apierr carries a classified error through the export pipeline up
// to the HTTP layer, which maps it onto a status code and JSON envelope.
package apierr

import (
	"fmt"
	"net/http"
)

// Kind is the error taxonomy of the export pipeline. Fragment-level failures
// never surface as one of these; only whole-request failures do.
type Kind string

const (
	KindAuthRequired         Kind = "auth_required"
	KindAccessDenied         Kind = "access_denied"
	KindNotFound             Kind = "not_found"
	KindExportDisabled       Kind = "export_disabled"
	KindContentTooLarge      Kind = "content_too_large"
	KindRenderTimeout        Kind = "render_timeout"
	KindRenderProcessFailure Kind = "render_process_failure"
	KindInvalidArtifact      Kind = "invalid_artifact"
	KindUnknown              Kind = "unknown"
)

type Error struct {
	Kind    Kind
	Summary string
	Err     error
	// Details optionally carries a JSON-serializable diagnostic payload,
	// e.g. fragment counts for an empty export target.
	Details any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Summary != "" {
		return e.Summary
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the taxonomy onto HTTP status codes.
func (e *Error) Status() int {
	switch e.Kind {
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindAccessDenied, KindExportDisabled:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, summary string, err error) *Error {
	return &Error{Kind: kind, Summary: summary, Err: err}
}

func Newf(kind Kind, summary string, format string, args ...any) *Error {
	return &Error{Kind: kind, Summary: summary, Err: fmt.Errorf(format, args...)}
}
