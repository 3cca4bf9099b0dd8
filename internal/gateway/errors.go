package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies gateway failures so handlers can map them to HTTP statuses
// without inspecting error strings.
type Kind string

const (
	KindInvalidRequestPath   Kind = "invalid_request_path"
	KindMissingIndex         Kind = "missing_index"
	KindUnsupportedIndexType Kind = "unsupported_index_type"
	KindInvalidMethod        Kind = "invalid_method"
	KindUpstreamUnavailable  Kind = "upstream_unavailable"
	KindInternal             Kind = "internal"
)

// HTTPStatus returns the caller-visible status for this kind. Translation
// failures are the caller's fault; transport failures are the backend's.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidRequestPath, KindMissingIndex, KindUnsupportedIndexType, KindInvalidMethod:
		return http.StatusBadRequest
	case KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified gateway error. It may wrap a cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Errf builds a classified error with a formatted message.
func Errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapErr classifies an underlying error.
func WrapErr(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindInternal
}
