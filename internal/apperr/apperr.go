// Package apperr holds the error taxonomy shared by the engine and whatever
// transport sits in front of it.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindBadInput
	// KindUpstreamUnavailable is recovered locally and should never reach a caller.
	KindUpstreamUnavailable
)

const internalMessage = "internal error"

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadInput:
		return "bad_input"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	default:
		return "internal"
	}
}

// Error is a classified error. Msg is safe to show to a caller, Err is not.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Sentinels for errors.Is checks. Matching is done by kind only.
var (
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrConflict            = &Error{Kind: KindConflict}
	ErrBadInput            = &Error{Kind: KindBadInput}
	ErrInternal            = &Error{Kind: KindInternal}
	ErrUpstreamUnavailable = &Error{Kind: KindUpstreamUnavailable}
)

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

func BadInput(msg string) error { return &Error{Kind: KindBadInput, Msg: msg} }

func Internal(err error) error { return &Error{Kind: KindInternal, Err: err} }

func Upstream(msg string, err error) error {
	return &Error{Kind: KindUpstreamUnavailable, Msg: msg, Err: err}
}

// KindOf returns the kind of the first classified error in the chain.
// Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error onto the status code a transport should answer with.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindBadInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing message. Internal details are never exposed.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return internalMessage
	}
	switch e.Kind {
	case KindNotFound, KindConflict, KindBadInput:
		if e.Msg != "" {
			return e.Msg
		}
		return e.Kind.String()
	default:
		return internalMessage
	}
}

// Body is the uniform error payload.
func Body(err error) map[string]string {
	return map[string]string{"error": Message(err)}
}
