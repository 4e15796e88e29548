// Package result provides the tagged success/failure value returned by every
// call made through the API access layer.
//
// A Result[T] is either Ok (carries a T) or Failed (carries a *Failure).
// Callers branch with Value, Failure or Match; Unwrap converts back into the
// usual (T, error) pair when that reads better at the call site.
package result

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why a call failed.
type Kind string

const (
	// KindTransport means the request never produced an HTTP response.
	KindTransport Kind = "transport"
	// KindTimeout means the per-call deadline expired.
	KindTimeout Kind = "timeout"
	// KindCanceled means the caller's context was canceled.
	KindCanceled Kind = "canceled"
	// KindStatus means the server answered with a non-2xx status.
	KindStatus Kind = "status"
	// KindDecode means the response body could not be parsed or was invalid.
	KindDecode Kind = "decode"
	// KindEncode means the request body could not be serialized.
	KindEncode Kind = "encode"
	// KindRejected means the server answered 2xx but explicitly reported failure.
	KindRejected Kind = "rejected"
)

// Failure describes a failed call. It implements error.
type Failure struct {
	Kind    Kind
	Status  int // HTTP status, 0 when no response was received
	Message string
	cause   error
}

// Error returns the human-readable message.
func (f *Failure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	if f.Status != 0 {
		return fmt.Sprintf("request failed with status %d", f.Status)
	}
	return string(f.Kind)
}

// Unwrap exposes the underlying cause, if any.
func (f *Failure) Unwrap() error { return f.cause }

// Connectivity reports whether the failure says nothing about the request
// itself: the remote side was unreachable, too slow, or broken.
func (f *Failure) Connectivity() bool {
	switch f.Kind {
	case KindTransport, KindTimeout, KindCanceled, KindDecode:
		return true
	case KindStatus:
		return f.Status >= http.StatusInternalServerError
	default:
		return false
	}
}

// NewFailure builds a Failure wrapping cause.
func NewFailure(kind Kind, status int, message string, cause error) *Failure {
	if message == "" && cause != nil {
		message = cause.Error()
	}
	return &Failure{Kind: kind, Status: status, Message: message, cause: cause}
}

// StatusFailure builds the failure for a non-2xx response. The message always
// names the status code.
func StatusFailure(status int, detail string) *Failure {
	msg := fmt.Sprintf("HTTP error: status %d", status)
	if detail != "" {
		msg += ": " + detail
	}
	return &Failure{Kind: KindStatus, Status: status, Message: msg}
}

// Result is Ok(T) | Failed(*Failure). Build it with Ok or Fail; the zero
// value reads as a success carrying the zero T.
type Result[T any] struct {
	value   T
	failure *Failure
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps a failure. A nil failure is replaced by a generic one so the
// result can never be mistaken for success.
func Fail[T any](f *Failure) Result[T] {
	if f == nil {
		f = &Failure{Kind: KindTransport, Message: "unknown failure"}
	}
	return Result[T]{failure: f}
}

// FailWith is shorthand for Fail(NewFailure(...)).
func FailWith[T any](kind Kind, status int, message string, cause error) Result[T] {
	return Fail[T](NewFailure(kind, status, message, cause))
}

// Success reports whether the result carries a value.
func (r Result[T]) Success() bool { return r.failure == nil }

// Value returns the carried value and true on success, or the zero value and
// false on failure.
func (r Result[T]) Value() (T, bool) {
	if r.failure != nil {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Failure returns the failure, or nil on success.
func (r Result[T]) Failure() *Failure { return r.failure }

// Err returns the failure message, or "" on success.
func (r Result[T]) Err() string {
	if r.failure == nil {
		return ""
	}
	return r.failure.Error()
}

// Unwrap converts the result into (T, error).
func (r Result[T]) Unwrap() (T, error) {
	if r.failure != nil {
		var zero T
		return zero, r.failure
	}
	return r.value, nil
}

// Match forces both branches to be handled.
func Match[T, R any](r Result[T], ok func(T) R, failed func(*Failure) R) R {
	if r.failure != nil {
		return failed(r.failure)
	}
	return ok(r.value)
}

// Map transforms the success value, passing failures through untouched.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.failure != nil {
		return Result[U]{failure: r.failure}
	}
	return Ok(fn(r.value))
}

// AsFailure extracts a *Failure from err when it is one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
