package dynops

import "fmt"

// Result carries either a successfully computed value or an Issue describing
// why the computation failed. An errored Result may additionally carry a
// partial value: the best-effort value recoverable despite the error, usable
// by callers that tolerate degraded results. Absence of a partial means no
// safe fallback exists.
//
// Every fallible operation in this package returns a Result; nothing panics
// on bad input.
type Result[V any] struct {
	value   V
	issue   *Issue
	partial bool // value holds a recovered partial when issue != nil
}

// Success returns a successful Result holding v.
func Success[V any](v V) Result[V] { return Result[V]{value: v} }

// Error returns an errored Result with the given code and message.
func Error[V any](code, message string) Result[V] {
	return Result[V]{issue: &Issue{Code: code, Message: message}}
}

// Errorf is Error with fmt.Sprintf formatting.
func Errorf[V any](code, format string, args ...any) Result[V] {
	return Error[V](code, fmt.Sprintf(format, args...))
}

// ErrorWithPartial returns an errored Result carrying a best-effort partial
// value alongside the diagnostic.
func ErrorWithPartial[V any](code, message string, partial V) Result[V] {
	return Result[V]{issue: &Issue{Code: code, Message: message}, value: partial, partial: true}
}

// failed rewraps an existing Issue without a partial.
func failed[V any](is *Issue) Result[V] { return Result[V]{issue: is} }

// Get returns the success value. ok is false when the Result is an error.
func (r Result[V]) Get() (V, bool) {
	if r.issue != nil {
		var zero V
		return zero, false
	}
	return r.value, true
}

// Partial returns the recovered partial value of an errored Result, if any.
func (r Result[V]) Partial() (V, bool) {
	if r.issue == nil || !r.partial {
		var zero V
		return zero, false
	}
	return r.value, true
}

// ResultOrPartial returns the success value, or else the partial value after
// reporting the issue to onError. ok is false only when neither is available.
func (r Result[V]) ResultOrPartial(onError func(*Issue)) (V, bool) {
	if r.issue == nil {
		return r.value, true
	}
	if onError != nil {
		onError(r.issue)
	}
	if r.partial {
		return r.value, true
	}
	var zero V
	return zero, false
}

// Or returns the success value, or def when the Result is an error.
func (r Result[V]) Or(def V) V {
	if r.issue != nil {
		return def
	}
	return r.value
}

// IsError reports whether the Result holds an error.
func (r Result[V]) IsError() bool { return r.issue != nil }

// Issue returns the diagnostic, or nil on success.
func (r Result[V]) Issue() *Issue { return r.issue }

// Err returns the diagnostic as an error, or nil on success.
func (r Result[V]) Err() error {
	if r.issue == nil {
		return nil
	}
	return r.issue
}

// Map applies fn to the success value, and to the partial value when present.
// An error is never promoted back to success. For transformations that change
// the value type, use MapResult.
func (r Result[V]) Map(fn func(V) V) Result[V] { return MapResult(r, fn) }

// MapResult applies fn to the success value of r, threading an available
// partial through the transformation. Errors short-circuit.
func MapResult[V, R any](r Result[V], fn func(V) R) Result[R] {
	if r.issue == nil {
		return Success(fn(r.value))
	}
	out := Result[R]{issue: r.issue}
	if r.partial {
		out.value = fn(r.value)
		out.partial = true
	}
	return out
}

// FlatMap chains a fallible continuation. On success it applies fn; on error
// it keeps the original issue, feeding an available partial through fn so any
// value fn recovers is carried forward as the new partial.
func FlatMap[V, R any](r Result[V], fn func(V) Result[R]) Result[R] {
	if r.issue == nil {
		return fn(r.value)
	}
	if r.partial {
		pr := fn(r.value)
		if v, ok := pr.Get(); ok {
			return Result[R]{issue: r.issue, value: v, partial: true}
		}
		if pv, ok := pr.Partial(); ok {
			return Result[R]{issue: r.issue, value: pv, partial: true}
		}
	}
	return Result[R]{issue: r.issue}
}
