package search

import (
	"fmt"
	"strings"
)

// Kind classifies a search error. Only Startup errors abort a run;
// everything else is scoped to a single work item and the traversal
// continues for sibling items.
type Kind int

const (
	// KindStartup is fatal and reported before any traversal begins.
	KindStartup Kind = iota
	// KindFileIO covers metadata reads, directory listings, and file
	// open/map failures for one path.
	KindFileIO
	// KindSend is a failure to enqueue a work item or result,
	// meaning the consumer side has already terminated.
	KindSend
	// KindAggregate wraps the failures of one batched operation.
	KindAggregate
)

// String returns the kind's name as used in log output.
func (k Kind) String() string {
	switch k {
	case KindStartup:
		return "startup"
	case KindFileIO:
		return "file_io"
	case KindSend:
		return "send"
	case KindAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

// Error is a search failure value. Failures flow through the same
// channels as successes and are never panicked or thrown.
type Error struct {
	Kind Kind
	Msg  string
	Errs []error // populated only for KindAggregate
}

func (e *Error) Error() string {
	if e.Kind == KindAggregate {
		parts := make([]string, len(e.Errs))
		for i, err := range e.Errs {
			parts[i] = err.Error()
		}
		return fmt.Sprintf("aggregate: [%s]", strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the wrapped failures of an aggregate so that
// errors.Is and errors.As see through it.
func (e *Error) Unwrap() []error {
	return e.Errs
}

// Startupf builds a fatal startup error.
func Startupf(format string, args ...any) *Error {
	return &Error{Kind: KindStartup, Msg: fmt.Sprintf(format, args...)}
}

// IOf builds a per-path file IO error.
func IOf(format string, args ...any) *Error {
	return &Error{Kind: KindFileIO, Msg: fmt.Sprintf(format, args...)}
}

// Sendf builds a channel-send error.
func Sendf(format string, args ...any) *Error {
	return &Error{Kind: KindSend, Msg: fmt.Sprintf(format, args...)}
}

// Aggregate wraps a batch of failures in original order.
func Aggregate(errs []error) *Error {
	return &Error{Kind: KindAggregate, Errs: errs}
}

// KindOf reports the kind of err, or KindFileIO if err is not an
// *Error (foreign errors only ever arise from filesystem calls).
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindFileIO
}

// Result pairs a value with the error that produced it, for batched
// operations evaluated together.
type Result[T any] struct {
	Val T
	Err error
}

// Lift turns a sequence of fallible results into either every value
// (order preserved) or a single aggregate error carrying every
// failure in original order. There is no partial success: one failed
// child discards the batch at the caller's decision point.
func Lift[T any](results []Result[T]) ([]T, error) {
	var failed []error
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Err)
		}
	}
	if len(failed) > 0 {
		return nil, Aggregate(failed)
	}
	vals := make([]T, len(results))
	for i, r := range results {
		vals[i] = r.Val
	}
	return vals, nil
}
