package jpeg

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorClass identifies the subsystem responsible for a fatal decode error.
type ErrorClass uint

const (
	IoError ErrorClass = iota
	StructuralError
	UnsupportedError
	EntropyError
	LogicError
)

func (c ErrorClass) String() string {
	switch c {
	case IoError:
		return "io"
	case StructuralError:
		return "structural"
	case UnsupportedError:
		return "unsupported"
	case EntropyError:
		return "entropy"
	case LogicError:
		return "logic"
	}
	return "unknown"
}

// DecodeError is the single error type returned by every fallible operation
// in the decoder. Every class is fatal: the pipeline never retries or
// partially recovers, because losing entropy-decode synchronisation cannot
// be undone.
type DecodeError struct {
	Class   ErrorClass
	Subsys  string // e.g. "bitreader", "huffman", "segment", "scan"
	cause   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Subsys, e.Class, e.cause)
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

// newError wraps cause with a stack trace the way the rest of the corpus
// wraps entropy/IO failures, and tags it with the subsystem and class so
// callers at the CLI boundary can print a short diagnostic per §7.
func newError(class ErrorClass, subsys string, cause error) error {
	return &DecodeError{Class: class, Subsys: subsys, cause: errors.WithStack(cause)}
}

func newErrorf(class ErrorClass, subsys string, format string, args ...interface{}) error {
	return newError(class, subsys, fmt.Errorf(format, args...))
}
