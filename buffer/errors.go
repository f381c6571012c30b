package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is reported when a decoder meets an item its state does
	// not allow. The buffer is corrupt or was captured in violation of the
	// Capturer contract; decoders do not recover from it.
	ErrMalformed = errors.New("malformed buffer")
	// ErrUsage is reported when an operation does not apply to the current
	// state, such as asking for the name of a text event.
	ErrUsage = errors.New("invalid use")
	// ErrCompleted is reported when advancing a decoder past the end.
	ErrCompleted = errors.New("decoder completed")
	// ErrCapacity is reported when a capture exceeds its size limit.
	ErrCapacity = errors.New("buffer capacity exceeded")
	// ErrClosed is reported when writing to a finished capture.
	ErrClosed = errors.New("capture closed")
	// ErrUnbalanced is reported when ending an element or document that
	// is not open, or finishing a capture with elements still open or a
	// document without a root.
	ErrUnbalanced = errors.New("unbalanced capture")
	// ErrMultipleRoots is reported when a document would hold more than
	// one tree.
	ErrMultipleRoots = errors.New("document requires a single root")
)

// Error records the operation and item offset of a failure.
type Error struct {
	Op     string
	Offset int
	Err    error
}

func (e *Error) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func opError(op string, err error) error {
	return &Error{Op: op, Offset: -1, Err: err}
}

func malformed(op string, offset int, format string, args ...any) error {
	return &Error{Op: op, Offset: offset, Err: fmt.Errorf("%w: "+format, append([]any{ErrMalformed}, args...)...)}
}

func usage(op string, kind EventKind) error {
	return &Error{Op: op, Offset: -1, Err: fmt.Errorf("%w: not available on %s", ErrUsage, kind)}
}
