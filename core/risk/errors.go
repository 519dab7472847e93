package risk

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind is the abort taxonomy of the prediction pipeline.
type ErrorKind int

const (
	// KindNotFound: one of the required records (student, profile,
	// performance) is absent. Not retryable.
	KindNotFound ErrorKind = iota + 1
	// KindStoreUnavailable: the document store failed during fetch or
	// persist. Transient; the caller may retry.
	KindStoreUnavailable
	// KindClassifierError: the trained artifact is unusable.
	KindClassifierError
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindStoreUnavailable:
		return "StoreUnavailable"
	case KindClassifierError:
		return "ClassifierError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a structured prediction abort: the taxonomy kind, the student it
// concerns and the underlying cause.
type Error struct {
	Kind      ErrorKind
	StudentID string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: student %s: %v", e.Kind, e.StudentID, e.Err)
}

// Cause supports pkg/errors unwrapping.
func (e *Error) Cause() error { return e.Err }

func newError(kind ErrorKind, studentID string, err error) *Error {
	return &Error{Kind: kind, StudentID: studentID, Err: err}
}

// KindOf returns the taxonomy kind of err, or 0 if err is not a pipeline
// abort.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
