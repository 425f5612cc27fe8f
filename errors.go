package presskit

import (
	"errors"
	"fmt"
)

// Sentinel errors for render pass failure conditions.
var (
	ErrInvalidSequence = errors.New("presskit: operation out of sequence")
	ErrImageDecode     = errors.New("presskit: image cannot be decoded")
	ErrEncoding        = errors.New("presskit: text not representable in font encoding")
	ErrAttachment      = errors.New("presskit: attachment cannot be imported")
	ErrInvalidParam    = errors.New("presskit: invalid parameter")
)

// BuildError represents an error that occurred during a specific builder operation.
// It wraps an underlying error and includes the operation name for context.
type BuildError struct {
	Op  string // operation name, e.g. "DrawParagraph", "Finalize"
	Err error  // underlying error
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("presskit.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("presskit.%s: unknown error", e.Op)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// newBuildError creates a new BuildError wrapping the given error with operation context.
func newBuildError(op string, err error) *BuildError {
	return &BuildError{Op: op, Err: err}
}
