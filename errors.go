package canvas

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package matches exactly one
// of these with errors.Is.
var (
	// ErrInvalidArgument reports a missing or malformed argument.
	ErrInvalidArgument = errors.New("canvas: invalid argument")

	// ErrInvalidState reports an operation attempted in the wrong state.
	ErrInvalidState = errors.New("canvas: invalid state")

	// ErrUnsupported reports a configuration that cannot be expressed by
	// the native primitives.
	ErrUnsupported = errors.New("canvas: unsupported configuration")

	// ErrBackend matches every *BackendError.
	ErrBackend = errors.New("canvas: backend operation failed")
)

var (
	// ErrClosed is returned by every session method after Close.
	ErrClosed = fmt.Errorf("%w: drawing session is closed", ErrInvalidState)

	// ErrPoppedWrongLayer is returned when a layer is closed while another
	// layer created after it is still open.
	ErrPoppedWrongLayer = fmt.Errorf("%w: layers must be closed in the reverse order of creation", ErrInvalidState)

	// ErrDidNotPopLayer is returned by Close when layers are still open.
	ErrDidNotPopLayer = fmt.Errorf("%w: drawing session closed with layers still open", ErrInvalidState)

	// ErrSessionActive is returned when a render target already has an
	// open drawing session.
	ErrSessionActive = fmt.Errorf("%w: render target already has an active drawing session", ErrInvalidState)

	// ErrMinBlendNotSupported is returned when an image is drawn without an
	// explicit composite mode while the primitive blend is BlendMin.
	ErrMinBlendNotSupported = fmt.Errorf("%w: DrawImage does not support BlendMin without an explicit composite mode", ErrUnsupported)
)

// BackendError wraps a failure reported by the native device context.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return "canvas: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the native error.
func (e *BackendError) Unwrap() error { return e.Err }

// Is reports whether target is ErrBackend.
func (e *BackendError) Is(target error) bool { return target == ErrBackend }

// backendErr wraps err as a *BackendError unless it is nil or already
// belongs to this package's taxonomy.
func backendErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrUnsupported) || errors.Is(err, ErrBackend) {
		return err
	}
	return &BackendError{Op: op, Err: err}
}

// boundary runs fn and converts a panic raised inside it into a
// *BackendError, so no failure escapes a public method as a panic.
func boundary(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(error)
			if !ok {
				perr = fmt.Errorf("%v", r)
			}
			err = &BackendError{Op: op, Err: perr}
		}
		if err != nil {
			Logger().Debug("canvas: operation failed", "op", op, "err", err)
		}
	}()
	return fn()
}
