// Package ierr holds the decoder's error taxonomy as sentinel values so that
// every layer (bit-buffer, framer, accumulator, selector, assembler, adapter,
// facade) can raise and match the same errors without an import cycle back to
// the public package.
package ierr

import "github.com/pkg/errors"

var (
	// ErrInsufficientData never crosses the public boundary: it signals a
	// reader, framer, accumulator or assembler stopped short of a complete
	// unit because the buffer ran out of bytes, and that the caller's cursor
	// has already been restored to where it was before the attempt.
	ErrInsufficientData = errors.New("iamf: insufficient data")

	ErrInvalidDescriptors = errors.New("iamf: invalid descriptors")
	ErrUnexpectedDescriptor = errors.New("iamf: unexpected descriptor after seal")
	ErrCorruptTemporalUnit = errors.New("iamf: corrupt temporal unit")
	ErrCodecFailure = errors.New("iamf: codec failure")
	ErrBufferTooSmall = errors.New("iamf: output buffer too small")
	ErrDescriptorsNotReady = errors.New("iamf: descriptors not ready")
	ErrDecodeAfterEos = errors.New("iamf: decode called after end of stream")
	ErrInternal = errors.New("iamf: internal error")
)

// Wrap attaches msg as context to err using pkg/errors, preserving the
// sentinel for errors.Is while keeping a stack trace at the wrap site.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}
