package iamf

import "github.com/iamfgo/iamf/internal/ierr"

// Public error taxonomy (§7). ErrInsufficientData is deliberately absent:
// it never crosses this boundary, translating instead to a successful
// no-progress Decode call.
var (
	ErrInvalidDescriptors  = ierr.ErrInvalidDescriptors
	ErrUnexpectedDescriptor = ierr.ErrUnexpectedDescriptor
	ErrCorruptTemporalUnit = ierr.ErrCorruptTemporalUnit
	ErrCodecFailure        = ierr.ErrCodecFailure
	ErrBufferTooSmall      = ierr.ErrBufferTooSmall
	ErrDescriptorsNotReady = ierr.ErrDescriptorsNotReady
	ErrDecodeAfterEos      = ierr.ErrDecodeAfterEos
	ErrInternal            = ierr.ErrInternal
)
