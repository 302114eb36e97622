// Package obu implements the OBU framer (core spec component B): it
// identifies the type and size of the next Open Bitstream Unit at the
// stream's current bit position and returns its payload as a copy of the
// buffered bytes, or reports that more bytes are needed.
//
// Framing follows the AOM IAMF bitstream: a 1-byte header (5-bit type, 3
// flag bits) followed by a ULEB128 payload size, then the payload itself.
// The bit-level extraction mirrors the teacher's NAL-header parsing idiom
// (internal/mediainfo/h264.go's bitReader) generalized to IAMF's OBU
// header layout.
package obu

import (
	"github.com/iamfgo/iamf/internal/bitstream"
	"github.com/iamfgo/iamf/internal/ierr"
)

// Type identifies the closed, small universe of OBU kinds this decoder
// understands. Unknown type codes are preserved as TypeReserved so callers
// can still skip their payload.
type Type uint8

const (
	TypeReserved Type = iota
	TypeIASequenceHeader
	TypeCodecConfig
	TypeAudioElement
	TypeMixPresentation
	TypeParameterBlock
	TypeAudioFrame
	TypeTemporalDelimiter
)

// wire type codes, from the AOM IAMF OBU type table.
const (
	wireIASequenceHeader uint8 = 1
	wireCodecConfig      uint8 = 2
	wireAudioElement     uint8 = 3
	wireMixPresentation  uint8 = 4
	wireParameterBlock   uint8 = 5
	wireTemporalDelim    uint8 = 6
	wireAudioFrameBase   uint8 = 7 // audio_frame and audio_frame_id0..17 occupy 7..24
	wireAudioFrameMax    uint8 = 24
)

func typeFromWire(w uint8) Type {
	switch {
	case w == wireIASequenceHeader:
		return TypeIASequenceHeader
	case w == wireCodecConfig:
		return TypeCodecConfig
	case w == wireAudioElement:
		return TypeAudioElement
	case w == wireMixPresentation:
		return TypeMixPresentation
	case w == wireParameterBlock:
		return TypeParameterBlock
	case w == wireTemporalDelim:
		return TypeTemporalDelimiter
	case w >= wireAudioFrameBase && w <= wireAudioFrameMax:
		return TypeAudioFrame
	default:
		return TypeReserved
	}
}

// IsDescriptor reports whether t is one of the four descriptor OBU types.
func (t Type) IsDescriptor() bool {
	switch t {
	case TypeIASequenceHeader, TypeCodecConfig, TypeAudioElement, TypeMixPresentation:
		return true
	default:
		return false
	}
}

// Framed is one framed OBU: its type, the substream id for audio_frame.id
// variants (0 otherwise), the payload bytes (copied out of the buffer so
// callers may hold onto them across a later Flush), and the absolute bit
// position of the OBU's first header bit (so higher layers can rewind to
// the start of an OBU).
type Framed struct {
	Type         Type
	SubstreamID  uint32
	Payload      []byte
	StartBit     uint64
	TotalBits    uint64 // header + size-field + payload, in bits, byte-aligned
	RawWireType  uint8
}

// FrameNext reads one OBU header and payload-size field, then returns the
// payload span. On insufficient data the stream is left positioned exactly
// at the OBU start (seek back), so the caller can retry once more bytes
// arrive. MalformedHeader surfaces as ErrCorruptTemporalUnit via the
// wrapped error chain — callers distinguish InsufficientData from genuine
// malformed headers by checking errors.Is against ierr.ErrInsufficientData.
func FrameNext(s *bitstream.Buffer) (Framed, error) {
	start := s.Tell()

	header, err := s.ReadBits(8)
	if err != nil {
		return Framed{}, ierr.ErrInsufficientData
	}
	wireType := uint8(header >> 3)
	hasExtension := header&0x04 != 0
	hasSize := header&0x02 != 0
	_ = hasExtension // IAMF OBUs in this stream always carry an explicit size field

	if !hasSize {
		if err := s.Seek(start); err != nil {
			return Framed{}, err
		}
		return Framed{}, ierr.Wrapf(ierr.ErrCorruptTemporalUnit, "OBU at bit %d has no size field", start)
	}

	size, err := s.ReadULEB128()
	if err != nil {
		if seekErr := s.Seek(start); seekErr != nil {
			return Framed{}, seekErr
		}
		return Framed{}, ierr.ErrInsufficientData
	}

	var substreamID uint32
	t := typeFromWire(wireType)
	payloadSize := size
	if wireType >= wireAudioFrameBase && wireType <= wireAudioFrameMax && wireType != wireAudioFrameBase {
		// audio_frame_id<n> variants carry substream_id as a leading uleb128
		// that counts against the declared OBU size.
		idStart := s.Tell()
		id, err := s.ReadULEB128()
		if err != nil {
			if seekErr := s.Seek(start); seekErr != nil {
				return Framed{}, seekErr
			}
			return Framed{}, ierr.ErrInsufficientData
		}
		consumed := (s.Tell() - idStart) / 8
		substreamID = uint32(id)
		if uint64(consumed) > payloadSize {
			if seekErr := s.Seek(start); seekErr != nil {
				return Framed{}, seekErr
			}
			return Framed{}, ierr.Wrapf(ierr.ErrCorruptTemporalUnit, "audio_frame substream id overruns declared size")
		}
		payloadSize -= uint64(consumed)
	} else if wireType == wireAudioFrameBase {
		// Plain audio_frame: substream id comes from the first payload
		// uleb128 too, per the AOM spec's audio_frame() syntax.
		idStart := s.Tell()
		id, err := s.ReadULEB128()
		if err != nil {
			if seekErr := s.Seek(start); seekErr != nil {
				return Framed{}, seekErr
			}
			return Framed{}, ierr.ErrInsufficientData
		}
		consumed := (s.Tell() - idStart) / 8
		substreamID = uint32(id)
		if uint64(consumed) > payloadSize {
			if seekErr := s.Seek(start); seekErr != nil {
				return Framed{}, seekErr
			}
			return Framed{}, ierr.Wrapf(ierr.ErrCorruptTemporalUnit, "audio_frame substream id overruns declared size")
		}
		payloadSize -= uint64(consumed)
	}

	payload, err := s.ReadBytes(int(payloadSize))
	if err != nil {
		if seekErr := s.Seek(start); seekErr != nil {
			return Framed{}, seekErr
		}
		return Framed{}, ierr.ErrInsufficientData
	}

	return Framed{
		Type:        t,
		SubstreamID: substreamID,
		Payload:     payload,
		StartBit:    start,
		TotalBits:   s.Tell() - start,
		RawWireType: wireType,
	}, nil
}
