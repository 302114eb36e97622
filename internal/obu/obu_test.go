package obu

import (
	"testing"

	"github.com/iamfgo/iamf/internal/bitstream"
	"github.com/iamfgo/iamf/internal/ierr"
	"github.com/stretchr/testify/require"
)

func uleb128(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

// obuBytes frames payload under wireType with the has_size flag set and no
// extension, matching FrameNext's expectations.
func obuBytes(wireType uint8, payload []byte) []byte {
	header := (wireType << 3) | 0x02
	out := []byte{header}
	out = append(out, uleb128(uint64(len(payload)))...)
	out = append(out, payload...)
	return out
}

func pushed(b []byte) *bitstream.Buffer {
	s := bitstream.New()
	s.Push(b)
	return s
}

func TestFrameNextIASequenceHeader(t *testing.T) {
	s := pushed(obuBytes(wireIASequenceHeader, []byte("iamf\x00\x00")))
	f, err := FrameNext(s)
	require.NoError(t, err)
	require.Equal(t, TypeIASequenceHeader, f.Type)
	require.Equal(t, []byte("iamf\x00\x00"), f.Payload)
}

func TestFrameNextTemporalDelimiter(t *testing.T) {
	s := pushed(obuBytes(wireTemporalDelim, nil))
	f, err := FrameNext(s)
	require.NoError(t, err)
	require.Equal(t, TypeTemporalDelimiter, f.Type)
	require.Empty(t, f.Payload)
}

func TestFrameNextAudioFramePlain(t *testing.T) {
	payload := append(uleb128(9), []byte{1, 2, 3, 4}...)
	s := pushed(obuBytes(wireAudioFrameBase, payload))
	f, err := FrameNext(s)
	require.NoError(t, err)
	require.Equal(t, TypeAudioFrame, f.Type)
	require.Equal(t, uint32(9), f.SubstreamID)
	require.Equal(t, []byte{1, 2, 3, 4}, f.Payload)
}

func TestFrameNextAudioFrameIDVariant(t *testing.T) {
	payload := append(uleb128(3), []byte{9, 9, 9}...)
	s := pushed(obuBytes(wireAudioFrameBase+1, payload))
	f, err := FrameNext(s)
	require.NoError(t, err)
	require.Equal(t, TypeAudioFrame, f.Type)
	require.Equal(t, uint32(3), f.SubstreamID)
	require.Equal(t, []byte{9, 9, 9}, f.Payload)
}

func TestFrameNextReservedType(t *testing.T) {
	s := pushed(obuBytes(31, []byte{0xaa}))
	f, err := FrameNext(s)
	require.NoError(t, err)
	require.Equal(t, TypeReserved, f.Type)
	require.False(t, f.Type.IsDescriptor())
}

func TestFrameNextInsufficientDataRewindsToStart(t *testing.T) {
	full := obuBytes(wireCodecConfig, []byte{1, 2, 3, 4, 5})
	s := pushed(full[:len(full)-2])
	_, err := FrameNext(s)
	require.ErrorIs(t, err, ierr.ErrInsufficientData)
	require.Equal(t, uint64(0), s.Tell())
}

func TestFrameNextNoSizeFieldIsCorrupt(t *testing.T) {
	header := (wireCodecConfig << 3) // has_size bit unset
	s := pushed([]byte{header})
	_, err := FrameNext(s)
	require.ErrorIs(t, err, ierr.ErrCorruptTemporalUnit)
	require.Equal(t, uint64(0), s.Tell())
}

func TestFrameNextAdvancesCursorByWholeOBU(t *testing.T) {
	first := obuBytes(wireTemporalDelim, nil)
	second := obuBytes(wireMixPresentation, []byte{7, 8})
	s := pushed(append(append([]byte{}, first...), second...))

	f1, err := FrameNext(s)
	require.NoError(t, err)
	require.Equal(t, TypeTemporalDelimiter, f1.Type)

	f2, err := FrameNext(s)
	require.NoError(t, err)
	require.Equal(t, TypeMixPresentation, f2.Type)
	require.Equal(t, []byte{7, 8}, f2.Payload)
}

func TestIsDescriptor(t *testing.T) {
	require.True(t, TypeIASequenceHeader.IsDescriptor())
	require.True(t, TypeCodecConfig.IsDescriptor())
	require.True(t, TypeAudioElement.IsDescriptor())
	require.True(t, TypeMixPresentation.IsDescriptor())
	require.False(t, TypeParameterBlock.IsDescriptor())
	require.False(t, TypeAudioFrame.IsDescriptor())
	require.False(t, TypeTemporalDelimiter.IsDescriptor())
}
