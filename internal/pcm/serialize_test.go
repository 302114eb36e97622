package pcm

import (
	"encoding/binary"
	"testing"

	"github.com/iamfgo/iamf/internal/ierr"
	"github.com/stretchr/testify/require"
)

func TestWriteFrameInterleavesTickMajor(t *testing.T) {
	// 2 channels, 3 ticks. Channel 0 is all 0.5, channel 1 is all -0.5.
	channels := [][]float32{
		{0.5, 0.5, 0.5},
		{-0.5, -0.5, -0.5},
	}
	out := make([]byte, RequiredSize(2, 3, SampleTypeInt16))
	n, err := WriteFrame(channels, 3, SampleTypeInt16, out)
	require.NoError(t, err)
	require.Equal(t, len(out), n)

	want0 := int16(roundHalfAwayFromZero(0.5 * 32767))
	want1 := int16(roundHalfAwayFromZero(-0.5 * 32767))
	for tick := 0; tick < 3; tick++ {
		off := tick * 4
		got0 := int16(binary.LittleEndian.Uint16(out[off:]))
		got1 := int16(binary.LittleEndian.Uint16(out[off+2:]))
		require.Equal(t, want0, got0, "tick %d channel 0", tick)
		require.Equal(t, want1, got1, "tick %d channel 1", tick)
	}
}

func TestWriteFrameClampsOutOfRangeSamples(t *testing.T) {
	channels := [][]float32{{2.0, -2.0}}
	out := make([]byte, RequiredSize(1, 2, SampleTypeInt16))
	_, err := WriteFrame(channels, 2, SampleTypeInt16, out)
	require.NoError(t, err)
	require.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(out[0:])))
	require.Equal(t, int16(-32767), int16(binary.LittleEndian.Uint16(out[2:])))
}

func TestWriteFrameInt32Width(t *testing.T) {
	channels := [][]float32{{1.0}}
	out := make([]byte, RequiredSize(1, 1, SampleTypeInt32))
	n, err := WriteFrame(channels, 1, SampleTypeInt32, out)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, int32(2147483647), int32(binary.LittleEndian.Uint32(out)))
}

func TestWriteFrameBufferTooSmall(t *testing.T) {
	channels := [][]float32{{0.1}, {0.2}}
	out := make([]byte, 1)
	_, err := WriteFrame(channels, 1, SampleTypeInt16, out)
	require.ErrorIs(t, err, ierr.ErrBufferTooSmall)
}

func TestWriteFrameChannelLengthMismatch(t *testing.T) {
	channels := [][]float32{{0.1}}
	out := make([]byte, RequiredSize(1, 2, SampleTypeInt16))
	_, err := WriteFrame(channels, 2, SampleTypeInt16, out)
	require.Error(t, err)
}

func TestRequiredSizeMatchesWidths(t *testing.T) {
	require.Equal(t, 12, RequiredSize(3, 2, SampleTypeInt16))
	require.Equal(t, 24, RequiredSize(3, 2, SampleTypeInt32))
}
