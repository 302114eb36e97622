package bitstream

import (
	"testing"

	"github.com/iamfgo/iamf/internal/ierr"
	"github.com/stretchr/testify/require"
)

func TestReadBitsAllOrNothing(t *testing.T) {
	b := New()
	b.Push([]byte{0b1010_1100, 0xFF})

	v, err := b.ReadBits(4)
	require.NoError(t, err)
	require.EqualValues(t, 0b1010, v)
	require.EqualValues(t, 4, b.Tell())

	// Ask for more bits than remain: cursor must not move.
	_, err = b.ReadBits(100)
	require.ErrorIs(t, err, ierr.ErrInsufficientData)
	require.EqualValues(t, 4, b.Tell())

	v, err = b.ReadBits(4)
	require.NoError(t, err)
	require.EqualValues(t, 0b1100, v)
}

func TestSeekRewindsAfterInsufficientRead(t *testing.T) {
	b := New()
	b.Push([]byte{0x01, 0x02})
	pos := b.Tell()
	_, err := b.ReadBytes(10)
	require.Error(t, err)
	require.EqualValues(t, pos, b.Tell())
	require.NoError(t, b.Seek(pos))
}

func TestFlushRebasesCursor(t *testing.T) {
	b := New()
	b.Push([]byte{1, 2, 3, 4})
	_, err := b.ReadBytes(2)
	require.NoError(t, err)
	require.NoError(t, b.Flush(2))
	require.EqualValues(t, 16, b.Tell())
	rest, err := b.ReadBytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4}, rest)
}

func TestFlushBeyondConsumedIsRejected(t *testing.T) {
	b := New()
	b.Push([]byte{1, 2, 3})
	require.Error(t, b.Flush(2))
}

func TestReadULEB128RoundTrips(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want uint64
	}{
		{"single byte", []byte{0x05}, 5},
		{"two bytes", []byte{0x80 | 0x01, 0x02}, 1 | (2 << 7)},
		{"max first byte", []byte{0xFF, 0x01}, 0x7F | (1 << 7)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := New()
			b.Push(c.in)
			got, err := b.ReadULEB128()
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestReadULEB128InsufficientRewinds(t *testing.T) {
	b := New()
	b.Push([]byte{0x80}) // continuation bit set, no following byte
	pos := b.Tell()
	_, err := b.ReadULEB128()
	require.Error(t, err)
	require.EqualValues(t, pos, b.Tell())
}

func TestPushAcrossCallsIsTransparent(t *testing.T) {
	b := New()
	b.Push([]byte{0xAB})
	_, err := b.ReadBytes(2)
	require.Error(t, err)
	b.Push([]byte{0xCD})
	got, err := b.ReadBytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAB, 0xCD}, got)
}
