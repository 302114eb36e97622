// Package bitstream implements the decoder's stream bit-buffer: a growable
// byte store that accepts pushed chunks and serves bit-aligned reads with
// tell/seek/flush. Every reader is all-or-nothing with respect to the
// cursor, which is what lets higher layers probe a possibly-truncated OBU
// and retry once more bytes arrive.
//
// The read-bit idiom (byte/bit cursor pair, MSB-first extraction) mirrors
// the teacher's bitReader in internal/mediainfo/h264.go; this package
// generalizes it with push/flush/seek so the cursor survives across
// incremental feeds instead of operating on one fixed byte slice.
package bitstream

import "github.com/iamfgo/iamf/internal/ierr"

const initialCapacity = 1024

// Buffer is the decoder's single stream bit-buffer. Not safe for concurrent
// use; the decoder drives it from one goroutine at a time.
type Buffer struct {
	data   []byte // bytes not yet flushed
	base   uint64 // bits permanently discarded so far (flushed)
	cursor uint64 // bits consumed within data, relative to data[0]
}

// New returns an empty buffer with the spec's initial backing capacity.
func New() *Buffer {
	return &Buffer{data: make([]byte, 0, initialCapacity)}
}

// Push appends bytes to the buffer. Amortised O(1) per byte; Go's slice
// append already grows geometrically.
func (b *Buffer) Push(p []byte) {
	b.data = append(b.data, p...)
}

// Tell returns the absolute read cursor in bits.
func (b *Buffer) Tell() uint64 {
	return b.base + b.cursor
}

// Len returns the number of unread bits currently buffered.
func (b *Buffer) Len() uint64 {
	return uint64(len(b.data))*8 - b.cursor
}

// Seek restores the cursor to an absolute bit position previously obtained
// from Tell. pos must be >= the current flushed base; seeking before the
// flushed region is a programmer error and returns ErrInternal.
func (b *Buffer) Seek(pos uint64) error {
	if pos < b.base {
		return ierr.Wrapf(ierr.ErrInternal, "seek %d precedes flushed base %d", pos, b.base)
	}
	rel := pos - b.base
	if rel > uint64(len(b.data))*8 {
		return ierr.Wrapf(ierr.ErrInternal, "seek %d beyond buffered data", pos)
	}
	b.cursor = rel
	return nil
}

// Flush discards the leading nBytes of the buffer and rebases the cursor.
// The caller must ensure nBytes*8 <= Tell() (i.e. the discarded region has
// already been read).
func (b *Buffer) Flush(nBytes int) error {
	if nBytes < 0 || uint64(nBytes)*8 > b.base+b.cursor {
		return ierr.Wrapf(ierr.ErrInternal, "flush %d bytes exceeds consumed region", nBytes)
	}
	if nBytes == 0 {
		return nil
	}
	b.data = append([]byte(nil), b.data[nBytes:]...)
	b.base += uint64(nBytes) * 8
	b.cursor -= uint64(nBytes) * 8
	return nil
}

// ReadBits reads n bits (n <= 64) MSB-first and advances the cursor. On
// insufficient data the cursor is left untouched and ErrInsufficientData is
// returned.
func (b *Buffer) ReadBits(n uint8) (uint64, error) {
	if uint64(n) > b.Len() {
		return 0, ierr.ErrInsufficientData
	}
	var value uint64
	cursor := b.cursor
	for i := uint8(0); i < n; i++ {
		bytePos := cursor >> 3
		bitPos := cursor & 7
		bit := (b.data[bytePos] >> (7 - bitPos)) & 1
		value = (value << 1) | uint64(bit)
		cursor++
	}
	b.cursor = cursor
	return value, nil
}

// ReadBytes reads n whole bytes, requiring the cursor to be byte-aligned.
func (b *Buffer) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ierr.Wrapf(ierr.ErrInternal, "negative read length %d", n)
	}
	if b.cursor%8 != 0 {
		return nil, ierr.Wrapf(ierr.ErrInternal, "ReadBytes called at unaligned bit position %d", b.cursor)
	}
	if uint64(n)*8 > b.Len() {
		return nil, ierr.ErrInsufficientData
	}
	start := b.cursor / 8
	out := make([]byte, n)
	copy(out, b.data[start:start+uint64(n)])
	b.cursor += uint64(n) * 8
	return out, nil
}

// ReadUint8Span copies the next len(out) bytes into out, advancing the
// cursor by that many bytes. All-or-nothing like every other reader.
func (b *Buffer) ReadUint8Span(out []byte) error {
	span, err := b.ReadBytes(len(out))
	if err != nil {
		return err
	}
	copy(out, span)
	return nil
}

// ReadULEB128 reads an AOM-style unsigned little-endian base-128 varint: up
// to 8 groups of 7 payload bits with the MSB of each byte as a continuation
// flag. The whole read is all-or-nothing.
func (b *Buffer) ReadULEB128() (uint64, error) {
	start := b.cursor
	var value uint64
	for i := 0; i < 8; i++ {
		if b.cursor%8 != 0 {
			b.cursor = start
			return 0, ierr.Wrapf(ierr.ErrInternal, "ReadULEB128 called at unaligned bit position %d", start)
		}
		octet, err := b.ReadBits(8)
		if err != nil {
			b.cursor = start
			return 0, ierr.ErrInsufficientData
		}
		value |= (octet & 0x7f) << (7 * uint(i))
		if octet&0x80 == 0 {
			return value, nil
		}
	}
	b.cursor = start
	return 0, ierr.Wrapf(ierr.ErrInternal, "ULEB128 exceeds 8 bytes")
}
