// Package pcm implements the core spec's component H: it turns a rendered,
// reordered channel matrix into an interleaved PCM byte buffer, tick-major
// and channel-minor, at the configured output sample width.
package pcm

import (
	"encoding/binary"

	"github.com/iamfgo/iamf/internal/ierr"
)

// SampleType selects the output PCM integer width.
type SampleType uint8

const (
	SampleTypeInt16 SampleType = iota
	SampleTypeInt32
)

// BytesPerSample returns the encoded width of t in bytes.
func (t SampleType) BytesPerSample() int {
	switch t {
	case SampleTypeInt32:
		return 4
	default:
		return 2
	}
}

// WriteFrame interleaves channels (one []float32 of length frameSize per
// channel, already in final output channel order) into out as little-endian
// signed PCM at sampleType's width, tick-major/channel-minor: all channels
// for tick 0, then all channels for tick 1, and so on. It returns the number
// of bytes written. out must be at least RequiredSize(len(channels),
// frameSize, sampleType) bytes long, or ErrBufferTooSmall is returned and
// out is left untouched.
//
// Each sample is clamped to [-1, 1] then scaled by round(s * (2^(n-1)-1))
// for an n-bit signed output; there is no dithering and out-of-range input
// is clamped rather than wrapped.
func WriteFrame(channels [][]float32, frameSize int, sampleType SampleType, out []byte) (int, error) {
	bps := sampleType.BytesPerSample()
	need := RequiredSize(len(channels), frameSize, sampleType)
	if len(out) < need {
		return 0, ierr.Wrapf(ierr.ErrBufferTooSmall, "need %d bytes, have %d", need, len(out))
	}
	for _, ch := range channels {
		if len(ch) != frameSize {
			return 0, ierr.Wrapf(ierr.ErrInternal, "channel length %d != frame size %d", len(ch), frameSize)
		}
	}

	scale := float64(int64(1)<<(uint(bps)*8-1) - 1)
	off := 0
	for tick := 0; tick < frameSize; tick++ {
		for _, ch := range channels {
			v := encodeSample(float64(ch[tick]), scale, bps)
			switch bps {
			case 2:
				binary.LittleEndian.PutUint16(out[off:], uint16(int16(v)))
			case 4:
				binary.LittleEndian.PutUint32(out[off:], uint32(int32(v)))
			}
			off += bps
		}
	}
	return off, nil
}

// RequiredSize returns the byte length WriteFrame needs for channelCount
// channels of frameSize samples at sampleType's width.
func RequiredSize(channelCount, frameSize int, sampleType SampleType) int {
	return channelCount * frameSize * sampleType.BytesPerSample()
}

func encodeSample(s float64, scale float64, bps int) int64 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	v := int64(roundHalfAwayFromZero(s * scale))
	max := int64(1)<<(uint(bps)*8-1) - 1
	min := -max - 1
	if v > max {
		v = max
	} else if v < min {
		v = min
	}
	return v
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}
