// Package render implements the core spec's component F: it owns the
// long-lived, stateful per-substream codec decoders, feeds each temporal
// unit's audio frames through them, and hands the decoded samples plus
// parameter blocks to an external renderer.
//
// Codec and Renderer are the seam the core spec §1 names as "treated as
// external collaborators": OBU-level codec decoding (LPCM, Opus, AAC-LC,
// FLAC) and spatial rendering are out of scope for this repository beyond
// the reference implementations below, which exist to make §8's test
// scenarios concrete and exercise the rest of the pipeline.
package render

import (
	"github.com/iamfgo/iamf/internal/descriptor"
	"github.com/iamfgo/iamf/internal/ierr"
)

// Codec decodes one substream's coded bytes for a single temporal unit into
// normalised per-channel float samples. Implementations are long-lived:
// constructed once from a CodecConfig at descriptor-seal time and reused
// for every subsequent temporal unit until Reset.
type Codec interface {
	// Decode returns frameSize samples in [-1, 1] per channel the substream
	// carries. LPCM substreams are always single-channel in this repo (one
	// substream per channel, per the AOM IAMF substream model); Decode
	// returns a single []float32 of length frameSize.
	Decode(frameBytes []byte) ([]float32, error)
}

// NewCodec constructs the long-lived decoder for a CodecConfig. Only LPCM
// has a reference implementation; any other CodecKind returns a codec that
// fails with ErrCodecFailure on first use, representing the production
// Opus/AAC-LC/FLAC decoders this core does not implement.
func NewCodec(cfg descriptor.CodecConfig) Codec {
	switch cfg.CodecKind {
	case descriptor.CodecLPCM:
		return &lpcmCodec{bitDepth: cfg.BitDepth, frameSize: cfg.FrameSize}
	default:
		return unimplementedCodec{kind: cfg.CodecKind}
	}
}

// lpcmCodec implements Codec for raw linear PCM substreams: LPCM's decode
// contract is, by construction, just a little-endian integer-to-float
// conversion at the configured bit depth -- there is no entropy coding to
// reverse, which is why this one codec kind gets a real implementation
// here instead of being left to an external collaborator.
type lpcmCodec struct {
	bitDepth  uint8
	frameSize uint32
}

func (c *lpcmCodec) Decode(frameBytes []byte) ([]float32, error) {
	bytesPerSample := int(c.bitDepth) / 8
	if c.bitDepth%8 != 0 || bytesPerSample != 1 && bytesPerSample != 2 && bytesPerSample != 3 && bytesPerSample != 4 {
		return nil, ierr.Wrapf(ierr.ErrCodecFailure, "unsupported LPCM bit depth %d", c.bitDepth)
	}
	want := int(c.frameSize) * bytesPerSample
	if len(frameBytes) != want {
		return nil, ierr.Wrapf(ierr.ErrCodecFailure, "LPCM frame size mismatch: want %d bytes, got %d", want, len(frameBytes))
	}

	maxVal := float32(int64(1) << (uint(c.bitDepth) - 1))
	out := make([]float32, c.frameSize)
	for i := range out {
		off := i * bytesPerSample
		var v int64
		for b := bytesPerSample - 1; b >= 0; b-- {
			v = (v << 8) | int64(frameBytes[off+b])
		}
		signBit := int64(1) << (uint(bytesPerSample)*8 - 1)
		if v&signBit != 0 {
			v -= signBit << 1
		}
		out[i] = float32(v) / maxVal
	}
	return out, nil
}

type unimplementedCodec struct {
	kind descriptor.CodecKind
}

func (c unimplementedCodec) Decode([]byte) ([]float32, error) {
	return nil, ierr.Wrapf(ierr.ErrCodecFailure, "codec kind %d has no decoder in this core; supply an external Codec", c.kind)
}
