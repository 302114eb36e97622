package render

import (
	"github.com/iamfgo/iamf/internal/descriptor"
	"github.com/iamfgo/iamf/internal/ierr"
	"github.com/iamfgo/iamf/internal/temporal"
)

// SubstreamSamples is one substream's decoded samples for a temporal unit,
// tagged with the audio element it belongs to so a Renderer can apply the
// right spatial treatment.
type SubstreamSamples struct {
	AudioElementID uint32
	SubstreamID    uint32
	Samples        []float32
}

// Frame is §3's RenderedFrame: a per-channel sample matrix, channel-major,
// each channel of length frameSize.
type Frame struct {
	Channels  [][]float32
	FrameSize int
}

// Renderer maps decoded substream samples + parameter blocks onto a
// concrete output layout. This is the core spec's other named external
// collaborator: "(audio frames, parameter blocks, output layout) -> a
// per-channel lazy sample matrix". Production renderers apply loudness
// metadata, HOA-to-loudspeaker matrices, down/up-mix rules, etc.; this
// repository ships one small reference implementation (below) sufficient
// to exercise the render-adapter/reorder/serialise pipeline end-to-end.
type Renderer interface {
	Render(substreams []SubstreamSamples, params []temporal.ParameterBlock, layout descriptor.SoundSystem, frameSize int) (Frame, error)
}

// ReferenceRenderer is a deliberately simple, fully deterministic Renderer:
// each substream of a channel-based audio element is added into output
// channel (substream id mod the layout's channel count), so substreams that
// land on the same channel are summed and channels no substream maps to
// stay silent; every substream of a scene-based (ambisonics) element is
// splashed across every output channel at a fixed per-channel gain, the
// simplest defensible rendering of an omnidirectional source to an
// arbitrary loudspeaker layout. It is a test double for this repository's own pipeline tests,
// not a claim of bit-exactness with any production IAMF renderer -- see
// DESIGN.md.
type ReferenceRenderer struct {
	elements map[uint32]descriptor.AudioElement
}

// NewReferenceRenderer builds a renderer that knows how each audio element
// id was declared, so it can distinguish scene-based from channel-based
// sources.
func NewReferenceRenderer(elements map[uint32]descriptor.AudioElement) *ReferenceRenderer {
	return &ReferenceRenderer{elements: elements}
}

// perChannelGain is applied to every output channel when up-mixing a
// single ambisonics-mono (W-channel) substream: 1/sqrt(2) is the standard
// 0th-order-ambisonics-to-two-speaker decode gain.
const perChannelGain = 0.70710678

func (r *ReferenceRenderer) Render(substreams []SubstreamSamples, _ []temporal.ParameterBlock, layout descriptor.SoundSystem, frameSize int) (Frame, error) {
	channels := layout.Channels()
	if channels == 0 {
		return Frame{}, ierr.Wrapf(ierr.ErrInternal, "render called with unrecognised layout %v", layout)
	}
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frameSize)
	}

	for _, sub := range substreams {
		if len(sub.Samples) != frameSize {
			return Frame{}, ierr.Wrapf(ierr.ErrInternal, "substream %d sample count %d != frame size %d", sub.SubstreamID, len(sub.Samples), frameSize)
		}
		ae, known := r.elements[sub.AudioElementID]
		if known && ae.ElementType == descriptor.AudioElementSceneBased {
			for c := 0; c < channels; c++ {
				for t := 0; t < frameSize; t++ {
					out[c][t] += sub.Samples[t] * perChannelGain
				}
			}
			continue
		}
		// Channel-based: each substream lands on one output channel, cycling
		// through the layout if there are more substreams than channels.
		c := int(sub.SubstreamID) % channels
		for t := 0; t < frameSize; t++ {
			out[c][t] += sub.Samples[t]
		}
	}

	return Frame{Channels: out, FrameSize: frameSize}, nil
}
