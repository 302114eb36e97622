package render

import (
	"github.com/iamfgo/iamf/internal/descriptor"
	"github.com/iamfgo/iamf/internal/ierr"
	"github.com/iamfgo/iamf/internal/mixselect"
	"github.com/iamfgo/iamf/internal/temporal"
)

// substreamOwner records which audio element declared a substream, so
// decoded samples can be handed to the renderer tagged correctly.
type substreamOwner struct {
	audioElementID uint32
	codec          Codec
}

// Adapter implements the core spec's component F. Codec decoders are
// constructed once, at descriptor-seal time, and reused for the life of the
// decoder (or until Reset rebuilds the Adapter from scratch).
type Adapter struct {
	codecs   map[uint32]substreamOwner // substream id -> owner
	renderer Renderer
}

// NewAdapter constructs codec decoders for every substream declared across
// ds's audio elements and wires up renderer for the render step.
func NewAdapter(ds *descriptor.DescriptorSet, renderer Renderer) (*Adapter, error) {
	a := &Adapter{codecs: map[uint32]substreamOwner{}, renderer: renderer}
	for _, ae := range ds.AudioElements {
		cc, ok := ds.CodecConfigFor(ae)
		if !ok {
			return nil, ierr.Wrapf(ierr.ErrInvalidDescriptors, "audio element %d has no resolvable codec config", ae.ID)
		}
		codec := NewCodec(cc)
		for _, sid := range ae.SubstreamIDs {
			a.codecs[sid] = substreamOwner{audioElementID: ae.ID, codec: codec}
		}
	}
	return a, nil
}

// Render decodes every substream in unit, then renders the collected
// samples to the selected mix's output layout.
func (a *Adapter) Render(unit temporal.Unit, sel mixselect.Selected, frameSize int) (Frame, error) {
	substreams := make([]SubstreamSamples, 0, len(unit.AudioFrames))
	for _, af := range unit.AudioFrames {
		owner, ok := a.codecs[af.SubstreamID]
		if !ok {
			return Frame{}, ierr.Wrapf(ierr.ErrCorruptTemporalUnit, "audio frame for undeclared substream %d", af.SubstreamID)
		}
		samples, err := owner.codec.Decode(af.Bytes)
		if err != nil {
			return Frame{}, ierr.Wrapf(ierr.ErrCodecFailure, "substream %d: %v", af.SubstreamID, err)
		}
		substreams = append(substreams, SubstreamSamples{
			AudioElementID: owner.audioElementID,
			SubstreamID:    af.SubstreamID,
			Samples:        samples,
		})
	}

	if len(substreams) == 0 {
		// No audio frames: there is nothing to mix into channels. The
		// renderer is not called, so the parameter blocks of such a unit
		// are not passed to it.
		return Frame{Channels: nil, FrameSize: frameSize}, nil
	}

	return a.renderer.Render(substreams, unit.ParameterBlocks, sel.OutputLayout, frameSize)
}
