// Package iamf is the public facade over the core spec's nine components:
// a single Decoder type drives the stream bit-buffer, OBU framer, descriptor
// accumulator, mix/layout selector, temporal-unit assembler, render
// pipeline adapter, channel reorderer and sample serialiser through the
// two-phase state machine described in the core spec's component I.
//
// Real behavior lives under internal/, one package per component; this
// file and its siblings (settings.go, errors.go) are the thin, stable
// surface callers import, sitting at the module root rather than behind a
// pkg/ proxy (see DESIGN.md for why this departs from the teacher's
// pkg/mediainfo convention).
package iamf

import (
	"github.com/iamfgo/iamf/internal/bitstream"
	"github.com/iamfgo/iamf/internal/channels"
	"github.com/iamfgo/iamf/internal/descriptor"
	"github.com/iamfgo/iamf/internal/ierr"
	"github.com/iamfgo/iamf/internal/mixselect"
	"github.com/iamfgo/iamf/internal/pcm"
	"github.com/iamfgo/iamf/internal/render"
	"github.com/iamfgo/iamf/internal/temporal"
	"github.com/rs/zerolog"
)

type state uint8

const (
	stateAcceptingDescriptors state = iota
	stateAcceptingTemporalUnits
	stateEndOfStreamRequested
	stateDrained
)

// Decoder is the public, opaque handle described in core spec §9
// ("opaque state across the boundary"): callers never see the bit-buffer,
// codec or renderer types underneath it.
type Decoder struct {
	settings Settings
	log      zerolog.Logger

	stream *bitstream.Buffer
	accum  *descriptor.Accumulator

	ds  *descriptor.DescriptorSet
	sel mixselect.Selected

	assembler *temporal.Assembler
	adapter   *render.Adapter

	descriptorMode bool // true if created via CreateFromDescriptors
	poisoned       bool

	state           state
	hasPendingFrame bool
	pendingChannels [][]float32
	frameSize       int
	sampleType      OutputSampleType
}

// Create constructs a streaming decoder: descriptors are expected to arrive
// as the first bytes pushed via Decode.
func Create(settings Settings) (*Decoder, error) {
	d := &Decoder{
		settings:   settings,
		log:        settings.logger(),
		stream:     bitstream.New(),
		accum:      descriptor.NewAccumulator(),
		state:      stateAcceptingDescriptors,
		sampleType: defaultSampleType(settings),
	}
	return d, nil
}

// CreateFromDescriptors constructs a decoder with an already-known,
// exhaustive descriptor blob: create + forced eager seal + exhaustiveness
// check, sharing the seal path with Create (core spec §9, "two creation
// modes, one state machine").
func CreateFromDescriptors(settings Settings, descriptorBytes []byte) (*Decoder, error) {
	ds, err := descriptor.SealFromBlob(descriptorBytes)
	if err != nil {
		return nil, err
	}
	d := &Decoder{
		settings:       settings,
		log:            settings.logger(),
		stream:         bitstream.New(),
		accum:          descriptor.NewAccumulator(),
		descriptorMode: true,
		sampleType:     defaultSampleType(settings),
	}
	if err := d.setupAfterSeal(ds); err != nil {
		return nil, err
	}
	d.log.Debug().Msg("decoder created from descriptors")
	return d, nil
}

// defaultSampleType resolves §6's documented default (Int32LittleEndian)
// when the caller left RequestedOutputSampleType unset.
func defaultSampleType(s Settings) OutputSampleType {
	if s.RequestedOutputSampleType != nil {
		return *s.RequestedOutputSampleType
	}
	return OutputSampleTypeInt32LittleEndian
}

// reorderChannels applies component G to a rendered channel-major matrix.
func reorderChannels(chans [][]float32, scheme ChannelOrdering, ss SoundSystem) [][]float32 {
	return channels.Reorder(chans, scheme, ss)
}

// setupAfterSeal runs component D once, then builds the long-lived render
// adapter and temporal assembler for the resolved mix. Shared by descriptor
// mode's constructor, Decode's seal transition, and Reset/ResetWithNewMix.
func (d *Decoder) setupAfterSeal(ds *descriptor.DescriptorSet) error {
	req := mixselect.Request{
		MixPresentationID: d.settings.RequestedMix.MixPresentationID,
		OutputLayout:      d.settings.RequestedMix.OutputLayout,
		ProfileVersions:   d.settings.RequestedMix.RequestedProfileVersions,
	}
	sel, err := mixselect.Select(ds, req)
	if err != nil {
		d.poisoned = true
		d.log.Error().Err(err).Msg("mix selection failed")
		return err
	}

	var mp *descriptor.MixPresentation
	for i := range ds.MixPresentations {
		if ds.MixPresentations[i].ID == sel.MixPresentationID {
			mp = &ds.MixPresentations[i]
			break
		}
	}
	if mp == nil {
		d.poisoned = true
		return ierr.Wrapf(ierr.ErrInternal, "selected mix %d not found in descriptor set", sel.MixPresentationID)
	}

	expected := map[uint32]bool{}
	var frameSize uint32
	for _, aeID := range mp.AudioElementIDs {
		ae, ok := ds.AudioElements[aeID]
		if !ok {
			continue
		}
		for _, sid := range ae.SubstreamIDs {
			expected[sid] = true
		}
		if cc, ok := ds.CodecConfigFor(ae); ok && frameSize == 0 {
			frameSize = cc.FrameSize
		}
	}

	renderer := render.NewReferenceRenderer(ds.AudioElements)
	adapter, err := render.NewAdapter(ds, renderer)
	if err != nil {
		d.poisoned = true
		return err
	}

	d.ds = ds
	d.sel = sel
	d.assembler = temporal.NewAssembler(frameSize, expected)
	d.adapter = adapter
	d.frameSize = int(frameSize)
	d.state = stateAcceptingTemporalUnits
	d.log.Debug().Uint32("mix", sel.MixPresentationID).Str("layout", sel.OutputLayout.String()).Msg("descriptor sealed")
	return nil
}

// Decode appends bytes to the stream and drives the state machine one step,
// per core spec §4.I. It never blocks and never returns partial progress
// silently: InsufficientData is absorbed here and reported as success with
// no frame produced.
func (d *Decoder) Decode(bytes []byte) error {
	if d.poisoned {
		return ierr.Wrapf(ierr.ErrInternal, "decode called on a poisoned decoder")
	}
	if d.state == stateEndOfStreamRequested || d.state == stateDrained {
		return ierr.Wrapf(ierr.ErrDecodeAfterEos, "decode called after signal_end_of_stream")
	}

	d.stream.Push(bytes)

	if d.state == stateAcceptingDescriptors {
		ds, err := d.accum.Feed(d.stream)
		if err != nil {
			d.poisoned = true
			return err
		}
		if ds == nil {
			return nil
		}
		// Descriptor-only-first-call policy (core spec §4.I): seal and
		// return without attempting a temporal-unit pull this same call.
		return d.setupAfterSeal(ds)
	}

	if d.hasPendingFrame {
		// A frame is already waiting in the single pending-frame slot; the
		// newly pushed bytes simply accumulate for a later Decode/drain.
		return nil
	}
	return d.pullAndRender(false)
}

// pullAndRender attempts one assembler pull and, on success, renders and
// reorders it into the pending-frame slot.
func (d *Decoder) pullAndRender(eosHint bool) error {
	unit, ok, err := d.assembler.PullOne(d.stream, eosHint)
	if err != nil {
		d.poisoned = true
		d.log.Error().Err(err).Msg("temporal unit assembly failed")
		return err
	}
	if !ok {
		return nil
	}
	d.log.Debug().Int64("timestamp", unit.Timestamp).Msg("temporal unit pulled")

	frame, err := d.adapter.Render(unit, d.sel, d.frameSize)
	if err != nil {
		d.poisoned = true
		d.log.Error().Err(err).Msg("render pipeline failed")
		return err
	}

	if frame.Channels == nil {
		// Trivial unit: still consumed, still advances the clock, nothing
		// to place in the pending-frame slot.
		return nil
	}

	reordered := reorderChannels(frame.Channels, d.settings.ChannelOrdering, d.sel.OutputLayout)
	d.pendingChannels = reordered
	d.hasPendingFrame = true
	return nil
}

// SignalEndOfStream marks no further bytes will arrive. If the pending-frame
// slot is empty it attempts one final pull with eos_hint=true so a trailing
// unit that never saw a following temporal-delimiter is not silently
// dropped (§8 invariant 5).
func (d *Decoder) SignalEndOfStream() error {
	if d.poisoned {
		return ierr.Wrapf(ierr.ErrInternal, "signal_end_of_stream called on a poisoned decoder")
	}
	wasAcceptingTemporalUnits := d.state == stateAcceptingTemporalUnits
	d.state = stateEndOfStreamRequested
	d.log.Debug().Msg("end of stream signalled")
	if !wasAcceptingTemporalUnits || d.hasPendingFrame {
		return nil
	}
	return d.pullAndRender(true)
}

// IsDescriptorProcessingComplete reports whether the descriptor set has
// sealed and the decoder has moved past AcceptingDescriptors.
func (d *Decoder) IsDescriptorProcessingComplete() bool {
	return d.ds != nil
}

// IsTemporalUnitAvailable reports whether a decoded frame is waiting in the
// pending-frame slot (§8 invariant 4: true exactly when the next unit is
// already decoded).
func (d *Decoder) IsTemporalUnitAvailable() bool {
	return d.hasPendingFrame
}

// GetOutputTemporalUnit writes the pending frame, serialised per component
// H, into out and clears the pending-frame slot. It returns 0, nil if no
// frame is pending. After a successful write it speculatively attempts to
// pull the next unit, so IsTemporalUnitAvailable may immediately report
// true again.
func (d *Decoder) GetOutputTemporalUnit(out []byte) (int, error) {
	if d.ds == nil {
		return 0, ierr.Wrapf(ierr.ErrDescriptorsNotReady, "get_output_temporal_unit called before descriptor seal")
	}
	if !d.hasPendingFrame {
		return 0, nil
	}

	n, err := pcm.WriteFrame(d.pendingChannels, d.frameSize, d.sampleType, out)
	if err != nil {
		// BufferTooSmall is non-fatal; the pending frame is retained so the
		// caller can retry with a larger buffer.
		return 0, err
	}

	d.hasPendingFrame = false
	d.pendingChannels = nil

	if d.poisoned {
		return n, nil
	}
	if err := d.pullAndRender(d.state == stateEndOfStreamRequested); err != nil {
		return n, err
	}
	if d.state == stateEndOfStreamRequested && !d.hasPendingFrame && d.stream.Len() == 0 {
		d.state = stateDrained
	}
	return n, nil
}

// GetOutputLayout returns the selected mix's resolved output layout.
func (d *Decoder) GetOutputLayout() (SoundSystem, error) {
	if d.ds == nil {
		return 0, ierr.Wrapf(ierr.ErrDescriptorsNotReady, "get_output_layout called before descriptor seal")
	}
	return d.sel.OutputLayout, nil
}

// GetOutputMix returns the selected mix presentation id.
func (d *Decoder) GetOutputMix() (SelectedMix, error) {
	if d.ds == nil {
		return SelectedMix{}, ierr.Wrapf(ierr.ErrDescriptorsNotReady, "get_output_mix called before descriptor seal")
	}
	return SelectedMix{MixPresentationID: d.sel.MixPresentationID, OutputLayout: d.sel.OutputLayout}, nil
}

// GetSampleRate returns the governing codec config's sample rate.
func (d *Decoder) GetSampleRate() (uint32, error) {
	cc, err := d.governingCodecConfig()
	if err != nil {
		return 0, err
	}
	return cc.SampleRate, nil
}

// GetFrameSize returns the governing codec config's frame size in samples.
func (d *Decoder) GetFrameSize() (uint32, error) {
	cc, err := d.governingCodecConfig()
	if err != nil {
		return 0, err
	}
	return cc.FrameSize, nil
}

// GetNumberOfOutputChannels returns the resolved output layout's channel
// count.
func (d *Decoder) GetNumberOfOutputChannels() (int, error) {
	if d.ds == nil {
		return 0, ierr.Wrapf(ierr.ErrDescriptorsNotReady, "get_number_of_output_channels called before descriptor seal")
	}
	return d.sel.OutputLayout.Channels(), nil
}

// GetOutputSampleType returns the currently configured output sample width.
func (d *Decoder) GetOutputSampleType() (OutputSampleType, error) {
	if d.ds == nil {
		return 0, ierr.Wrapf(ierr.ErrDescriptorsNotReady, "get_output_sample_type called before descriptor seal")
	}
	return d.sampleType, nil
}

// ConfigureOutputSampleType is settable at any time; it takes effect on the
// next GetOutputTemporalUnit call.
func (d *Decoder) ConfigureOutputSampleType(t OutputSampleType) {
	d.sampleType = t
}

// Reset rebuilds the bit-buffer and re-seals descriptors from the
// snapshotted raw bytes, returning to AcceptingTemporalUnits. Only valid on
// a decoder created via CreateFromDescriptors.
func (d *Decoder) Reset() error {
	if !d.descriptorMode {
		return ierr.Wrapf(ierr.ErrInternal, "reset is only valid on a decoder created from descriptors")
	}
	return d.resetCommon(d.settings.RequestedMix)
}

// ResetWithNewMix is Reset but re-runs component D with req, returning the
// resulting SelectedMix.
func (d *Decoder) ResetWithNewMix(req RequestedMix) (SelectedMix, error) {
	if !d.descriptorMode {
		return SelectedMix{}, ierr.Wrapf(ierr.ErrInternal, "reset_with_new_mix is only valid on a decoder created from descriptors")
	}
	d.settings.RequestedMix = req
	if err := d.resetCommon(req); err != nil {
		return SelectedMix{}, err
	}
	return SelectedMix{MixPresentationID: d.sel.MixPresentationID, OutputLayout: d.sel.OutputLayout}, nil
}

func (d *Decoder) resetCommon(_ RequestedMix) error {
	rawBytes := d.ds.RawBytes
	ds, err := descriptor.SealFromBlob(rawBytes)
	if err != nil {
		return err
	}
	d.stream = bitstream.New()
	d.accum = descriptor.NewAccumulator()
	d.hasPendingFrame = false
	d.pendingChannels = nil
	d.poisoned = false
	d.state = stateAcceptingDescriptors
	return d.setupAfterSeal(ds)
}

func (d *Decoder) governingCodecConfig() (descriptor.CodecConfig, error) {
	if d.ds == nil {
		return descriptor.CodecConfig{}, ierr.Wrapf(ierr.ErrDescriptorsNotReady, "descriptor metadata requested before descriptor seal")
	}
	var mp *descriptor.MixPresentation
	for i := range d.ds.MixPresentations {
		if d.ds.MixPresentations[i].ID == d.sel.MixPresentationID {
			mp = &d.ds.MixPresentations[i]
			break
		}
	}
	if mp == nil {
		return descriptor.CodecConfig{}, ierr.Wrapf(ierr.ErrInternal, "selected mix not found")
	}
	for _, aeID := range mp.AudioElementIDs {
		ae, ok := d.ds.AudioElements[aeID]
		if !ok {
			continue
		}
		if cc, ok := d.ds.CodecConfigFor(ae); ok {
			return cc, nil
		}
	}
	return descriptor.CodecConfig{}, ierr.Wrapf(ierr.ErrInternal, "no resolvable codec config for selected mix")
}
