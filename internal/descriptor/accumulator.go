// Accumulator implements the core spec's component C: it consumes framed
// OBUs until a complete descriptor set has been seen, building the static
// decoder context. It is itself incremental: Feed may be called multiple
// times as more bytes are pushed to the stream, and already-committed
// descriptor OBUs are never re-parsed (the stream cursor only ever rewinds
// to the start of an *incomplete* OBU, never past OBUs this accumulator
// already committed -- that is what makes repeated Feed calls over
// arbitrary chunk boundaries yield the same DescriptorSet, per the core
// spec's chunk-independence invariant).
package descriptor

import (
	"github.com/iamfgo/iamf/internal/bitstream"
	"github.com/iamfgo/iamf/internal/ierr"
	"github.com/iamfgo/iamf/internal/obu"
)

// Accumulator holds descriptor state across Feed calls until sealed.
type Accumulator struct {
	headerSeen    bool
	profile       ProfileVersion
	codecConfigs  map[uint32]CodecConfig
	codecOrder    []uint32
	audioElements map[uint32]AudioElement
	elementOrder  []uint32
	mixes         []MixPresentation
	sealed        bool
	descriptorEnd uint64 // absolute bit position right after the last descriptor OBU
}

// NewAccumulator returns an empty, unsealed accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		codecConfigs:  map[uint32]CodecConfig{},
		audioElements: map[uint32]AudioElement{},
	}
}

// Sealed reports whether a complete descriptor set has already been built.
func (a *Accumulator) Sealed() bool { return a.sealed }

// Feed consumes framed OBUs from s until either the descriptor set seals
// (stream left positioned at the first temporal OBU) or the stream runs dry
// mid-OBU (stream left positioned at that OBU's start, ready for a later
// Feed call once more bytes arrive). It returns the sealed DescriptorSet
// only on the call that completes the seal.
func (a *Accumulator) Feed(s *bitstream.Buffer) (*DescriptorSet, error) {
	if a.sealed {
		return nil, ierr.Wrapf(ierr.ErrUnexpectedDescriptor, "Feed called after descriptor set already sealed")
	}
	for {
		start := s.Tell()
		f, err := obu.FrameNext(s)
		if err == ierr.ErrInsufficientData {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if !f.Type.IsDescriptor() {
			if err := s.Seek(start); err != nil {
				return nil, err
			}
			a.descriptorEnd = start
			ds, err := a.seal(nil)
			if err != nil {
				return nil, err
			}
			return ds, nil
		}

		if err := a.commit(f.Type, f.Payload); err != nil {
			return nil, err
		}
	}
}

// SealFromBlob parses a self-contained descriptor blob (the
// create_from_descriptors entry point). Any trailing bytes that do not form
// a complete, exhaustively-consumed descriptor set is InvalidDescriptors.
func SealFromBlob(blob []byte) (*DescriptorSet, error) {
	a := NewAccumulator()
	s := bitstream.New()
	s.Push(blob)

	for s.Len() > 0 {
		start := s.Tell()
		f, err := obu.FrameNext(s)
		if err == ierr.ErrInsufficientData {
			return nil, ierr.Wrapf(ierr.ErrInvalidDescriptors, "truncated OBU at bit %d in descriptor blob", start)
		}
		if err != nil {
			return nil, ierr.Wrapf(ierr.ErrInvalidDescriptors, "%v", err)
		}
		if !f.Type.IsDescriptor() {
			return nil, ierr.Wrapf(ierr.ErrInvalidDescriptors, "non-descriptor OBU in descriptor blob")
		}
		if err := a.commit(f.Type, f.Payload); err != nil {
			return nil, err
		}
	}
	return a.seal(blob)
}

func (a *Accumulator) commit(t obu.Type, payload []byte) error {
	switch t {
	case obu.TypeIASequenceHeader:
		if a.headerSeen {
			return ierr.Wrapf(ierr.ErrInvalidDescriptors, "duplicate IA sequence header")
		}
		if len(a.codecConfigs) > 0 || len(a.audioElements) > 0 || len(a.mixes) > 0 {
			return ierr.Wrapf(ierr.ErrInvalidDescriptors, "IA sequence header must be first")
		}
		profile, err := parseIASequenceHeader(payload)
		if err != nil {
			return err
		}
		a.profile = profile
		a.headerSeen = true
		return nil

	case obu.TypeCodecConfig:
		if !a.headerSeen {
			return ierr.Wrapf(ierr.ErrInvalidDescriptors, "codec config before IA sequence header")
		}
		cc, err := parseCodecConfig(payload)
		if err != nil {
			return err
		}
		if _, dup := a.codecConfigs[cc.ID]; dup {
			return ierr.Wrapf(ierr.ErrInvalidDescriptors, "duplicate codec config id %d", cc.ID)
		}
		a.codecConfigs[cc.ID] = cc
		a.codecOrder = append(a.codecOrder, cc.ID)
		return nil

	case obu.TypeAudioElement:
		if !a.headerSeen {
			return ierr.Wrapf(ierr.ErrInvalidDescriptors, "audio element before IA sequence header")
		}
		ae, err := parseAudioElement(payload)
		if err != nil {
			return err
		}
		if _, dup := a.audioElements[ae.ID]; dup {
			return ierr.Wrapf(ierr.ErrInvalidDescriptors, "duplicate audio element id %d", ae.ID)
		}
		a.audioElements[ae.ID] = ae
		a.elementOrder = append(a.elementOrder, ae.ID)
		return nil

	case obu.TypeMixPresentation:
		if !a.headerSeen {
			return ierr.Wrapf(ierr.ErrInvalidDescriptors, "mix presentation before IA sequence header")
		}
		mp, err := parseMixPresentation(payload)
		if err != nil {
			return err
		}
		a.mixes = append(a.mixes, mp)
		return nil

	default:
		return ierr.Wrapf(ierr.ErrInternal, "commit called with non-descriptor OBU type %d", t)
	}
}

func (a *Accumulator) seal(rawBytes []byte) (*DescriptorSet, error) {
	if !a.headerSeen {
		return nil, ierr.Wrapf(ierr.ErrInvalidDescriptors, "missing IA sequence header")
	}
	if len(a.codecConfigs) == 0 {
		return nil, ierr.Wrapf(ierr.ErrInvalidDescriptors, "no codec configs present")
	}
	if len(a.audioElements) == 0 {
		return nil, ierr.Wrapf(ierr.ErrInvalidDescriptors, "no audio elements present")
	}
	if len(a.mixes) == 0 {
		return nil, ierr.Wrapf(ierr.ErrInvalidDescriptors, "no mix presentations present")
	}
	for _, ae := range a.audioElements {
		if _, ok := a.codecConfigs[ae.CodecConfigID]; !ok {
			return nil, ierr.Wrapf(ierr.ErrInvalidDescriptors, "audio element %d references unknown codec config %d", ae.ID, ae.CodecConfigID)
		}
	}
	for _, mp := range a.mixes {
		if len(mp.Layouts) == 0 {
			return nil, ierr.Wrapf(ierr.ErrInvalidDescriptors, "mix presentation %d has no layouts", mp.ID)
		}
		for _, eid := range mp.AudioElementIDs {
			if _, ok := a.audioElements[eid]; !ok {
				return nil, ierr.Wrapf(ierr.ErrInvalidDescriptors, "mix presentation %d references unknown audio element %d", mp.ID, eid)
			}
		}
	}

	a.sealed = true
	ds := &DescriptorSet{
		PrimaryProfile:   a.profile,
		CodecConfigs:     a.codecConfigs,
		AudioElements:    a.audioElements,
		MixPresentations: a.mixes,
		RawBytes:         rawBytes,
	}
	return ds, nil
}
