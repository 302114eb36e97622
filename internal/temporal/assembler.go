// Package temporal implements the core spec's component E: it collects the
// audio frames and parameter blocks of a single timestamp and emits them
// atomically, rewinding to the start of the unit whenever the stream runs
// dry mid-unit so the caller can retry once more bytes arrive.
package temporal

import (
	"github.com/iamfgo/iamf/internal/bitstream"
	"github.com/iamfgo/iamf/internal/ierr"
	"github.com/iamfgo/iamf/internal/obu"
)

// Assembler tracks the running timestamp clock across successive pulls and
// knows, from the sealed descriptor set, which substream ids this IA
// sequence declares. A unit is known to be complete as soon as every
// declared substream has contributed one frame -- the bitstream carries no
// explicit end-of-unit marker of its own beyond the next temporal-delimiter
// or a repeated substream id, and both of those only matter when a unit
// does not exercise every declared substream (e.g. a muted one this tick).
//
// Timestamps are not carried on the wire either (IAMF derives temporal
// position from unit ordering and the governing codec config's frame
// size), so the assembler advances its own clock by tickSize per emitted
// non-trivial unit and by one nominal tick for a trivial one.
type Assembler struct {
	nextTimestamp      int64
	tickSize           int64
	expectedSubstreams map[uint32]bool
}

// NewAssembler returns an assembler whose clock advances by tickSize
// (typically the governing codec config's frame size) per emitted unit.
// expectedSubstreams is every substream id declared across the audio
// elements the resolved mix presentation actually uses; an empty set
// disables the all-contributed shortcut and falls back to explicit
// delimiter/duplicate-frame detection only.
func NewAssembler(tickSize uint32, expectedSubstreams map[uint32]bool) *Assembler {
	t := int64(tickSize)
	if t <= 0 {
		t = 1
	}
	if expectedSubstreams == nil {
		expectedSubstreams = map[uint32]bool{}
	}
	return &Assembler{tickSize: t, expectedSubstreams: expectedSubstreams}
}

// PullOne implements pull_one(stream, eos_hint) from core spec §4.E. It
// returns (unit, true, nil) on success, (zero, false, nil) when no unit is
// available yet (stream rewound to start-of-unit), and (zero, false, err)
// on a fatal structural error.
func (a *Assembler) PullOne(s *bitstream.Buffer, eosHint bool) (Unit, bool, error) {
	start := s.Tell()
	contributed := map[uint32]bool{}
	var frames []AudioFrame
	var params []ParameterBlock

	allContributed := func() bool {
		if len(a.expectedSubstreams) == 0 {
			return false
		}
		for id := range a.expectedSubstreams {
			if !contributed[id] {
				return false
			}
		}
		return true
	}

	for {
		obuStart := s.Tell()
		f, err := obu.FrameNext(s)
		if err == ierr.ErrInsufficientData {
			if eosHint && (len(frames) > 0 || len(params) > 0) {
				return a.finish(s, start, frames, params)
			}
			if err := s.Seek(start); err != nil {
				return Unit{}, false, err
			}
			return Unit{}, false, nil
		}
		if err != nil {
			return Unit{}, false, err
		}

		switch f.Type {
		case obu.TypeTemporalDelimiter:
			return a.finish(s, start, frames, params)

		case obu.TypeAudioFrame:
			if contributed[f.SubstreamID] {
				// Implicit delimiter: this OBU belongs to the next unit.
				if err := s.Seek(obuStart); err != nil {
					return Unit{}, false, err
				}
				return a.finish(s, start, frames, params)
			}
			contributed[f.SubstreamID] = true
			frames = append(frames, AudioFrame{SubstreamID: f.SubstreamID, Bytes: f.Payload})
			if allContributed() {
				return a.finish(s, start, frames, params)
			}

		case obu.TypeParameterBlock:
			paramID, rest, perr := parseParameterBlockHeader(f.Payload)
			if perr != nil {
				return Unit{}, false, perr
			}
			params = append(params, ParameterBlock{ParamID: paramID, Bytes: rest})

		default:
			if f.Type.IsDescriptor() {
				return Unit{}, false, ierr.Wrapf(ierr.ErrUnexpectedDescriptor, "descriptor OBU encountered in temporal-unit territory")
			}
			return Unit{}, false, ierr.Wrapf(ierr.ErrCorruptTemporalUnit, "unrecognised OBU type in temporal-unit territory")
		}
	}
}

func (a *Assembler) finish(s *bitstream.Buffer, start uint64, frames []AudioFrame, params []ParameterBlock) (Unit, bool, error) {
	ts := a.nextTimestamp
	if len(frames) == 0 && len(params) == 0 {
		a.nextTimestamp++
	} else {
		a.nextTimestamp += a.tickSize
	}
	consumedBits := s.Tell() - start
	if consumedBits%8 != 0 {
		return Unit{}, false, ierr.Wrapf(ierr.ErrInternal, "temporal unit ended at unaligned bit position")
	}
	if err := s.Flush(int(consumedBits / 8)); err != nil {
		return Unit{}, false, err
	}
	return Unit{Timestamp: ts, AudioFrames: frames, ParameterBlocks: params}, true, nil
}

func parseParameterBlockHeader(payload []byte) (uint32, []byte, error) {
	r := bitstream.New()
	r.Push(payload)
	id, err := r.ReadULEB128()
	if err != nil {
		return 0, nil, ierr.Wrapf(ierr.ErrCorruptTemporalUnit, "truncated parameter block id")
	}
	rest, err := r.ReadBytes(int(r.Len() / 8))
	if err != nil {
		return 0, nil, ierr.Wrapf(ierr.ErrCorruptTemporalUnit, "truncated parameter block body")
	}
	return uint32(id), rest, nil
}
