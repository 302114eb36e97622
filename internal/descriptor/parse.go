package descriptor

import (
	"github.com/iamfgo/iamf/internal/bitstream"
	"github.com/iamfgo/iamf/internal/ierr"
)

// payloadReader wraps a descriptor OBU's already-framed payload bytes in a
// throwaway bitstream.Buffer so the field parsers below can reuse the same
// all-or-nothing ULEB128/byte readers as the stream-level framer. A
// malformed (truncated) payload becomes InvalidDescriptors, never
// InsufficientData -- the framer already guaranteed the whole payload span
// was present before calling us.
func payloadReader(payload []byte) *bitstream.Buffer {
	b := bitstream.New()
	b.Push(payload)
	return b
}

func malformed(context string) error {
	return ierr.Wrapf(ierr.ErrInvalidDescriptors, "%s", context)
}

// parseIASequenceHeader reads the 4-byte "iamf" magic followed by a primary
// and additional profile byte.
func parseIASequenceHeader(payload []byte) (ProfileVersion, error) {
	r := payloadReader(payload)
	magic, err := r.ReadBytes(4)
	if err != nil {
		return 0, malformed("truncated IA sequence header")
	}
	if string(magic) != "iamf" {
		return 0, malformed("bad IA sequence header magic")
	}
	primary, err := r.ReadBits(8)
	if err != nil {
		return 0, malformed("truncated IA sequence header profile")
	}
	if _, err := r.ReadBits(8); err != nil { // additional_profile, unused by this core
		return 0, malformed("truncated IA sequence header additional profile")
	}
	return profileFromByte(uint8(primary)), nil
}

func parseCodecConfig(payload []byte) (CodecConfig, error) {
	r := payloadReader(payload)
	id, err := r.ReadULEB128()
	if err != nil {
		return CodecConfig{}, malformed("truncated codec config id")
	}
	fourCCBytes, err := r.ReadBytes(4)
	if err != nil {
		return CodecConfig{}, malformed("truncated codec config fourcc")
	}
	var fourCC [4]byte
	copy(fourCC[:], fourCCBytes)

	frameSize, err := r.ReadULEB128()
	if err != nil {
		return CodecConfig{}, malformed("truncated codec config frame size")
	}
	sampleRateRaw, err := r.ReadBits(32)
	if err != nil {
		return CodecConfig{}, malformed("truncated codec config sample rate")
	}
	bitDepthRaw, err := r.ReadBits(8)
	if err != nil {
		return CodecConfig{}, malformed("truncated codec config bit depth")
	}
	privLen, err := r.ReadULEB128()
	if err != nil {
		return CodecConfig{}, malformed("truncated codec config private length")
	}
	priv, err := r.ReadBytes(int(privLen))
	if err != nil {
		return CodecConfig{}, malformed("truncated codec config private payload")
	}

	cc := CodecConfig{
		ID:           uint32(id),
		SampleRate:   uint32(sampleRateRaw),
		FrameSize:    uint32(frameSize),
		BitDepth:     uint8(bitDepthRaw),
		CodecKind:    codecKindFromFourCC(fourCC),
		CodecPrivate: priv,
	}
	if cc.SampleRate == 0 || cc.FrameSize == 0 {
		return CodecConfig{}, malformed("codec config sample_rate and frame_size must be positive")
	}
	return cc, nil
}

func parseAudioElement(payload []byte) (AudioElement, error) {
	r := payloadReader(payload)
	id, err := r.ReadULEB128()
	if err != nil {
		return AudioElement{}, malformed("truncated audio element id")
	}
	elemType, err := r.ReadBits(8)
	if err != nil {
		return AudioElement{}, malformed("truncated audio element type")
	}
	codecConfigID, err := r.ReadULEB128()
	if err != nil {
		return AudioElement{}, malformed("truncated audio element codec config ref")
	}
	channelConfig, err := r.ReadULEB128()
	if err != nil {
		return AudioElement{}, malformed("truncated audio element channel configuration")
	}
	numSubstreams, err := r.ReadULEB128()
	if err != nil {
		return AudioElement{}, malformed("truncated audio element substream count")
	}
	ids := make([]uint32, 0, numSubstreams)
	seen := make(map[uint32]bool, numSubstreams)
	for i := uint64(0); i < numSubstreams; i++ {
		sid, err := r.ReadULEB128()
		if err != nil {
			return AudioElement{}, malformed("truncated audio element substream id")
		}
		if seen[uint32(sid)] {
			return AudioElement{}, malformed("duplicate substream id within audio element")
		}
		seen[uint32(sid)] = true
		ids = append(ids, uint32(sid))
	}
	return AudioElement{
		ID:                   uint32(id),
		CodecConfigID:        uint32(codecConfigID),
		ElementType:          AudioElementType(elemType),
		SubstreamIDs:         ids,
		ChannelConfiguration: uint32(channelConfig),
	}, nil
}

func parseMixPresentation(payload []byte) (MixPresentation, error) {
	r := payloadReader(payload)
	id, err := r.ReadULEB128()
	if err != nil {
		return MixPresentation{}, malformed("truncated mix presentation id")
	}
	profileByte, err := r.ReadBits(8)
	if err != nil {
		return MixPresentation{}, malformed("truncated mix presentation profile")
	}

	numTags, err := r.ReadULEB128()
	if err != nil {
		return MixPresentation{}, malformed("truncated mix presentation tag count")
	}
	tags := make([]string, 0, numTags)
	for i := uint64(0); i < numTags; i++ {
		length, err := r.ReadULEB128()
		if err != nil {
			return MixPresentation{}, malformed("truncated mix presentation tag length")
		}
		raw, err := r.ReadBytes(int(length))
		if err != nil {
			return MixPresentation{}, malformed("truncated mix presentation tag bytes")
		}
		tags = append(tags, string(raw))
	}

	numElements, err := r.ReadULEB128()
	if err != nil {
		return MixPresentation{}, malformed("truncated mix presentation element count")
	}
	elemIDs := make([]uint32, 0, numElements)
	for i := uint64(0); i < numElements; i++ {
		eid, err := r.ReadULEB128()
		if err != nil {
			return MixPresentation{}, malformed("truncated mix presentation element id")
		}
		elemIDs = append(elemIDs, uint32(eid))
	}

	numLayouts, err := r.ReadULEB128()
	if err != nil {
		return MixPresentation{}, malformed("truncated mix presentation layout count")
	}
	if numLayouts == 0 {
		return MixPresentation{}, malformed("mix presentation must declare at least one layout")
	}
	layouts := make([]MixLayout, 0, numLayouts)
	for i := uint64(0); i < numLayouts; i++ {
		ssByte, err := r.ReadBits(8)
		if err != nil {
			return MixPresentation{}, malformed("truncated mix presentation layout sound system")
		}
		loudnessRaw, err := r.ReadBits(16)
		if err != nil {
			return MixPresentation{}, malformed("truncated mix presentation layout loudness")
		}
		layouts = append(layouts, MixLayout{
			Layout:             NewSoundSystemLayout(SoundSystem(ssByte)),
			IntegratedLoudness: int16(loudnessRaw),
		})
	}

	numParamRefs, err := r.ReadULEB128()
	if err != nil {
		return MixPresentation{}, malformed("truncated mix presentation param ref count")
	}
	paramRefs := make([]uint32, 0, numParamRefs)
	for i := uint64(0); i < numParamRefs; i++ {
		pid, err := r.ReadULEB128()
		if err != nil {
			return MixPresentation{}, malformed("truncated mix presentation param ref")
		}
		paramRefs = append(paramRefs, uint32(pid))
	}

	return MixPresentation{
		ID:              uint32(id),
		Profile:         profileFromByte(uint8(profileByte)),
		Tags:            tags,
		AudioElementIDs: elemIDs,
		Layouts:         layouts,
		ParamRefs:       paramRefs,
	}, nil
}
