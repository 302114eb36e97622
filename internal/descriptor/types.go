package descriptor

// ProfileVersion mirrors §3's variant: Reserved profile bytes are kept out
// of the public API entirely; only Simple/Base/BaseEnhanced are exported
// selection targets.
type ProfileVersion uint8

const (
	ProfileSimple ProfileVersion = iota
	ProfileBase
	ProfileBaseEnhanced
	profileReservedBase // ProfileReserved(n) = profileReservedBase + n
)

// Reserved constructs the Reserved(u8) variant for an unrecognised profile
// byte. Reserved profiles never cross the public boundary.
func Reserved(code uint8) ProfileVersion { return profileReservedBase + ProfileVersion(code) }

// IsReserved reports whether p is a Reserved(n) variant.
func (p ProfileVersion) IsReserved() bool { return p >= profileReservedBase }

func profileFromByte(b uint8) ProfileVersion {
	switch b {
	case 0:
		return ProfileSimple
	case 1:
		return ProfileBase
	case 2:
		return ProfileBaseEnhanced
	default:
		return Reserved(b)
	}
}

// CodecKind identifies the substream codec a CodecConfig describes. Only
// LPCM has an in-repo reference decoder (see internal/render); the others
// are modeled so descriptors referencing them parse correctly, and
// render.NewCodec gives them a codec whose Decode fails with
// ErrCodecFailure.
type CodecKind uint8

const (
	CodecLPCM CodecKind = iota
	CodecOpus
	CodecAACLC
	CodecFLAC
	CodecUnknown
)

func codecKindFromFourCC(fourCC [4]byte) CodecKind {
	switch string(fourCC[:]) {
	case "ipcm":
		return CodecLPCM
	case "opus":
		return CodecOpus
	case "mp4a":
		return CodecAACLC
	case "fLaC":
		return CodecFLAC
	default:
		return CodecUnknown
	}
}

// CodecConfig is §3's CodecConfig entity.
type CodecConfig struct {
	ID            uint32
	SampleRate    uint32
	FrameSize     uint32 // samples per channel per temporal unit
	BitDepth      uint8  // LPCM sample width in bits; 0 for non-LPCM codecs
	CodecKind     CodecKind
	CodecPrivate  []byte
}

// AudioElementType distinguishes channel-based from scene-based (ambisonics)
// audio elements. The render adapter (§4.F) hands both to the renderer the
// same way; ReferenceRenderer uses the type to choose between per-channel
// pass-through and splashing across every output channel.
type AudioElementType uint8

const (
	AudioElementChannelBased AudioElementType = iota
	AudioElementSceneBased
)

// AudioElement is §3's AudioElement entity.
type AudioElement struct {
	ID                   uint32
	CodecConfigID        uint32
	ElementType          AudioElementType
	SubstreamIDs         []uint32
	ChannelConfiguration uint32
}

// MixLayout is one of a MixPresentation's declared reproduction layouts,
// with its loudness metadata (§3: "layouts[] with loudness metadata").
type MixLayout struct {
	Layout            Layout
	IntegratedLoudness int16 // Q8.8 fixed point LKFS, matching the IAMF loudness_info syntax width
}

// MixPresentation is §3's MixPresentation entity.
type MixPresentation struct {
	ID               uint32
	Profile          ProfileVersion
	Tags             []string
	AudioElementIDs  []uint32
	Layouts          []MixLayout
	ParamRefs        []uint32
}

// DescriptorSet is §3's sealed, immutable (modulo Reset) descriptor
// snapshot built by the accumulator.
type DescriptorSet struct {
	PrimaryProfile   ProfileVersion
	CodecConfigs     map[uint32]CodecConfig
	AudioElements    map[uint32]AudioElement
	MixPresentations []MixPresentation
	RawBytes         []byte // snapshot for Reset, per §3 "Ownership"
}

// CodecConfigFor resolves an audio element's codec config, or false if the
// reference is dangling (callers should have already rejected this at seal
// time; this is a defensive accessor for later pipeline stages).
func (d *DescriptorSet) CodecConfigFor(ae AudioElement) (CodecConfig, bool) {
	cc, ok := d.CodecConfigs[ae.CodecConfigID]
	return cc, ok
}
