package descriptor

// SoundSystem enumerates the ITU-R B.S.2051 loudspeaker systems A..J plus
// the IAMF extension systems 10..13. Each carries a fixed channel count; the
// canonical IAMF channel order is implicit in decode/render order and is
// not re-derived here (the renderer produces channels already in that
// order; §4.G of the core spec permutes them for a target convention).
type SoundSystem uint8

const (
	SoundSystemA SoundSystem = iota // 0+2+0, stereo
	SoundSystemB                    // 0+5+0
	SoundSystemC                    // 2+5+0
	SoundSystemD                    // 4+5+0
	SoundSystemE                    // 4+5+1
	SoundSystemF                    // 3+7+0
	SoundSystemG                    // 4+9+0
	SoundSystemH                    // 9+10+3
	SoundSystemI                    // 0+7+0
	SoundSystemJ                    // 4+7+0
	SoundSystem10                   // 2+7+0
	SoundSystem11                   // IAMF extension (12 channels, see channelCounts)
	SoundSystem12                   // 4+9+0 mono-LFE variant (IAMF extension)
	SoundSystem13                   // 4+7+0 variant (IAMF extension)

	soundSystemCount
)

// channelCounts is indexed by SoundSystem; it names the channel count each
// system reproduces, including LFE channels. F, G and H's counts are pinned
// literally by the core spec's §4.G permutation tables (12, 14 and 24
// entries respectively); the others are not pinned by an explicit array there, so
// they follow ITU-R BS.2051-3 table 1 (M+S+H speakers plus its LFE count)
// for the lettered systems, sized to make §4.G's swap(4<->6, 5<->7) table
// well-formed for I/J/10. See DESIGN.md for this reading of an otherwise
// underspecified corner of §4.G.
var channelCounts = [soundSystemCount]int{
	SoundSystemA:  2,  // 0+2+0
	SoundSystemB:  6,  // 0+5+0 + 1 LFE
	SoundSystemC:  8,  // 2+5+0 + 1 LFE
	SoundSystemD:  10, // 4+5+0 + 1 LFE
	SoundSystemE:  11, // 4+5+1 + 1 LFE
	SoundSystemF:  12, // 3+7+0 + 2 LFE, per §4.G's 12-entry table
	SoundSystemG:  14, // 4+9+0 + 1 LFE, per §4.G's 14-entry table
	SoundSystemH:  24, // 9+10+3 + 2 LFE, per §4.G's 24-entry table
	SoundSystemI:  8,  // 0+7+0 + 1 LFE
	SoundSystemJ:  12, // 4+7+0 + 1 LFE
	SoundSystem10: 10, // 2+7+0 + 1 LFE
	SoundSystem11: 12, // IAMF extension
	SoundSystem12: 14, // IAMF extension
	SoundSystem13: 12, // IAMF extension
}

// Valid reports whether s is one of the 14 known systems (never Reserved).
func (s SoundSystem) Valid() bool {
	return s < soundSystemCount
}

// Channels returns the loudspeaker channel count for s, or 0 if s is not a
// recognised system.
func (s SoundSystem) Channels() int {
	if !s.Valid() {
		return 0
	}
	return channelCounts[s]
}

func (s SoundSystem) String() string {
	names := [soundSystemCount]string{
		SoundSystemA: "A", SoundSystemB: "B", SoundSystemC: "C", SoundSystemD: "D",
		SoundSystemE: "E", SoundSystemF: "F", SoundSystemG: "G", SoundSystemH: "H",
		SoundSystemI: "I", SoundSystemJ: "J", SoundSystem10: "10", SoundSystem11: "11",
		SoundSystem12: "12", SoundSystem13: "13",
	}
	if !s.Valid() {
		return "reserved"
	}
	return names[s]
}

// Layout is the sum type from §3: either a named sound-system convention or
// a reserved/binaural tag that never crosses the public boundary.
type Layout struct {
	SoundSystem SoundSystem
	reservedTag uint8
	isReserved  bool
}

// NewSoundSystemLayout constructs a public SsConvention layout.
func NewSoundSystemLayout(ss SoundSystem) Layout {
	return Layout{SoundSystem: ss}
}

// NewReservedLayout constructs a ReservedOrBinaural layout carrying tag.
// Such layouts are filtered out before they reach the public API.
func NewReservedLayout(tag uint8) Layout {
	return Layout{reservedTag: tag, isReserved: true}
}

// IsPublic reports whether this layout may cross the public boundary.
func (l Layout) IsPublic() bool { return !l.isReserved && l.SoundSystem.Valid() }
