package temporal

// AudioFrame is one substream's coded bytes for a single temporal unit.
type AudioFrame struct {
	SubstreamID uint32
	Bytes       []byte
}

// ParameterBlock is one parameter OBU's payload for a single temporal unit.
type ParameterBlock struct {
	ParamID uint32
	Bytes   []byte
}

// Unit is §3's TemporalUnit entity: all OBUs belonging to one timestamp.
type Unit struct {
	Timestamp       int64
	AudioFrames     []AudioFrame
	ParameterBlocks []ParameterBlock
}

// IsTrivial reports whether the unit carries no frames and no parameter
// blocks -- still a valid unit that advances the decoder's clock.
func (u Unit) IsTrivial() bool {
	return len(u.AudioFrames) == 0 && len(u.ParameterBlocks) == 0
}
