package iamf

import (
	"github.com/iamfgo/iamf/internal/channels"
	"github.com/iamfgo/iamf/internal/descriptor"
	"github.com/iamfgo/iamf/internal/pcm"
	"github.com/rs/zerolog"
)

// OutputSampleType selects the PCM integer width get_output_temporal_unit
// writes. It is a direct alias of the internal pcm package's type so callers
// never import internal/pcm themselves.
type OutputSampleType = pcm.SampleType

const (
	OutputSampleTypeInt16LittleEndian = pcm.SampleTypeInt16
	OutputSampleTypeInt32LittleEndian = pcm.SampleTypeInt32
)

// ChannelOrdering selects the channel permutation scheme component G applies
// to every rendered frame.
type ChannelOrdering = channels.Scheme

const (
	ChannelOrderingIamfDefault       = channels.SchemeNoOp
	ChannelOrderingAndroidConvention = channels.SchemeAndroidConvention
)

// ProfileVersion re-exports the descriptor package's profile enum for
// callers building a RequestedMix.
type ProfileVersion = descriptor.ProfileVersion

const (
	ProfileSimple       = descriptor.ProfileSimple
	ProfileBase         = descriptor.ProfileBase
	ProfileBaseEnhanced = descriptor.ProfileBaseEnhanced
)

// SoundSystem re-exports the descriptor package's loudspeaker system enum.
type SoundSystem = descriptor.SoundSystem

const (
	SoundSystemA  = descriptor.SoundSystemA
	SoundSystemB  = descriptor.SoundSystemB
	SoundSystemC  = descriptor.SoundSystemC
	SoundSystemD  = descriptor.SoundSystemD
	SoundSystemE  = descriptor.SoundSystemE
	SoundSystemF  = descriptor.SoundSystemF
	SoundSystemG  = descriptor.SoundSystemG
	SoundSystemH  = descriptor.SoundSystemH
	SoundSystemI  = descriptor.SoundSystemI
	SoundSystemJ  = descriptor.SoundSystemJ
	SoundSystem10 = descriptor.SoundSystem10
	SoundSystem11 = descriptor.SoundSystem11
	SoundSystem12 = descriptor.SoundSystem12
	SoundSystem13 = descriptor.SoundSystem13
)

// RequestedMix mirrors §3's RequestedMix entity: every field is a hint the
// selector (component D) may or may not be able to honor.
type RequestedMix struct {
	MixPresentationID       *uint32
	OutputLayout            *SoundSystem
	RequestedProfileVersions map[ProfileVersion]struct{}
}

// SelectedMix mirrors §3's SelectedMix entity, the outcome of component D.
type SelectedMix struct {
	MixPresentationID uint32
	OutputLayout      SoundSystem
}

// Settings configures a Decoder at construction. Every field has a usable
// zero value; Logger defaults to a disabled zerolog.Logger so the core never
// writes to stdout unless the caller opts in. RequestedOutputSampleType is a
// pointer so "unset" (nil, defaulting to Int32LittleEndian per §6) is
// distinguishable from an explicit Int16LittleEndian request.
type Settings struct {
	RequestedMix              RequestedMix
	ChannelOrdering           ChannelOrdering
	RequestedOutputSampleType *OutputSampleType
	Logger                    *zerolog.Logger
}

func (s Settings) logger() zerolog.Logger {
	if s.Logger != nil {
		return *s.Logger
	}
	nop := zerolog.Nop()
	return nop
}
