package mixselect

import (
	"testing"

	"github.com/iamfgo/iamf/internal/descriptor"
	"github.com/iamfgo/iamf/internal/ierr"
	"github.com/stretchr/testify/require"
)

func layout(ss descriptor.SoundSystem) descriptor.MixLayout {
	return descriptor.MixLayout{Layout: descriptor.NewSoundSystemLayout(ss)}
}

func dsWithMixes(mixes ...descriptor.MixPresentation) *descriptor.DescriptorSet {
	return &descriptor.DescriptorSet{MixPresentations: mixes}
}

func TestSelectPicksRequestedLayoutWithinDefaultMix(t *testing.T) {
	ds := dsWithMixes(descriptor.MixPresentation{
		ID:      1,
		Profile: descriptor.ProfileSimple,
		Layouts: []descriptor.MixLayout{layout(descriptor.SoundSystemA), layout(descriptor.SoundSystemB)},
	})
	want := descriptor.SoundSystemB
	sel, err := Select(ds, Request{OutputLayout: &want})
	require.NoError(t, err)
	require.Equal(t, Selected{MixPresentationID: 1, OutputLayout: descriptor.SoundSystemB}, sel)
}

func TestSelectFallsBackToStereoWhenRequestedLayoutMissing(t *testing.T) {
	ds := dsWithMixes(descriptor.MixPresentation{
		ID:      1,
		Profile: descriptor.ProfileSimple,
		Layouts: []descriptor.MixLayout{layout(descriptor.SoundSystemA), layout(descriptor.SoundSystemC)},
	})
	want := descriptor.SoundSystemH
	sel, err := Select(ds, Request{OutputLayout: &want})
	require.NoError(t, err)
	require.Equal(t, descriptor.SoundSystemA, sel.OutputLayout)
}

func TestSelectFallsBackToFirstLayoutWhenNoStereo(t *testing.T) {
	ds := dsWithMixes(descriptor.MixPresentation{
		ID:      1,
		Profile: descriptor.ProfileSimple,
		Layouts: []descriptor.MixLayout{layout(descriptor.SoundSystemC), layout(descriptor.SoundSystemD)},
	})
	want := descriptor.SoundSystemH
	sel, err := Select(ds, Request{OutputLayout: &want})
	require.NoError(t, err)
	require.Equal(t, descriptor.SoundSystemC, sel.OutputLayout)
}

func TestSelectHonoursRequestedMixID(t *testing.T) {
	ds := dsWithMixes(
		descriptor.MixPresentation{ID: 1, Profile: descriptor.ProfileSimple, Layouts: []descriptor.MixLayout{layout(descriptor.SoundSystemA)}},
		descriptor.MixPresentation{ID: 2, Profile: descriptor.ProfileSimple, Layouts: []descriptor.MixLayout{layout(descriptor.SoundSystemB)}},
	)
	id := uint32(2)
	sel, err := Select(ds, Request{MixPresentationID: &id})
	require.NoError(t, err)
	require.Equal(t, uint32(2), sel.MixPresentationID)
	require.Equal(t, descriptor.SoundSystemB, sel.OutputLayout)
}

func TestSelectUnknownMixIDFallsBackToFirstSurvivor(t *testing.T) {
	ds := dsWithMixes(
		descriptor.MixPresentation{ID: 1, Profile: descriptor.ProfileSimple, Layouts: []descriptor.MixLayout{layout(descriptor.SoundSystemA)}},
	)
	id := uint32(99)
	sel, err := Select(ds, Request{MixPresentationID: &id})
	require.NoError(t, err)
	require.Equal(t, uint32(1), sel.MixPresentationID)
}

func TestSelectFiltersByProfileVersion(t *testing.T) {
	ds := dsWithMixes(
		descriptor.MixPresentation{ID: 1, Profile: descriptor.ProfileSimple, Layouts: []descriptor.MixLayout{layout(descriptor.SoundSystemA)}},
		descriptor.MixPresentation{ID: 2, Profile: descriptor.ProfileBase, Layouts: []descriptor.MixLayout{layout(descriptor.SoundSystemB)}},
	)
	sel, err := Select(ds, Request{ProfileVersions: map[descriptor.ProfileVersion]struct{}{descriptor.ProfileBase: {}}})
	require.NoError(t, err)
	require.Equal(t, uint32(2), sel.MixPresentationID)
}

func TestSelectProfileFilterWithNoSurvivorsFallsBackToAllMixes(t *testing.T) {
	ds := dsWithMixes(
		descriptor.MixPresentation{ID: 1, Profile: descriptor.ProfileSimple, Layouts: []descriptor.MixLayout{layout(descriptor.SoundSystemA)}},
	)
	sel, err := Select(ds, Request{ProfileVersions: map[descriptor.ProfileVersion]struct{}{descriptor.ProfileBaseEnhanced: {}}})
	require.NoError(t, err)
	require.Equal(t, uint32(1), sel.MixPresentationID)
}

func TestSelectSkipsReservedLayouts(t *testing.T) {
	ds := dsWithMixes(descriptor.MixPresentation{
		ID:      1,
		Profile: descriptor.ProfileSimple,
		Layouts: []descriptor.MixLayout{{Layout: descriptor.NewReservedLayout(5)}, layout(descriptor.SoundSystemC)},
	})
	sel, err := Select(ds, Request{})
	require.NoError(t, err)
	require.Equal(t, descriptor.SoundSystemC, sel.OutputLayout)
}

func TestSelectEmptyDescriptorSetIsInternalError(t *testing.T) {
	_, err := Select(&descriptor.DescriptorSet{}, Request{})
	require.ErrorIs(t, err, ierr.ErrInternal)
}
