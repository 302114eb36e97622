// Package mixselect implements the core spec's component D: it maps a
// caller-requested (profile, mix, layout) tuple onto the mix presentations
// and layouts actually present in the sealed descriptors, with a
// deterministic stereo fallback.
package mixselect

import (
	"github.com/iamfgo/iamf/internal/descriptor"
	"github.com/iamfgo/iamf/internal/ierr"
)

// Request mirrors §3's RequestedMix: every field is a hint, not a
// requirement.
type Request struct {
	MixPresentationID *uint32
	OutputLayout      *descriptor.SoundSystem
	ProfileVersions   map[descriptor.ProfileVersion]struct{}
}

// Selected mirrors §3's SelectedMix: the outcome, immutable until Reset.
type Selected struct {
	MixPresentationID uint32
	OutputLayout      descriptor.SoundSystem
}

// Select runs the five-step algorithm from core spec §4.D.
func Select(ds *descriptor.DescriptorSet, req Request) (Selected, error) {
	if ds == nil || len(ds.MixPresentations) == 0 {
		return Selected{}, ierr.Wrapf(ierr.ErrInternal, "select called on empty descriptor set")
	}

	// Step 1: filter by requested profile versions (empty set = keep all).
	survivors := ds.MixPresentations
	if len(req.ProfileVersions) > 0 {
		filtered := make([]descriptor.MixPresentation, 0, len(ds.MixPresentations))
		for _, mp := range ds.MixPresentations {
			if _, ok := req.ProfileVersions[mp.Profile]; ok {
				filtered = append(filtered, mp)
			}
		}
		if len(filtered) > 0 {
			survivors = filtered
		} else {
			survivors = ds.MixPresentations
		}
	}

	// Step 2: pick the requested mix id if it survived, else first survivor
	// in descriptor order.
	chosen := survivors[0]
	if req.MixPresentationID != nil {
		for _, mp := range survivors {
			if mp.ID == *req.MixPresentationID {
				chosen = mp
				break
			}
		}
	}

	// Step 3: look for the requested output layout within the chosen mix.
	if req.OutputLayout != nil {
		for _, l := range chosen.Layouts {
			if l.Layout.IsPublic() && l.Layout.SoundSystem == *req.OutputLayout {
				return Selected{MixPresentationID: chosen.ID, OutputLayout: l.Layout.SoundSystem}, nil
			}
		}
	}

	// Step 4: fall back to stereo (SoundSystem A) if present.
	for _, l := range chosen.Layouts {
		if l.Layout.IsPublic() && l.Layout.SoundSystem == descriptor.SoundSystemA {
			return Selected{MixPresentationID: chosen.ID, OutputLayout: descriptor.SoundSystemA}, nil
		}
	}

	// Step 5: first layout in the chosen mix.
	for _, l := range chosen.Layouts {
		if l.Layout.IsPublic() {
			return Selected{MixPresentationID: chosen.ID, OutputLayout: l.Layout.SoundSystem}, nil
		}
	}
	return Selected{}, ierr.Wrapf(ierr.ErrInvalidDescriptors, "mix presentation %d has no public layout", chosen.ID)
}
