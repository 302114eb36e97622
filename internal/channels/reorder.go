// Package channels implements the core spec's component G: it permutes a
// rendered frame's channels from IAMF order to a target convention for the
// resolved sound system. The permutation tables below are pinned in the
// core spec and are the repository's external contract with players that
// expect a specific channel convention (e.g. Android's AudioTrack).
package channels

import "github.com/iamfgo/iamf/internal/descriptor"

// Scheme selects a channel reordering convention.
type Scheme uint8

const (
	SchemeNoOp Scheme = iota
	SchemeAndroidConvention
)

// identityTable builds the identity permutation for sound systems whose
// Android convention matches IAMF channel order.
func identityTable(n int) []int {
	t := make([]int, n)
	for i := range t {
		t[i] = i
	}
	return t
}

// androidTables holds the destination[i] = source[i] permutation arrays
// named in the core spec for every sound system with a non-identity
// Android-convention mapping. Systems absent from this map use the identity
// permutation.
var androidTables = map[descriptor.SoundSystem][]int{
	descriptor.SoundSystemI:  swap46(8),
	descriptor.SoundSystemJ:  swap46(12),
	descriptor.SoundSystem10: swap46(10),
	descriptor.SoundSystemF:  {1, 2, 0, 10, 7, 8, 5, 6, 9, 3, 4, 11},
	descriptor.SoundSystemG:  {0, 1, 2, 3, 6, 7, 12, 13, 4, 5, 8, 9, 10, 11},
	descriptor.SoundSystemH:  {0, 1, 2, 3, 4, 5, 6, 7, 8, 10, 11, 15, 12, 14, 13, 16, 20, 17, 18, 19, 22, 21, 23, 9},
}

// swap46 returns the identity permutation of length n with positions 4 and
// 6, 5 and 7 swapped (channels 0-3 and any index >= 8 stay put), as used by
// systems I, J and 10.
func swap46(n int) []int {
	t := identityTable(n)
	if n > 6 {
		t[4], t[6] = t[6], t[4]
		t[5], t[7] = t[7], t[5]
	}
	return t
}

// Table returns the destination permutation for ss under scheme: table[i]
// is the source channel index that should land at destination index i.
// NoOp and any sound system not listed in androidTables yields identity.
func Table(scheme Scheme, ss descriptor.SoundSystem) []int {
	n := ss.Channels()
	if scheme == SchemeNoOp {
		return identityTable(n)
	}
	if t, ok := androidTables[ss]; ok {
		return append([]int(nil), t...)
	}
	return identityTable(n)
}

// Reorder returns channelViews permuted according to scheme and ss: element
// i of the result is channelViews[table[i]]. Each inner slice is a borrowed
// per-channel sample sequence; no samples are copied, only a new outer
// slice of views is built. channelViews itself is not reordered in place.
func Reorder(channelViews [][]float32, scheme Scheme, ss descriptor.SoundSystem) [][]float32 {
	table := Table(scheme, ss)
	if len(table) != len(channelViews) {
		// Channel count mismatch: nothing sane to permute, return input
		// unchanged rather than panicking on an out-of-range index.
		return channelViews
	}
	out := make([][]float32, len(channelViews))
	for dst, src := range table {
		out[dst] = channelViews[src]
	}
	return out
}
