package channels

import (
	"sort"
	"testing"

	"github.com/iamfgo/iamf/internal/descriptor"
	"github.com/stretchr/testify/require"
)

func views(n int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = []float32{float32(i)}
	}
	return out
}

// tags returns the single sample tag from each view, so the destination of
// a permutation can be read back as plain ints.
func tags(views [][]float32) []int {
	out := make([]int, len(views))
	for i, v := range views {
		out[i] = int(v[0])
	}
	return out
}

func TestTableNoOpIsAlwaysIdentity(t *testing.T) {
	for ss := descriptor.SoundSystemA; ss < descriptor.SoundSystem13+1; ss++ {
		if !ss.Valid() {
			continue
		}
		table := Table(SchemeNoOp, ss)
		for i, src := range table {
			require.Equal(t, i, src, "SoundSystem %v index %d", ss, i)
		}
	}
}

func TestTableIdentityGroup(t *testing.T) {
	for _, ss := range []descriptor.SoundSystem{
		descriptor.SoundSystemA, descriptor.SoundSystemB, descriptor.SoundSystemC,
		descriptor.SoundSystemD, descriptor.SoundSystemE,
		descriptor.SoundSystem11, descriptor.SoundSystem12, descriptor.SoundSystem13,
	} {
		table := Table(SchemeAndroidConvention, ss)
		require.Len(t, table, ss.Channels())
		for i, src := range table {
			require.Equal(t, i, src, "SoundSystem %v index %d", ss, i)
		}
	}
}

func TestTableSwap46Group(t *testing.T) {
	cases := []struct {
		ss descriptor.SoundSystem
		n  int
	}{
		{descriptor.SoundSystemI, 8},
		{descriptor.SoundSystemJ, 12},
		{descriptor.SoundSystem10, 10},
	}
	for _, c := range cases {
		table := Table(SchemeAndroidConvention, c.ss)
		require.Len(t, table, c.n)
		want := make([]int, c.n)
		for i := range want {
			want[i] = i
		}
		want[4], want[6] = want[6], want[4]
		want[5], want[7] = want[7], want[5]
		require.Equal(t, want, table, "SoundSystem %v", c.ss)
		for i := 0; i < 4; i++ {
			require.Equal(t, i, table[i])
		}
		for i := 8; i < c.n; i++ {
			require.Equal(t, i, table[i])
		}
	}
}

func TestTableF(t *testing.T) {
	want := []int{1, 2, 0, 10, 7, 8, 5, 6, 9, 3, 4, 11}
	require.Equal(t, want, Table(SchemeAndroidConvention, descriptor.SoundSystemF))
}

func TestTableG(t *testing.T) {
	want := []int{0, 1, 2, 3, 6, 7, 12, 13, 4, 5, 8, 9, 10, 11}
	require.Equal(t, want, Table(SchemeAndroidConvention, descriptor.SoundSystemG))
}

func TestTableH(t *testing.T) {
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 10, 11, 15, 12, 14, 13, 16, 20, 17, 18, 19, 22, 21, 23, 9}
	require.Equal(t, want, Table(SchemeAndroidConvention, descriptor.SoundSystemH))
}

func TestReorderAppliesTheTable(t *testing.T) {
	in := views(descriptor.SoundSystemG.Channels())
	out := Reorder(in, SchemeAndroidConvention, descriptor.SoundSystemG)
	want := []int{0, 1, 2, 3, 6, 7, 12, 13, 4, 5, 8, 9, 10, 11}
	require.Equal(t, want, tags(out))
}

func TestReorderIsAnExactPermutation(t *testing.T) {
	for ss := descriptor.SoundSystemA; ss.Valid(); ss++ {
		in := views(ss.Channels())
		out := Reorder(in, SchemeAndroidConvention, ss)
		gotTags := tags(out)
		wantTags := tags(in)
		sort.Ints(gotTags)
		sort.Ints(wantTags)
		require.Equal(t, wantTags, gotTags, "SoundSystem %v is not a permutation", ss)
	}
}

func TestReorderChannelCountMismatchIsANoOp(t *testing.T) {
	in := views(3)
	out := Reorder(in, SchemeAndroidConvention, descriptor.SoundSystemG)
	require.Equal(t, in, out)
}
