package classify

import (
	"testing"

	"github.com/oisee/sornarith/pkg/sornvalue"
)

// gridSets builds the element list NewGrid(start,end,step,false) would,
// without going through pkg/partition (which would import this package).
func gridSets(start, end, step float64) []sornvalue.Value {
	var sets []sornvalue.Value
	numSets := int((end - start) / step)
	for i := 0; i < numSets; i++ {
		first := float64(i)*step + start
		second := first + step
		sets = append(sets, sornvalue.NewExact(first))
		sets = append(sets, sornvalue.NewOpen(first, second))
	}
	sets = append(sets, sornvalue.NewExact(end))
	return sets
}

func TestPositiveOnlyPartition(t *testing.T) {
	sets := gridSets(0, 1, 1) // [Exact(0), Open(0,1), Exact(1)]

	cases := []struct {
		v    sornvalue.Value
		want uint64
	}{
		{sornvalue.NewOpen(0, 1), 0b010},
		{sornvalue.NewOpen(0, 2), 0b110},
		{sornvalue.NewOpen(-0.000000001, 2), 0b111},
		{sornvalue.NewExact(0), 0b001},
		{sornvalue.NewExact(1), 0b100},
		{sornvalue.NewExact(0.5), 0b010},
	}
	for _, c := range cases {
		if got := Sets(sets, false, c.v); uint64(got) != c.want {
			t.Errorf("classify(%v) = %b, want %b", c.v, got, c.want)
		}
	}
}

func TestNegativeOnlyPartition(t *testing.T) {
	sets := gridSets(-2, -1, 1) // [Exact(-2), Open(-2,-1), Exact(-1)]

	cases := []struct {
		v    sornvalue.Value
		want uint64
	}{
		{sornvalue.NewOpen(-2, -1), 0b010},
		{sornvalue.NewOpen(-2, 2), 0b110},
		{sornvalue.NewOpen(-1, 2), 0b000},
		{sornvalue.NewExact(-2), 0b001},
		{sornvalue.NewExact(-1), 0b100},
		{sornvalue.NewExact(-1.5), 0b010},
	}
	for _, c := range cases {
		if got := Sets(sets, false, c.v); uint64(got) != c.want {
			t.Errorf("classify(%v) = %b, want %b", c.v, got, c.want)
		}
	}
}

func TestBitsNeverExceedLength(t *testing.T) {
	sets := gridSets(-5, 5, 1)
	bits := Sets(sets, false, sornvalue.NewOpen(-100, 100))
	if uint64(bits) >= 1<<uint(len(sets)) {
		t.Fatalf("classify set bits beyond [0, n): %b over %d elements", bits, len(sets))
	}
}

func TestPlusMinusInfAliasingIsDeadForGridPartitions(t *testing.T) {
	// No grid-constructed partition ever contains a literal PlusMinusInf
	// element (the source never pushes one either — see
	// original_source/sornset.rs's commented-out push), so classifying
	// a PlusMinusInf value against one always yields zero bits, even
	// with containsInf true. DESIGN.md records this as a deliberately
	// kept, documented quirk rather than a bug we paper over.
	sets := gridSets(-1, 1, 1)
	if got := Sets(sets, true, sornvalue.PMInf); got != 0 {
		t.Fatalf("classify(PlusMinusInf) = %b, want 0 (aliasing branch is unreachable via grid sets)", got)
	}
}
