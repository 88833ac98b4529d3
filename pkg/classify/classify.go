// Package classify implements the value-to-mask classifier: the central
// correctness-defining routine of the SORN arithmetic engine. It is a
// pure function of a partition's element list and has no dependency on
// the partition package itself, so that partition construction (which
// needs to classify Exact(1) to populate its OneBit) cannot form an
// import cycle.
package classify

import (
	"github.com/oisee/sornarith/pkg/mask"
	"github.com/oisee/sornarith/pkg/sornvalue"
)

// Sets classifies value against an ordered partition element list,
// returning the mask of elements that overlap it. containsInf controls
// whether the PlusMinusInf/PlusMinusInf pairing contributes a bit — when
// true it aliases bit 0, per spec §9 note 1 (kept for source fidelity;
// a dedicated sentinel bit is the documented, not-yet-default,
// alternative).
func Sets(sets []sornvalue.Value, containsInf bool, v sornvalue.Value) mask.Bits {
	var result mask.Bits

	for i, item := range sets {
		if overlaps(v, item) {
			result |= mask.Unit(i)
		} else if item.IsPMInf() && v.IsPMInf() && containsInf {
			result |= mask.Unit(0)
		}
	}

	return result
}

// overlaps implements the pairwise table in spec §4.1.
func overlaps(v, s sornvalue.Value) bool {
	switch {
	case v.IsExact() && s.IsExact():
		return v.Min == s.Min

	case v.IsInterval() && s.IsInterval():
		return v.Lo() < s.Hi() && s.Lo() < v.Hi()

	case v.IsOpen() && s.IsExact():
		return v.Min < s.Min && s.Min < v.Max
	case v.IsExact() && s.IsOpen():
		return s.Min < v.Min && v.Min < s.Max

	case v.IsLeftOpen() && s.IsExact():
		return v.Min < s.Min && s.Min <= v.Max
	case v.IsExact() && s.IsLeftOpen():
		return s.Min < v.Min && v.Min <= s.Max

	case v.IsRightOpen() && s.IsExact():
		return v.Min <= s.Min && s.Min < v.Max
	case v.IsExact() && s.IsRightOpen():
		return s.Min <= v.Min && v.Min < s.Max

	default:
		return false
	}
}
