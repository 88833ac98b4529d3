// Package arith implements the SORN ring operations: binary add/sub/mul/div
// on mask carriers (endpoint cross-combination plus kind propagation) and
// the unary negate/abs/pow. See spec.md §4.3.
package arith

import (
	"math"

	"github.com/oisee/sornarith/pkg/mask"
	"github.com/oisee/sornarith/pkg/partition"
	"github.com/oisee/sornarith/pkg/sornvalue"
)

// Op identifies a binary ring operation, used by pkg/sorntable to
// parameterize table generation.
type Op byte

const (
	OpAdd Op = 'a'
	OpSub Op = 's'
	OpMul Op = 'm'
	OpDiv Op = 'd'
)

// String renders the operation's conventional name.
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	default:
		return "?"
	}
}

// ParseOp maps "add"/"sub"/"mul"/"div" to an Op, mirroring the operator
// tag strings in the original source and spec §4.4.
func ParseOp(s string) (Op, bool) {
	switch s {
	case "add":
		return OpAdd, true
	case "sub":
		return OpSub, true
	case "mul":
		return OpMul, true
	case "div":
		return OpDiv, true
	default:
		return 0, false
	}
}

// Apply mutates self in place per spec §4.3.2: partition check, memo
// lookup, infinity short-circuit, endpoint cross product, kind
// propagation, memoize, commit.
func Apply(op Op, self, other *partition.Carrier) error {
	if self.Partition() != other.Partition() {
		return partition.ErrDifferentPartitions
	}
	p := self.Partition()

	memoTag := byte(op)
	if cached, ok := p.LookupBinary(memoTag, self.Bits(), other.Bits()); ok {
		return self.SetBits(cached)
	}

	result := combine(op, p, self, other)

	p.StoreBinary(memoTag, self.Bits(), other.Bits(), result)
	if op == OpAdd || op == OpMul {
		// Commutative ops also cache the swapped key (spec §4.3.2 step 7).
		p.StoreBinary(memoTag, other.Bits(), self.Bits(), result)
	}

	return self.SetBits(result)
}

// combine computes the result mask for a binary op without touching the
// memo tables — the infinity short-circuit plus the endpoint
// cross-product/kind-propagation pass.
func combine(op Op, p *partition.Partition, self, other *partition.Carrier) mask.Bits {
	selfInf := self.FitContains(sornvalue.PMInf)
	otherInf := other.FitContains(sornvalue.PMInf)

	if selfInf || otherInf {
		// Saturate to every partition bit, including the aliased
		// infinity bit — spec §9 note 1, kept for source fidelity.
		return mask.All(p.Len())
	}

	var result mask.Bits
	for _, s1 := range self.Ranges() {
		for _, s2 := range other.Ranges() {
			result |= combineOne(op, p, s1, s2)
		}
	}
	return result
}

func combineOne(op Op, p *partition.Partition, s1, s2 sornvalue.Value) mask.Bits {
	f := opFunc(op)
	c1 := f(s1.Lo(), s2.Lo())
	c2 := f(s1.Lo(), s2.Hi())
	c3 := f(s1.Hi(), s2.Lo())
	c4 := f(s1.Hi(), s2.Hi())

	lo := min4(c1, c2, c3, c4)
	hi := max4(c1, c2, c3, c4)

	out := propagate(op, s1, s2, lo, hi)
	return p.Classify(out)
}

func opFunc(op Op) func(a, b float64) float64 {
	switch op {
	case OpAdd:
		return func(a, b float64) float64 { return a + b }
	case OpSub:
		return func(a, b float64) float64 { return a - b }
	case OpMul:
		return func(a, b float64) float64 { return a * b }
	case OpDiv:
		return func(a, b float64) float64 { return a / b }
	default:
		panic("sornarith/arith: unknown op")
	}
}

// propagate implements the kind-propagation table in spec §4.3.2 step 5.
func propagate(op Op, s1, s2 sornvalue.Value, lo, hi float64) sornvalue.Value {
	switch {
	case isPosInf(lo) && isPosInf(hi), isNegInf(lo) && isNegInf(hi):
		return sornvalue.PMInf
	case op == OpMul && lo == 0 && hi == 0:
		return sornvalue.NewExact(0)
	case s1.IsExact() && s2.IsExact():
		return sornvalue.NewExact(lo)
	case s1.IsOpen() || s2.IsOpen():
		return sornvalue.NewOpen(lo, hi)
	case (s1.IsLeftOpen() && s2.IsLeftOpen()) || (s1.IsLeftOpen() && s2.IsExact()) || (s1.IsExact() && s2.IsLeftOpen()):
		return sornvalue.NewOpenLeft(lo, hi)
	case (s1.IsRightOpen() && s2.IsRightOpen()) || (s1.IsRightOpen() && s2.IsExact()) || (s1.IsExact() && s2.IsRightOpen()):
		return sornvalue.NewOpenRight(lo, hi)
	case (s1.IsLeftOpen() && s2.IsRightOpen()) || (s1.IsRightOpen() && s2.IsLeftOpen()):
		return sornvalue.NewOpen(lo, hi)
	default:
		return sornvalue.EmptyValue
	}
}

func isPosInf(f float64) bool { return f > 0 && f*2 == f && f != 0 }
func isNegInf(f float64) bool { return f < 0 && f*2 == f && f != 0 }

// min4/max4 mirror the original source's use of Rust's f64::min/f64::max
// across the four endpoint candidates: a NaN candidate (e.g. 0/0 from a
// Div endpoint combination) is ignored rather than poisoning the result,
// so a single NaN candidate among c1..c4 does not collapse lo/hi to NaN
// the way a naive `<`/`>` comparison chain would.
func min4(a, b, c, d float64) float64 {
	m := a
	for _, v := range [3]float64{b, c, d} {
		if math.IsNaN(m) || (!math.IsNaN(v) && v < m) {
			m = v
		}
	}
	return m
}

func max4(a, b, c, d float64) float64 {
	m := a
	for _, v := range [3]float64{b, c, d} {
		if math.IsNaN(m) || (!math.IsNaN(v) && v > m) {
			m = v
		}
	}
	return m
}

// Add performs self += other in place.
func Add(self, other *partition.Carrier) error { return Apply(OpAdd, self, other) }

// Sub performs self -= other in place.
func Sub(self, other *partition.Carrier) error { return Apply(OpSub, self, other) }

// Mul performs self *= other in place.
func Mul(self, other *partition.Carrier) error { return Apply(OpMul, self, other) }

// Div performs self /= other in place.
func Div(self, other *partition.Carrier) error { return Apply(OpDiv, self, other) }

// Plus, Minus, Times and Over are the convenience forms: they return a
// fresh carrier and swallow errors into a zero-bits result (spec §7).
func Plus(a, b *partition.Carrier) *partition.Carrier  { return convenience(OpAdd, a, b) }
func Minus(a, b *partition.Carrier) *partition.Carrier { return convenience(OpSub, a, b) }
func Times(a, b *partition.Carrier) *partition.Carrier { return convenience(OpMul, a, b) }
func Over(a, b *partition.Carrier) *partition.Carrier  { return convenience(OpDiv, a, b) }

func convenience(op Op, a, b *partition.Carrier) *partition.Carrier {
	result := a.Clone()
	if err := Apply(op, result, b); err != nil {
		_ = result.SetBits(0)
	}
	return result
}
