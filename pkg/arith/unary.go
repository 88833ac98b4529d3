package arith

import (
	"math"

	"github.com/oisee/sornarith/pkg/mask"
	"github.com/oisee/sornarith/pkg/partition"
	"github.com/oisee/sornarith/pkg/sornvalue"
)

// Negate returns a fresh carrier holding -operand, per spec §4.3.1: every
// range is endpoint-negated and re-classified; open-left/open-right swap
// because negation reverses which endpoint is closed.
func Negate(operand *partition.Carrier) *partition.Carrier {
	return unary(operand, func(v sornvalue.Value) sornvalue.Value {
		switch v.Kind {
		case sornvalue.Exact:
			return sornvalue.NewExact(-v.Min)
		case sornvalue.Open:
			a, b := -v.Min, -v.Max
			if a > b {
				a, b = b, a
			}
			return sornvalue.NewOpen(a, b)
		case sornvalue.OpenLeft:
			a, b := -v.Min, -v.Max
			if a > b {
				return sornvalue.NewOpenRight(b, a)
			}
			return sornvalue.NewOpenLeft(a, b)
		case sornvalue.OpenRight:
			a, b := -v.Min, -v.Max
			if a > b {
				return sornvalue.NewOpenLeft(b, a)
			}
			return sornvalue.NewOpenRight(a, b)
		case sornvalue.PlusMinusInf:
			return sornvalue.PMInf
		default:
			return sornvalue.EmptyValue
		}
	})
}

// Abs returns a fresh carrier holding |operand|, per spec §4.3.1.
func Abs(operand *partition.Carrier) *partition.Carrier {
	return unary(operand, func(v sornvalue.Value) sornvalue.Value {
		switch v.Kind {
		case sornvalue.Exact:
			return sornvalue.NewExact(math.Abs(v.Min))
		case sornvalue.Open:
			a, b := math.Abs(v.Min), math.Abs(v.Max)
			if a > b {
				a, b = b, a
			}
			return sornvalue.NewOpen(a, b)
		case sornvalue.OpenLeft:
			a, b := math.Abs(v.Min), math.Abs(v.Max)
			if a > b {
				return sornvalue.NewOpenRight(b, a)
			}
			return sornvalue.NewOpenLeft(a, b)
		case sornvalue.OpenRight:
			a, b := math.Abs(v.Min), math.Abs(v.Max)
			if a > b {
				return sornvalue.NewOpenLeft(b, a)
			}
			return sornvalue.NewOpenRight(a, b)
		case sornvalue.PlusMinusInf:
			return sornvalue.PMInf
		default:
			return sornvalue.EmptyValue
		}
	})
}

// Pow returns a fresh carrier holding operand^k, memoized on (bits, k)
// per spec §9 note 3 (the source's cache ignores the exponent; this
// implementation keys on it deliberately).
func Pow(operand *partition.Carrier, k int) *partition.Carrier {
	p := operand.Partition()
	if cached, ok := p.LookupPow(operand.Bits(), k); ok {
		c := partition.NewCarrier(p)
		_ = c.SetBits(cached)
		return c
	}

	result := unary(operand, func(v sornvalue.Value) sornvalue.Value {
		switch v.Kind {
		case sornvalue.Exact:
			return sornvalue.NewExact(math.Pow(v.Min, float64(k)))
		case sornvalue.Open:
			a, b := math.Pow(v.Min, float64(k)), math.Pow(v.Max, float64(k))
			if a > b {
				a, b = b, a
			}
			return sornvalue.NewOpen(a, b)
		case sornvalue.OpenLeft:
			a, b := math.Pow(v.Min, float64(k)), math.Pow(v.Max, float64(k))
			if a > b {
				return sornvalue.NewOpenRight(b, a)
			}
			return sornvalue.NewOpenLeft(a, b)
		case sornvalue.OpenRight:
			a, b := math.Pow(v.Min, float64(k)), math.Pow(v.Max, float64(k))
			if a > b {
				return sornvalue.NewOpenLeft(b, a)
			}
			return sornvalue.NewOpenRight(a, b)
		case sornvalue.PlusMinusInf:
			return sornvalue.PMInf
		default:
			return sornvalue.EmptyValue
		}
	})

	p.StorePow(operand.Bits(), k, result.Bits())
	return result
}

// unary runs transform over every set range of operand, re-classifies
// each transformed value, and unions the resulting masks.
func unary(operand *partition.Carrier, transform func(sornvalue.Value) sornvalue.Value) *partition.Carrier {
	p := operand.Partition()
	var result mask.Bits
	for _, v := range operand.Ranges() {
		result |= p.Classify(transform(v))
	}
	out := partition.NewCarrier(p)
	_ = out.SetBits(result)
	return out
}
