package partition

import (
	"errors"

	"github.com/oisee/sornarith/pkg/mask"
	"github.com/oisee/sornarith/pkg/sornvalue"
)

// ErrBitsOutOfRange is returned by Carrier.SetBits when a bit beyond the
// bound partition's length is set (spec §7).
var ErrBitsOutOfRange = errors.New("sornarith/partition: bits set beyond partition length")

// ErrDifferentPartitions is returned by binary operations when the two
// operands are bound to distinct partitions (spec §7).
var ErrDifferentPartitions = errors.New("sornarith/partition: operands bound to different partitions")

// Carrier binds a bit-vector to the partition it is interpreted against.
// Two carriers are equal iff they share the same partition (by identity)
// and have equal bits (spec §3.3).
type Carrier struct {
	bits mask.Bits
	p    *Partition
}

// NewCarrier returns a zero mask bound to p.
func NewCarrier(p *Partition) *Carrier {
	return &Carrier{p: p}
}

// CarrierFromValue runs the classifier to populate a new carrier's bits.
func CarrierFromValue(p *Partition, v sornvalue.Value) *Carrier {
	c := NewCarrier(p)
	c.bits = p.Classify(v)
	return c
}

// Partition returns the partition this carrier is bound to.
func (c *Carrier) Partition() *Partition { return c.p }

// Bits returns the raw bit-vector.
func (c *Carrier) Bits() mask.Bits { return c.bits }

// SetBits assigns bits directly, failing if any bit beyond the
// partition's length is set.
func (c *Carrier) SetBits(bits mask.Bits) error {
	if c.p != nil && bits&^mask.All(c.p.Len()) != 0 {
		return ErrBitsOutOfRange
	}
	c.bits = bits
	return nil
}

// SetValue sets bits to the mask of the first partition element that
// equals value exactly (legacy path, spec §4.2); when no element
// matches, bits become 0.
func (c *Carrier) SetValue(value sornvalue.Value) {
	for i, s := range c.p.Sets {
		if s.Equal(value) {
			c.bits = mask.Unit(i)
			return
		}
	}
	c.bits = 0
}

// Contains reports whether value is one of the exact partition elements
// currently set in this carrier (structural equality, spec §4.2).
func (c *Carrier) Contains(value sornvalue.Value) bool {
	for i, s := range c.p.Sets {
		if c.bits.Has(i) && s.Equal(value) {
			return true
		}
	}
	return false
}

// FitContains is the semantic overlap test: (bits AND classify(value)) != 0.
func (c *Carrier) FitContains(value sornvalue.Value) bool {
	return c.bits&c.p.Classify(value) != 0
}

// Ranges returns the ordered partition elements whose bits are set.
func (c *Carrier) Ranges() []sornvalue.Value {
	var out []sornvalue.Value
	for i := 0; i < c.p.Len(); i++ {
		if c.bits.Has(i) {
			out = append(out, c.p.Sets[i])
		}
	}
	return out
}

// MinRange returns the lowest-indexed set element, or ok=false if bits == 0.
func (c *Carrier) MinRange() (sornvalue.Value, bool) {
	for i := 0; i < c.p.Len(); i++ {
		if c.bits.Has(i) {
			return c.p.Sets[i], true
		}
	}
	return sornvalue.Value{}, false
}

// MaxRange returns the highest-indexed set element, or ok=false if bits == 0.
func (c *Carrier) MaxRange() (sornvalue.Value, bool) {
	for i := c.p.Len() - 1; i >= 0; i-- {
		if c.bits.Has(i) {
			return c.p.Sets[i], true
		}
	}
	return sornvalue.Value{}, false
}

// Equal reports whether two carriers reference the same partition (by
// identity) and have equal bits.
func (c *Carrier) Equal(o *Carrier) bool {
	return c.p == o.p && c.bits == o.bits
}

// Clone returns a copy bound to the same partition.
func (c *Carrier) Clone() *Carrier {
	return &Carrier{bits: c.bits, p: c.p}
}

// String renders "Bits: <binary> | Range: <ranges>", matching the
// original Rust ToString impl.
func (c *Carrier) String() string {
	return "Bits: " + formatBinary(uint64(c.bits)) + " | Range: " + formatRanges(c.Ranges())
}

// Hex renders the bits in uppercase hex, matching to_string_hex.
func (c *Carrier) Hex() string {
	return formatHex(uint64(c.bits))
}

// Compact renders "<min> to <max>" over the set ranges, matching
// to_string_compact. Returns "" if bits == 0.
func (c *Carrier) Compact() string {
	lo, ok := c.MinRange()
	if !ok {
		return ""
	}
	hi, _ := c.MaxRange()
	return formatFloat(lo.Lo()) + " to " + formatFloat(hi.Hi())
}
