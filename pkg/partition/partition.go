// Package partition implements the SORN partition descriptor: an ordered,
// disjoint cover of a slice of the real line, plus the memoization
// tables that the arithmetic engine reads and writes.
package partition

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/oisee/sornarith/pkg/classify"
	"github.com/oisee/sornarith/pkg/mask"
	"github.com/oisee/sornarith/pkg/sornvalue"
)

// ErrOutOfRange is returned when a partition would need more elements
// than mask.Width can address.
var ErrOutOfRange = errors.New("sornarith/partition: partition exceeds mask width")

// ErrNaNEndpoint is returned when a partition endpoint is NaN (spec §9
// note 5 — NaN endpoints are rejected rather than given unspecified
// behavior).
var ErrNaNEndpoint = errors.New("sornarith/partition: NaN endpoint")

// ErrInvalidGrid is returned by NewGrid for a malformed grid spec.
var ErrInvalidGrid = errors.New("sornarith/partition: end must be > start and step must be > 0")

// binaryKey is the memo key for a binary ring operation.
type binaryKey struct{ a, b mask.Bits }

// powKey is the memo key for integer power, keyed on the exponent too
// (spec §9 note 3 — the source's cache ignores the exponent, a latent
// bug this implementation does not reproduce).
type powKey struct {
	bits mask.Bits
	exp  int
}

// Partition is an ordered, disjoint cover of ℝ (or a slice of it) plus
// the mutable memo tables used by pkg/arith. Sets and ContainsInf are
// immutable after construction; the memo tables grow over the
// partition's lifetime.
type Partition struct {
	Sets        []sornvalue.Value
	ContainsInf bool
	OneBit      mask.Bits

	memoAdd map[binaryKey]mask.Bits
	memoSub map[binaryKey]mask.Bits
	memoMul map[binaryKey]mask.Bits
	memoDiv map[binaryKey]mask.Bits
	memoPow map[powKey]mask.Bits
}

func newEmpty() *Partition {
	return &Partition{
		memoAdd: make(map[binaryKey]mask.Bits),
		memoSub: make(map[binaryKey]mask.Bits),
		memoMul: make(map[binaryKey]mask.Bits),
		memoDiv: make(map[binaryKey]mask.Bits),
		memoPow: make(map[powKey]mask.Bits),
	}
}

// NewGrid builds a partition from a uniform grid, per spec §3.2/§6:
//
//	optional leading Open(-inf, start) when hasInf
//	for i in 0..floor((end-start)/step): Exact(start+i*step), Open(start+i*step, start+(i+1)*step)
//	Exact(end)
//	optional trailing Open(end, +inf) when hasInf
func NewGrid(start, end, step float64, hasInf bool) (*Partition, error) {
	if math.IsNaN(start) || math.IsNaN(end) || math.IsNaN(step) {
		return nil, ErrNaNEndpoint
	}
	if !(end > start) || !(step > 0) {
		return nil, ErrInvalidGrid
	}

	p := newEmpty()
	p.ContainsInf = hasInf

	if hasInf {
		p.Sets = append(p.Sets, sornvalue.NewOpen(math.Inf(-1), start))
	}

	numSets := int(math.Floor((end - start) / step))
	for i := 0; i < numSets; i++ {
		first := float64(i)*step + start
		second := first + step
		p.Sets = append(p.Sets, sornvalue.NewExact(first))
		p.Sets = append(p.Sets, sornvalue.NewOpen(first, second))
	}
	p.Sets = append(p.Sets, sornvalue.NewExact(end))

	if hasInf {
		p.Sets = append(p.Sets, sornvalue.NewOpen(end, math.Inf(1)))
	}

	if len(p.Sets) > mask.Width {
		return nil, ErrOutOfRange
	}

	p.OneBit = classify.Sets(p.Sets, p.ContainsInf, sornvalue.NewExact(1))
	return p, nil
}

// NewFromString parses the textual partition format from spec §6:
// semicolon-separated tokens, each "[x]" (Exact), "(a,b)" (Open),
// "[a,b)" (OpenRight), or "(a,b]" (OpenLeft). Whitespace inside a token
// is not permitted.
func NewFromString(s string) (*Partition, error) {
	p := newEmpty()

	for _, token := range strings.Split(s, ";") {
		if token == "" {
			// Source quirk: a blank token (e.g. a trailing ';') is
			// silently skipped rather than rejected.
			continue
		}

		v, err := parseToken(token)
		if err != nil {
			return nil, err
		}
		p.Sets = append(p.Sets, v)
	}

	if len(p.Sets) > mask.Width {
		return nil, ErrOutOfRange
	}

	p.OneBit = classify.Sets(p.Sets, p.ContainsInf, sornvalue.NewExact(1))
	return p, nil
}

// ParseValue parses a single textual value token ("[x]", "(a,b)",
// "[a,b)", "(a,b]") per the spec §6 grammar, exported for CLI use.
func ParseValue(token string) (sornvalue.Value, error) {
	return parseToken(token)
}

func parseToken(token string) (sornvalue.Value, error) {
	parts := strings.SplitN(token, ",", 2)

	if len(parts) == 1 {
		num := strings.Map(func(r rune) rune {
			if r == '[' || r == ']' {
				return -1
			}
			return r
		}, parts[0])
		x, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return sornvalue.Value{}, fmt.Errorf("sornarith/partition: invalid exact token %q: %w", token, err)
		}
		if math.IsNaN(x) {
			return sornvalue.Value{}, ErrNaNEndpoint
		}
		return sornvalue.NewExact(x), nil
	}

	left, right := parts[0], parts[1]
	leftOpen := strings.Contains(left, "(")
	rightOpen := strings.Contains(right, ")")

	a, err := strconv.ParseFloat(left[1:], 64)
	if err != nil {
		return sornvalue.Value{}, fmt.Errorf("sornarith/partition: invalid token %q: %w", token, err)
	}
	b, err := strconv.ParseFloat(right[:len(right)-1], 64)
	if err != nil {
		return sornvalue.Value{}, fmt.Errorf("sornarith/partition: invalid token %q: %w", token, err)
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return sornvalue.Value{}, ErrNaNEndpoint
	}

	switch {
	case leftOpen && rightOpen:
		return sornvalue.NewOpen(a, b), nil
	case leftOpen:
		return sornvalue.NewOpenLeft(a, b), nil
	case rightOpen:
		return sornvalue.NewOpenRight(a, b), nil
	default:
		return sornvalue.Value{}, fmt.Errorf("sornarith/partition: invalid token %q: missing open side", token)
	}
}

// Len returns the number of partition elements.
func (p *Partition) Len() int { return len(p.Sets) }

// Classify runs the classifier against this partition.
func (p *Partition) Classify(v sornvalue.Value) mask.Bits {
	return classify.Sets(p.Sets, p.ContainsInf, v)
}

// SetsBetween returns the partition elements lying between the bounds of
// rng, per the Rust original's get_sets_between (supplemented feature,
// SPEC_FULL.md §6): for an interval rng, the interval elements that
// overlap it strictly and the Exact elements x with rng.Lo() <= x <=
// rng.Hi(), whatever rng's open/closed kind. An Exact or Empty rng
// selects nothing.
func (p *Partition) SetsBetween(rng sornvalue.Value) []sornvalue.Value {
	var out []sornvalue.Value
	for _, item := range p.Sets {
		switch {
		case rng.IsInterval() && item.IsInterval() && rng.Lo() < item.Hi() && item.Lo() < rng.Hi():
			out = append(out, item)
		case rng.IsInterval() && item.IsExact():
			if x, ok := item.Get(); ok && rng.Lo() <= x && rng.Hi() >= x {
				out = append(out, item)
			}
		case item.IsPMInf() && rng.IsPMInf() && p.ContainsInf:
			out = append(out, item)
		}
	}
	return out
}

// --- memo table access, used only by pkg/arith ---

func (p *Partition) LookupBinary(op byte, a, b mask.Bits) (mask.Bits, bool) {
	key := binaryKey{a, b}
	v, ok := p.tableFor(op)[key]
	return v, ok
}

func (p *Partition) StoreBinary(op byte, a, b, result mask.Bits) {
	p.tableFor(op)[binaryKey{a, b}] = result
}

func (p *Partition) tableFor(op byte) map[binaryKey]mask.Bits {
	switch op {
	case 'a':
		return p.memoAdd
	case 's':
		return p.memoSub
	case 'm':
		return p.memoMul
	case 'd':
		return p.memoDiv
	default:
		panic(fmt.Sprintf("sornarith/partition: unknown op tag %q", op))
	}
}

func (p *Partition) LookupPow(bits mask.Bits, exp int) (mask.Bits, bool) {
	v, ok := p.memoPow[powKey{bits, exp}]
	return v, ok
}

func (p *Partition) StorePow(bits mask.Bits, exp int, result mask.Bits) {
	p.memoPow[powKey{bits, exp}] = result
}
