// Package sorntable builds the full n×n operation lookup table over a
// partition's unit masks and renders it as CSV, a tab-separated human
// form, or JSON, with gob checkpointing for long runs. See spec.md §4.4.
package sorntable

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/oisee/sornarith/pkg/arith"
	"github.com/oisee/sornarith/pkg/mask"
	"github.com/oisee/sornarith/pkg/partition"
)

// Table holds a generated (n+1)×(n+1) lookup grid: row/column 0 is the
// header of unit masks, data[r][c] is op(unit_c, unit_r).bits — the
// source writes table[j][i] (self=i, other=j), so reading row-major by
// the outer storage index transposes self/other relative to a naive
// row=self, col=other expectation. This implementation reproduces that
// layout exactly (spec §4.4, tests lock it).
type Table struct {
	op     arith.Op
	header []mask.Bits
	data   [][]mask.Bits
}

// Generate builds the full table for op over p's unit masks.
func Generate(p *partition.Partition, op arith.Op) *Table {
	n := p.Len()

	units := make([]*partition.Carrier, n)
	header := make([]mask.Bits, n)
	for i := 0; i < n; i++ {
		c := partition.NewCarrier(p)
		_ = c.SetBits(mask.Unit(i))
		units[i] = c
		header[i] = c.Bits()
	}

	data := make([][]mask.Bits, n)
	for r := 0; r < n; r++ {
		data[r] = make([]mask.Bits, n)
		for c := 0; c < n; c++ {
			self := units[c].Clone()
			_ = arith.Apply(op, self, units[r])
			data[r][c] = self.Bits()
		}
	}

	return &Table{op: op, header: header, data: data}
}

// GenerateNamed resolves name via arith.ParseOp and panics if it is not
// recognized — the one deliberate panic point in the core, per spec §7
// ("a programmer error... may be modelled as a contract violation").
func GenerateNamed(p *partition.Partition, name string) *Table {
	op, ok := arith.ParseOp(name)
	if !ok {
		panic(fmt.Sprintf("sornarith/sorntable: unrecognized operator tag %q", name))
	}
	return Generate(p, op)
}

// Op returns the operation this table was generated for.
func (t *Table) Op() arith.Op { return t.op }

// Len returns n, the number of unit masks (not counting the header row/column).
func (t *Table) Len() int { return len(t.header) }

// CSV renders the table exactly per spec §4.4/§6: one row per line,
// fields comma-separated with a trailing comma, masks in base-2 with no
// padding, leading blank corner cell.
func (t *Table) CSV() string {
	var b strings.Builder
	b.WriteByte(',')
	for _, h := range t.header {
		b.WriteString(strconv.FormatUint(uint64(h), 2))
		b.WriteByte(',')
	}
	b.WriteByte('\n')

	for r, row := range t.data {
		b.WriteString(strconv.FormatUint(uint64(t.header[r]), 2))
		b.WriteByte(',')
		for _, cell := range row {
			b.WriteString(strconv.FormatUint(uint64(cell), 2))
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String renders the tab-separated human form with a "Sorn Set:" header
// line and a dashed rule, per spec §6. Not machine-consumed.
func (t *Table) String() string {
	var b strings.Builder
	b.WriteString("Sorn Set: ")
	b.WriteString(t.op.String())
	b.WriteByte('\n')

	for _, h := range t.header {
		b.WriteString(strconv.FormatUint(uint64(h), 2))
		b.WriteByte('\t')
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", 8*len(t.header)))
	b.WriteByte('\n')

	for r, row := range t.data {
		b.WriteString(strconv.FormatUint(uint64(t.header[r]), 2))
		b.WriteByte('\t')
		for _, cell := range row {
			b.WriteString(strconv.FormatUint(uint64(cell), 2))
			b.WriteByte('\t')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// jsonTable is the wire shape for JSON export (supplemented feature,
// SPEC_FULL.md §5.6).
type jsonTable struct {
	Op     string     `json:"op"`
	Header []uint64   `json:"header"`
	Data   [][]uint64 `json:"data"`
}

// JSON renders the table as a structured document alongside CSV.
func (t *Table) JSON() ([]byte, error) {
	doc := jsonTable{Op: t.op.String()}
	doc.Header = make([]uint64, len(t.header))
	for i, h := range t.header {
		doc.Header[i] = uint64(h)
	}
	doc.Data = make([][]uint64, len(t.data))
	for r, row := range t.data {
		doc.Data[r] = make([]uint64, len(row))
		for c, cell := range row {
			doc.Data[r][c] = uint64(cell)
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Checkpoint holds enough state to resume an in-progress table build —
// generation is O(n²) and a caller may want to resume after
// interruption for a large partition (SPEC_FULL.md §5.6).
type Checkpoint struct {
	Op          arith.Op
	Header      []mask.Bits
	Data        [][]mask.Bits
	CompletedTo int // number of fully computed rows
}

// SaveCheckpoint writes in-progress table state to path.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(ckpt)
}

// LoadCheckpoint reads in-progress table state from path.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}

// GenerateResumable behaves like Generate but periodically checkpoints
// to path after each completed row, and resumes from an existing
// checkpoint file if one is present.
func GenerateResumable(p *partition.Partition, op arith.Op, path string) (*Table, error) {
	n := p.Len()
	units := make([]*partition.Carrier, n)
	header := make([]mask.Bits, n)
	for i := 0; i < n; i++ {
		c := partition.NewCarrier(p)
		_ = c.SetBits(mask.Unit(i))
		units[i] = c
		header[i] = c.Bits()
	}

	data := make([][]mask.Bits, n)
	startRow := 0

	if ckpt, err := LoadCheckpoint(path); err == nil && ckpt.Op == op && len(ckpt.Header) == n {
		copy(data, ckpt.Data)
		startRow = ckpt.CompletedTo
	}

	for r := startRow; r < n; r++ {
		data[r] = make([]mask.Bits, n)
		for c := 0; c < n; c++ {
			self := units[c].Clone()
			_ = arith.Apply(op, self, units[r])
			data[r][c] = self.Bits()
		}
		if err := SaveCheckpoint(path, &Checkpoint{Op: op, Header: header, Data: data, CompletedTo: r + 1}); err != nil {
			return nil, err
		}
	}

	return &Table{op: op, header: header, data: data}, nil
}
