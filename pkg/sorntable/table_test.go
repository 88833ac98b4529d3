package sorntable

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oisee/sornarith/pkg/arith"
	"github.com/oisee/sornarith/pkg/mask"
	"github.com/oisee/sornarith/pkg/partition"
)

func TestGenerateGoldenCSV(t *testing.T) {
	p, err := partition.NewGrid(-1, 1, 1, false)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	tbl := Generate(p, arith.OpAdd)

	want := ",1,10,100,1000,10000,\n" +
		"1,0,0,1,10,100,\n" +
		"10,0,11,10,1110,1000,\n" +
		"100,1,10,100,1000,10000,\n" +
		"1000,10,1110,1000,11000,0,\n" +
		"10000,100,1000,10000,0,0,\n"

	if got := tbl.CSV(); got != want {
		t.Fatalf("CSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerateNamedPanicsOnUnknownOp(t *testing.T) {
	p, err := partition.NewGrid(0, 1, 1, false)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("GenerateNamed should panic on an unrecognized operator tag")
		}
	}()
	GenerateNamed(p, "xor")
}

func TestStringFormat(t *testing.T) {
	p, err := partition.NewGrid(0, 1, 1, false)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	tbl := Generate(p, arith.OpMul)
	out := tbl.String()
	if !strings.HasPrefix(out, "Sorn Set: mul\n") {
		t.Fatalf("String() missing header, got:\n%s", out)
	}
	if !strings.Contains(out, "-------") {
		t.Fatal("String() should contain a dashed rule")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	p, err := partition.NewGrid(0, 1, 1, false)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	tbl := Generate(p, arith.OpAdd)
	b, err := tbl.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !strings.Contains(string(b), `"op": "add"`) {
		t.Fatalf("JSON output missing op field: %s", b)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	p, err := partition.NewGrid(-1, 1, 1, false)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	want := Generate(p, arith.OpAdd)

	dir := t.TempDir()
	path := filepath.Join(dir, "checkpoint.gob")

	got, err := GenerateResumable(p, arith.OpAdd, path)
	if err != nil {
		t.Fatalf("GenerateResumable: %v", err)
	}
	if got.CSV() != want.CSV() {
		t.Fatalf("GenerateResumable produced different output than Generate")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected checkpoint file to exist: %v", err)
	}

	ckpt, err := LoadCheckpoint(path)
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if ckpt.CompletedTo != p.Len() {
		t.Fatalf("CompletedTo = %d, want %d", ckpt.CompletedTo, p.Len())
	}
	if ckpt.Op != arith.OpAdd {
		t.Fatalf("checkpoint op = %v, want add", ckpt.Op)
	}
}

func TestGenerateResumableResumesFromExistingCheckpoint(t *testing.T) {
	p, err := partition.NewGrid(-1, 1, 1, false)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "checkpoint.gob")

	full := Generate(p, arith.OpAdd)
	partial := &Checkpoint{
		Op:          arith.OpAdd,
		Header:      full.header,
		Data:        append([][]mask.Bits(nil), full.data[:2]...),
		CompletedTo: 2,
	}
	if err := SaveCheckpoint(path, partial); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	resumed, err := GenerateResumable(p, arith.OpAdd, path)
	if err != nil {
		t.Fatalf("GenerateResumable: %v", err)
	}
	if resumed.CSV() != full.CSV() {
		t.Fatal("resumed table should match a full generation")
	}
}
