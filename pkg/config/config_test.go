package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Defaults.Operation != "add" {
		t.Fatalf("Defaults.Operation = %q, want add", cfg.Defaults.Operation)
	}
	if cfg.Partitions == nil {
		t.Fatal("Partitions map should be initialized, not nil")
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadFrom(missing): %v", err)
	}
	if cfg.Defaults.LogLevel != "info" {
		t.Fatalf("expected built-in defaults, got LogLevel=%q", cfg.Defaults.LogLevel)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sornctl.toml")

	cfg := DefaultConfig()
	cfg.Defaults.Operation = "mul"
	cfg.Partitions["unit"] = PartitionSpec{Mode: "grid", Start: 0, End: 1, Step: 1}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Defaults.Operation != "mul" {
		t.Fatalf("Defaults.Operation = %q, want mul", loaded.Defaults.Operation)
	}
	spec, ok := loaded.Partitions["unit"]
	if !ok {
		t.Fatal("expected partition \"unit\" to round-trip")
	}
	if spec.Mode != "grid" || spec.End != 1 {
		t.Fatalf("unexpected partition spec after round-trip: %+v", spec)
	}
}

func TestPartitionBuild(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Partitions["pos"] = PartitionSpec{Mode: "grid", Start: 0, End: 1, Step: 1}
	cfg.Partitions["text"] = PartitionSpec{Mode: "string", Text: "[0];(0,1);[1]"}

	p, err := cfg.Partition("pos")
	if err != nil {
		t.Fatalf("Partition(pos): %v", err)
	}
	if p.Len() != 3 {
		t.Fatalf("grid partition Len() = %d, want 3", p.Len())
	}

	p2, err := cfg.Partition("text")
	if err != nil {
		t.Fatalf("Partition(text): %v", err)
	}
	if p2.Len() != 3 {
		t.Fatalf("string partition Len() = %d, want 3", p2.Len())
	}

	if _, err := cfg.Partition("missing"); err == nil {
		t.Fatal("expected an error for an unknown partition name")
	}
}

func TestPartitionSpecRejectsUnknownMode(t *testing.T) {
	spec := PartitionSpec{Mode: "bogus"}
	if _, err := spec.Build(); err == nil {
		t.Fatal("expected an error for an unrecognized partition mode")
	}
}
