package sornlog

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestNewWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", false)
	logger.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "key=value") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", false)
	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Fatal("info records should be filtered out at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Fatal("warn records should appear")
	}
}

func TestParseLevelUnknownFallsBackToInfo(t *testing.T) {
	if parseLevel("nonsense") != slog.LevelInfo {
		t.Fatal("unrecognized level strings should fall back to info")
	}
}

func TestVerboseMirrorsToStderr(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{}, true)
	logger := slog.New(h)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	origStderr := os.Stderr
	os.Stderr = w
	logger.Info("visible everywhere")
	os.Stderr = origStderr
	w.Close()
	mirrored, _ := io.ReadAll(r)
	r.Close()

	if !strings.Contains(buf.String(), "visible everywhere") {
		t.Fatal("expected the record mirrored to the file writer")
	}
	if !strings.Contains(string(mirrored), "visible everywhere") {
		t.Fatal("expected the record mirrored to stderr in verbose mode")
	}
}
