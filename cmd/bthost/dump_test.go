package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rigado/bthost/capture"
)

func TestDump(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	w := capture.NewWriter(&buf)
	w.Write(capture.Command, []byte{0x03, 0x0C, 0x00})
	w.Write(capture.Event, []byte{0x0E, 0x04, 0x01, 0x03, 0x0C, 0x00})
	w.Write(capture.Event, []byte{0x0E, 0x09})
	w.Write(capture.ACL, []byte{0x40, 0x20, 0x0B, 0x00, 0x07, 0x00, 0x04, 0x00, 0x10, 0x01, 0x00, 0xFF, 0xFF, 0x00, 0x28})

	var out bytes.Buffer
	if err := dump(&out, capture.NewReader(&buf)); err != nil {
		t.Fatalf("dump: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{"Reset", "Command Complete", "truncated", "Read By Group Type Request"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	for i, w := range want {
		if !strings.Contains(lines[i], w) {
			t.Errorf("line %d %q does not mention %q", i, lines[i], w)
		}
	}
}

func TestDumpTruncatedFile(t *testing.T) {
	r := capture.NewReader(bytes.NewReader([]byte{0x00, 0x04, 0x05, 0x00, 0x0E}))
	var out bytes.Buffer
	if err := dump(&out, r); err == nil {
		t.Fatalf("truncated capture accepted")
	}
}
