package capture

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	recs := []Record{
		{Command, []byte{0x03, 0x0C, 0x00}},
		{Event, []byte{0x0E, 0x04, 0x01, 0x03, 0x0C, 0x00}},
		{ACL, []byte{0x40, 0x20, 0x05, 0x00, 0x01, 0x00, 0x04, 0x00, 0x10}},
		{Event, nil},
	}
	for _, r := range recs {
		if err := w.Write(r.Kind, r.Payload); err != nil {
			t.Fatal(err)
		}
	}

	want := []byte{0x00, 0x01, 0x03, 0x00, 0x03, 0x0C, 0x00}
	if !bytes.Equal(buf.Bytes()[:len(want)], want) {
		t.Fatalf("got % X", buf.Bytes()[:len(want)])
	}

	r := NewReader(bytes.NewReader(buf.Bytes()))
	for i, exp := range recs {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if got.Kind != exp.Kind || !bytes.Equal(got.Payload, exp.Payload) {
			t.Fatalf("record %d: got %v, want %v", i, got, exp)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestTruncatedCapture(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x00, 0x04, 0x06, 0x00, 0x0E}))
	if _, err := r.Next(); err == nil || err == io.EOF {
		t.Fatalf("got %v", err)
	}
}

func TestCreateAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.bin")
	for i := 0; i < 2; i++ {
		w, err := Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Write(Command, []byte{0x03, 0x0C, 0x00}); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		if err := w.Write(Command, nil); err == nil {
			t.Fatal("write after close should fail")
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 14 {
		t.Fatalf("got %d bytes", len(b))
	}

	var nilw *Writer
	if err := nilw.Write(Event, []byte{1}); err != nil {
		t.Fatal(err)
	}
}
