package h4

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/rigado/bthost"
)

func TestFrameAssemble(t *testing.T) {
	var out [][]byte
	f := newFrame(func(b []byte) { out = append(out, b) })

	evt := []byte{0x04, 0x0E, 0x04, 0x01, 0x03, 0x0C, 0x00}
	acl := []byte{0x02, 0x40, 0x20, 0x05, 0x00, 0x01, 0x00, 0x04, 0x00, 0x10}

	// split across reads
	f.Assemble(evt[:2])
	f.Assemble(evt[2:5])
	if len(out) != 0 {
		t.Fatal("emitted a partial frame")
	}
	f.Assemble(evt[5:])

	// garbage, then two frames in one read
	stream := append([]byte{0xAA, 0x55}, acl...)
	stream = append(stream, evt...)
	f.Assemble(stream)

	want := [][]byte{evt, acl, evt}
	if len(out) != len(want) {
		t.Fatalf("got %d frames: % X", len(out), out)
	}
	for i := range want {
		if !bytes.Equal(out[i], want[i]) {
			t.Fatalf("frame %d: got % X, want % X", i, out[i], want[i])
		}
	}
}

func TestFrameTimeout(t *testing.T) {
	var out [][]byte
	f := newFrame(func(b []byte) { out = append(out, b) })

	f.Assemble([]byte{0x04, 0x0E, 0x04, 0x01})
	f.timeout = time.Now().Add(-time.Millisecond)
	f.Assemble([]byte{0x04, 0x0F, 0x04, 0x00, 0x01, 0x00, 0x0C})
	if len(out) != 1 || out[0][1] != 0x0F {
		t.Fatalf("got % X", out)
	}
}

func TestTransport(t *testing.T) {
	host, ctrl := net.Pipe()
	tr := New("pipe",
		func() ([]bthost.Device, error) { return []bthost.Device{{Name: "pipe", Path: "pipe0"}}, nil },
		func(d bthost.Device) (io.ReadWriteCloser, error) { return host, nil },
	)

	if err := tr.Open(&bthost.Device{Path: "nope"}); err != bthost.ErrDeviceNotFound {
		t.Fatalf("got %v", err)
	}
	if err := tr.Open(nil); err != nil {
		t.Fatal(err)
	}

	got := make(chan []byte, 1)
	go func() {
		b := make([]byte, 16)
		n, _ := ctrl.Read(b)
		got <- b[:n]
	}()
	if err := tr.SendCommand([]byte{0x03, 0x0C, 0x00}); err != nil {
		t.Fatal(err)
	}
	if b := <-got; !bytes.Equal(b, []byte{0x01, 0x03, 0x0C, 0x00}) {
		t.Fatalf("controller got % X", b)
	}

	if _, err := ctrl.Write([]byte{0x04, 0x0E, 0x04, 0x01, 0x03, 0x0C, 0x00}); err != nil {
		t.Fatal(err)
	}
	select {
	case e := <-tr.Events():
		if !bytes.Equal(e, []byte{0x0E, 0x04, 0x01, 0x03, 0x0C, 0x00}) {
			t.Fatalf("event % X", e)
		}
	case <-time.After(time.Second):
		t.Fatal("no event")
	}

	if err := tr.Close(); err != nil {
		t.Logf("close: %v", err)
	}
	if _, ok := <-tr.Events(); ok {
		t.Fatal("events channel still open")
	}
	if err := tr.SendACL([]byte{0x00}); err == nil {
		t.Fatal("send after close should fail")
	}
}
