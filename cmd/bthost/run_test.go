package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci"
)

type chanTransport struct {
	evts chan []byte
	acl  chan []byte
}

func (c *chanTransport) Name() string { return "chan" }

func (c *chanTransport) ListDevices() ([]bthost.Device, error) {
	return []bthost.Device{{Name: "chan", Path: "chan0"}}, nil
}

func (c *chanTransport) Open(*bthost.Device) error {
	c.evts = make(chan []byte, 16)
	c.acl = make(chan []byte, 16)
	return nil
}

func (c *chanTransport) Close() error {
	close(c.evts)
	close(c.acl)
	return nil
}

func (c *chanTransport) SendCommand([]byte) error { return nil }
func (c *chanTransport) SendACL([]byte) error     { return nil }
func (c *chanTransport) Events() <-chan []byte    { return c.evts }
func (c *chanTransport) ACL() <-chan []byte       { return c.acl }

func TestDrainMailboxes(t *testing.T) {
	ct := &chanTransport{}
	h, err := hci.NewHCI(bthost.OptTransport(ct), bthost.OptPollInterval(time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Open(nil); err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	stop := make(chan struct{})
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		drainMailboxes(h, stop, bthost.PkgLogger("test"))
	}()

	for i := 0; i < 500; i++ {
		ct.evts <- []byte{0x13, 0x01, 0x00}
		ct.acl <- []byte{0x40, 0x00, 0x05, 0x00, 0x01, 0x00, 0x04, 0x00, 0x10}
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		e, a := h.Pending()
		if e == 0 && a == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("still queued: %d events, %d acl", e, a)
		}
		time.Sleep(time.Millisecond)
	}

	close(stop)
	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatalf("drain did not stop")
	}
}

type stubAdvertisement struct {
	name     string
	data, sr []byte
}

func (a stubAdvertisement) LocalName() string             { return a.name }
func (a stubAdvertisement) ManufacturerData() []byte      { return nil }
func (a stubAdvertisement) Services() []bthost.UUID       { return nil }
func (a stubAdvertisement) TxPowerLevel() int             { return 0 }
func (a stubAdvertisement) Connectable() bool             { return true }
func (a stubAdvertisement) RSSI() int                     { return -60 }
func (a stubAdvertisement) Addr() bthost.Addr             { return bthost.Addr{1, 2, 3, 4, 5, 6} }
func (a stubAdvertisement) EventType() uint8              { return 0 }
func (a stubAdvertisement) Data() []byte                  { return a.data }
func (a stubAdvertisement) ScanResponse() []byte          { return a.sr }
func (a stubAdvertisement) ToMap() map[string]interface{} { return nil }

func TestPrintAdvertisement(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printAdvertisement(&buf, stubAdvertisement{name: "node", data: []byte{0x02, 0x01, 0x06}, sr: []byte{0x03, 0x09, 'o', 'k'}})
	out := buf.String()
	for _, want := range []string{"-60 dBm", "node", "02 01 06", "| 03 09 6F 6B"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}

	buf.Reset()
	printAdvertisement(&buf, stubAdvertisement{})
	if !strings.Contains(buf.String(), " - ") || strings.Contains(buf.String(), "|") {
		t.Errorf("empty advertisement: %q", buf.String())
	}
}
