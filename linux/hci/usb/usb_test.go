package usb

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rigado/bthost"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, v := range files {
		if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(v+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// sysfsFixture lays out one dongle, one composite device with a Bluetooth
// interface, one unrelated device, a root hub and an interface entry.
func sysfsFixture(t *testing.T) string {
	root, err := ioutil.TempDir("", "sysfs")
	if err != nil {
		t.Fatal(err)
	}
	devs := filepath.Join(root, "bus", "usb", "devices")

	writeFiles(t, filepath.Join(devs, "1-1"), map[string]string{
		"busnum": "1", "devnum": "4", "idVendor": "0bda", "idProduct": "c123",
		"bDeviceClass": "e0", "product": "Bluetooth Radio",
	})
	writeFiles(t, filepath.Join(devs, "1-1", "1-1:1.0"), map[string]string{
		"bInterfaceClass": "e0",
	})
	writeFiles(t, filepath.Join(devs, "1-1:1.0"), map[string]string{
		"bInterfaceClass": "e0",
	})
	writeFiles(t, filepath.Join(devs, "2-3"), map[string]string{
		"busnum": "2", "devnum": "12", "idVendor": "8087", "idProduct": "0a2b",
		"bDeviceClass": "ef",
	})
	writeFiles(t, filepath.Join(devs, "2-3", "2-3:1.1"), map[string]string{
		"bInterfaceClass": "e0",
	})
	writeFiles(t, filepath.Join(devs, "2-4"), map[string]string{
		"busnum": "2", "devnum": "13", "idVendor": "046d", "idProduct": "c52b",
		"bDeviceClass": "00",
	})
	writeFiles(t, filepath.Join(devs, "usb1"), map[string]string{
		"busnum": "1", "devnum": "1", "idVendor": "1d6b", "idProduct": "0002",
		"bDeviceClass": "e0",
	})
	return root
}

func TestListDevices(t *testing.T) {
	root := sysfsFixture(t)
	defer os.RemoveAll(root)

	tr := New(root)
	dd, err := tr.ListDevices()
	if err != nil {
		t.Fatal(err)
	}

	exp := []bthost.Device{
		{Name: "Bluetooth Radio", VendorID: 0x0bda, ProductID: 0xc123, Path: "/dev/bus/usb/001/004"},
		{Name: "usb 8087:0a2b", VendorID: 0x8087, ProductID: 0x0a2b, Path: "/dev/bus/usb/002/012"},
	}
	if len(dd) != len(exp) {
		t.Fatalf("got %d devices %v, expected %d", len(dd), dd, len(exp))
	}
	for i := range exp {
		if dd[i] != exp[i] {
			t.Fatalf("device %d: got %v, expected %v", i, dd[i], exp[i])
		}
	}

	again, err := tr.ListDevices()
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(dd) {
		t.Fatalf("second scan: got %d devices, expected %d", len(again), len(dd))
	}
	for i := range dd {
		if again[i] != dd[i] {
			t.Fatalf("second scan device %d: got %v, expected %v", i, again[i], dd[i])
		}
	}
}

func TestListDevicesMissingRoot(t *testing.T) {
	if _, err := New("/nonexistent/sysfs").ListDevices(); err == nil {
		t.Fatal("expected error for missing sysfs root")
	}
}

type fakeDevice struct {
	mu     sync.Mutex
	ctrl   [][]byte
	out    [][]byte
	in     map[uint8][][]byte
	closed bool
}

func (f *fakeDevice) push(ep uint8, p []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.in[ep] = append(f.in[ep], p)
}

func (f *fakeDevice) controlWrite(p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctrl = append(f.ctrl, append([]byte(nil), p...))
	return nil
}

type fakeUSB struct{ *fakeDevice }

func (f fakeUSB) control(p []byte) error { return f.controlWrite(p) }

func (f fakeUSB) transfer(ep uint8, p []byte, timeout time.Duration) (int, error) {
	f.mu.Lock()
	if ep&0x80 == 0 {
		f.out = append(f.out, append([]byte(nil), p...))
		f.mu.Unlock()
		return len(p), nil
	}
	q := f.in[ep]
	if len(q) == 0 {
		f.mu.Unlock()
		time.Sleep(time.Millisecond)
		return 0, nil
	}
	n := copy(p, q[0])
	f.in[ep] = q[1:]
	f.mu.Unlock()
	return n, nil
}

func (f fakeUSB) close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func recv(t *testing.T, ch <-chan []byte) []byte {
	select {
	case p := <-ch:
		return p
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for packet")
	}
	return nil
}

func TestTransport(t *testing.T) {
	root := sysfsFixture(t)
	defer os.RemoveAll(root)

	fd := &fakeDevice{in: map[uint8][][]byte{}}
	var opened string
	openDevice = func(path string) (device, error) {
		opened = path
		return fakeUSB{fd}, nil
	}
	defer func() { openDevice = openUSBFS }()

	tr := New(root)
	if err := tr.Open(&bthost.Device{VendorID: 0x8087, ProductID: 0x0a2b}); err != nil {
		t.Fatal(err)
	}
	if opened != "/dev/bus/usb/002/012" {
		t.Fatalf("opened %q", opened)
	}

	reset := []byte{0x03, 0x0c, 0x00}
	if err := tr.SendCommand(reset); err != nil {
		t.Fatal(err)
	}
	acl := []byte{0x40, 0x00, 0x01, 0x00, 0xAA}
	if err := tr.SendACL(acl); err != nil {
		t.Fatal(err)
	}

	// an event split over two interrupt transfers
	fd.push(epEvents, []byte{0x0E, 0x04, 0x01})
	fd.push(epEvents, []byte{0x03, 0x0C, 0x00})
	fd.push(epACLIn, []byte{0x40, 0x20, 0x01, 0x00, 0xBB})

	if p := recv(t, tr.Events()); !bytes.Equal(p, []byte{0x0E, 0x04, 0x01, 0x03, 0x0C, 0x00}) {
		t.Fatalf("event: got [% X]", p)
	}
	if p := recv(t, tr.ACL()); !bytes.Equal(p, []byte{0x40, 0x20, 0x01, 0x00, 0xBB}) {
		t.Fatalf("acl: got [% X]", p)
	}

	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-tr.Events(); ok {
		t.Fatal("events channel still open after close")
	}
	if err := tr.SendCommand(reset); err == nil {
		t.Fatal("expected error sending on closed transport")
	}

	fd.mu.Lock()
	defer fd.mu.Unlock()
	if len(fd.ctrl) != 1 || !bytes.Equal(fd.ctrl[0], reset) {
		t.Fatalf("control writes: %v", fd.ctrl)
	}
	if len(fd.out) != 1 || !bytes.Equal(fd.out[0], acl) {
		t.Fatalf("bulk writes: %v", fd.out)
	}
	if !fd.closed {
		t.Fatal("device not closed")
	}
}

func TestOpenPrefersDefaultController(t *testing.T) {
	root := sysfsFixture(t)
	defer os.RemoveAll(root)

	var opened string
	openDevice = func(path string) (device, error) {
		opened = path
		return fakeUSB{&fakeDevice{in: map[uint8][][]byte{}}}, nil
	}
	defer func() { openDevice = openUSBFS }()

	tr := New(root)
	if err := tr.Open(nil); err != nil {
		t.Fatal(err)
	}
	defer tr.Close()
	if opened != "/dev/bus/usb/001/004" {
		t.Fatalf("opened %q", opened)
	}
}
