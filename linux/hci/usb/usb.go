// Package usb talks to Bluetooth controllers through Linux usbfs: commands
// go out as class control transfers, events arrive on the interrupt IN
// endpoint, ACL data uses the bulk endpoints.
package usb

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

const (
	hciInterface    = 0
	ctrlRequestType = 0x21 // class request to interface, host to device
	ctrlRequest     = 0x00

	epEvents = 0x81
	epACLIn  = 0x82
	epACLOut = 0x02

	eventBufSize = 256
	aclBufSize   = 1028

	pollTimeout    = 100 * time.Millisecond
	controlTimeout = time.Second
	errBackoff     = 10 * time.Millisecond
	rxQueueSize    = 64

	// DefaultSysfsRoot is where the kernel exposes USB topology.
	DefaultSysfsRoot = "/sys"
)

// Controller opened when no device is selected and it is attached.
const (
	DefaultVendorID  = 0x0BDA
	DefaultProductID = 0xC123
)

var logger = bthost.PkgLogger("usb")

// device is an opened usbfs node.
type device interface {
	control(p []byte) error
	transfer(ep uint8, p []byte, timeout time.Duration) (int, error)
	close() error
}

// openDevice is replaced in tests.
var openDevice = openUSBFS

// Transport implements bthost.Transport over usbfs.
type Transport struct {
	root string

	dev device
	wmu sync.Mutex

	evts chan []byte
	acl  chan []byte

	done chan struct{}
	wg   sync.WaitGroup
	cmu  sync.Mutex
}

// New returns a usb transport enumerating devices under sysfsRoot. An empty
// root means DefaultSysfsRoot.
func New(sysfsRoot string) *Transport {
	if sysfsRoot == "" {
		sysfsRoot = DefaultSysfsRoot
	}
	return &Transport{root: sysfsRoot}
}

func (t *Transport) Name() string { return "usb" }

func (t *Transport) ListDevices() ([]bthost.Device, error) {
	return listDevices(t.root)
}

func (t *Transport) Open(sel *bthost.Device) error {
	t.cmu.Lock()
	defer t.cmu.Unlock()

	if t.dev != nil {
		return errors.New("usb: already open")
	}

	dd, err := t.ListDevices()
	if err != nil {
		return err
	}
	if sel == nil {
		for _, d := range dd {
			if d.VendorID == DefaultVendorID && d.ProductID == DefaultProductID {
				sel = &bthost.Device{VendorID: DefaultVendorID, ProductID: DefaultProductID}
				break
			}
		}
	}
	d, err := bthost.MatchDevice(dd, sel)
	if err != nil {
		return err
	}

	dev, err := openDevice(d.Path)
	if err != nil {
		return err
	}
	logger.Infof("opened %v", d)

	t.dev = dev
	t.evts = make(chan []byte, rxQueueSize)
	t.acl = make(chan []byte, rxQueueSize)
	t.done = make(chan struct{})
	t.wg.Add(2)
	go t.eventLoop()
	go t.aclLoop()
	return nil
}

func (t *Transport) Close() error {
	t.cmu.Lock()
	defer t.cmu.Unlock()

	if t.dev == nil {
		return nil
	}
	close(t.done)
	t.wg.Wait()

	t.wmu.Lock()
	err := t.dev.close()
	t.dev = nil
	t.wmu.Unlock()
	return err
}

func (t *Transport) SendCommand(b []byte) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()

	if t.dev == nil {
		return errors.Wrap(bthost.ErrClosed, "usb")
	}
	return t.dev.control(b)
}

func (t *Transport) SendACL(b []byte) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()

	if t.dev == nil {
		return errors.Wrap(bthost.ErrClosed, "usb")
	}
	n, err := t.dev.transfer(epACLOut, b, controlTimeout)
	if err != nil {
		return err
	}
	if n != len(b) {
		return errors.Errorf("usb: short acl write %d of %d", n, len(b))
	}
	return nil
}

func (t *Transport) Events() <-chan []byte { return t.evts }
func (t *Transport) ACL() <-chan []byte    { return t.acl }

func (t *Transport) closed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *Transport) deliver(ch chan []byte, p []byte) {
	select {
	case ch <- p:
	case <-t.done:
	}
}

// read polls ep once. Zero bytes with a nil error is an empty poll.
func (t *Transport) read(ep uint8, b []byte) (int, bool) {
	n, err := t.dev.transfer(ep, b, pollTimeout)
	if err != nil {
		if !t.closed() {
			logger.Debugf("read: %v", err)
			time.Sleep(errBackoff)
		}
		return 0, false
	}
	return n, n > 0
}

// eventLoop reads the interrupt endpoint. An event longer than one
// interrupt transfer is collected until its declared length arrives.
func (t *Transport) eventLoop() {
	defer t.wg.Done()
	defer close(t.evts)

	b := make([]byte, eventBufSize)
	var pending []byte
	for !t.closed() {
		n, ok := t.read(epEvents, b)
		if !ok {
			continue
		}
		pending = append(pending, b[:n]...)
		if len(pending) < 2 || len(pending) < 2+int(pending[1]) {
			continue
		}
		p := pending
		pending = nil
		t.deliver(t.evts, p)
	}
}

func (t *Transport) aclLoop() {
	defer t.wg.Done()
	defer close(t.acl)

	b := make([]byte, aclBufSize)
	for !t.closed() {
		n, ok := t.read(epACLIn, b)
		if !ok {
			continue
		}
		p := make([]byte, n)
		copy(p, b)
		t.deliver(t.acl, p)
	}
}
