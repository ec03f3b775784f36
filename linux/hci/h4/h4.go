// Package h4 carries HCI packets over byte streams framed with H4 packet
// indicators: UART controllers, TCP bridges, and the HCI user channel.
package h4

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

const (
	rxQueueSize = 64
	readBufSize = 2048
	errBackoff  = 10 * time.Millisecond
)

// Lister enumerates the devices a stream transport can open.
type Lister func() ([]bthost.Device, error)

// Opener opens the byte stream of a device.
type Opener func(d bthost.Device) (io.ReadWriteCloser, error)

// Transport implements bthost.Transport over an H4 byte stream.
type Transport struct {
	name string
	list Lister
	open Opener

	rwc io.ReadWriteCloser
	wmu sync.Mutex

	evts chan []byte
	acl  chan []byte

	done chan struct{}
	wg   sync.WaitGroup
	cmu  sync.Mutex

	log bthost.Logger
}

// New returns a stream transport. Nothing is opened until Open.
func New(name string, list Lister, open Opener) *Transport {
	return &Transport{
		name: name,
		list: list,
		open: open,
		log:  bthost.PkgLogger("h4").ChildLogger(map[string]interface{}{"transport": name}),
	}
}

func (t *Transport) Name() string { return t.name }

func (t *Transport) ListDevices() ([]bthost.Device, error) {
	dd, err := t.list()
	return dd, errors.Wrapf(err, "%s: list devices", t.name)
}

func (t *Transport) Open(sel *bthost.Device) error {
	t.cmu.Lock()
	defer t.cmu.Unlock()

	if t.rwc != nil {
		return errors.Errorf("%s: already open", t.name)
	}

	dd, err := t.ListDevices()
	if err != nil {
		return err
	}
	d, err := bthost.MatchDevice(dd, sel)
	if err != nil {
		return err
	}

	rwc, err := t.open(d)
	if err != nil {
		return errors.Wrapf(err, "%s: open %s", t.name, d.Path)
	}
	t.log.Infof("opened %v", d)
	t.attach(rwc)
	return nil
}

// attach starts the receive loop on an already open stream.
func (t *Transport) attach(rwc io.ReadWriteCloser) {
	t.rwc = rwc
	t.evts = make(chan []byte, rxQueueSize)
	t.acl = make(chan []byte, rxQueueSize)
	t.done = make(chan struct{})
	t.wg.Add(1)
	go t.rxLoop()
}

func (t *Transport) Close() error {
	t.cmu.Lock()
	defer t.cmu.Unlock()

	if t.rwc == nil {
		return nil
	}
	close(t.done)
	err := t.rwc.Close()
	t.wg.Wait()
	t.rwc = nil
	return errors.Wrapf(err, "%s: close", t.name)
}

func (t *Transport) SendCommand(b []byte) error {
	return t.write(commandPacket, b)
}

func (t *Transport) SendACL(b []byte) error {
	return t.write(aclPacket, b)
}

func (t *Transport) write(typ byte, b []byte) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()

	if t.rwc == nil {
		return errors.Wrapf(bthost.ErrClosed, "%s", t.name)
	}

	p := make([]byte, 1+len(b))
	p[0] = typ
	copy(p[1:], b)
	n, err := t.rwc.Write(p)
	if err != nil {
		return errors.Wrapf(err, "%s: write", t.name)
	}
	if n != len(p) {
		return errors.Errorf("%s: short write %d of %d", t.name, n, len(p))
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

func (t *Transport) rxLoop() {
	defer t.wg.Done()
	defer close(t.evts)
	defer close(t.acl)

	f := newFrame(t.dispatch)
	b := make([]byte, readBufSize)
	for !t.closed() {
		n, err := t.rwc.Read(b)
		switch {
		case n > 0:
			f.Assemble(b[:n])

		case err == nil:
			// read timeout

		case t.closed():
			return

		default:
			// serial ports report an idle read as io.EOF
			if err != io.EOF {
				t.log.Debugf("read: %v", err)
			}
			time.Sleep(errBackoff)
		}
	}
}

func (t *Transport) dispatch(p []byte) {
	var ch chan []byte
	switch p[0] {
	case eventPacket:
		ch = t.evts
	case aclPacket:
		ch = t.acl
	default:
		t.log.Warnf("dropping packet type 0x%02X", p[0])
		return
	}

	select {
	case ch <- p[1:]:
	case <-t.done:
	}
}
