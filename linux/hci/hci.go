// Package hci is the host side of the Host Controller Interface: it owns a
// transport, sends commands and correlates them with their completion
// events, and dispatches inbound events and ACL data.
package hci

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/capture"
	"github.com/rigado/bthost/linux/hci/cmd"
	"github.com/rigado/bthost/linux/hci/evt"
)

type handlerFn func(e evt.Event)

// NewHCI returns a hci device.
func NewHCI(opts ...bthost.Option) (*HCI, error) {
	h := &HCI{
		cmdTimeout:   DefaultCommandTimeout,
		pollInterval: DefaultPollInterval,
		tcfg:         transportConfig{kind: transportUSB},
		handlers:     map[evt.Key]handlerFn{},
		conns:        map[uint16]*Conn{},
		baseLog:      bthost.PkgLogger("hci"),
	}
	h.log = h.baseLog
	h.params.init()

	h.handlers[evt.Key{Code: evt.CommandCompleteCode}] = h.handleCommandComplete
	h.handlers[evt.Key{Code: evt.CommandStatusCode}] = h.handleCommandStatus
	h.handlers[evt.Key{Code: evt.DisconnectionCompleteCode}] = h.handleDisconnectionComplete
	h.handlers[evt.Key{Code: evt.HardwareErrorCode}] = h.handleHardwareError
	h.handlers[evt.Key{Code: evt.NumberOfCompletedPacketsCode}] = h.handleNumberOfCompletedPackets
	h.handlers[evt.Key{Code: evt.LEMetaCode, SubCode: evt.LEConnectionCompleteSubCode}] = h.handleLEConnectionComplete
	h.handlers[evt.Key{Code: evt.LEMetaCode, SubCode: evt.LEConnectionUpdateCompleteSubCode}] = h.handleLEConnectionUpdateComplete
	h.handlers[evt.Key{Code: evt.LEMetaCode, SubCode: evt.LEAdvertisingReportSubCode}] = h.handleLEAdvertisingReport

	if err := h.Option(opts...); err != nil {
		return nil, errors.Wrap(err, "can't set options")
	}
	return h, nil
}

// HCI ...
type HCI struct {
	params params

	tcfg        transportConfig
	transport   bthost.Transport
	capturePath string
	capture     *capture.Writer

	cmdTimeout   time.Duration
	pollInterval time.Duration

	// Inbound mailboxes, created by Open.
	evts *mailbox
	acl  *mailbox

	// muCmd serializes command round trips with PollEvent, so a poller
	// never takes the completion a command is waiting for.
	muCmd sync.Mutex

	handlers map[evt.Key]handlerFn

	muHandlers sync.RWMutex
	aclHandler func([]byte)

	// adHist and adLast track the history of past scannable advertising packets.
	// Controller delivers AD(Advertising Data) and SR(Scan Response) separately
	// through HCI. Upon receiving an AD, no matter it's scannable or not, we
	// pass a Advertisement (AD only) to advHandler immediately.
	// Upon receiving a SR, we search the AD history for the AD from the same
	// device, and pass the Advertisiement (AD+SR) to advHandler.
	advHandlerSync bool
	advHandler     AdvHandler
	adHist         []*Advertisement
	adLast         int

	muConns sync.Mutex
	conns   map[uint16]*Conn

	info *Info

	errorHandler func(error)

	baseLog bthost.Logger
	log     bthost.Logger
	session string

	muClose sync.Mutex
	done    chan struct{}
	wg      sync.WaitGroup
}

// Option sets the options specified.
func (h *HCI) Option(opts ...bthost.Option) error {
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return err
		}
	}
	return nil
}

func (h *HCI) getTransport() (bthost.Transport, error) {
	if h.transport == nil {
		t, err := h.tcfg.build()
		if err != nil {
			return nil, err
		}
		h.transport = t
	}
	return h.transport, nil
}

// ListDevices enumerates the controllers the configured transport can open.
func (h *HCI) ListDevices() ([]bthost.Device, error) {
	t, err := h.getTransport()
	if err != nil {
		return nil, err
	}
	return t.ListDevices()
}

// Open binds the transport to sel, or to the first device when sel is nil,
// and starts dispatching inbound packets.
func (h *HCI) Open(sel *bthost.Device) error {
	h.muClose.Lock()
	defer h.muClose.Unlock()

	if h.isOpen() {
		return ErrAlreadyOpen
	}
	if err := h.params.validate(); err != nil {
		return err
	}

	t, err := h.getTransport()
	if err != nil {
		return err
	}

	var cw *capture.Writer
	if h.capturePath != "" {
		if cw, err = capture.Create(h.capturePath); err != nil {
			return err
		}
	}

	if err := t.Open(sel); err != nil {
		cw.Close()
		return err
	}

	h.session = uuid.New().String()
	h.log = h.baseLog.ChildLogger(map[string]interface{}{"session": h.session})
	h.log.Infof("hci open on %s", t.Name())

	h.capture = cw
	h.evts = newMailbox()
	h.acl = newMailbox()
	h.adHist = make([]*Advertisement, advHistorySize)
	h.adLast = 0
	h.info = nil
	h.done = make(chan struct{})
	h.wg.Add(1)
	go h.rxLoop(t.Name(), t.Events(), t.ACL(), h.done)
	return nil
}

// Close stops the receive loop and releases the transport and capture log.
// Closing a closed HCI does nothing.
func (h *HCI) Close() error {
	h.muClose.Lock()
	defer h.muClose.Unlock()

	if !h.isOpen() {
		return nil
	}
	close(h.done)

	err := h.transport.Close()
	h.wg.Wait()

	h.evts.dispose()
	h.acl.dispose()

	if cerr := h.capture.Close(); err == nil {
		err = cerr
	}
	h.capture = nil

	h.muConns.Lock()
	h.conns = map[uint16]*Conn{}
	h.muConns.Unlock()

	h.log.Info("hci closed")
	return err
}

func (h *HCI) isOpen() bool {
	if h.done == nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Session returns the id tagging the log lines of the current session.
func (h *HCI) Session() string { return h.session }

// Info returns the controller facts collected by Init, or nil.
func (h *HCI) Info() *Info { return h.info }

// SendCommand encodes and transmits c, then waits up to timeout for an
// event of the kind of want. For Command Complete and Command Status the
// event must also echo c's opcode. A nil want accepts either of those two.
// Events that do not match stay queued for later waits. Absence of a match
// is reported as false, never as an error.
//
// A completion arriving after its wait gave up stays queued and can satisfy
// a later wait for the same kind.
func (h *HCI) SendCommand(c cmd.Command, want evt.Event, timeout time.Duration) (evt.Event, bool) {
	if !h.isOpen() {
		h.log.Warnf("send %s: %v", cmd.Name(c.OpCode()), ErrNotOpen)
		return nil, false
	}

	b, err := cmd.Encode(c)
	if err != nil {
		h.log.Errorf("encode %s: %v", cmd.Name(c.OpCode()), err)
		return nil, false
	}

	h.muCmd.Lock()
	defer h.muCmd.Unlock()

	h.record(capture.Command, b)
	h.log.Debugf("send cmd: %s [% X]", cmd.Name(c.OpCode()), b)
	if err := h.transport.SendCommand(b); err != nil {
		h.log.Errorf("send %s: %v", cmd.Name(c.OpCode()), err)
		return nil, false
	}

	match := matcher(uint16(c.OpCode()), want)
	v, ok := h.evts.take(match, timeout, h.pollInterval)
	if !ok {
		h.log.Infof("no response to %s within %v", cmd.Name(c.OpCode()), timeout)
		return nil, false
	}
	return v.(evt.Event), true
}

func matcher(op uint16, want evt.Event) func(interface{}) bool {
	cc := evt.Key{Code: evt.CommandCompleteCode, Opcode: op}
	cs := evt.Key{Code: evt.CommandStatusCode, Opcode: op}

	if want == nil {
		return func(v interface{}) bool {
			k := v.(evt.Event).Key()
			return k == cc || k == cs
		}
	}

	key := want.Key()
	switch key.Code {
	case evt.CommandCompleteCode, evt.CommandStatusCode:
		key.Opcode = op
	}
	return func(v interface{}) bool {
		return v.(evt.Event).Key() == key
	}
}

// Send sends c and waits for its Command Complete or Command Status. A non
// zero status is returned as ErrCommand; otherwise the return parameters
// are unmarshalled into r when r is not nil.
func (h *HCI) Send(c cmd.Command, r cmd.CommandRP) error {
	if !h.isOpen() {
		return ErrNotOpen
	}

	e, ok := h.SendCommand(c, nil, h.cmdTimeout)
	if !ok {
		return errors.Wrapf(bthost.ErrCommandTimeout, "%s", cmd.Name(c.OpCode()))
	}

	switch e := e.(type) {
	case *evt.CommandStatus:
		if e.Status != 0x00 {
			return ErrCommand(e.Status)
		}
	case *evt.CommandComplete:
		if s := e.Status(); s != 0x00 {
			return ErrCommand(s)
		}
		if r != nil {
			return errors.Wrapf(r.Unmarshal(e.ReturnParameters), "%s return parameters", cmd.Name(c.OpCode()))
		}
	}
	return nil
}

// PollEvent returns the oldest queued event, waiting up to timeout. It
// does not run while a command waits for its completion. Long running
// callers should poll regularly, every inbound event stays queued until
// taken.
func (h *HCI) PollEvent(timeout time.Duration) (evt.Event, bool) {
	if !h.isOpen() {
		return nil, false
	}
	deadline := time.Now().Add(timeout)
	for {
		h.muCmd.Lock()
		v, ok := h.evts.find(anyItem)
		h.muCmd.Unlock()
		if ok {
			return v.(evt.Event), true
		}
		if !time.Now().Before(deadline) {
			return nil, false
		}
		time.Sleep(h.pollInterval)
	}
}

// PollACL returns the oldest queued ACL packet, waiting up to timeout.
func (h *HCI) PollACL(timeout time.Duration) ([]byte, bool) {
	if !h.isOpen() {
		return nil, false
	}
	v, ok := h.acl.take(anyItem, timeout, h.pollInterval)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func anyItem(interface{}) bool { return true }

// Pending returns the number of queued events and ACL packets.
func (h *HCI) Pending() (events, acl int) {
	if !h.isOpen() {
		return 0, 0
	}
	return h.evts.len(), h.acl.len()
}

// SendACL transmits one ACL data packet, header included.
func (h *HCI) SendACL(b []byte) error {
	if !h.isOpen() {
		return ErrNotOpen
	}
	h.record(capture.ACL, b)
	h.log.Debugf("send acl: [% X]", b)
	return h.transport.SendACL(b)
}

// SetACLHandler registers f to receive every inbound ACL packet on the
// receive goroutine. The packet also stays in the ACL mailbox. It may be
// called while the HCI is open.
func (h *HCI) SetACLHandler(f func([]byte)) {
	h.muHandlers.Lock()
	h.aclHandler = f
	h.muHandlers.Unlock()
}

func (h *HCI) record(k capture.Kind, b []byte) {
	if err := h.capture.Write(k, b); err != nil {
		h.log.Warnf("capture: %v", err)
	}
}

func (h *HCI) rxLoop(name string, evts, acl <-chan []byte, done chan struct{}) {
	defer h.wg.Done()

	for evts != nil || acl != nil {
		select {
		case <-done:
			return
		case b, ok := <-evts:
			if !ok {
				evts = nil
				continue
			}
			h.handleEvent(b)
		case b, ok := <-acl:
			if !ok {
				acl = nil
				continue
			}
			h.handleACL(b)
		}
	}

	select {
	case <-done:
	default:
		h.dispatchError(errors.Errorf("%s transport closed", name))
	}
}

func (h *HCI) handleEvent(b []byte) {
	h.record(capture.Event, b)

	e, err := evt.Decode(b)
	if err != nil {
		h.log.Errorf("dropping event [% X]: %v", b, err)
		return
	}
	if err := h.evts.put(e); err != nil {
		h.log.Warnf("event mailbox: %v", err)
	}
	h.log.Debugf("recv evt: %v", e)

	k := e.Key()
	if f, ok := h.handlers[evt.Key{Code: k.Code, SubCode: k.SubCode}]; ok {
		f(e)
	}
}

func (h *HCI) handleACL(b []byte) {
	h.record(capture.ACL, b)
	h.log.Debugf("recv acl: [% X]", b)

	if err := h.acl.put(b); err != nil {
		h.log.Warnf("acl mailbox: %v", err)
	}
	h.muHandlers.RLock()
	f := h.aclHandler
	h.muHandlers.RUnlock()
	if f != nil {
		f(b)
	}
}

func (h *HCI) dispatchError(e error) {
	switch {
	case e == nil:
	case h.errorHandler == nil:
		h.log.Error(e)
	case !h.isOpen():
		h.log.Debugf("hci closing: %v", e)
	default:
		h.errorHandler(e)
	}
}
