// Package l2cap frames and deframes basic L2CAP PDUs carried in HCI ACL
// data packets and routes them to handlers by channel id.
package l2cap

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

// Fixed LE channel ids [Vol 3, Part A, 2.1]
const (
	CIDAtt      = 0x0004
	CIDLESignal = 0x0005
	CIDSmp      = 0x0006
)

// Packet boundary flags [Vol 2, Part E, 5.4.2]
const (
	PBFirstNonFlushable = 0x00
	PBContinuing        = 0x01
	PBFirstFlushable    = 0x02
)

const (
	aclHeaderLen = 4
	pduHeaderLen = 4
	headerLen    = aclHeaderLen + pduHeaderLen
)

// ErrLengthMismatch is returned when the ACL length does not equal the PDU
// length plus the L2CAP header. Fragmented PDUs are not reassembled.
var ErrLengthMismatch = errors.New("acl length does not match pdu length")

// Frame is one L2CAP PDU with the ACL header it arrived in.
type Frame struct {
	Handle  uint16
	PBFlag  uint8
	BCFlag  uint8
	CID     uint16
	Payload []byte
}

func (f Frame) String() string {
	return fmt.Sprintf("handle 0x%04X pb %d bc %d cid 0x%04X: % X", f.Handle, f.PBFlag, f.BCFlag, f.CID, f.Payload)
}

// Deframe parses an ACL data packet holding one complete L2CAP PDU.
func Deframe(b []byte) (Frame, error) {
	if len(b) < headerLen {
		return Frame{}, errors.Wrapf(bthost.ErrTruncatedPacket, "l2cap header: have %d bytes, need %d", len(b), headerLen)
	}

	a := packet(b)
	p := pdu(a.data())
	if len(b) < headerLen+p.dlen() {
		return Frame{}, errors.Wrapf(bthost.ErrTruncatedPacket, "l2cap pdu: have %d bytes, need %d", len(b)-headerLen, p.dlen())
	}
	if a.dlen() != p.dlen()+pduHeaderLen {
		return Frame{}, errors.Wrapf(ErrLengthMismatch, "acl %d, pdu %d", a.dlen(), p.dlen())
	}

	return Frame{
		Handle:  a.handle(),
		PBFlag:  a.pbf(),
		BCFlag:  a.bcf(),
		CID:     p.cid(),
		Payload: p.payload()[:p.dlen()],
	}, nil
}

// Encode is the inverse of Deframe.
func Encode(f Frame) []byte {
	b := make([]byte, headerLen+len(f.Payload))
	hf := f.Handle&0x0FFF | uint16(f.PBFlag&0x3)<<12 | uint16(f.BCFlag&0x3)<<14
	binary.LittleEndian.PutUint16(b[0:], hf)
	binary.LittleEndian.PutUint16(b[2:], uint16(len(f.Payload)+pduHeaderLen))
	binary.LittleEndian.PutUint16(b[4:], uint16(len(f.Payload)))
	binary.LittleEndian.PutUint16(b[6:], f.CID)
	copy(b[headerLen:], f.Payload)
	return b
}

// FramePDU builds the ACL packet carrying pdu on channel cid of handle.
func FramePDU(handle, cid uint16, pdu []byte) []byte {
	return Encode(Frame{Handle: handle, CID: cid, Payload: pdu})
}

// Handler consumes the PDUs of one channel.
type Handler func(handle, cid uint16, pdu []byte)

// ACLSender transmits ACL data packets, header included.
type ACLSender interface {
	SendACL(b []byte) error
}

// Framer routes inbound PDUs to the handler registered for their channel
// and frames outbound PDUs.
type Framer struct {
	mu       sync.RWMutex
	handlers map[uint16]Handler
	tx       ACLSender
	log      bthost.Logger
}

// NewFramer returns a framer sending through tx.
func NewFramer(tx ACLSender) *Framer {
	return &Framer{
		handlers: map[uint16]Handler{},
		tx:       tx,
		log:      bthost.PkgLogger("l2cap"),
	}
}

// Register routes channel cid to h, replacing any previous handler.
func (f *Framer) Register(cid uint16, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[cid] = h
}

// Unregister removes the handler of channel cid.
func (f *Framer) Unregister(cid uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers, cid)
}

// HandleACL deframes b and passes the PDU to its channel's handler.
// Malformed packets and unrouted channels are logged and dropped.
func (f *Framer) HandleACL(b []byte) {
	fr, err := Deframe(b)
	if err != nil {
		f.log.Errorf("dropping acl [% X]: %v", b, err)
		return
	}
	f.log.Debugf("recv %v", fr)

	f.mu.RLock()
	h, ok := f.handlers[fr.CID]
	f.mu.RUnlock()
	if !ok {
		f.log.Warnf("no handler for cid 0x%04X, dropping %d bytes", fr.CID, len(fr.Payload))
		return
	}
	h(fr.Handle, fr.CID, fr.Payload)
}

// Send frames pdu for channel cid of handle and transmits it.
func (f *Framer) Send(handle, cid uint16, pdu []byte) error {
	if len(pdu) > 0xFFFF-pduHeaderLen {
		return errors.Errorf("l2cap pdu too long (%d)", len(pdu))
	}
	b := FramePDU(handle, cid, pdu)
	f.log.Debugf("send handle 0x%04X cid 0x%04X: % X", handle, cid, pdu)
	return f.tx.SendACL(b)
}
