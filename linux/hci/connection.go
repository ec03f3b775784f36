package hci

import (
	"fmt"
	"time"

	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci/evt"
)

// Conn is an LE link as last reported by the controller.
type Conn struct {
	Handle             uint16
	Role               uint8
	PeerAddress        bthost.Addr
	PeerAddressType    uint8
	Interval           uint16
	Latency            uint16
	SupervisionTimeout uint16

	// Completed counts ACL packets the controller reported as sent.
	Completed int
}

func newConn(e *evt.LEConnectionComplete) *Conn {
	return &Conn{
		Handle:             e.ConnectionHandle,
		Role:               e.Role,
		PeerAddress:        e.PeerAddress,
		PeerAddressType:    e.PeerAddressType,
		Interval:           e.ConnInterval,
		Latency:            e.ConnLatency,
		SupervisionTimeout: e.SupervisionTimeout,
	}
}

// IntervalDuration is the connection interval as a duration.
func (c Conn) IntervalDuration() time.Duration { return evt.ConnIntervalDuration(c.Interval) }

// SupervisionTimeoutDuration is the supervision timeout as a duration.
func (c Conn) SupervisionTimeoutDuration() time.Duration {
	return evt.SupervisionTimeoutDuration(c.SupervisionTimeout)
}

func (c Conn) String() string {
	return fmt.Sprintf("0x%04X %s role %d interval %v latency %d timeout %v",
		c.Handle, c.PeerAddress, c.Role, c.IntervalDuration(), c.Latency, c.SupervisionTimeoutDuration())
}

// Conns returns a snapshot of the open links.
func (h *HCI) Conns() []Conn {
	h.muConns.Lock()
	defer h.muConns.Unlock()

	cc := make([]Conn, 0, len(h.conns))
	for _, c := range h.conns {
		cc = append(cc, *c)
	}
	return cc
}

// Conn returns the link with handle, if open.
func (h *HCI) Conn(handle uint16) (Conn, bool) {
	h.muConns.Lock()
	defer h.muConns.Unlock()

	c, ok := h.conns[handle]
	if !ok {
		return Conn{}, false
	}
	return *c, true
}
