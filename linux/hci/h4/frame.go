package h4

import (
	"fmt"
	"time"
)

// H4 packet indicators
const (
	commandPacket = 0x01
	aclPacket     = 0x02
	scoPacket     = 0x03
	eventPacket   = 0x04
)

const (
	eventHeaderLength = 3
	aclHeaderLength   = 5
	frameTimeout      = 500 * time.Millisecond
)

// frame reassembles H4 packets from a byte stream. Bytes before a known
// packet indicator are skipped, and a partial frame is dropped once it is
// older than frameTimeout.
type frame struct {
	b       []byte
	timeout time.Time
	emit    func([]byte)
	evtType byte
}

func newFrame(emit func([]byte)) *frame {
	return &frame{
		b:    make([]byte, 0, 256),
		emit: emit,
	}
}

// Assemble consumes b and emits every complete frame, indicator included.
func (f *frame) Assemble(b []byte) {
	switch {
	case len(b) == 0:
		return

	case !f.timeout.IsZero() && time.Now().After(f.timeout):
		f.reset()
	}

	if len(f.b) == 0 {
		if err := f.waitStart(b); err != nil {
			return
		}
	} else {
		f.b = append(f.b, b...)
	}

	for {
		rf, err := f.frame()
		if err != nil {
			return
		}
		out := make([]byte, len(rf))
		copy(out, rf)
		f.emit(out)

		rem := f.b[len(rf):]
		if len(rem) == 0 {
			f.reset()
			return
		}
		rest := make([]byte, len(rem))
		copy(rest, rem)
		f.reset()
		if err := f.waitStart(rest); err != nil {
			return
		}
	}
}

func (f *frame) reset() {
	f.b = f.b[:0]
	f.timeout = time.Time{}
}

func (f *frame) waitStart(b []byte) error {
	for i, v := range b {
		switch v {
		case eventPacket, aclPacket:
		default:
			continue
		}

		f.evtType = v
		f.timeout = time.Now().Add(frameTimeout)
		f.b = append(f.b, b[i:]...)
		return nil
	}
	return fmt.Errorf("couldnt find start byte")
}

func (f *frame) dataLength() (int, error) {
	switch f.evtType {
	case aclPacket:
		if len(f.b) < aclHeaderLength {
			return 0, fmt.Errorf("not enough bytes")
		}
		return (int(f.b[3]) | int(f.b[4])<<8) + aclHeaderLength, nil
	case eventPacket:
		if len(f.b) < eventHeaderLength {
			return 0, fmt.Errorf("not enough bytes")
		}
		return int(f.b[2]) + eventHeaderLength, nil
	default:
		return 0, fmt.Errorf("invalid packet type %v", f.evtType)
	}
}

func (f *frame) frame() ([]byte, error) {
	tl, err := f.dataLength()
	if err != nil {
		return nil, err
	}

	if len(f.b) < tl {
		return nil, fmt.Errorf("not enough bytes")
	}
	return f.b[:tl], nil
}
