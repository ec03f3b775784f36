// Package capture records HCI packets to an append-only log.
//
// Each record is a two byte marker (0x00 followed by the H4 packet type),
// the payload length as a little-endian uint16, then the payload.
package capture

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Kind is the packet type of a record.
type Kind uint8

// Record kinds, matching the H4 packet indicators.
const (
	Command Kind = 0x01
	ACL     Kind = 0x02
	Event   Kind = 0x04
)

func (k Kind) String() string {
	switch k {
	case Command:
		return "CMD"
	case ACL:
		return "ACL"
	case Event:
		return "EVT"
	}
	return fmt.Sprintf("0x%02X", uint8(k))
}

const headerLen = 4

// Writer appends records to a file. It is safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// Create opens path for appending, creating it when needed.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "capture open")
	}
	return &Writer{w: f, c: f}, nil
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write appends one record. A nil Writer discards.
func (w *Writer) Write(k Kind, payload []byte) error {
	if w == nil {
		return nil
	}
	if len(payload) > 0xFFFF {
		return fmt.Errorf("capture: payload too long (%d)", len(payload))
	}

	b := make([]byte, headerLen+len(payload))
	b[0] = 0x00
	b[1] = byte(k)
	binary.LittleEndian.PutUint16(b[2:], uint16(len(payload)))
	copy(b[headerLen:], payload)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return errors.New("capture closed")
	}
	_, err := w.w.Write(b)
	return errors.Wrap(err, "capture write")
}

// Close closes the underlying file. Further writes fail.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.w = nil
	if w.c != nil {
		return w.c.Close()
	}
	return nil
}

// Record is one captured packet.
type Record struct {
	Kind    Kind
	Payload []byte
}

func (r Record) String() string {
	return fmt.Sprintf("%s % X", r.Kind, r.Payload)
}

// Reader iterates over the records of a capture.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	var h [headerLen]byte
	if _, err := io.ReadFull(r.r, h[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Record{}, errors.Wrap(err, "capture header")
		}
		return Record{}, err
	}
	if h[0] != 0x00 {
		return Record{}, fmt.Errorf("capture: bad marker % X", h[:2])
	}

	p := make([]byte, binary.LittleEndian.Uint16(h[2:]))
	if _, err := io.ReadFull(r.r, p); err != nil {
		return Record{}, errors.Wrap(io.ErrUnexpectedEOF, "capture payload")
	}
	return Record{Kind: Kind(h[1]), Payload: p}, nil
}
