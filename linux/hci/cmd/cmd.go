// Package cmd defines the HCI commands the host sends and the return
// parameters the controller answers with in Command Complete.
package cmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Command ...
type Command interface {
	OpCode() int
	Len() int
	Marshal([]byte) error
}

// CommandRP ...
type CommandRP interface {
	Unmarshal(b []byte) error
}

// Sender ...
type Sender interface {
	// Send sends a HCI Command and returns unserialized return parameter.
	Send(Command, CommandRP) error
}

// Send ...
func Send(s Sender, c Command, r CommandRP) error {
	return s.Send(c, r)
}

// OGFs [Vol 2, Part E, 7]
const (
	OGFLinkControl        = 0x01
	OGFControllerBaseband = 0x03
	OGFInformational      = 0x04
	OGFLE                 = 0x08
	OGFVendor             = 0x3F
)

// OpCode packs an OGF and OCF into a command opcode.
func OpCode(ogf, ocf int) int {
	return ogf<<10 | ocf&0x03FF
}

// OGF returns the opcode group field of op.
func OGF(op int) int { return op >> 10 }

// OCF returns the opcode command field of op.
func OCF(op int) int { return op & 0x03FF }

// Encode serializes c as an HCI command packet: opcode(2, LE) | length(1) | parameters.
// The H4 packet type indicator is not included.
func Encode(c Command) ([]byte, error) {
	if c.Len() > 0xFF {
		return nil, fmt.Errorf("command 0x%04X: parameters too long (%d)", c.OpCode(), c.Len())
	}
	b := make([]byte, 3+c.Len())
	binary.LittleEndian.PutUint16(b, uint16(c.OpCode()))
	b[2] = byte(c.Len())
	if err := c.Marshal(b[3:]); err != nil {
		return nil, err
	}
	return b, nil
}

// Name returns the command name for op, or a hex placeholder.
func Name(op int) string {
	if n, ok := names[op]; ok {
		return n
	}
	return fmt.Sprintf("Unknown (0x%02X|0x%04X)", OGF(op), OCF(op))
}

func marshal(c Command, b []byte) error {
	buf := bytes.NewBuffer(b)
	buf.Reset()
	if buf.Cap() < c.Len() {
		return io.ErrShortBuffer
	}
	return binary.Write(buf, binary.LittleEndian, c)
}

func unmarshal(c CommandRP, b []byte) error {
	buf := bytes.NewBuffer(b)
	return binary.Read(buf, binary.LittleEndian, c)
}

// Raw is a command with caller supplied opcode and parameters.
type Raw struct {
	Op     int
	Params []byte
}

func (c *Raw) String() string { return fmt.Sprintf("%s % X", Name(c.Op), c.Params) }

// OpCode returns the opcode of the command.
func (c *Raw) OpCode() int { return c.Op }

// Len returns the length of the command.
func (c *Raw) Len() int { return len(c.Params) }

// Marshal serializes the command parameters into binary form.
func (c *Raw) Marshal(b []byte) error {
	if len(b) < len(c.Params) {
		return io.ErrShortBuffer
	}
	copy(b, c.Params)
	return nil
}

// RawRP keeps the return parameters as bytes.
type RawRP struct {
	Status uint8
	Params []byte
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (c *RawRP) Unmarshal(b []byte) error {
	if len(b) < 1 {
		return io.ErrUnexpectedEOF
	}
	c.Status = b[0]
	c.Params = append([]byte(nil), b[1:]...)
	return nil
}
