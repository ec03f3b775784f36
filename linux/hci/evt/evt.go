// Package evt decodes HCI event packets into typed events.
package evt

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

// Event codes [Vol 2, Part E, 7.7]
const (
	DisconnectionCompleteCode    = 0x05
	EncryptionChangeCode         = 0x08
	CommandCompleteCode          = 0x0E
	CommandStatusCode            = 0x0F
	HardwareErrorCode            = 0x10
	NumberOfCompletedPacketsCode = 0x13
	DataBufferOverflowCode       = 0x1A
	LEMetaCode                   = 0x3E
	VendorCode                   = 0xFF
)

// LE meta sub-event codes [Vol 2, Part E, 7.7.65]
const (
	LEConnectionCompleteSubCode       = 0x01
	LEAdvertisingReportSubCode        = 0x02
	LEConnectionUpdateCompleteSubCode = 0x03
	LEReadRemoteFeaturesSubCode       = 0x04
	LELongTermKeyRequestSubCode       = 0x05
)

// Key identifies the kind of an event. SubCode is only meaningful for LE
// meta events and Opcode only for Command Complete and Command Status.
type Key struct {
	Code    uint8
	SubCode uint8
	Opcode  uint16
}

func (k Key) String() string {
	switch k.Code {
	case LEMetaCode:
		return fmt.Sprintf("%s/0x%02X", codeName(k.Code), k.SubCode)
	case CommandCompleteCode, CommandStatusCode:
		return fmt.Sprintf("%s/0x%04X", codeName(k.Code), k.Opcode)
	}
	return codeName(k.Code)
}

// Event is a decoded HCI event.
type Event interface {
	Key() Key
	String() string
}

type decodeFn func(p []byte) (Event, error)

var decoders = map[Key]decodeFn{}

func register(code, subcode uint8, f decodeFn) {
	decoders[Key{Code: code, SubCode: subcode}] = f
}

// Decode parses b, laid out as code(1) | length(1) | parameters.
// Bytes beyond the declared length are ignored. Unknown codes decode to
// *Generic and unknown LE sub-events to *LEMeta.
func Decode(b []byte) (Event, error) {
	p, err := Params(b)
	if err != nil {
		return nil, err
	}
	code := b[0]

	if code == LEMetaCode {
		if len(p) < 1 {
			return nil, errors.Wrap(bthost.ErrTruncatedPacket, "le meta subevent")
		}
		if f, ok := decoders[Key{Code: code, SubCode: p[0]}]; ok {
			return f(p)
		}
		return &LEMeta{SubCode: p[0], Params: p[1:]}, nil
	}

	if f, ok := decoders[Key{Code: code}]; ok {
		return f(p)
	}
	return &Generic{Code: code, Params: p}, nil
}

// Params validates the event header of b and returns its parameters.
func Params(b []byte) ([]byte, error) {
	if len(b) < 2 {
		return nil, errors.Wrapf(bthost.ErrTruncatedPacket, "event header: % X", b)
	}
	plen := int(b[1])
	if plen > len(b)-2 {
		return nil, errors.Wrapf(bthost.ErrTruncatedPacket, "event 0x%02X: length %d, have %d", b[0], plen, len(b)-2)
	}
	return b[2 : 2+plen], nil
}

var codeNames = map[uint8]string{
	DisconnectionCompleteCode:    "Disconnection Complete",
	EncryptionChangeCode:         "Encryption Change",
	CommandCompleteCode:          "Command Complete",
	CommandStatusCode:            "Command Status",
	HardwareErrorCode:            "Hardware Error",
	NumberOfCompletedPacketsCode: "Number Of Completed Packets",
	DataBufferOverflowCode:       "Data Buffer Overflow",
	LEMetaCode:                   "LE Meta",
	VendorCode:                   "Vendor",
}

func codeName(c uint8) string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Event 0x%02X", c)
}
