// Package adv builds and parses advertising data (AD structures).
// Refer to Supplement to Bluetooth Core Specification | CSSv6, Part A.
package adv

import (
	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

// MaxEIRPacketLength is the maximum allowed AdvertisingPacket
// and ScanResponsePacket length.
const MaxEIRPacketLength = 31

// Advertising flags
const (
	FlagLimitedDiscoverable = 0x01
	FlagGeneralDiscoverable = 0x02
	FlagLEOnly              = 0x04
)

var (
	// ErrNotFit is returned when a field does not fit in the remaining space.
	ErrNotFit  = errors.New("field does not fit in advertising packet")
	ErrInvalid = errors.New("invalid advertising field")
)

// Packet is an advertising packet or scan response being crafted or parsed.
type Packet struct {
	b []byte
	m map[string]interface{}
}

// Bytes returns the bytes of the packet.
func (p *Packet) Bytes() []byte {
	return p.b
}

// Len returns the length of the packet.
func (p *Packet) Len() int {
	return len(p.b)
}

// NewPacket returns a new advertising Packet.
func NewPacket(fields ...Field) (*Packet, error) {
	p := &Packet{b: make([]byte, 0, MaxEIRPacketLength)}
	for _, f := range fields {
		if err := f(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// NewRawPacket parses the concatenation of bytes, typically an advertising
// packet followed by its scan response.
func NewRawPacket(bytes ...[]byte) (*Packet, error) {
	b := []byte{}
	for _, bb := range bytes {
		b = append(b, bb...)
	}

	m, err := Decode(b)
	if err != nil {
		return nil, errors.Wrap(err, "pdu decode")
	}
	return &Packet{b: b, m: m}, nil
}

// Field is an advertising field which can be appended to a packet.
type Field func(p *Packet) error

// Append appends a field to the packet. It returns ErrNotFit if the field
// doesn't fit into the packet, and leaves the packet intact.
func (p *Packet) Append(f Field) error {
	return f(p)
}

func (p *Packet) append(typ byte, b []byte) error {
	if p.Len()+1+1+len(b) > MaxEIRPacketLength {
		return ErrNotFit
	}
	p.b = append(p.b, byte(len(b)+1))
	p.b = append(p.b, typ)
	p.b = append(p.b, b...)
	return nil
}

// Raw appends the bytes to the current packet.
func Raw(b []byte) Field {
	return func(p *Packet) error {
		if p.Len()+len(b) > MaxEIRPacketLength {
			return ErrNotFit
		}
		p.b = append(p.b, b...)
		return nil
	}
}

// Flags is a flags.
func Flags(f byte) Field {
	return func(p *Packet) error {
		return p.append(types.flags, []byte{f})
	}
}

// ShortName is a short local name.
func ShortName(n string) Field {
	return func(p *Packet) error {
		return p.append(types.nameshort, []byte(n))
	}
}

// CompleteName is a complete local name.
func CompleteName(n string) Field {
	return func(p *Packet) error {
		return p.append(types.namecomp, []byte(n))
	}
}

// TxPower is the advertised transmit power level.
func TxPower(dbm int8) Field {
	return func(p *Packet) error {
		return p.append(types.txpwr, []byte{byte(dbm)})
	}
}

// ManufacturerData is manufacturer specific data.
func ManufacturerData(id uint16, b []byte) Field {
	return func(p *Packet) error {
		d := append([]byte{uint8(id), uint8(id >> 8)}, b...)
		return p.append(types.mfgdata, d)
	}
}

// AllUUID is one of the complete service UUID list.
func AllUUID(u bthost.UUID) Field {
	return func(p *Packet) error {
		switch u.Len() {
		case 2:
			return p.append(types.uuid16comp, u)
		case 4:
			return p.append(types.uuid32comp, u)
		case 16:
			return p.append(types.uuid128comp, u)
		}
		return ErrInvalid
	}
}

// SomeUUID is one of the incomplete service UUID list.
func SomeUUID(u bthost.UUID) Field {
	return func(p *Packet) error {
		switch u.Len() {
		case 2:
			return p.append(types.uuid16inc, u)
		case 4:
			return p.append(types.uuid32inc, u)
		case 16:
			return p.append(types.uuid128inc, u)
		}
		return ErrInvalid
	}
}

// ServiceData16 is service data for a 16bit service uuid
func ServiceData16(id uint16, b []byte) Field {
	return func(p *Packet) error {
		u := bthost.UUID16(id)
		return p.append(types.svc16, append(u, b...))
	}
}

// Flags returns the flags of the packet.
func (p *Packet) Flags() (flags byte, present bool) {
	if b, ok := p.m[keys.flags].([]byte); ok {
		return b[0], true
	}
	return 0, false
}

// LocalName returns the ShortName or CompleteName if it presents.
func (p *Packet) LocalName() string {
	if b, ok := p.m[keys.localName].([]byte); ok {
		return string(b)
	}
	return ""
}

// TxPower returns the TxPower, if it presents.
func (p *Packet) TxPower() (power int, present bool) {
	if b, ok := p.m[keys.txpwr].([]byte); ok {
		return int(int8(b[0])), true
	}
	return 0, false
}

// ManufacturerData returns the manufacturer data, company id included.
func (p *Packet) ManufacturerData() []byte {
	b, _ := p.m[keys.mfgdata].([]byte)
	return b
}

// UUIDs returns the advertised service UUIDs, complete and incomplete lists.
func (p *Packet) UUIDs() []bthost.UUID {
	var u []bthost.UUID
	v, _ := p.m[keys.services].([]interface{})
	for _, vv := range v {
		if b, ok := vv.([]byte); ok {
			u = append(u, bthost.UUID(b))
		}
	}
	return u
}

// Map returns the parsed fields keyed by name.
func (p *Packet) Map() map[string]interface{} {
	return p.m
}
