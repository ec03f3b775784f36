package evt

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci/cmd"
)

func init() {
	register(CommandCompleteCode, 0, decodeCommandComplete)
	register(NumberOfCompletedPacketsCode, 0, decodeNumberOfCompletedPackets)
	register(LEMetaCode, LEAdvertisingReportSubCode, decodeLEAdvertisingReport)

	for _, l := range fixedLayouts {
		register(l.code, l.subcode, l.decoder())
	}
}

// fixedLayouts are the events whose parameters map field by field, little
// endian, onto their struct. LE meta parameters start after the sub-event
// code.
var fixedLayouts = []fixedLayout{
	{CommandStatusCode, 0, "command status", func() Event { return &CommandStatus{} }},
	{DisconnectionCompleteCode, 0, "disconnection complete", func() Event { return &DisconnectionComplete{} }},
	{HardwareErrorCode, 0, "hardware error", func() Event { return &HardwareError{} }},
	{LEMetaCode, LEConnectionCompleteSubCode, "le connection complete", func() Event { return &LEConnectionComplete{} }},
	{LEMetaCode, LEConnectionUpdateCompleteSubCode, "le connection update complete", func() Event { return &LEConnectionUpdateComplete{} }},
}

type fixedLayout struct {
	code    uint8
	subcode uint8
	name    string
	new     func() Event
}

func (l fixedLayout) decoder() decodeFn {
	off := 0
	if l.code == LEMetaCode {
		off = 1
	}
	return func(p []byte) (Event, error) {
		e := l.new()
		if err := need(p, off+binary.Size(e), l.name); err != nil {
			return nil, err
		}
		if err := binary.Read(bytes.NewReader(p[off:]), binary.LittleEndian, e); err != nil {
			return nil, err
		}
		return e, nil
	}
}

// Generic is an event with no specialized layout.
type Generic struct {
	Code   uint8
	Params []byte
}

func (e *Generic) Key() Key { return Key{Code: e.Code} }

func (e *Generic) String() string {
	return fmt.Sprintf("%s: % X", codeName(e.Code), e.Params)
}

// CommandComplete [Vol 2, Part E, 7.7.14]
type CommandComplete struct {
	NumHCICommandPackets uint8
	CommandOpcode        uint16

	// ReturnParameters starts with the status byte.
	ReturnParameters []byte

	// Return holds the unmarshalled return parameters when the opcode is
	// known and the parameters are long enough, nil otherwise.
	Return cmd.CommandRP
}

func (e *CommandComplete) Key() Key { return Key{Code: CommandCompleteCode, Opcode: e.CommandOpcode} }

// Status returns the first return parameter, or 0 for a NOP completion.
func (e *CommandComplete) Status() uint8 {
	if len(e.ReturnParameters) == 0 {
		return 0
	}
	return e.ReturnParameters[0]
}

func (e *CommandComplete) String() string {
	return fmt.Sprintf("Command Complete: num %d, opcode 0x%04X (%s), status 0x%02X, rp % X",
		e.NumHCICommandPackets, e.CommandOpcode, cmd.Name(int(e.CommandOpcode)), e.Status(), e.ReturnParameters)
}

func decodeCommandComplete(p []byte) (Event, error) {
	e := &CommandComplete{}
	var err error
	if e.NumHCICommandPackets, err = getByte(p, 0, 0); err != nil {
		return nil, err
	}
	if e.CommandOpcode, err = getUint16LE(p, 1, 0xffff); err != nil {
		return nil, err
	}
	// NOP completions [Vol 2, Part E, 4.4] carry no status.
	if e.CommandOpcode != 0x0000 {
		if err := need(p, 4, "command complete"); err != nil {
			return nil, err
		}
	}
	e.ReturnParameters, _ = getBytes(p, 3, -1)

	if rp := cmd.ReturnParameters(int(e.CommandOpcode)); rp != nil {
		if rp.Unmarshal(e.ReturnParameters) == nil {
			e.Return = rp
		}
	}
	return e, nil
}

// CommandStatus [Vol 2, Part E, 7.7.15]
type CommandStatus struct {
	Status               uint8
	NumHCICommandPackets uint8
	CommandOpcode        uint16
}

func (e *CommandStatus) Key() Key { return Key{Code: CommandStatusCode, Opcode: e.CommandOpcode} }

func (e *CommandStatus) String() string {
	return fmt.Sprintf("Command Status: status 0x%02X, num %d, opcode 0x%04X (%s)",
		e.Status, e.NumHCICommandPackets, e.CommandOpcode, cmd.Name(int(e.CommandOpcode)))
}

// DisconnectionComplete [Vol 2, Part E, 7.7.5]
type DisconnectionComplete struct {
	Status           uint8
	ConnectionHandle uint16
	Reason           uint8
}

func (e *DisconnectionComplete) Key() Key { return Key{Code: DisconnectionCompleteCode} }

func (e *DisconnectionComplete) String() string {
	return fmt.Sprintf("Disconnection Complete: status 0x%02X, handle 0x%04X, reason 0x%02X",
		e.Status, e.ConnectionHandle, e.Reason)
}

// HardwareError [Vol 2, Part E, 7.7.16]
type HardwareError struct {
	HardwareCode uint8
}

func (e *HardwareError) Key() Key { return Key{Code: HardwareErrorCode} }

func (e *HardwareError) String() string {
	return fmt.Sprintf("Hardware Error: code 0x%02X", e.HardwareCode)
}

// Per-spec [Vol 2, Part E, 7.7.19], the packet structure should be:
//
//     NumOfHandle, HandleA, HandleB, CompPktNumA, CompPktNumB
//
// But we got the actual packet from BCM20702A1 with the following structure instead.
//
//     NumOfHandle, HandleA, CompPktNumA, HandleB, CompPktNumB
//              02,   40 00,       01 00,   41 00,       01 00

// NumberOfCompletedPackets [Vol 2, Part E, 7.7.19]
type NumberOfCompletedPackets struct {
	ConnectionHandle        []uint16
	HCNumOfCompletedPackets []uint16
}

func (e *NumberOfCompletedPackets) Key() Key { return Key{Code: NumberOfCompletedPacketsCode} }

func (e *NumberOfCompletedPackets) String() string {
	s := "Number Of Completed Packets:"
	for i := range e.ConnectionHandle {
		s += fmt.Sprintf(" 0x%04X=%d", e.ConnectionHandle[i], e.HCNumOfCompletedPackets[i])
	}
	return s
}

func decodeNumberOfCompletedPackets(p []byte) (Event, error) {
	n, err := getByte(p, 0, 0)
	if err != nil {
		return nil, err
	}
	if err := need(p, 1+4*int(n), "number of completed packets"); err != nil {
		return nil, err
	}
	e := &NumberOfCompletedPackets{
		ConnectionHandle:        make([]uint16, n),
		HCNumOfCompletedPackets: make([]uint16, n),
	}
	for i := 0; i < int(n); i++ {
		si := 1 + (i * 4)
		e.ConnectionHandle[i], _ = getUint16LE(p, si, 0xffff)
		e.HCNumOfCompletedPackets[i], _ = getUint16LE(p, si+2, 0)
	}
	return e, nil
}

// LEMeta is an LE meta event with no specialized layout.
type LEMeta struct {
	SubCode uint8
	Params  []byte
}

func (e *LEMeta) Key() Key { return Key{Code: LEMetaCode, SubCode: e.SubCode} }

func (e *LEMeta) String() string {
	return fmt.Sprintf("LE Meta 0x%02X: % X", e.SubCode, e.Params)
}

// LEConnectionComplete [Vol 2, Part E, 7.7.65.1]
type LEConnectionComplete struct {
	Status              uint8
	ConnectionHandle    uint16
	Role                uint8
	PeerAddressType     uint8
	PeerAddress         bthost.Addr
	ConnInterval        uint16
	ConnLatency         uint16
	SupervisionTimeout  uint16
	MasterClockAccuracy uint8
}

func (e *LEConnectionComplete) Key() Key {
	return Key{Code: LEMetaCode, SubCode: LEConnectionCompleteSubCode}
}

func (e *LEConnectionComplete) String() string {
	return fmt.Sprintf("LE Connection Complete: status 0x%02X, handle 0x%04X, role %d, peer %s (type %d), interval %v, latency %d, timeout %v",
		e.Status, e.ConnectionHandle, e.Role, e.PeerAddress, e.PeerAddressType,
		ConnIntervalDuration(e.ConnInterval), e.ConnLatency, SupervisionTimeoutDuration(e.SupervisionTimeout))
}

// LEConnectionUpdateComplete [Vol 2, Part E, 7.7.65.3]
type LEConnectionUpdateComplete struct {
	Status             uint8
	ConnectionHandle   uint16
	ConnInterval       uint16
	ConnLatency        uint16
	SupervisionTimeout uint16
}

func (e *LEConnectionUpdateComplete) Key() Key {
	return Key{Code: LEMetaCode, SubCode: LEConnectionUpdateCompleteSubCode}
}

func (e *LEConnectionUpdateComplete) String() string {
	return fmt.Sprintf("LE Connection Update Complete: status 0x%02X, handle 0x%04X, interval %v, latency %d, timeout %v",
		e.Status, e.ConnectionHandle, ConnIntervalDuration(e.ConnInterval), e.ConnLatency,
		SupervisionTimeoutDuration(e.SupervisionTimeout))
}

// AdvReport is one report of an LE Advertising Report event.
type AdvReport struct {
	EventType   uint8
	AddressType uint8
	Address     bthost.Addr
	Data        []byte
	RSSI        int8
}

// LEAdvertisingReport [Vol 2, Part E, 7.7.65.2]
type LEAdvertisingReport struct {
	Reports []AdvReport
}

func (e *LEAdvertisingReport) Key() Key {
	return Key{Code: LEMetaCode, SubCode: LEAdvertisingReportSubCode}
}

func (e *LEAdvertisingReport) String() string {
	s := fmt.Sprintf("LE Advertising Report: %d report(s)", len(e.Reports))
	for _, r := range e.Reports {
		s += fmt.Sprintf("; type %d %s rssi %d data % X", r.EventType, r.Address, r.RSSI, r.Data)
	}
	return s
}

// The report fields are laid out as parallel arrays:
// subcode, num, evtType[n], addrType[n], addr[n][6], dataLen[n], data..., rssi[n]
func decodeLEAdvertisingReport(p []byte) (Event, error) {
	n, err := getByte(p, 1, 0)
	if err != nil {
		return nil, err
	}
	nr := int(n)
	if err := need(p, 2+nr*(1+1+6+1), "le advertising report"); err != nil {
		return nil, err
	}

	e := &LEAdvertisingReport{Reports: make([]AdvReport, nr)}
	dlOff := 2 + nr*8
	dataOff := dlOff + nr
	for i := range e.Reports {
		r := &e.Reports[i]
		r.EventType = p[2+i]
		r.AddressType = p[2+nr+i]
		copy(r.Address[:], p[2+2*nr+6*i:])

		dl := int(p[dlOff+i])
		d, err := getBytes(p, dataOff, dl)
		if err != nil {
			return nil, err
		}
		r.Data = d
		dataOff += dl
	}
	for i := range e.Reports {
		rssi, err := getByte(p, dataOff+i, 0)
		if err != nil {
			return nil, err
		}
		e.Reports[i].RSSI = int8(rssi)
	}
	return e, nil
}
