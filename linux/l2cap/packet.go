package l2cap

import "encoding/binary"

// packet is an HCI ACL Data Packet [Vol 2, Part E, 5.4.2]
// Packet boundary flags, bit[4:5] of handle field's MSB
// Broadcast flags, bit[6:7] of handle field's MSB
type packet []byte

func (a packet) handle() uint16 { return uint16(a[0]) | (uint16(a[1]&0x0f) << 8) }
func (a packet) pbf() uint8     { return (a[1] >> 4) & 0x3 }
func (a packet) bcf() uint8     { return (a[1] >> 6) & 0x3 }
func (a packet) dlen() int      { return int(a[2]) | (int(a[3]) << 8) }
func (a packet) data() []byte   { return a[aclHeaderLen:] }

// pdu is a basic L2CAP frame [Vol 3, Part A, 3.1]
type pdu []byte

func (p pdu) dlen() int       { return int(binary.LittleEndian.Uint16(p[0:2])) }
func (p pdu) cid() uint16     { return binary.LittleEndian.Uint16(p[2:4]) }
func (p pdu) payload() []byte { return p[pduHeaderLen:] }
