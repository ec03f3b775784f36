package att

import "encoding/binary"

// ReadByGroupTypeRequest is a Read By Group Type Request (0x10) with a
// 16-bit group type [Vol 3, Part F, 3.4.4.9].
type ReadByGroupTypeRequest []byte

const readByGroupTypeRequestLen = 7

func (r ReadByGroupTypeRequest) AttributeOpcode() uint8     { return r[0] }
func (r ReadByGroupTypeRequest) StartingHandle() uint16     { return binary.LittleEndian.Uint16(r[1:]) }
func (r ReadByGroupTypeRequest) EndingHandle() uint16       { return binary.LittleEndian.Uint16(r[3:]) }
func (r ReadByGroupTypeRequest) AttributeGroupType() uint16 { return binary.LittleEndian.Uint16(r[5:]) }

// NewReadByGroupTypeRequest encodes a request for groupType in [start, end].
func NewReadByGroupTypeRequest(start, end, groupType uint16) ReadByGroupTypeRequest {
	r := make(ReadByGroupTypeRequest, readByGroupTypeRequestLen)
	r[0] = ReadByGroupTypeRequestCode
	binary.LittleEndian.PutUint16(r[1:], start)
	binary.LittleEndian.PutUint16(r[3:], end)
	binary.LittleEndian.PutUint16(r[5:], groupType)
	return r
}

// ReadByGroupTypeResponse is a Read By Group Type Response (0x11)
// [Vol 3, Part F, 3.4.4.10]. Every record is Length() bytes: handle(2),
// end group handle(2) and the value.
type ReadByGroupTypeResponse []byte

func (r ReadByGroupTypeResponse) AttributeOpcode() uint8    { return r[0] }
func (r ReadByGroupTypeResponse) Length() uint8             { return r[1] }
func (r ReadByGroupTypeResponse) AttributeDataList() []byte { return r[2:] }

// Groups splits the attribute data list into records.
func (r ReadByGroupTypeResponse) Groups() []Group {
	n := int(r.Length())
	if n < 4 {
		return nil
	}
	var gg []Group
	for b := r.AttributeDataList(); len(b) >= n; b = b[n:] {
		gg = append(gg, Group{
			Handle:    binary.LittleEndian.Uint16(b[0:]),
			EndHandle: binary.LittleEndian.Uint16(b[2:]),
			Value:     b[4:n],
		})
	}
	return gg
}
