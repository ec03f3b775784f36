package bthost

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rigado/bthost/sliceops"
)

// UUID is a Bluetooth UUID in wire order (little-endian), 2, 4 or 16 bytes long.
type UUID []byte

// UUID16 converts a 16-bit UUID.
func UUID16(i uint16) UUID {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, i)
	return UUID(b)
}

// ParseUUID parses "180F", "0000180f", or the canonical 128-bit form.
func ParseUUID(s string) (UUID, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	switch len(s) {
	case 4, 8:
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, errors.Wrapf(err, "uuid %q", s)
		}
		return UUID(sliceops.SwapBuf(b)), nil
	}

	u, err := uuid.Parse(s)
	if err != nil {
		return nil, errors.Wrapf(err, "uuid %q", s)
	}
	return UUID(sliceops.SwapBuf(u[:])), nil
}

// MustParseUUID is ParseUUID that panics on error.
func MustParseUUID(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// Len returns the length in bytes.
func (u UUID) Len() int {
	return len(u)
}

// Equal reports whether u and v are the same bytes.
func (u UUID) Equal(v UUID) bool {
	return bytes.Equal(u, v)
}

func (u UUID) String() string {
	switch len(u) {
	case 2, 4:
		return strings.ToUpper(hex.EncodeToString(sliceops.SwapBuf(u)))
	case 16:
		var g uuid.UUID
		copy(g[:], sliceops.SwapBuf(u))
		return g.String()
	}
	return fmt.Sprintf("invalid uuid % X", []byte(u))
}
