package bthost

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rigado/bthost/sliceops"
)

// Addr is a BD_ADDR in wire order (least significant byte first).
type Addr [6]byte

// NewAddr parses an address in the usual display form "AA:BB:CC:DD:EE:FF".
func NewAddr(s string) (Addr, error) {
	var a Addr
	b, err := hex.DecodeString(strings.Replace(s, ":", "", -1))
	if err != nil {
		return a, errors.Wrapf(err, "address %q", s)
	}
	if len(b) != len(a) {
		return a, fmt.Errorf("address %q: want 6 bytes, got %d", s, len(b))
	}
	copy(a[:], sliceops.SwapBuf(b))
	return a, nil
}

// String returns the address most significant byte first.
func (a Addr) String() string {
	b := sliceops.SwapBuf(a[:])
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, ":")
}

// Bytes returns the address in wire order.
func (a Addr) Bytes() []byte {
	return append([]byte(nil), a[:]...)
}
