package evt

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

func getByte(b []byte, i int, def byte) (byte, error) {
	bb, err := getBytes(b, i, 1)
	if err != nil {
		return def, err
	}
	return bb[0], nil
}

//get or default
func getUint16LE(b []byte, i int, def uint16) (uint16, error) {
	bb, err := getBytes(b, i, 2)
	if err != nil {
		return def, err
	}
	return binary.LittleEndian.Uint16(bb), nil
}

func getBytes(bytes []byte, start int, count int) ([]byte, error) {
	if start < 0 || start > len(bytes) {
		return nil, errors.Wrapf(bthost.ErrTruncatedPacket, "index %d of %d", start, len(bytes))
	}

	if count < 0 {
		return bytes[start:], nil
	}

	end := start + count
	//end is non-inclusive
	if end > len(bytes) {
		return nil, errors.Wrapf(bthost.ErrTruncatedPacket, "index %d of %d", end, len(bytes))
	}

	return bytes[start:end], nil
}

// need fails with ErrTruncatedPacket unless p holds at least n bytes.
func need(p []byte, n int, what string) error {
	if len(p) < n {
		return errors.Wrapf(bthost.ErrTruncatedPacket, "%s: need %d bytes, have %d", what, n, len(p))
	}
	return nil
}
