package bthost

import "github.com/pkg/errors"

var (
	// ErrTruncatedPacket is returned when a packet is shorter than its
	// header or fixed layout requires.
	ErrTruncatedPacket = errors.New("truncated packet")

	// ErrDeviceNotFound is returned by Open when no device matches the selection.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrCommandTimeout is returned when the expected event for a command
	// does not arrive in time.
	ErrCommandTimeout = errors.New("command timeout")

	// ErrInvalidAttributeRange is returned for an ATT handle range with
	// start of zero or start greater than end.
	ErrInvalidAttributeRange = errors.New("invalid attribute handle range")

	// ErrAttributeNotFound is returned when no attribute in range matches.
	ErrAttributeNotFound = errors.New("attribute not found")

	ErrClosed = errors.New("closed")
)

// IsTruncated reports whether err was caused by a truncated packet.
func IsTruncated(err error) bool {
	return errors.Cause(err) == ErrTruncatedPacket
}
