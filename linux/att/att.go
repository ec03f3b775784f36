// Package att implements the server side of the Attribute Protocol on the
// fixed LE attribute channel. Only Read By Group Type is answered.
package att

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

// Attribute opcodes [Vol 3, Part F, 3.4.8]
const (
	ErrorResponseCode                = 0x01
	ExchangeMTURequestCode           = 0x02
	ExchangeMTUResponseCode          = 0x03
	FindInformationRequestCode       = 0x04
	FindInformationResponseCode      = 0x05
	FindByTypeValueRequestCode       = 0x06
	FindByTypeValueResponseCode      = 0x07
	ReadByTypeRequestCode            = 0x08
	ReadByTypeResponseCode           = 0x09
	ReadRequestCode                  = 0x0A
	ReadResponseCode                 = 0x0B
	ReadBlobRequestCode              = 0x0C
	ReadBlobResponseCode             = 0x0D
	ReadMultipleRequestCode          = 0x0E
	ReadMultipleResponseCode         = 0x0F
	ReadByGroupTypeRequestCode       = 0x10
	ReadByGroupTypeResponseCode      = 0x11
	ReadMultipleVariableRequestCode  = 0x20
	ReadMultipleVariableResponseCode = 0x21
)

var opNames = map[byte]string{
	ErrorResponseCode:                "Error Response",
	ExchangeMTURequestCode:           "Exchange MTU Request",
	ExchangeMTUResponseCode:          "Exchange MTU Response",
	FindInformationRequestCode:       "Find Information Request",
	FindInformationResponseCode:      "Find Information Response",
	FindByTypeValueRequestCode:       "Find By Type Value Request",
	FindByTypeValueResponseCode:      "Find By Type Value Response",
	ReadByTypeRequestCode:            "Read By Type Request",
	ReadByTypeResponseCode:           "Read By Type Response",
	ReadRequestCode:                  "Read Request",
	ReadResponseCode:                 "Read Response",
	ReadBlobRequestCode:              "Read Blob Request",
	ReadBlobResponseCode:             "Read Blob Response",
	ReadMultipleRequestCode:          "Read Multiple Request",
	ReadMultipleResponseCode:         "Read Multiple Response",
	ReadByGroupTypeRequestCode:       "Read By Group Type Request",
	ReadByGroupTypeResponseCode:      "Read By Group Type Response",
	ReadMultipleVariableRequestCode:  "Read Multiple Variable Request",
	ReadMultipleVariableResponseCode: "Read Multiple Variable Response",
}

// OpName returns the name of an attribute opcode.
func OpName(op byte) string {
	if n, ok := opNames[op]; ok {
		return n
	}
	return fmt.Sprintf("Unknown Opcode 0x%02X", op)
}

// ErrorCode is an ATT error code carried in an Error Response.
type ErrorCode byte

// Error codes [Vol 3, Part F, 3.4.1.1]
const (
	ErrInvalidHandle      ErrorCode = 0x01
	ErrReadNotPermitted   ErrorCode = 0x02
	ErrWriteNotPermitted  ErrorCode = 0x03
	ErrInvalidPDU         ErrorCode = 0x04
	ErrAuthentication     ErrorCode = 0x05
	ErrRequestNotSupp     ErrorCode = 0x06
	ErrInvalidOffset      ErrorCode = 0x07
	ErrAuthorization      ErrorCode = 0x08
	ErrPrepareQueueFull   ErrorCode = 0x09
	ErrAttributeNotFound  ErrorCode = 0x0A
	ErrAttributeNotLong   ErrorCode = 0x0B
	ErrUnsupportedGroup   ErrorCode = 0x10
	ErrInsufficientResrcs ErrorCode = 0x11
)

var errNames = map[ErrorCode]string{
	ErrInvalidHandle:      "invalid handle",
	ErrReadNotPermitted:   "read not permitted",
	ErrWriteNotPermitted:  "write not permitted",
	ErrInvalidPDU:         "invalid pdu",
	ErrAuthentication:     "insufficient authentication",
	ErrRequestNotSupp:     "request not supported",
	ErrInvalidOffset:      "invalid offset",
	ErrAuthorization:      "insufficient authorization",
	ErrPrepareQueueFull:   "prepare queue full",
	ErrAttributeNotFound:  "attribute not found",
	ErrAttributeNotLong:   "attribute not long",
	ErrUnsupportedGroup:   "unsupported group type",
	ErrInsufficientResrcs: "insufficient resources",
}

func (e ErrorCode) Error() string {
	if n, ok := errNames[e]; ok {
		return n
	}
	return fmt.Sprintf("att error 0x%02X", byte(e))
}

// errorCodeFor maps a database error to the code sent back to the client.
func errorCodeFor(err error) ErrorCode {
	cause := errors.Cause(err)
	if c, ok := cause.(ErrorCode); ok {
		return c
	}
	switch cause {
	case bthost.ErrInvalidAttributeRange, bthost.ErrAttributeNotFound:
		return ErrAttributeNotFound
	}
	return ErrUnsupportedGroup
}

// NewErrorResponse builds an Error Response for the request opcode op.
func NewErrorResponse(op byte, h uint16, code ErrorCode) []byte {
	return []byte{ErrorResponseCode, op, byte(h), byte(h >> 8), byte(code)}
}
