package hci

import "github.com/pkg/errors"

// errors
var (
	ErrNotOpen      = errors.New("hci not open")
	ErrAlreadyOpen  = errors.New("hci already open")
	ErrEIRTooLong   = errors.New("advertising data too long")
	ErrNoTransport  = errors.New("no transport configured")
	ErrInvalidParam = errors.New("invalid parameter")
)

// HCI status codes [Vol 2, Part D, 1.3]
const (
	ErrUnknownCommand    ErrCommand = 0x01
	ErrConnID            ErrCommand = 0x02
	ErrHardware          ErrCommand = 0x03
	ErrAuth              ErrCommand = 0x05
	ErrMemoryCapacity    ErrCommand = 0x07
	ErrConnTimeout       ErrCommand = 0x08
	ErrConnLimit         ErrCommand = 0x09
	ErrDisallowed        ErrCommand = 0x0C
	ErrLimitedResource   ErrCommand = 0x0D
	ErrUnsupportedParams ErrCommand = 0x11
	ErrInvalidParams     ErrCommand = 0x12
	ErrRemoteUser        ErrCommand = 0x13
	ErrLocalHost         ErrCommand = 0x16
	ErrUnspecified       ErrCommand = 0x1F
	ErrControllerBusy    ErrCommand = 0x3A
	ErrConnParams        ErrCommand = 0x3B
	ErrDirAdvTimeout     ErrCommand = 0x3C
	ErrMIC               ErrCommand = 0x3D
	ErrEstablished       ErrCommand = 0x3E
)

// ErrCommand is a non-zero HCI status returned by the controller.
type ErrCommand byte

func (e ErrCommand) Error() string {
	if s, ok := errCmd[e]; ok {
		return s
	}
	// unknown codes are treated as Unspecified Error
	return errCmd[ErrUnspecified]
}

var errCmd = map[ErrCommand]string{
	0x00: "Success",
	0x01: "Unknown HCI Command",
	0x02: "Unknown Connection Identifier",
	0x03: "Hardware Failure",
	0x04: "Page Timeout",
	0x05: "Authentication Failure",
	0x06: "PIN or Key Missing",
	0x07: "Memory Capacity Exceeded",
	0x08: "Connection Timeout",
	0x09: "Connection Limit Exceeded",
	0x0A: "Synchronous Connection Limit To A Device Exceeded",
	0x0B: "ACL Connection Already Exists",
	0x0C: "Command Disallowed",
	0x0D: "Connection Rejected due to Limited Resources",
	0x0E: "Connection Rejected Due To Security Reasons",
	0x0F: "Connection Rejected due to Unacceptable BD_ADDR",
	0x10: "Connection Accept Timeout Exceeded",
	0x11: "Unsupported Feature or Parameter Value",
	0x12: "Invalid HCI Command Parameters",
	0x13: "Remote User Terminated Connection",
	0x14: "Remote Device Terminated Connection due to Low Resources",
	0x15: "Remote Device Terminated Connection due to Power Off",
	0x16: "Connection Terminated By Local Host",
	0x17: "Repeated Attempts",
	0x18: "Pairing Not Allowed",
	0x19: "Unknown LMP PDU",
	0x1A: "Unsupported Remote Feature",
	0x1E: "Invalid LMP Parameters",
	0x1F: "Unspecified Error",
	0x20: "Unsupported LMP Parameter Value",
	0x22: "LMP Response Timeout",
	0x28: "Instant Passed",
	0x2F: "Insufficient Security",
	0x30: "Parameter Out Of Mandatory Range",
	0x3A: "Controller Busy",
	0x3B: "Unacceptable Connection Parameters",
	0x3C: "Advertising Timeout",
	0x3D: "Connection Terminated due to MIC Failure",
	0x3E: "Connection Failed to be Established",
	0x3F: "MAC Connection Failed",
}
