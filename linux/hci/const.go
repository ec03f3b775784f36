package hci

import "time"

// HCI Packet types
const (
	PktTypeCommand uint8 = 0x01
	PktTypeACLData uint8 = 0x02
	PktTypeSCOData uint8 = 0x03
	PktTypeEvent   uint8 = 0x04
	PktTypeVendor  uint8 = 0xFF
)

const (
	// DefaultCommandTimeout bounds Send and each bring-up step.
	DefaultCommandTimeout = time.Second
	// DefaultPollInterval is the sleep between mailbox checks while waiting.
	DefaultPollInterval = 2 * time.Millisecond

	advHistorySize = 128
	maxHciPayload  = 0xFF
)

const (
	RoleMaster = 0x00
	RoleSlave  = 0x01
)
