package cmd

import (
	"fmt"
	"strings"
)

// Bit masks travel as 8 little-endian bytes: bit 0 is the least significant
// bit of the first byte on the wire.

// EventMask is the Set Event Mask parameter [Vol 2, Part E, 7.3.1].
type EventMask uint64

// Event mask bits.
const (
	EvtInquiryComplete uint = iota
	EvtInquiryResult
	EvtConnectionComplete
	EvtConnectionRequest
	EvtDisconnectionComplete
	EvtAuthenticationComplete
	EvtRemoteNameRequestComplete
	EvtEncryptionChange
	EvtChangeConnectionLinkKeyComplete
	EvtMasterLinkKeyComplete
	EvtReadRemoteSupportedFeaturesComplete
	EvtReadRemoteVersionInformationComplete
	EvtQoSSetupComplete
	_
	_
	EvtHardwareError
	EvtFlushOccurred
	EvtRoleChange
	_
	EvtModeChange
	EvtReturnLinkKeys
	EvtPINCodeRequest
	EvtLinkKeyRequest
	EvtLinkKeyNotification
	EvtLoopbackCommand
	EvtDataBufferOverflow
	EvtMaxSlotsChange
	EvtReadClockOffsetComplete
	EvtConnectionPacketTypeChanged
	EvtQoSViolation
	EvtPageScanModeChange
	EvtPageScanRepetitionModeChange
)

// EvtLEMeta is the LE Meta event bit.
const EvtLEMeta uint = 61

// DefaultEventMask enables every defined event except Inquiry Complete.
const DefaultEventMask = EventMask(0x3FFFFFFFFFFFFFFF &^ (1 << EvtInquiryComplete))

func (m EventMask) Has(bit uint) bool { return hasBit(uint64(m), bit) }
func (m EventMask) Set(bit uint) EventMask { return EventMask(uint64(m) | 1<<bit) }
func (m EventMask) Clear(bit uint) EventMask { return EventMask(uint64(m) &^ (1 << bit)) }

func (m EventMask) InquiryComplete() bool { return m.Has(EvtInquiryComplete) }
func (m EventMask) DisconnectionComplete() bool { return m.Has(EvtDisconnectionComplete) }
func (m EventMask) EncryptionChange() bool { return m.Has(EvtEncryptionChange) }
func (m EventMask) HardwareError() bool { return m.Has(EvtHardwareError) }
func (m EventMask) DataBufferOverflow() bool { return m.Has(EvtDataBufferOverflow) }
func (m EventMask) LEMeta() bool { return m.Has(EvtLEMeta) }

// LEEventMask is the LE Set Event Mask parameter [Vol 2, Part E, 7.8.1].
type LEEventMask uint64

// LE event mask bits.
const (
	LEEvtConnectionComplete uint = iota
	LEEvtAdvertisingReport
	LEEvtConnectionUpdateComplete
	LEEvtReadRemoteFeaturesComplete
	LEEvtLongTermKeyRequest
)

// DefaultLEEventMask enables the five LE events defined by Core 4.0.
const DefaultLEEventMask = LEEventMask(0x000000000000001F)

func (m LEEventMask) Has(bit uint) bool { return hasBit(uint64(m), bit) }
func (m LEEventMask) Set(bit uint) LEEventMask { return LEEventMask(uint64(m) | 1<<bit) }
func (m LEEventMask) Clear(bit uint) LEEventMask { return LEEventMask(uint64(m) &^ (1 << bit)) }

func (m LEEventMask) ConnectionComplete() bool { return m.Has(LEEvtConnectionComplete) }
func (m LEEventMask) AdvertisingReport() bool { return m.Has(LEEvtAdvertisingReport) }
func (m LEEventMask) ConnectionUpdateComplete() bool { return m.Has(LEEvtConnectionUpdateComplete) }

// LEFeatures is the LE supported features bit field [Vol 6, Part B, 4.6].
type LEFeatures uint64

// LE feature bits.
const (
	LEFeatEncryption uint = iota
	LEFeatConnectionParametersRequest
	LEFeatExtendedRejectIndication
	LEFeatPeripheralInitiatedFeaturesExchange
	LEFeatPing
	LEFeatDataPacketLengthExtension
	LEFeatLLPrivacy
	LEFeatExtendedScanningFilterPolicies
	LEFeat2MPHY
	LEFeatStableModulationIndexTx
	LEFeatStableModulationIndexRx
	LEFeatCodedPHY
	LEFeatExtendedAdvertising
	LEFeatPeriodicAdvertising
	LEFeatChannelSelectionAlgorithm2
	LEFeatPowerClass1
)

var leFeatureNames = []string{
	"LE Encryption",
	"Connection Parameters Request Procedure",
	"Extended Reject Indication",
	"Peripheral-initiated Features Exchange",
	"LE Ping",
	"LE Data Packet Length Extension",
	"LL Privacy",
	"Extended Scanning Filter Policies",
	"LE 2M PHY",
	"Stable Modulation Index - Transmitter",
	"Stable Modulation Index - Receiver",
	"LE Coded PHY",
	"LE Extended Advertising",
	"LE Periodic Advertising",
	"Channel Selection Algorithm #2",
	"LE Power Class 1",
}

func (f LEFeatures) Has(bit uint) bool { return hasBit(uint64(f), bit) }

func (f LEFeatures) Encryption() bool { return f.Has(LEFeatEncryption) }
func (f LEFeatures) Ping() bool { return f.Has(LEFeatPing) }
func (f LEFeatures) DataPacketLengthExtension() bool { return f.Has(LEFeatDataPacketLengthExtension) }
func (f LEFeatures) LLPrivacy() bool { return f.Has(LEFeatLLPrivacy) }
func (f LEFeatures) PHY2M() bool { return f.Has(LEFeat2MPHY) }
func (f LEFeatures) CodedPHY() bool { return f.Has(LEFeatCodedPHY) }
func (f LEFeatures) ExtendedAdvertising() bool { return f.Has(LEFeatExtendedAdvertising) }
func (f LEFeatures) PeriodicAdvertising() bool { return f.Has(LEFeatPeriodicAdvertising) }

// String lists the names of the set feature bits.
func (f LEFeatures) String() string {
	var ss []string
	for i, n := range leFeatureNames {
		if f.Has(uint(i)) {
			ss = append(ss, n)
		}
	}
	return fmt.Sprintf("0x%016X [%s]", uint64(f), strings.Join(ss, ", "))
}

// LMPFeatures is the LMP features page 0 bit field [Vol 2, Part C, 3.3].
type LMPFeatures uint64

// LMP feature bits used by the host.
const (
	LMPFeatEncryption    uint = 2
	LMPFeatBREDRNotSupp  uint = 37
	LMPFeatLE            uint = 38
	LMPFeatSimultLEBREDR uint = 49
)

func (f LMPFeatures) Has(bit uint) bool { return hasBit(uint64(f), bit) }
func (f LMPFeatures) LESupported() bool { return f.Has(LMPFeatLE) }
func (f LMPFeatures) BREDRSupported() bool { return !f.Has(LMPFeatBREDRNotSupp) }

func hasBit(v uint64, bit uint) bool {
	return bit < 64 && v&(1<<bit) != 0
}
