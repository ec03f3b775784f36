package bthost

// Advertisement is a received advertising report, merged with its scan
// response when one was seen.
type Advertisement interface {
	LocalName() string
	ManufacturerData() []byte
	Services() []UUID
	TxPowerLevel() int
	Connectable() bool
	RSSI() int
	Addr() Addr
	EventType() uint8
	Data() []byte
	ScanResponse() []byte

	ToMap() map[string]interface{}
}

// AdvertisementMapKeys are the keys ToMap sets besides the AD fields.
var AdvertisementMapKeys = struct {
	MAC         string
	RSSI        string
	Connectable string
	EventType   string
}{
	MAC:         "mac",
	RSSI:        "rssi",
	Connectable: "connectable",
	EventType:   "eventType",
}
