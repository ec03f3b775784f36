package bthost

import "fmt"

// Device describes one controller a Transport can open.
type Device struct {
	Name      string `json:"name"`
	VendorID  uint16 `json:"vendorId"`
	ProductID uint16 `json:"productId"`
	// Path is transport specific: a usbfs node, a tty, or "hciN".
	Path string `json:"path"`
}

func (d Device) String() string {
	return fmt.Sprintf("%s (%04x:%04x) %s", d.Name, d.VendorID, d.ProductID, d.Path)
}

// Transport moves raw HCI packets to and from a controller. Packets carry no
// H4 type prefix: the method or channel identifies the kind.
type Transport interface {
	Name() string

	// ListDevices enumerates candidate controllers. It has no side effects.
	ListDevices() ([]Device, error)

	// Open binds to the device matching sel, or the first device when sel
	// is nil. It returns ErrDeviceNotFound when nothing matches.
	Open(sel *Device) error
	Close() error

	SendCommand(b []byte) error
	SendACL(b []byte) error

	// Events and ACL deliver inbound packets. Both are closed by Close.
	Events() <-chan []byte
	ACL() <-chan []byte
}

// MatchDevice returns the first device in dd matching sel. A nil sel matches
// the first device; otherwise Path wins when set, else VendorID/ProductID.
func MatchDevice(dd []Device, sel *Device) (Device, error) {
	for _, d := range dd {
		switch {
		case sel == nil:
			return d, nil
		case sel.Path != "":
			if sel.Path == d.Path {
				return d, nil
			}
		case sel.VendorID == d.VendorID && sel.ProductID == d.ProductID:
			return d, nil
		}
	}
	return Device{}, ErrDeviceNotFound
}
