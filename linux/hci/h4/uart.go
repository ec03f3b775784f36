package h4

import (
	"io"
	"strconv"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"go.bug.st/serial/enumerator"
)

// DefaultBaudRate of HCI UART controllers.
const DefaultBaudRate = 115200

// DefaultSerialOptions returns 8N1 at DefaultBaudRate with a 100 ms
// inter-character timeout, so reads return when the line goes idle.
func DefaultSerialOptions() serial.OpenOptions {
	return serial.OpenOptions{
		BaudRate:              DefaultBaudRate,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		MinimumReadSize:       0,
		InterCharacterTimeout: 100,
	}
}

// ListUART enumerates serial ports. USB serial adapters carry their
// vendor and product ids.
func ListUART() ([]bthost.Device, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate serial ports")
	}

	var dd []bthost.Device
	for _, p := range ports {
		d := bthost.Device{Name: p.Name, Path: p.Name}
		if p.IsUSB {
			d.VendorID = parseHex16(p.VID)
			d.ProductID = parseHex16(p.PID)
			if p.Product != "" {
				d.Name = p.Product
			}
		}
		dd = append(dd, d)
	}
	return dd, nil
}

func parseHex16(s string) uint16 {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

// NewUART returns a UART transport. A zero baud uses DefaultBaudRate.
func NewUART(baud uint) *Transport {
	open := func(d bthost.Device) (io.ReadWriteCloser, error) {
		so := DefaultSerialOptions()
		so.PortName = d.Path
		if baud != 0 {
			so.BaudRate = baud
		}
		return serial.Open(so)
	}
	return New("uart", ListUART, open)
}
