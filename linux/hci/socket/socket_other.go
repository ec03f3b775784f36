// +build !linux

package socket

import (
	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci/h4"
)

// ListDevices is unavailable off Linux.
func ListDevices() ([]bthost.Device, error) {
	return nil, errors.New("hci user channel is only available on linux")
}

// NewTransport returns a transport whose device list is always an error.
func NewTransport() *h4.Transport {
	return h4.New("socket", ListDevices, nil)
}
