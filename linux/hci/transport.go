package hci

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci/h4"
	"github.com/rigado/bthost/linux/hci/socket"
	"github.com/rigado/bthost/linux/hci/usb"
)

const (
	transportUSB    = "usb"
	transportUART   = "uart"
	transportSocket = "socket"
	transportTCP    = "tcp"
	transportCustom = "custom"
)

type transportConfig struct {
	kind string

	sysfsRoot string
	baud      uint

	addr    string
	timeout time.Duration

	custom bthost.Transport
}

func (c transportConfig) build() (bthost.Transport, error) {
	switch c.kind {
	case transportUSB:
		return usb.New(c.sysfsRoot), nil

	case transportUART:
		return h4.NewUART(c.baud), nil

	case transportSocket:
		return socket.NewTransport(), nil

	case transportTCP:
		return h4.NewTCP(c.addr, c.timeout), nil

	case transportCustom:
		if c.custom == nil {
			return nil, ErrNoTransport
		}
		return c.custom, nil

	default:
		return nil, errors.Wrapf(ErrNoTransport, "unknown transport %q", c.kind)
	}
}
