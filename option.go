package bthost

import (
	"time"

	"github.com/rigado/bthost/linux/hci/cmd"
)

// DeviceOption is an interface which the device should implement to allow using configuration options
type DeviceOption interface {
	SetCommandTimeout(time.Duration) error
	SetPollInterval(time.Duration) error
	SetCaptureFile(path string) error
	SetScanParams(cmd.LESetScanParameters) error
	SetAdvParams(cmd.LESetAdvertisingParameters) error
	SetAdvHandlerSync(bool) error
	SetErrorHandler(handler func(error)) error
	SetLogger(Logger) error

	SetTransport(Transport) error
	SetTransportUSB(sysfsRoot string) error
	SetTransportUART(baud uint) error
	SetTransportHCISocket() error
	SetTransportTCP(addr string, timeout time.Duration) error
}

// An Option is a configuration function, which configures the device.
type Option func(DeviceOption) error

// OptCommandTimeout sets how long the bring-up sequence and Send wait for a
// command's completion event.
func OptCommandTimeout(d time.Duration) Option {
	return func(opt DeviceOption) error {
		return opt.SetCommandTimeout(d)
	}
}

// OptPollInterval sets the sleep between mailbox polls while waiting for an event.
func OptPollInterval(d time.Duration) Option {
	return func(opt DeviceOption) error {
		return opt.SetPollInterval(d)
	}
}

// OptCaptureFile records every packet sent and received to path.
func OptCaptureFile(path string) Option {
	return func(opt DeviceOption) error {
		return opt.SetCaptureFile(path)
	}
}

// OptScanParams overrides default scanning parameters.
func OptScanParams(param cmd.LESetScanParameters) Option {
	return func(opt DeviceOption) error {
		return opt.SetScanParams(param)
	}
}

// OptAdvParams overrides default advertising parameters.
func OptAdvParams(param cmd.LESetAdvertisingParameters) Option {
	return func(opt DeviceOption) error {
		return opt.SetAdvParams(param)
	}
}

// OptAdvHandlerSync sets sync adv handling
func OptAdvHandlerSync(sync bool) Option {
	return func(opt DeviceOption) error {
		return opt.SetAdvHandlerSync(sync)
	}
}

// OptErrorHandler sets error handler
func OptErrorHandler(handler func(error)) Option {
	return func(opt DeviceOption) error {
		return opt.SetErrorHandler(handler)
	}
}

func OptLogger(l Logger) Option {
	return func(opt DeviceOption) error {
		return opt.SetLogger(l)
	}
}

// OptTransport uses an already constructed transport.
func OptTransport(t Transport) Option {
	return func(opt DeviceOption) error {
		return opt.SetTransport(t)
	}
}

// OptTransportUSB selects the usbfs transport. An empty sysfsRoot uses /sys.
func OptTransportUSB(sysfsRoot string) Option {
	return func(opt DeviceOption) error {
		return opt.SetTransportUSB(sysfsRoot)
	}
}

// OptTransportUART selects the H4 UART transport.
func OptTransportUART(baud uint) Option {
	return func(opt DeviceOption) error {
		return opt.SetTransportUART(baud)
	}
}

// OptTransportHCISocket selects the HCI user channel socket transport.
func OptTransportHCISocket() Option {
	return func(opt DeviceOption) error {
		return opt.SetTransportHCISocket()
	}
}

// OptTransportTCP selects an H4 stream served over TCP, such as a serial
// bridge or an emulated controller.
func OptTransportTCP(addr string, timeout time.Duration) Option {
	return func(opt DeviceOption) error {
		return opt.SetTransportTCP(addr, timeout)
	}
}
