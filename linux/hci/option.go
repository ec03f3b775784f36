package hci

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci/cmd"
)

// SetCommandTimeout sets how long Send and each bring-up step wait.
func (h *HCI) SetCommandTimeout(d time.Duration) error {
	if d <= 0 {
		return errors.Wrapf(ErrInvalidParam, "command timeout %v", d)
	}
	h.cmdTimeout = d
	return nil
}

// SetPollInterval sets the sleep between mailbox checks.
func (h *HCI) SetPollInterval(d time.Duration) error {
	if d <= 0 {
		return errors.Wrapf(ErrInvalidParam, "poll interval %v", d)
	}
	h.pollInterval = d
	return nil
}

// SetCaptureFile records every packet of the next session to path.
func (h *HCI) SetCaptureFile(path string) error {
	h.capturePath = path
	return nil
}

// SetScanParams overrides default scanning parameters.
func (h *HCI) SetScanParams(param cmd.LESetScanParameters) error {
	if err := ValidateScanParams(param); err != nil {
		return err
	}
	h.params.Lock()
	h.params.scanParams = param
	h.params.Unlock()
	return nil
}

// SetAdvParams overrides default advertising parameters.
func (h *HCI) SetAdvParams(param cmd.LESetAdvertisingParameters) error {
	if err := ValidateAdvParams(param); err != nil {
		return err
	}
	h.params.Lock()
	h.params.advParams = param
	h.params.Unlock()
	return nil
}

// SetAdvHandlerSync overrides default advertising handler behavior (async)
func (h *HCI) SetAdvHandlerSync(sync bool) error {
	h.advHandlerSync = sync
	return nil
}

// SetErrorHandler ...
func (h *HCI) SetErrorHandler(handler func(error)) error {
	h.errorHandler = handler
	return nil
}

// SetLogger replaces the engine logger.
func (h *HCI) SetLogger(l bthost.Logger) error {
	if l == nil {
		return errors.Wrap(ErrInvalidParam, "nil logger")
	}
	h.baseLog = l
	h.log = l
	return nil
}

// SetTransport uses t as is.
func (h *HCI) SetTransport(t bthost.Transport) error {
	return h.setTransport(transportConfig{kind: transportCustom, custom: t})
}

// SetTransportUSB selects usbfs, enumerating devices under sysfsRoot.
func (h *HCI) SetTransportUSB(sysfsRoot string) error {
	return h.setTransport(transportConfig{kind: transportUSB, sysfsRoot: sysfsRoot})
}

// SetTransportUART selects an H4 UART at baud.
func (h *HCI) SetTransportUART(baud uint) error {
	return h.setTransport(transportConfig{kind: transportUART, baud: baud})
}

// SetTransportHCISocket selects the HCI user channel.
func (h *HCI) SetTransportHCISocket() error {
	return h.setTransport(transportConfig{kind: transportSocket})
}

// SetTransportTCP selects an H4 stream served at addr.
func (h *HCI) SetTransportTCP(addr string, timeout time.Duration) error {
	return h.setTransport(transportConfig{kind: transportTCP, addr: addr, timeout: timeout})
}

func (h *HCI) setTransport(c transportConfig) error {
	if h.isOpen() {
		return ErrAlreadyOpen
	}
	h.tcfg = c
	h.transport = nil
	return nil
}
