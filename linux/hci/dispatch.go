package hci

import (
	"github.com/pkg/errors"
	"github.com/rigado/bthost/linux/hci/cmd"
	"github.com/rigado/bthost/linux/hci/evt"
)

func (h *HCI) handleCommandComplete(e evt.Event) {
	cc := e.(*evt.CommandComplete)

	// NOP command, used for flow control purpose [Vol 2, Part E, 4.4]
	if cc.CommandOpcode == 0x0000 {
		h.log.Debugf("controller accepts %d command(s)", cc.NumHCICommandPackets)
		return
	}
	if s := cc.Status(); s != 0x00 {
		h.log.Warnf("%s failed: %v", cmd.Name(int(cc.CommandOpcode)), ErrCommand(s))
	}
}

func (h *HCI) handleCommandStatus(e evt.Event) {
	cs := e.(*evt.CommandStatus)
	if cs.Status != 0x00 {
		h.log.Warnf("%s rejected: %v", cmd.Name(int(cs.CommandOpcode)), ErrCommand(cs.Status))
	}
}

func (h *HCI) handleLEConnectionComplete(e evt.Event) {
	lecc := e.(*evt.LEConnectionComplete)
	if lecc.Status != 0x00 {
		h.log.Warnf("connection failed: %v", ErrCommand(lecc.Status))
		return
	}

	c := newConn(lecc)
	h.muConns.Lock()
	h.conns[c.Handle] = c
	h.muConns.Unlock()
	h.log.Infof("connected: %v", c)

	// When a controller accepts a connection, it moves from advertising
	// state to idle/ready state. Host needs to explicitly ask the
	// controller to re-enable advertising.
	if c.Role == RoleSlave {
		h.readvertise()
	}
}

func (h *HCI) handleLEConnectionUpdateComplete(e evt.Event) {
	u := e.(*evt.LEConnectionUpdateComplete)
	if u.Status != 0x00 {
		h.log.Warnf("connection update 0x%04X failed: %v", u.ConnectionHandle, ErrCommand(u.Status))
		return
	}

	h.muConns.Lock()
	c, ok := h.conns[u.ConnectionHandle]
	if ok {
		c.Interval = u.ConnInterval
		c.Latency = u.ConnLatency
		c.SupervisionTimeout = u.SupervisionTimeout
	}
	h.muConns.Unlock()

	h.log.Infof("connection 0x%04X updated: interval %v, latency %d, timeout %v",
		u.ConnectionHandle, evt.ConnIntervalDuration(u.ConnInterval), u.ConnLatency,
		evt.SupervisionTimeoutDuration(u.SupervisionTimeout))
}

func (h *HCI) handleDisconnectionComplete(e evt.Event) {
	dc := e.(*evt.DisconnectionComplete)

	h.muConns.Lock()
	c, found := h.conns[dc.ConnectionHandle]
	delete(h.conns, dc.ConnectionHandle)
	h.muConns.Unlock()

	if !found {
		h.log.Debugf("disconnect complete for unknown handle 0x%04X", dc.ConnectionHandle)
		return
	}
	h.log.Infof("disconnected 0x%04X: %v", dc.ConnectionHandle, ErrCommand(dc.Reason))

	// Re-enable advertising, if it was advertising. This may fail with
	// ErrDisallowed if the controller is still advertising.
	if c.Role == RoleSlave {
		h.readvertise()
	}
}

func (h *HCI) readvertise() {
	if !h.params.advertising() {
		return
	}
	go func() {
		h.params.RLock()
		en := h.params.advEnable
		h.params.RUnlock()
		if err := h.Send(&en, nil); err != nil {
			h.log.Debugf("re-enable advertising: %v", err)
		}
	}()
}

func (h *HCI) handleNumberOfCompletedPackets(e evt.Event) {
	nocp := e.(*evt.NumberOfCompletedPackets)

	h.muConns.Lock()
	defer h.muConns.Unlock()
	for i, ch := range nocp.ConnectionHandle {
		if c, found := h.conns[ch]; found {
			c.Completed += int(nocp.HCNumOfCompletedPackets[i])
		}
	}
}

func (h *HCI) handleHardwareError(e evt.Event) {
	he := e.(*evt.HardwareError)
	h.dispatchError(errors.Errorf("controller hardware error 0x%02X", he.HardwareCode))
}
