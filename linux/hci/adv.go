package hci

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/adv"
	"github.com/rigado/bthost/linux/hci/evt"
)

// AdvHandler receives advertisements while scanning.
type AdvHandler func(a *Advertisement)

// [Vol 6, Part B, 4.4.2] [Vol 3, Part C, 11]
const (
	evtTypAdvInd        = 0x00 // Connectable undirected advertising (ADV_IND).
	evtTypAdvDirectInd  = 0x01 // Connectable directed advertising (ADV_DIRECT_IND).
	evtTypAdvScanInd    = 0x02 // Scannable undirected advertising (ADV_SCAN_IND).
	evtTypAdvNonconnInd = 0x03 // Non connectable undirected advertising (ADV_NONCONN_IND).
	evtTypScanRsp       = 0x04 // Scan Response (SCAN_RSP).
)

var _ bthost.Advertisement = (*Advertisement)(nil)

// Advertisement is one advertising report, merged with its scan response
// when one has been seen.
type Advertisement struct {
	r  evt.AdvReport
	sr *Advertisement

	// cached packets.
	p *adv.Packet
}

func newAdvertisement(r evt.AdvReport) (*Advertisement, error) {
	a := &Advertisement{r: r}
	if _, err := a.packets(); err != nil {
		return nil, err
	}
	return a, nil
}

// withScanResponse returns a new advertisement merging a with sr. a may
// already be held by a handler, so it is left untouched.
func (a *Advertisement) withScanResponse(sr *Advertisement) (*Advertisement, error) {
	p, err := adv.NewRawPacket(a.r.Data, sr.r.Data)
	if err != nil {
		return nil, err
	}
	return &Advertisement{r: a.r, sr: sr, p: p}, nil
}

// packets returns the combined advertising packet and scan response (if presents)
func (a *Advertisement) packets() (*adv.Packet, error) {
	if a.p != nil {
		return a.p, nil
	}
	p, err := adv.NewRawPacket(a.Data(), a.ScanResponse())
	if err != nil {
		return nil, err
	}
	a.p = p
	return p, nil
}

// LocalName returns the LocalName of the remote peripheral.
func (a *Advertisement) LocalName() string { return a.p.LocalName() }

// ManufacturerData returns the ManufacturerData of the advertisement.
func (a *Advertisement) ManufacturerData() []byte { return a.p.ManufacturerData() }

// Services returns the service UUIDs of the advertisement.
func (a *Advertisement) Services() []bthost.UUID { return a.p.UUIDs() }

// TxPowerLevel returns the tx power level of the remote peripheral.
func (a *Advertisement) TxPowerLevel() int {
	pwr, _ := a.p.TxPower()
	return pwr
}

// Connectable indicates weather the remote peripheral is connectable.
func (a *Advertisement) Connectable() bool {
	t := a.r.EventType
	return t == evtTypAdvDirectInd || t == evtTypAdvInd
}

// RSSI returns RSSI signal strength.
func (a *Advertisement) RSSI() int { return int(a.r.RSSI) }

// Addr returns the address of the remote peripheral.
func (a *Advertisement) Addr() bthost.Addr { return a.r.Address }

// EventType returns the event type of Advertisement.
func (a *Advertisement) EventType() uint8 { return a.r.EventType }

// AddressType returns the address type of the Advertisement.
func (a *Advertisement) AddressType() uint8 { return a.r.AddressType }

// Data returns the advertising data of the packet.
func (a *Advertisement) Data() []byte { return a.r.Data }

// ScanResponse returns the scan response of the packet, if it presents.
func (a *Advertisement) ScanResponse() []byte {
	if a.sr == nil {
		return nil
	}
	return a.sr.Data()
}

// ToMap flattens the advertisement for printing or JSON output.
func (a *Advertisement) ToMap() map[string]interface{} {
	m := make(map[string]interface{})
	for k, v := range a.p.Map() {
		m[k] = v
	}
	keys := bthost.AdvertisementMapKeys
	m[keys.MAC] = strings.Replace(a.Addr().String(), ":", "", -1)
	m[keys.EventType] = a.EventType()
	m[keys.Connectable] = a.Connectable()
	if r := a.RSSI(); r != 0 {
		m[keys.RSSI] = r
	} else {
		m[keys.RSSI] = -128
	}
	return m
}

func (h *HCI) handleLEAdvertisingReport(e evt.Event) {
	h.muHandlers.RLock()
	handler := h.advHandler
	h.muHandlers.RUnlock()
	if handler == nil {
		return
	}

	for _, r := range e.(*evt.LEAdvertisingReport).Reports {
		a, err := h.advertisement(r)
		if err != nil {
			h.dispatchError(errors.Wrapf(err, "adv report from %s type %d [% X]", r.Address, r.EventType, r.Data))
			continue
		}

		//dispatch
		if h.advHandlerSync {
			handler(a)
		} else {
			go handler(a)
		}
	}
}

func (h *HCI) advertisement(r evt.AdvReport) (*Advertisement, error) {
	switch r.EventType {
	case evtTypAdvInd, evtTypAdvScanInd:
		a, err := newAdvertisement(r)
		if err != nil {
			return nil, err
		}
		h.adHist[h.adLast] = a
		h.adLast++
		if h.adLast == len(h.adHist) {
			h.adLast = 0
		}
		return a, nil

	case evtTypScanRsp:
		sr := &Advertisement{r: r}
		// walk the history backwards from the newest entry
		for n := 1; n <= len(h.adHist); n++ {
			idx := (h.adLast - n + len(h.adHist)) % len(h.adHist)
			ah := h.adHist[idx]
			if ah == nil {
				break
			}
			if ah.r.Address == r.Address {
				m, err := ah.withScanResponse(sr)
				if err != nil {
					return nil, err
				}
				h.adHist[idx] = m
				return m, nil
			}
		}
		return nil, errors.New("scan response without advertisement")

	case evtTypAdvDirectInd, evtTypAdvNonconnInd:
		return newAdvertisement(r)

	default:
		return nil, errors.Errorf("invalid event type %d", r.EventType)
	}
}
