package hci

import (
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/adv"
	"github.com/rigado/bthost/linux/hci/cmd"
)

// Addr returns the public address read during Init.
func (h *HCI) Addr() bthost.Addr {
	if h.info == nil {
		return bthost.Addr{}
	}
	return h.info.Addr
}

// SetAdvHandler sets the handler for advertisements received while
// scanning. It may be called while the HCI is open.
func (h *HCI) SetAdvHandler(ah AdvHandler) error {
	h.muHandlers.Lock()
	h.advHandler = ah
	h.muHandlers.Unlock()
	return nil
}

// Scan applies the scan parameters and starts scanning.
func (h *HCI) Scan(allowDup bool) error {
	h.params.Lock()
	sp := h.params.scanParams
	h.params.scanEnable.FilterDuplicates = 1
	if allowDup {
		h.params.scanEnable.FilterDuplicates = 0
	}
	h.params.scanEnable.LEScanEnable = 1
	se := h.params.scanEnable
	h.params.Unlock()

	if err := h.Send(&sp, nil); err != nil {
		return err
	}
	return h.Send(&se, nil)
}

// StopScanning stops scanning.
func (h *HCI) StopScanning() error {
	h.params.Lock()
	h.params.scanEnable.LEScanEnable = 0
	se := h.params.scanEnable
	h.params.Unlock()
	return h.Send(&se, nil)
}

// AdvertiseNameAndServices advertises device name, and specified service UUIDs.
// It tries to fit the UUIDs in the advertising data as much as possible.
// If name doesn't fit in the advertising data, it will be put in scan response.
func (h *HCI) AdvertiseNameAndServices(name string, uuids ...bthost.UUID) error {
	ad, sr, err := NameAndServicesPackets(name, uuids...)
	if err != nil {
		return err
	}
	if err := h.SetAdvertisement(ad.Bytes(), sr.Bytes()); err != nil {
		return err
	}
	return h.Advertise()
}

// NameAndServicesPackets lays out the advertising data and scan response
// used by AdvertiseNameAndServices.
func NameAndServicesPackets(name string, uuids ...bthost.UUID) (ad, sr *adv.Packet, err error) {
	ad, err = adv.NewPacket(adv.Flags(adv.FlagGeneralDiscoverable | adv.FlagLEOnly))
	if err != nil {
		return nil, nil, err
	}
	f := adv.AllUUID

	// Current length of ad packet plus two bytes of length and tag.
	l := ad.Len() + 1 + 1
	for _, u := range uuids {
		l += u.Len()
	}
	if l > adv.MaxEIRPacketLength {
		f = adv.SomeUUID
	}
	for _, u := range uuids {
		if err := ad.Append(f(u)); err != nil {
			if err == adv.ErrNotFit {
				break
			}
			return nil, nil, err
		}
	}
	sr, _ = adv.NewPacket()
	switch {
	case ad.Append(adv.CompleteName(name)) == nil:
	case sr.Append(adv.CompleteName(name)) == nil:
	case sr.Append(adv.ShortName(name)) == nil:
	}
	return ad, sr, nil
}

// AdvertiseMfgData avertises the given manufacturer data.
func (h *HCI) AdvertiseMfgData(id uint16, md []byte) error {
	ad, err := adv.NewPacket(adv.ManufacturerData(id, md))
	if err != nil {
		return err
	}
	if err := h.SetAdvertisement(ad.Bytes(), nil); err != nil {
		return err
	}
	return h.Advertise()
}

// Advertise applies the advertising parameters and starts advertising.
func (h *HCI) Advertise() error {
	h.params.Lock()
	ap := h.params.advParams
	h.params.advEnable.AdvertisingEnable = 1
	ae := h.params.advEnable
	h.params.Unlock()

	if err := h.Send(&ap, nil); err != nil {
		return err
	}
	return h.Send(&ae, nil)
}

// StopAdvertising stops advertising.
func (h *HCI) StopAdvertising() error {
	h.params.Lock()
	h.params.advEnable.AdvertisingEnable = 0
	ae := h.params.advEnable
	h.params.Unlock()
	return h.Send(&ae, nil)
}

// SetAdvertisement sets advertising data and scanResp.
func (h *HCI) SetAdvertisement(ad []byte, sr []byte) error {
	if len(ad) > adv.MaxEIRPacketLength || len(sr) > adv.MaxEIRPacketLength {
		return ErrEIRTooLong
	}

	var data cmd.LESetAdvertisingData
	data.AdvertisingDataLength = uint8(len(ad))
	copy(data.AdvertisingData[:], ad)

	var resp cmd.LESetScanResponseData
	resp.ScanResponseDataLength = uint8(len(sr))
	copy(resp.ScanResponseData[:], sr)

	h.params.Lock()
	h.params.advData = data
	h.params.scanResp = resp
	h.params.Unlock()

	if err := h.Send(&data, nil); err != nil {
		return err
	}
	return h.Send(&resp, nil)
}
