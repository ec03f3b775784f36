package hci

import (
	"fmt"

	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci/cmd"
)

// Info collects what the bring-up sequence learned about the controller.
// Fields of failed steps keep their zero value.
type Info struct {
	Name    string
	Addr    bthost.Addr
	Version cmd.ReadLocalVersionInformationRP

	ACLDataPacketLength uint16
	TotalNumACLPackets  uint16

	SupportedCommands cmd.ReadLocalSupportedCommandsRP
	LMPFeatures       cmd.LMPFeatures
	LEFeatures        cmd.LEFeatures

	// Failed lists the bring-up steps that got no successful completion.
	Failed []string
}

func (i *Info) String() string {
	return fmt.Sprintf("%q %s hci 0x%02X rev 0x%04X mfr 0x%04X, acl %dx%d, le features: %v",
		i.Name, i.Addr, i.Version.HCIVersion, i.Version.HCIRevision, i.Version.ManufacturerName,
		i.TotalNumACLPackets, i.ACLDataPacketLength, i.LEFeatures)
}

type initStep struct {
	c  cmd.Command
	rp cmd.CommandRP
}

// Init runs the controller bring-up sequence: each command is sent in turn
// and awaited up to the command timeout. A failed step is logged and the
// sequence goes on. The returned error is only set when the engine is not open.
func (h *HCI) Init() (*Info, error) {
	if !h.isOpen() {
		return nil, ErrNotOpen
	}

	var (
		name     cmd.ReadLocalNameRP
		bdaddr   cmd.ReadBDADDRRP
		bufSize  cmd.ReadBufferSizeRP
		version  cmd.ReadLocalVersionInformationRP
		commands cmd.ReadLocalSupportedCommandsRP
		lmp      cmd.ReadLocalSupportedFeaturesRP
		le       cmd.LEReadLocalSupportedFeaturesRP
	)

	steps := []initStep{
		{&cmd.Reset{}, nil},
		{&cmd.ReadLocalName{}, &name},
		{&cmd.ReadBDADDR{}, &bdaddr},
		{&cmd.ReadBufferSize{}, &bufSize},
		{&cmd.ReadLocalVersionInformation{}, &version},
		{&cmd.ReadLocalSupportedCommands{}, &commands},
		{&cmd.ReadLocalSupportedFeatures{}, &lmp},
		{&cmd.SetEventMask{EventMask: cmd.DefaultEventMask}, nil},
		{&cmd.LEReadLocalSupportedFeatures{}, &le},
	}

	info := &Info{}
	for _, s := range steps {
		if err := h.Send(s.c, s.rp); err != nil {
			h.log.Errorf("init: %s: %v", cmd.Name(s.c.OpCode()), err)
			info.Failed = append(info.Failed, cmd.Name(s.c.OpCode()))
		}
	}

	info.Name = name.Name()
	info.Addr = bthost.Addr(bdaddr.BDADDR)
	info.Version = version
	info.ACLDataPacketLength = bufSize.HCACLDataPacketLength
	info.TotalNumACLPackets = bufSize.HCTotalNumACLDataPackets
	info.SupportedCommands = commands
	info.LMPFeatures = lmp.LMPFeatures
	info.LEFeatures = le.LEFeatures

	h.info = info
	h.log.Infof("controller: %v", info)
	return info, nil
}
