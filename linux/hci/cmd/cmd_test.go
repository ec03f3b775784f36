package cmd

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		c    Command
		want []byte
	}{
		{&Reset{}, []byte{0x03, 0x0C, 0x00}},
		{&ReadLocalName{}, []byte{0x14, 0x0C, 0x00}},
		{&ReadBDADDR{}, []byte{0x09, 0x10, 0x00}},
		{&LESetAdvertiseEnable{AdvertisingEnable: 1}, []byte{0x0A, 0x20, 0x01, 0x01}},
		{&Disconnect{ConnectionHandle: 0x0040, Reason: 0x13}, []byte{0x06, 0x04, 0x03, 0x40, 0x00, 0x13}},
		{&LESetScanEnable{LEScanEnable: 1, FilterDuplicates: 0}, []byte{0x0C, 0x20, 0x02, 0x01, 0x00}},
		{&Raw{Op: OpCode(OGFVendor, 0x0001), Params: []byte{0xAA}}, []byte{0x01, 0xFC, 0x01, 0xAA}},
	}

	for _, c := range cases {
		b, err := Encode(c.c)
		if err != nil {
			t.Fatalf("%v: %v", c.c, err)
		}
		if !bytes.Equal(b, c.want) {
			t.Fatalf("%v: got % X, want % X", c.c, b, c.want)
		}
	}
}

func TestEncodeLengths(t *testing.T) {
	// every command's Len matches what Marshal writes
	cc := []Command{
		&Disconnect{}, &SetEventMask{}, &Reset{}, &WriteLocalName{}, &ReadLocalName{},
		&ReadLocalVersionInformation{}, &ReadLocalSupportedCommands{}, &ReadLocalSupportedFeatures{},
		&ReadBufferSize{}, &ReadBDADDR{}, &ReadLocalSupportedCodecs{}, &LESetEventMask{},
		&LEReadBufferSize{}, &LEReadLocalSupportedFeatures{}, &LESetAdvertisingParameters{},
		&LEReadAdvertisingChannelTxPower{}, &LESetAdvertisingData{}, &LESetScanResponseData{},
		&LESetAdvertiseEnable{}, &LESetScanParameters{}, &LESetScanEnable{},
	}
	for _, c := range cc {
		if n := binary.Size(c); n != c.Len() {
			t.Errorf("%v: binary size %d, Len %d", c, n, c.Len())
		}
		b, err := Encode(c)
		if err != nil {
			t.Fatalf("%v: %v", c, err)
		}
		if int(b[2]) != c.Len() || len(b) != 3+c.Len() {
			t.Errorf("%v: bad header % X", c, b[:3])
		}
		if Name(c.OpCode()) == "" {
			t.Errorf("%v: no name", c)
		}
	}
}

func TestSetEventMaskDefault(t *testing.T) {
	b, err := Encode(&SetEventMask{EventMask: DefaultEventMask})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x01, 0x0C, 0x08, 0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x3F}
	if !bytes.Equal(b, want) {
		t.Fatalf("got % X, want % X", b, want)
	}
	if DefaultEventMask.InquiryComplete() {
		t.Fatal("inquiry complete should be masked")
	}
	if !DefaultEventMask.LEMeta() || !DefaultEventMask.DisconnectionComplete() {
		t.Fatal("expected LE meta and disconnection complete enabled")
	}
}

func TestMaskBitOrder(t *testing.T) {
	// bit 0 is the LSB of the first byte on the wire
	var m LEEventMask
	m = m.Set(LEEvtAdvertisingReport)
	b, _ := Encode(&LESetEventMask{LEEventMask: m})
	if b[3] != 0x02 {
		t.Fatalf("first mask byte 0x%02X", b[3])
	}
	if !m.AdvertisingReport() || m.ConnectionComplete() {
		t.Fatal("accessors disagree with bit")
	}
	if m.Clear(LEEvtAdvertisingReport) != 0 {
		t.Fatal("clear failed")
	}
	if m.Has(64) {
		t.Fatal("out of range bit reported set")
	}

	rp := &LEReadLocalSupportedFeaturesRP{}
	if err := rp.Unmarshal([]byte{0x00, 0x01, 0x01, 0, 0, 0, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	f := rp.LEFeatures
	if !f.Encryption() || !f.PHY2M() || f.Ping() {
		t.Fatalf("features %v", f)
	}
}

func TestReturnParameters(t *testing.T) {
	rp := ReturnParameters((&ReadBDADDR{}).OpCode())
	if rp == nil {
		t.Fatal("no rp for Read BD_ADDR")
	}
	if err := rp.Unmarshal([]byte{0x00, 1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatal(err)
	}
	a := rp.(*ReadBDADDRRP)
	if a.BDADDR != [6]byte{1, 2, 3, 4, 5, 6} {
		t.Fatalf("got %v", a.BDADDR)
	}

	// short return parameters fail instead of half filling
	if err := ReturnParameters((&ReadBufferSize{}).OpCode()).Unmarshal([]byte{0x00, 0x1B}); err == nil {
		t.Fatal("expected error for short rp")
	}

	if ReturnParameters(OpCode(OGFVendor, 0x0123)) != nil {
		t.Fatal("unknown opcode should have no rp")
	}
}

func TestReadLocalName(t *testing.T) {
	b := make([]byte, 249)
	copy(b[1:], "bthost")
	rp := &ReadLocalNameRP{}
	if err := rp.Unmarshal(b); err != nil {
		t.Fatal(err)
	}
	if rp.Name() != "bthost" {
		t.Fatalf("got %q", rp.Name())
	}
}

func TestReadLocalSupportedCodecs(t *testing.T) {
	rp := &ReadLocalSupportedCodecsRP{}
	err := rp.Unmarshal([]byte{0x00, 0x02, 0x02, 0x05, 0x01, 0x01, 0x02, 0x03, 0x04})
	if err != nil {
		t.Fatal(err)
	}
	if len(rp.SupportedCodecs) != 2 || rp.SupportedCodecs[1] != 0x05 {
		t.Fatalf("codecs %v", rp.SupportedCodecs)
	}
	if len(rp.VendorSpecificCodecs) != 1 || rp.VendorSpecificCodecs[0] != 0x04030201 {
		t.Fatalf("vendor codecs %v", rp.VendorSpecificCodecs)
	}

	if err := rp.Unmarshal([]byte{0x00, 0x03, 0x01}); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpCodeFields(t *testing.T) {
	op := (&LESetScanEnable{}).OpCode()
	if OGF(op) != OGFLE || OCF(op) != 0x000C || op != 0x200C {
		t.Fatalf("op 0x%04X ogf 0x%02X ocf 0x%04X", op, OGF(op), OCF(op))
	}
}
