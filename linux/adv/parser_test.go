package adv

import (
	"bytes"
	"testing"

	"github.com/rigado/bthost"
)

type testPdu struct {
	b []byte
}

func (t *testPdu) add(recTyp byte, recBytes []byte) {
	lb := byte(len(recBytes) + 1)
	t.b = append(t.b, lb, recTyp)
	t.b = append(t.b, recBytes...)
}

func TestArrayBad(t *testing.T) {
	for typ, dec := range pduDecodeMap {
		if dec.arrayElementSz == 0 {
			continue
		}

		//len == 0
		p := testPdu{}
		p.add(typ, nil)
		if _, err := Decode(p.b); err == nil {
			t.Fatalf("type %v: len==0, no decode error", typ)
		}

		//len % arraySz != 0
		p = testPdu{}
		b := make([]byte, 2*dec.arrayElementSz+1)
		p.add(typ, b)
		if _, err := Decode(p.b); err == nil {
			t.Fatalf("type %v: len%%size != 0, no decode error", typ)
		}
	}
}

func TestDecodeOverflow(t *testing.T) {
	// declared length runs past the end
	if _, err := Decode([]byte{0x05, 0x09, 'a', 'b'}); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildAndParse(t *testing.T) {
	p, err := NewPacket(
		Flags(FlagGeneralDiscoverable|FlagLEOnly),
		AllUUID(bthost.UUID16(0x180F)),
		CompleteName("bthost"),
	)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x02, 0x01, 0x06, 0x03, 0x03, 0x0F, 0x18, 0x07, 0x09, 'b', 't', 'h', 'o', 's', 't'}
	if !bytes.Equal(p.Bytes(), want) {
		t.Fatalf("got % X", p.Bytes())
	}

	sr, err := NewPacket(ManufacturerData(0x0059, []byte{0x01}), TxPower(-4))
	if err != nil {
		t.Fatal(err)
	}

	q, err := NewRawPacket(p.Bytes(), sr.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := q.Flags(); !ok || f != 0x06 {
		t.Fatalf("flags %v %v", f, ok)
	}
	if q.LocalName() != "bthost" {
		t.Fatalf("name %q", q.LocalName())
	}
	if pw, ok := q.TxPower(); !ok || pw != -4 {
		t.Fatalf("tx power %v %v", pw, ok)
	}
	if uu := q.UUIDs(); len(uu) != 1 || uu[0].String() != "180F" {
		t.Fatalf("uuids %v", uu)
	}
	if !bytes.Equal(q.ManufacturerData(), []byte{0x59, 0x00, 0x01}) {
		t.Fatalf("mfg % X", q.ManufacturerData())
	}
}

func TestNotFit(t *testing.T) {
	p, _ := NewPacket()
	if err := p.Append(CompleteName(string(make([]byte, 30)))); err != ErrNotFit {
		t.Fatalf("got %v", err)
	}
	if p.Len() != 0 {
		t.Fatal("packet modified")
	}
	if err := p.Append(ShortName(string(make([]byte, 29)))); err != nil {
		t.Fatal(err)
	}
}

func TestServicesAccumulate(t *testing.T) {
	u128 := bthost.MustParseUUID("6e400001-b5a3-f393-e0a9-e50e24dcca9e")
	p, err := NewPacket(SomeUUID(bthost.UUID16(0x1800)), AllUUID(u128))
	if err != nil {
		t.Fatal(err)
	}
	q, err := NewRawPacket(p.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	uu := q.UUIDs()
	if len(uu) != 2 || !uu[1].Equal(u128) {
		t.Fatalf("uuids %v", uu)
	}
}
