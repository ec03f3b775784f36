package hci

import (
	"sync"
	"testing"

	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci/evt"
)

var r interface{}

var ibeacon = evt.AdvReport{
	EventType:   evtTypAdvNonconnInd,
	AddressType: 1,
	Address:     bthost.Addr{144, 17, 101, 210, 60, 246},
	Data:        []byte{2, 1, 2, 26, 255, 76, 0, 2, 21, 255, 254, 45, 18, 30, 75, 15, 164, 153, 78, 4, 99, 49, 239, 205, 171, 52, 18, 120, 86, 195},
	RSSI:        -51,
}

func BenchmarkAdv2Map(b *testing.B) {
	var rr interface{}
	for i := 0; i < b.N; i++ {
		a, _ := newAdvertisement(ibeacon)
		rr = a.ToMap()
	}
	r = rr
}

func TestAdvDecode(t *testing.T) {
	// flags, then a 32 bit service list one byte long
	bad := evt.AdvReport{
		EventType: evtTypAdvInd,
		Address:   bthost.Addr{45, 58, 130, 157, 134, 122},
		Data:      []byte{2, 1, 6, 2, 5, 9, 67, 97, 115, 99, 97, 100, 101, 45, 67, 48, 51, 49, 48, 54, 49, 56, 51, 52, 45, 48, 48, 49, 57},
		RSSI:      -59,
	}
	a, err := newAdvertisement(bad)
	t.Log(a, err)
	if err == nil {
		t.Fatal("no error on malformed payload")
	}

	a, err = newAdvertisement(ibeacon)
	if err != nil {
		t.Fatal(err)
	}
	if a.Connectable() || a.RSSI() != -51 || len(a.ManufacturerData()) != 25 {
		t.Fatalf("unexpected advertisement %v", a.ToMap())
	}
}

func TestScanResponseMerge(t *testing.T) {
	ft := &fakeTransport{}
	h := newTestHCI(t, ft, bthost.OptAdvHandlerSync(true))
	defer h.Close()

	got := make(chan *Advertisement, 4)
	h.SetAdvHandler(func(a *Advertisement) { got <- a })

	addr := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	report := func(typ byte, data ...byte) []byte {
		p := []byte{evt.LEAdvertisingReportSubCode, 0x01, typ, 0x00}
		p = append(p, addr...)
		p = append(p, byte(len(data)))
		p = append(p, data...)
		p = append(p, 0xC4)
		return append([]byte{evt.LEMetaCode, byte(len(p))}, p...)
	}

	ft.evts <- report(evtTypAdvInd, 0x02, 0x01, 0x06)
	ft.evts <- report(evtTypScanRsp, 0x05, 0x09, 't', 'e', 's', 't')
	// scan response from an unknown device is dropped
	addr = []byte{0xAA, 0x02, 0x03, 0x04, 0x05, 0x06}
	ft.evts <- report(evtTypScanRsp, 0x02, 0x0A, 0x04)

	first := <-got
	if first.LocalName() != "" || first.ScanResponse() != nil || !first.Connectable() {
		t.Fatalf("advertisement: %v", first.ToMap())
	}
	a := <-got
	if a == first || a.LocalName() != "test" || len(a.ScanResponse()) != 6 || a.RSSI() != -60 {
		t.Fatalf("merged: %v", a.ToMap())
	}
	// the advertisement already handed out keeps its own data
	if first.LocalName() != "" || first.ScanResponse() != nil {
		t.Fatalf("advertisement changed by scan response: %v", first.ToMap())
	}

	ft.evts <- report(evtTypAdvNonconnInd)
	a = <-got
	if a.Addr()[0] != 0xAA || len(a.Data()) != 0 {
		t.Fatalf("non connectable: %v", a.ToMap())
	}
}

func TestScanResponseAsyncHandler(t *testing.T) {
	ft := &fakeTransport{}
	h := newTestHCI(t, ft)
	defer h.Close()

	var wg sync.WaitGroup
	names := make(chan string, 64)
	h.SetAdvHandler(func(a *Advertisement) {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			_ = a.ToMap()
		}
		names <- a.LocalName()
	})

	addr := []byte{0x11, 0x12, 0x13, 0x14, 0x15, 0x16}
	report := func(typ byte, data ...byte) []byte {
		p := []byte{evt.LEAdvertisingReportSubCode, 0x01, typ, 0x00}
		p = append(p, addr...)
		p = append(p, byte(len(data)))
		p = append(p, data...)
		p = append(p, 0xC4)
		return append([]byte{evt.LEMetaCode, byte(len(p))}, p...)
	}

	const rounds = 20
	wg.Add(2 * rounds)
	for i := 0; i < rounds; i++ {
		ft.evts <- report(evtTypAdvScanInd, 0x02, 0x01, 0x06)
		ft.evts <- report(evtTypScanRsp, 0x03, 0x09, 'o', 'k')
	}
	wg.Wait()
	close(names)

	var plain, merged int
	for n := range names {
		switch n {
		case "":
			plain++
		case "ok":
			merged++
		default:
			t.Fatalf("name %q", n)
		}
	}
	if plain != rounds || merged != rounds {
		t.Fatalf("plain %d, merged %d", plain, merged)
	}
}
