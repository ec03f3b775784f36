package bthost

import "testing"

func TestAddrString(t *testing.T) {
	a := Addr{0x66, 0x55, 0x44, 0x33, 0x22, 0x11}
	if got := a.String(); got != "11:22:33:44:55:66" {
		t.Fatalf("got %v", got)
	}

	b, err := NewAddr(a.String())
	if err != nil {
		t.Fatal(err)
	}
	if b != a {
		t.Fatalf("parsed %v, want %v", b, a)
	}
}

func TestAddrParseErrors(t *testing.T) {
	for _, s := range []string{"", "11:22", "zz:22:33:44:55:66", "11:22:33:44:55:66:77"} {
		if _, err := NewAddr(s); err == nil {
			t.Errorf("%q: expected error", s)
		}
	}
}
