package bthost

import (
	"bytes"
	"testing"
)

func TestParseUUID(t *testing.T) {
	cases := []struct {
		s    string
		wire []byte
		str  string
	}{
		{"180F", []byte{0x0F, 0x18}, "180F"},
		{"0x1800", []byte{0x00, 0x18}, "1800"},
		{"0000fe59", []byte{0x59, 0xFE, 0x00, 0x00}, "0000FE59"},
		{
			"6e400001-b5a3-f393-e0a9-e50e24dcca9e",
			[]byte{0x9E, 0xCA, 0xDC, 0x24, 0x0E, 0xE5, 0xA9, 0xE0, 0x93, 0xF3, 0xA3, 0xB5, 0x01, 0x00, 0x40, 0x6E},
			"6e400001-b5a3-f393-e0a9-e50e24dcca9e",
		},
	}

	for _, c := range cases {
		u, err := ParseUUID(c.s)
		if err != nil {
			t.Fatalf("%v: %v", c.s, err)
		}
		if !bytes.Equal(u, c.wire) {
			t.Fatalf("%v: got % X, want % X", c.s, []byte(u), c.wire)
		}
		if u.String() != c.str {
			t.Fatalf("%v: string %v", c.s, u.String())
		}
	}

	if !UUID16(0x180F).Equal(MustParseUUID("180f")) {
		t.Fatal("UUID16 mismatch")
	}
	if _, err := ParseUUID("xyz"); err == nil {
		t.Fatal("expected error")
	}
}
