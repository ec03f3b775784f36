package bthost

import "testing"

func TestMatchDevice(t *testing.T) {
	dd := []Device{
		{Name: "a", VendorID: 0x0a12, ProductID: 0x0001, Path: "/dev/bus/usb/001/004"},
		{Name: "b", VendorID: 0x1915, ProductID: 0x521f, Path: "/dev/bus/usb/001/007"},
	}

	cases := []struct {
		sel  *Device
		want string
		err  error
	}{
		{nil, "a", nil},
		{&Device{Path: "/dev/bus/usb/001/007"}, "b", nil},
		{&Device{VendorID: 0x1915, ProductID: 0x521f}, "b", nil},
		{&Device{Path: "/dev/ttyACM0"}, "", ErrDeviceNotFound},
	}

	for i, c := range cases {
		d, err := MatchDevice(dd, c.sel)
		if err != c.err {
			t.Fatalf("case %d: err %v, want %v", i, err, c.err)
		}
		if d.Name != c.want {
			t.Fatalf("case %d: got %q, want %q", i, d.Name, c.want)
		}
	}

	if _, err := MatchDevice(nil, nil); err != ErrDeviceNotFound {
		t.Fatalf("empty list: %v", err)
	}
}
