package usb

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

const (
	// classWireless is the Wireless Controller class; subclass 1 protocol 1
	// is a Bluetooth primary controller.
	classWireless = 0xE0
	// classMisc devices expose Bluetooth on an interface instead.
	classMisc = 0xEF
)

// sysDevice is a USB device as described by sysfs.
type sysDevice struct {
	name      string
	bus, dev  uint8
	vendorID  uint16
	productID uint16
	class     uint8
	ifClasses []uint8
}

func (s sysDevice) devfsPath() string {
	return fmt.Sprintf("/dev/bus/usb/%03d/%03d", s.bus, s.dev)
}

func (s sysDevice) bluetooth() bool {
	if s.class == classWireless {
		return true
	}
	for _, c := range s.ifClasses {
		if c == classWireless {
			return true
		}
	}
	return false
}

// listDevices scans <root>/bus/usb/devices for Bluetooth controllers. The
// result is sorted by path and the scan only reads, so repeated calls return
// the same list.
func listDevices(root string) ([]bthost.Device, error) {
	dir := filepath.Join(root, "bus", "usb", "devices")
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "can't scan usb devices")
	}

	var dd []bthost.Device
	for _, e := range entries {
		name := e.Name()
		// root hubs are usbN, interfaces are <dev>:<cfg>.<if>
		if strings.HasPrefix(name, "usb") || strings.Contains(name, ":") {
			continue
		}
		sd, err := readDevice(filepath.Join(dir, name))
		if err != nil {
			logger.Debugf("skipping %s: %v", name, err)
			continue
		}
		if !sd.bluetooth() {
			continue
		}
		dd = append(dd, bthost.Device{
			Name:      sd.name,
			VendorID:  sd.vendorID,
			ProductID: sd.productID,
			Path:      sd.devfsPath(),
		})
	}

	sort.Slice(dd, func(i, j int) bool { return dd[i].Path < dd[j].Path })
	return dd, nil
}

func readDevice(path string) (sysDevice, error) {
	var sd sysDevice
	var err error

	if sd.bus, err = readDec8(filepath.Join(path, "busnum")); err != nil {
		return sd, err
	}
	if sd.dev, err = readDec8(filepath.Join(path, "devnum")); err != nil {
		return sd, err
	}
	if sd.vendorID, err = readHex16(filepath.Join(path, "idVendor")); err != nil {
		return sd, err
	}
	if sd.productID, err = readHex16(filepath.Join(path, "idProduct")); err != nil {
		return sd, err
	}
	if c, err := readHex16(filepath.Join(path, "bDeviceClass")); err == nil {
		sd.class = uint8(c)
	}

	sd.name, _ = readString(filepath.Join(path, "product"))
	if sd.name == "" {
		sd.name = fmt.Sprintf("usb %04x:%04x", sd.vendorID, sd.productID)
	}

	// interface directories are named <dev>:<cfg>.<if>
	entries, _ := ioutil.ReadDir(path)
	prefix := filepath.Base(path) + ":"
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		c, err := readHex16(filepath.Join(path, e.Name(), "bInterfaceClass"))
		if err != nil {
			continue
		}
		sd.ifClasses = append(sd.ifClasses, uint8(c))
	}
	return sd, nil
}

func readString(path string) (string, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func readDec8(path string) (uint8, error) {
	s, err := readString(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 10, 8)
	return uint8(v), errors.Wrapf(err, "%s", path)
}

func readHex16(path string) (uint16, error) {
	s, err := readString(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 16, 16)
	return uint16(v), errors.Wrapf(err, "%s", path)
}
