// +build linux

package usb

import (
	"runtime"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const typUSB = 'U'

func ioc(dir, nr, size uintptr) uintptr {
	return (dir << 30) | (size << 16) | (typUSB << 8) | nr
}

// kernel struct usbdevfs_ctrltransfer
type ctrlTransfer struct {
	requestType uint8
	request     uint8
	value       uint16
	index       uint16
	length      uint16
	timeout     uint32
	data        uintptr
}

// kernel struct usbdevfs_bulktransfer
type bulkTransfer struct {
	endpoint uint32
	length   uint32
	timeout  uint32
	data     uintptr
}

// kernel struct usbdevfs_ioctl
type ioctlRequest struct {
	ifno int32
	code int32
	data uintptr
}

var (
	usbdevfsControl          = ioc(3, 0, unsafe.Sizeof(ctrlTransfer{}))
	usbdevfsBulk             = ioc(3, 2, unsafe.Sizeof(bulkTransfer{}))
	usbdevfsClaimInterface   = ioc(2, 15, 4)
	usbdevfsReleaseInterface = ioc(2, 16, 4)
	usbdevfsIoctl            = ioc(3, 18, unsafe.Sizeof(ioctlRequest{}))
	usbdevfsDisconnect       = ioc(0, 22, 0)
)

func ioctl(fd int, op uintptr, arg unsafe.Pointer) (int, error) {
	r, _, ep := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), op, uintptr(arg))
	if ep != 0 {
		return 0, ep
	}
	return int(r), nil
}

type usbfs struct {
	fd int
}

func openUSBFS(path string) (device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open %s", path)
	}

	// Detach btusb if it holds the interface. ENODATA means no driver.
	req := ioctlRequest{ifno: hciInterface, code: int32(usbdevfsDisconnect)}
	if _, err := ioctl(fd, usbdevfsIoctl, unsafe.Pointer(&req)); err != nil && err != unix.ENODATA {
		logger.Debugf("disconnect kernel driver: %v", err)
	}

	ifno := uint32(hciInterface)
	if _, err := ioctl(fd, usbdevfsClaimInterface, unsafe.Pointer(&ifno)); err != nil {
		unix.Close(fd)
		return nil, errors.Wrapf(err, "can't claim interface %d of %s", hciInterface, path)
	}
	return &usbfs{fd: fd}, nil
}

func (u *usbfs) control(p []byte) error {
	c := ctrlTransfer{
		requestType: ctrlRequestType,
		request:     ctrlRequest,
		index:       hciInterface,
		length:      uint16(len(p)),
		timeout:     uint32(controlTimeout / time.Millisecond),
	}
	if len(p) > 0 {
		c.data = uintptr(unsafe.Pointer(&p[0]))
	}
	n, err := ioctl(u.fd, usbdevfsControl, unsafe.Pointer(&c))
	runtime.KeepAlive(p)
	if err != nil {
		return errors.Wrap(err, "control transfer")
	}
	if n != len(p) {
		return errors.Errorf("control transfer: short write %d of %d", n, len(p))
	}
	return nil
}

// transfer moves data on a bulk or interrupt endpoint. The direction comes
// from the endpoint address. A timeout is reported as zero bytes.
func (u *usbfs) transfer(ep uint8, p []byte, timeout time.Duration) (int, error) {
	b := bulkTransfer{
		endpoint: uint32(ep),
		length:   uint32(len(p)),
		timeout:  uint32(timeout / time.Millisecond),
	}
	if len(p) > 0 {
		b.data = uintptr(unsafe.Pointer(&p[0]))
	}
	n, err := ioctl(u.fd, usbdevfsBulk, unsafe.Pointer(&b))
	runtime.KeepAlive(p)
	if err == unix.ETIMEDOUT {
		return 0, nil
	}
	return n, errors.Wrapf(err, "transfer on endpoint 0x%02x", ep)
}

func (u *usbfs) close() error {
	ifno := uint32(hciInterface)
	if _, err := ioctl(u.fd, usbdevfsReleaseInterface, unsafe.Pointer(&ifno)); err != nil {
		logger.Debugf("release interface: %v", err)
	}
	return errors.Wrap(unix.Close(u.fd), "close usbfs")
}
