// +build linux

// Package socket opens a controller through the Linux HCI user channel,
// which hands the host exclusive H4 framed access to an hciN device.
package socket

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci/h4"
	"golang.org/x/sys/unix"
)

func ioR(t, nr, size uintptr) uintptr {
	return (2 << 30) | (t << 8) | nr | (size << 16)
}

func ioW(t, nr, size uintptr) uintptr {
	return (1 << 30) | (t << 8) | nr | (size << 16)
}

func ioctl(fd, op, arg uintptr) error {
	if _, _, ep := unix.Syscall(unix.SYS_IOCTL, fd, op, arg); ep != 0 {
		return ep
	}
	return nil
}

const (
	ioctlSize     = 4
	hciMaxDevices = 16
	typHCI        = 72 // 'H'

	readPollMs  = 1000
	flushPollMs = 20
	pollErrors  = unix.POLLHUP | unix.POLLNVAL | unix.POLLERR
)

var (
	hciDownDevice    = ioW(typHCI, 202, ioctlSize) // HCIDEVDOWN
	hciGetDeviceList = ioR(typHCI, 210, ioctlSize) // HCIGETDEVLIST
)

type devListRequest struct {
	devNum     uint16
	devRequest [hciMaxDevices]struct {
		id  uint16
		opt uint32
	}
}

var logger = bthost.PkgLogger("socket")

func rawSocket() (int, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW, unix.BTPROTO_HCI)
	return fd, errors.Wrap(err, "can't create socket")
}

// ListDevices returns the hciN devices known to the kernel.
func ListDevices() ([]bthost.Device, error) {
	fd, err := rawSocket()
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)

	req := devListRequest{devNum: hciMaxDevices}
	if err = ioctl(uintptr(fd), hciGetDeviceList, uintptr(unsafe.Pointer(&req))); err != nil {
		return nil, errors.Wrap(err, "can't get device list")
	}

	dd := make([]bthost.Device, 0, req.devNum)
	for i := 0; i < int(req.devNum) && i < hciMaxDevices; i++ {
		name := fmt.Sprintf("hci%d", req.devRequest[i].id)
		dd = append(dd, bthost.Device{Name: name, Path: name})
	}
	return dd, nil
}

// NewTransport returns the HCI user channel transport.
func NewTransport() *h4.Transport {
	return h4.New("socket", ListDevices, func(d bthost.Device) (io.ReadWriteCloser, error) {
		id, err := strconv.Atoi(strings.TrimPrefix(d.Path, "hci"))
		if err != nil {
			return nil, errors.Errorf("bad hci device %q", d.Path)
		}
		return NewSocket(id)
	})
}

// Socket is an hciN user channel. Read returns 0, nil when nothing arrives
// within a second.
type Socket struct {
	fd int

	rmu sync.Mutex
	wmu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSocket takes hciN down and binds its user channel.
func NewSocket(id int) (*Socket, error) {
	fd, err := rawSocket()
	if err != nil {
		return nil, err
	}
	if err := bindUserChannel(fd, id); err != nil {
		unix.Close(fd)
		return nil, errors.Wrapf(err, "hci%d", id)
	}
	return &Socket{fd: fd, closed: make(chan struct{})}, nil
}

func bindUserChannel(fd, id int) error {
	// the kernel refuses the bind while the device is up
	if err := ioctl(uintptr(fd), hciDownDevice, uintptr(id)); err != nil {
		return errors.Wrap(err, "can't down device")
	}
	sa := unix.SockaddrHCI{Dev: uint16(id), Channel: unix.HCI_CHANNEL_USER}
	if err := unix.Bind(fd, &sa); err != nil {
		return errors.Wrap(err, "can't bind socket to hci user channel")
	}

	// discard what the controller queued before the bind
	ready, err := pollIn(fd, flushPollMs)
	if err != nil {
		return err
	}
	if ready {
		unix.Read(fd, make([]byte, 2048))
	}
	return nil
}

// pollIn waits up to ms for fd to turn readable. Hangup and error
// conditions come back as io.EOF.
func pollIn(fd, ms int) (bool, error) {
	pfds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	if _, err := unix.Poll(pfds, ms); err != nil && err != unix.EINTR {
		return false, errors.Wrap(err, "can't poll hci socket")
	}
	ev := pfds[0].Revents
	if ev&pollErrors != 0 {
		logger.Errorf("hci socket poll events 0x%04X", ev)
		return false, io.EOF
	}
	return ev&unix.POLLIN != 0, nil
}

func (s *Socket) Read(p []byte) (int, error) {
	if !s.isOpen() {
		return 0, io.EOF
	}

	s.rmu.Lock()
	defer s.rmu.Unlock()

	ready, err := pollIn(s.fd, readPollMs)
	if err != nil || !ready {
		return 0, err
	}
	n, err := unix.Read(s.fd, p)
	if !s.isOpen() {
		return 0, io.EOF
	}
	return n, errors.Wrap(err, "can't read hci socket")
}

func (s *Socket) Write(p []byte) (int, error) {
	if !s.isOpen() {
		return 0, io.EOF
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	n, err := unix.Write(s.fd, p)
	return n, errors.Wrap(err, "can't write hci socket")
}

// Close releases the user channel. The fd is closed only once a pending
// Read has returned.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		logger.Debug("closing hci socket")
		s.rmu.Lock()
		err = errors.Wrap(unix.Close(s.fd), "can't close hci socket")
		s.rmu.Unlock()
	})
	return err
}

func (s *Socket) isOpen() bool {
	select {
	case <-s.closed:
		return false
	default:
		return true
	}
}
