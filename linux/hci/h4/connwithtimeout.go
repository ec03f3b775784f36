package h4

import (
	"io"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

type connWithTimeout struct {
	c       net.Conn
	timeout time.Duration
}

func (cwt *connWithTimeout) Read(b []byte) (int, error) {
	cwt.c.SetReadDeadline(time.Now().Add(cwt.timeout))
	n, err := cwt.c.Read(b)
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return n, nil
	}
	return n, err
}

func (cwt *connWithTimeout) Write(b []byte) (int, error) {
	cwt.c.SetWriteDeadline(time.Now().Add(cwt.timeout))
	return cwt.c.Write(b)
}

func (cwt *connWithTimeout) Close() error {
	return cwt.c.Close()
}

// NewTCP returns a transport for an H4 stream served over TCP, such as a
// controller bridged out of an emulator.
func NewTCP(addr string, timeout time.Duration) *Transport {
	list := func() ([]bthost.Device, error) {
		return []bthost.Device{{Name: "h4 over tcp", Path: addr}}, nil
	}
	open := func(d bthost.Device) (io.ReadWriteCloser, error) {
		c, err := net.DialTimeout("tcp", d.Path, timeout)
		if err != nil {
			return nil, errors.Wrap(err, "dial")
		}
		return &connWithTimeout{c: c, timeout: timeout}, nil
	}
	return New("tcp", list, open)
}
