package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/att"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/linux/l2cap"
	"github.com/urfave/cli"
)

const (
	hciDefaultTimeout = hci.DefaultCommandTimeout
	tcpDialTimeout    = 5 * time.Second
	drainInterval     = 50 * time.Millisecond
)

func runCommand(c *cli.Context) (err error) {
	if err := setLogLevel(c); err != nil {
		return err
	}
	log := bthost.PkgLogger("main")

	topt, err := transportOption(c)
	if err != nil {
		return err
	}
	opts := []bthost.Option{
		topt,
		bthost.OptCommandTimeout(c.Duration("timeout")),
		bthost.OptErrorHandler(func(err error) { log.Error(err) }),
	}
	if fn := c.String("capture"); fn != "" {
		opts = append(opts, bthost.OptCaptureFile(fn))
	}

	var db att.Database = att.StaticDatabase{}
	if fn := c.String("attdb"); fn != "" {
		if db, err = att.LoadDatabase(fn); err != nil {
			return err
		}
	}

	h, err := hci.NewHCI(opts...)
	if err != nil {
		return err
	}

	dev, err := selectDevice(h, c.Int("device"))
	if err != nil {
		return err
	}
	if err := h.Open(&dev); err != nil {
		return errors.Wrapf(err, "open %v", dev)
	}
	defer func() {
		if cerr := h.Close(); err == nil {
			err = cerr
		}
	}()

	info, err := h.Init()
	if err != nil {
		return err
	}
	fmt.Println(Green("controller"), info)
	if len(info.Failed) > 0 {
		fmt.Println(Yellow("bring-up steps without response:"), strings.Join(info.Failed, ", "))
	}

	stop := make(chan struct{})
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		drainMailboxes(h, stop, log)
	}()
	defer func() {
		close(stop)
		<-drained
	}()

	framer := l2cap.NewFramer(h)
	srv := att.NewServer(framer, att.OptDatabase(db))
	framer.Register(l2cap.CIDAtt, srv.HandleATT)
	h.SetACLHandler(framer.HandleACL)

	name := c.String("name")
	if err := h.AdvertiseNameAndServices(name, bthost.UUID16(0x180F)); err != nil {
		return errors.Wrap(err, "advertise")
	}
	fmt.Printf("advertising as %s\n", Cyan(name))

	if c.Bool("scan") {
		h.SetAdvHandler(func(a *hci.Advertisement) { printAdvertisement(os.Stdout, a) })
		if err := h.Scan(false); err != nil {
			return errors.Wrap(err, "scan")
		}
		defer h.StopScanning()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	var deadline <-chan time.Time
	if d := c.Duration("duration"); d > 0 {
		deadline = time.After(d)
	}

	select {
	case s := <-sig:
		log.Infof("got %v, shutting down", s)
	case <-deadline:
		log.Info("duration elapsed, shutting down")
	}

	if err := h.StopAdvertising(); err != nil {
		log.Warnf("stop advertising: %v", err)
	}
	return nil
}

// drainMailboxes takes the events and ACL packets the engine queues until
// stop is closed. Handlers have already seen them.
func drainMailboxes(h *hci.HCI, stop <-chan struct{}, log bthost.Logger) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		if e, ok := h.PollEvent(drainInterval); ok {
			log.Debugf("event: %v", e)
		}
		for {
			b, ok := h.PollACL(0)
			if !ok {
				break
			}
			log.Debugf("acl: [% X]", b)
		}
	}
}

// selectDevice picks device idx, the only device, or asks on stdin.
func selectDevice(h *hci.HCI, idx int) (bthost.Device, error) {
	dd, err := h.ListDevices()
	if err != nil {
		return bthost.Device{}, err
	}
	switch {
	case len(dd) == 0:
		return bthost.Device{}, bthost.ErrDeviceNotFound
	case idx >= len(dd):
		return bthost.Device{}, errors.Wrapf(bthost.ErrDeviceNotFound, "device %d of %d", idx, len(dd))
	case idx >= 0:
		return dd[idx], nil
	case len(dd) == 1:
		return dd[0], nil
	}

	printDevices(os.Stderr, dd)
	fmt.Fprintf(os.Stderr, "select device [0-%d]: ", len(dd)-1)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return bthost.Device{}, errors.Wrap(err, "read selection")
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 0 || n >= len(dd) {
		return bthost.Device{}, errors.Errorf("invalid selection %q", strings.TrimSpace(line))
	}
	return dd[n], nil
}

func printAdvertisement(w io.Writer, a bthost.Advertisement) {
	name := a.LocalName()
	if name == "" {
		name = "-"
	}
	fmt.Fprintf(w, "%s %3d dBm %-20s % X", Cyan(a.Addr().String()), a.RSSI(), name, a.Data())
	if sr := a.ScanResponse(); len(sr) > 0 {
		fmt.Fprintf(w, " | % X", sr)
	}
	fmt.Fprintln(w)
}
