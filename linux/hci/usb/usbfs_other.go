// +build !linux

package usb

import "github.com/pkg/errors"

func openUSBFS(path string) (device, error) {
	return nil, errors.New("usbfs is only available on linux")
}
