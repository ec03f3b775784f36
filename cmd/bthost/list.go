package main

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci"
	"github.com/urfave/cli"
)

func listCommand(c *cli.Context) error {
	if err := setLogLevel(c); err != nil {
		return err
	}
	topt, err := transportOption(c)
	if err != nil {
		return err
	}
	h, err := hci.NewHCI(topt)
	if err != nil {
		return err
	}
	dd, err := h.ListDevices()
	if err != nil {
		return err
	}

	if c.Bool("json") {
		if dd == nil {
			dd = []bthost.Device{}
		}
		out, err := jsoniter.MarshalIndent(dd, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(dd) == 0 {
		fmt.Println(Yellow("no devices found"))
		return nil
	}
	printDevices(os.Stdout, dd)
	return nil
}

func printDevices(w io.Writer, dd []bthost.Device) {
	for i, d := range dd {
		fmt.Fprintf(w, "%s %s %s %s\n", Green(fmt.Sprintf("[%d]", i)), d.Name,
			Cyan(fmt.Sprintf("%04x:%04x", d.VendorID, d.ProductID)), d.Path)
	}
}
