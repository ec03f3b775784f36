package main

/*
* CLI to bring up a Bluetooth LE controller and serve attributes
 */

import (
	"os"

	"github.com/rigado/bthost"
	"github.com/urfave/cli"
)

var version = "dev"

var transportFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "transport, t",
		Value:  "usb",
		Usage:  "controller transport: usb, uart, socket or tcp",
		EnvVar: "BTHOST_TRANSPORT",
	},
	cli.StringFlag{
		Name:   "addr",
		Value:  "127.0.0.1:9000",
		Usage:  "host:port of an H4 stream for the tcp transport",
		EnvVar: "BTHOST_ADDR",
	},
	cli.UintFlag{
		Name:   "baud",
		Value:  115200,
		Usage:  "baud rate for the uart transport",
		EnvVar: "BTHOST_BAUD",
	},
	cli.StringFlag{
		Name:   "sysfs",
		Usage:  "sysfs root for usb enumeration (default /sys)",
		EnvVar: "BTHOST_SYSFS",
	},
	cli.StringFlag{
		Name:   "log-level",
		Value:  "info",
		Usage:  "panic, fatal, error, warn, info, debug or trace",
		EnvVar: "BTHOST_LOG_LEVEL",
	},
}

func main() {
	app := cli.NewApp()
	app.Name = "bthost"
	app.Usage = "drive a Bluetooth LE controller over HCI"
	app.Version = version
	app.Commands = []cli.Command{
		cli.Command{
			Name:  "run",
			Usage: "Bring up the controller, advertise and serve ATT until interrupted",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:   "device, d",
					Value:  -1,
					Usage:  "index of the device in the list output, prompts when several are present",
					EnvVar: "BTHOST_DEVICE",
				},
				cli.BoolFlag{
					Name:  "scan",
					Usage: "print advertisements while running",
				},
				cli.StringFlag{
					Name:   "capture, c",
					Usage:  "append every packet to `FILE`",
					EnvVar: "BTHOST_CAPTURE",
				},
				cli.StringFlag{
					Name:   "name, n",
					Value:  "bthost",
					Usage:  "advertised local name",
					EnvVar: "BTHOST_NAME",
				},
				cli.StringFlag{
					Name:   "attdb",
					Usage:  "JSON service table served over ATT (default: built-in GAP, battery and GATT services)",
					EnvVar: "BTHOST_ATTDB",
				},
				cli.DurationFlag{
					Name:   "timeout",
					Value:  hciDefaultTimeout,
					Usage:  "how long each command waits for its completion",
					EnvVar: "BTHOST_TIMEOUT",
				},
				cli.DurationFlag{
					Name:  "duration",
					Usage: "stop after this long, 0 runs until interrupted",
				},
			}, transportFlags...),
			Action: runCommand,
		},
		cli.Command{
			Name:  "list",
			Usage: "List the controllers a transport can open",
			Flags: append([]cli.Flag{
				cli.BoolFlag{
					Name:  "json",
					Usage: "print JSON",
				},
			}, transportFlags...),
			Action: listCommand,
		},
		cli.Command{
			Name:      "dump",
			Usage:     "Print the records of a capture file",
			ArgsUsage: "FILE",
			Action:    dumpCommand,
		},
	}
	app.Action = runCommand
	app.Flags = app.Commands[0].Flags

	if err := app.Run(os.Args); err != nil {
		PrintErr(os.Stderr, "%s", Red("bthost: "+err.Error()))
		os.Exit(1)
	}
}

func setLogLevel(c *cli.Context) error {
	if lvl := c.String("log-level"); lvl != "" {
		return bthost.SetLogLevel(lvl)
	}
	return nil
}

func transportOption(c *cli.Context) (bthost.Option, error) {
	switch t := c.String("transport"); t {
	case "usb":
		return bthost.OptTransportUSB(c.String("sysfs")), nil
	case "uart":
		return bthost.OptTransportUART(c.Uint("baud")), nil
	case "socket":
		return bthost.OptTransportHCISocket(), nil
	case "tcp":
		return bthost.OptTransportTCP(c.String("addr"), tcpDialTimeout), nil
	default:
		return nil, cli.NewExitError("unknown transport "+t, 2)
	}
}
