package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rigado/bthost/capture"
	"github.com/rigado/bthost/linux/att"
	"github.com/rigado/bthost/linux/hci/cmd"
	"github.com/rigado/bthost/linux/hci/evt"
	"github.com/rigado/bthost/linux/l2cap"
	"github.com/urfave/cli"
)

func dumpCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: bthost dump FILE", 2)
	}
	f, err := os.Open(c.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()
	return dump(os.Stdout, capture.NewReader(f))
}

func dump(w io.Writer, r *capture.Reader) error {
	for i := 0; ; i++ {
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "record %d", i)
		}
		fmt.Fprintf(w, "%5d %s %s\n", i, Cyan(rec.Kind.String()), describe(rec))
	}
}

func describe(rec capture.Record) string {
	p := rec.Payload
	switch rec.Kind {
	case capture.Command:
		if len(p) < 3 {
			break
		}
		op := int(binary.LittleEndian.Uint16(p))
		return fmt.Sprintf("%s [% X]", cmd.Name(op), p[3:])

	case capture.Event:
		e, err := evt.Decode(p)
		if err != nil {
			return Red(err.Error()) + fmt.Sprintf(" [% X]", p)
		}
		return e.String()

	case capture.ACL:
		fr, err := l2cap.Deframe(p)
		if err != nil {
			return Red(err.Error()) + fmt.Sprintf(" [% X]", p)
		}
		if fr.CID == l2cap.CIDAtt && len(fr.Payload) > 0 {
			return fmt.Sprintf("%v (%s)", fr, att.OpName(fr.Payload[0]))
		}
		return fr.String()
	}
	return fmt.Sprintf("[% X]", p)
}
