package hci

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rigado/bthost/linux/hci/cmd"
)

// SendRaw sends a command built from an opcode and parameter bytes and
// returns the status and return parameters of its Command Complete.
func (h *HCI) SendRaw(opcode uint16, params []byte) (*cmd.RawRP, error) {
	if len(params) > maxHciPayload {
		return nil, fmt.Errorf("invalid length %v; max hci payload length is %v", len(params), maxHciPayload)
	}

	rp := &cmd.RawRP{}
	if err := h.Send(&cmd.Raw{Op: int(opcode), Params: params}, rp); err != nil {
		return nil, err
	}
	return rp, nil
}

// SendVendorSpecificCommand sends v, serialized little endian, as the
// parameters of vendor command ocf.
func (h *HCI) SendVendorSpecificCommand(ocf uint16, v interface{}) error {
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		return errors.Wrap(err, "vendor command payload")
	}
	if buf.Len() > maxHciPayload {
		return fmt.Errorf("invalid length %v; max hci payload length is %v", buf.Len(), maxHciPayload)
	}

	op := cmd.OpCode(cmd.OGFVendor, int(ocf&0x03FF))
	return h.Send(&cmd.Raw{Op: op, Params: buf.Bytes()}, nil)
}
