package adv

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

var logger = bthost.PkgLogger("adv")

// https://www.bluetooth.com/specifications/assigned-numbers/generic-access-profile
var types = struct {
	flags       byte
	uuid16inc   byte
	uuid16comp  byte
	uuid32inc   byte
	uuid32comp  byte
	uuid128inc  byte
	uuid128comp byte
	sol16       byte
	sol32       byte
	sol128      byte
	svc16       byte
	svc32       byte
	svc128      byte
	nameshort   byte
	namecomp    byte
	txpwr       byte
	mfgdata     byte
}{
	flags:       0x01,
	uuid16inc:   0x02,
	uuid16comp:  0x03,
	uuid32inc:   0x04,
	uuid32comp:  0x05,
	uuid128inc:  0x06,
	uuid128comp: 0x07,
	sol16:       0x14,
	sol32:       0x1f,
	sol128:      0x15,
	svc16:       0x16,
	svc32:       0x20,
	svc128:      0x21,
	nameshort:   0x08,
	namecomp:    0x09,
	txpwr:       0x0a,
	mfgdata:     0xff,
}

// Map keys of a decoded packet.
var keys = struct {
	flags       string
	services    string
	solicited   string
	serviceData string
	localName   string
	txpwr       string
	mfgdata     string
}{
	flags:       "flags",
	services:    "services",
	solicited:   "solicited",
	serviceData: "serviceData",
	localName:   "localName",
	txpwr:       "txPower",
	mfgdata:     "mfgData",
}

type pduRecord struct {
	arrayElementSz int
	minSz          int
	key            string
}

var pduDecodeMap = map[byte]pduRecord{
	types.uuid16inc:   {2, 2, keys.services},
	types.uuid16comp:  {2, 2, keys.services},
	types.uuid32inc:   {4, 4, keys.services},
	types.uuid32comp:  {4, 4, keys.services},
	types.uuid128inc:  {16, 16, keys.services},
	types.uuid128comp: {16, 16, keys.services},
	types.sol16:       {2, 2, keys.solicited},
	types.sol32:       {4, 4, keys.solicited},
	types.sol128:      {16, 16, keys.solicited},
	types.svc16:       {0, 2, keys.serviceData},
	types.svc32:       {0, 4, keys.serviceData},
	types.svc128:      {0, 16, keys.serviceData},
	types.namecomp:    {0, 1, keys.localName},
	types.nameshort:   {0, 1, keys.localName},
	types.txpwr:       {0, 1, keys.txpwr},
	types.mfgdata:     {0, 2, keys.mfgdata},
	types.flags:       {0, 1, keys.flags},
}

func getArray(size int, bytes []byte) ([]interface{}, error) {
	//valid size?
	if size <= 0 {
		return nil, fmt.Errorf("invalid size")
	}

	//bytes empty/nil?
	if len(bytes) == 0 {
		return nil, fmt.Errorf("nil/empty bytes")
	}

	//any remainder?
	count := len(bytes) / size
	rem := len(bytes) % size
	if rem != 0 || count == 0 {
		return nil, fmt.Errorf("incorrect size")
	}

	arr := make([]interface{}, 0, count)
	for j := 0; j < len(bytes); j += size {
		arr = append(arr, bytes[j:(j+size)])
	}
	return arr, nil
}

// Decode parses a sequence of AD structures into a map keyed by field
// name. Lists of the same kind (e.g. 16 and 128 bit services) accumulate.
func Decode(pdu []byte) (map[string]interface{}, error) {
	if pdu == nil {
		return nil, fmt.Errorf("nil pdu")
	}

	m := make(map[string]interface{})
	for i := 0; i < len(pdu); {
		//length @ offset 0
		//type @ offset 1
		length := int(pdu[i])

		// zero length marks early termination of the significant part
		if length == 0 {
			break
		}

		//do we have all the bytes for the payload?
		if (i + length) >= len(pdu) {
			return nil, fmt.Errorf("buffer overflow: want %v, have %v", (i + length), len(pdu))
		}

		typ := pdu[i+1]
		start := i + 2
		end := start + length - 1
		bytes := pdu[start:end]

		dec, ok := pduDecodeMap[typ]
		if !ok {
			logger.Debugf("ignored unsupported adv type 0x%02X", typ)
		} else {
			//have min length?
			if dec.minSz > len(bytes) {
				return nil, fmt.Errorf("adv type %v: min length %v, have %v", typ, dec.minSz, len(bytes))
			}

			//expecting array?
			if dec.arrayElementSz > 0 {
				arr, err := getArray(dec.arrayElementSz, bytes)
				if err != nil {
					return nil, errors.Wrap(err, fmt.Sprintf("adv type %v", typ))
				}
				if prev, ok := m[dec.key].([]interface{}); ok {
					arr = append(prev, arr...)
				}
				m[dec.key] = arr
			} else {
				m[dec.key] = bytes
			}
		}

		i += (length + 1)
	}

	return m, nil
}
