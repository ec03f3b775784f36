package att

import (
	"encoding/binary"
	"io/ioutil"
	"sort"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

// GATT grouping types [Vol 3, Part G, 3.1]
const (
	PrimaryServiceType   = 0x2800
	SecondaryServiceType = 0x2801
)

// Group is one attribute group: the handle of its declaration, the last
// handle it covers, and the declaration value.
type Group struct {
	Handle    uint16
	EndHandle uint16
	Value     []byte
}

// Database answers group lookups for the server.
type Database interface {
	// ReadByGroupType returns the groups of groupType declared within
	// [start, end] in handle order.
	ReadByGroupType(start, end, groupType uint16) ([]Group, error)
}

// staticGroups is the fixed table served by StaticDatabase: the GAP
// service, the battery service and the GATT service.
var staticGroups = []Group{
	{Handle: 0x0001, EndHandle: 0x0003, Value: []byte{0x00, 0x18}},
	{Handle: 0x0004, EndHandle: 0x0007, Value: []byte{0x0F, 0x18}},
	{Handle: 0x0008, EndHandle: 0x000A, Value: []byte{0x01, 0x18}},
}

// StaticDatabase answers every request with the same three primary
// services, whatever the range or type asked for.
type StaticDatabase struct{}

func (StaticDatabase) ReadByGroupType(start, end, groupType uint16) ([]Group, error) {
	return staticGroups, nil
}

type serviceEntry struct {
	Start     uint16 `json:"start"`
	End       uint16 `json:"end"`
	UUID      string `json:"uuid"`
	Secondary bool   `json:"secondary,omitempty"`
}

type dbFile struct {
	Services []serviceEntry `json:"services"`
}

type entry struct {
	Group
	typ  uint16
	uuid bthost.UUID
}

// MemDatabase is a service table held in memory, usually loaded from a
// JSON file:
//
//	{"services": [{"start": 1, "end": 3, "uuid": "1800"},
//	              {"start": 4, "end": 9, "uuid": "6e400001-b5a3-f393-e0a9-e50e24dcca9e"}]}
type MemDatabase struct {
	lock    sync.RWMutex
	entries []entry
}

// NewMemDatabase returns an empty database.
func NewMemDatabase() *MemDatabase {
	return &MemDatabase{}
}

// LoadDatabase reads a JSON service table from filename.
func LoadDatabase(filename string) (*MemDatabase, error) {
	in, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read attribute db")
	}
	db, err := ParseDatabase(in)
	if err != nil {
		return nil, errors.Wrapf(err, "attribute db %s", filename)
	}
	return db, nil
}

// ParseDatabase decodes a JSON service table.
func ParseDatabase(in []byte) (*MemDatabase, error) {
	var f dbFile
	if err := jsoniter.Unmarshal(in, &f); err != nil {
		return nil, err
	}

	db := NewMemDatabase()
	for _, s := range f.Services {
		u, err := bthost.ParseUUID(s.UUID)
		if err != nil {
			return nil, err
		}
		if err := db.AddService(s.Start, s.End, u, s.Secondary); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// AddService declares a service spanning [start, end].
func (db *MemDatabase) AddService(start, end uint16, u bthost.UUID, secondary bool) error {
	if start == 0 || start > end {
		return errors.Wrapf(bthost.ErrInvalidAttributeRange, "service %v: 0x%04X-0x%04X", u, start, end)
	}
	if u.Len() != 2 && u.Len() != 16 {
		return errors.Errorf("service uuid %v: must be 16 or 128 bits", u)
	}

	db.lock.Lock()
	defer db.lock.Unlock()

	for _, e := range db.entries {
		if start <= e.EndHandle && e.Handle <= end {
			return errors.Errorf("service %v: 0x%04X-0x%04X overlaps %v", u, start, end, e.uuid)
		}
	}

	typ := uint16(PrimaryServiceType)
	if secondary {
		typ = SecondaryServiceType
	}
	db.entries = append(db.entries, entry{
		Group: Group{Handle: start, EndHandle: end, Value: []byte(u)},
		typ:   typ,
		uuid:  u,
	})
	sort.Slice(db.entries, func(i, j int) bool { return db.entries[i].Handle < db.entries[j].Handle })
	return nil
}

func (db *MemDatabase) ReadByGroupType(start, end, groupType uint16) ([]Group, error) {
	if start == 0 || start > end {
		return nil, errors.Wrapf(bthost.ErrInvalidAttributeRange, "0x%04X-0x%04X", start, end)
	}

	db.lock.RLock()
	defer db.lock.RUnlock()

	var gg []Group
	for _, e := range db.entries {
		if e.typ == groupType && e.Handle >= start && e.Handle <= end {
			gg = append(gg, e.Group)
		}
	}
	if len(gg) == 0 {
		return nil, errors.Wrapf(bthost.ErrAttributeNotFound, "type 0x%04X in 0x%04X-0x%04X", groupType, start, end)
	}
	return gg, nil
}

// Save writes the table to filename in the format LoadDatabase reads.
func (db *MemDatabase) Save(filename string) error {
	db.lock.RLock()
	f := dbFile{Services: make([]serviceEntry, 0, len(db.entries))}
	for _, e := range db.entries {
		f.Services = append(f.Services, serviceEntry{
			Start:     e.Handle,
			End:       e.EndHandle,
			UUID:      e.uuid.String(),
			Secondary: e.typ == SecondaryServiceType,
		})
	}
	db.lock.RUnlock()

	out, err := jsoniter.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0644)
}

func putGroup(b []byte, g Group, n int) {
	binary.LittleEndian.PutUint16(b[0:], g.Handle)
	binary.LittleEndian.PutUint16(b[2:], g.EndHandle)
	copy(b[4:n], g.Value)
}
