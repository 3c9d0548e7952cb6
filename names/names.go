// Package names implements the interned-string system shared by every
// resource format of the engine: a 64-bit name hash, tables mapping ids back
// to names, and the Key value that tolerates ids missing from the table.
package names

import (
	"fmt"

	"github.com/mercurytools/actordef/errors"
)

// poly is the ECMA-182 polynomial in normal (MSB-first) bit order. The
// engine hashes names with initial value all ones and no final xor, so the
// standard library's reflected crc64 tables cannot reproduce it.
const poly = 0x42F0E1EBA9EA3693

var table [256]uint64

func init() {
	for i := range table {
		crc := uint64(i) << 56
		for bit := 0; bit < 8; bit++ {
			if crc&(1<<63) != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
}

// Hash returns the engine's 64-bit hash of a name. Property keys and asset
// ids are both Hash of the corresponding string. Hash("") is
// 0xFFFFFFFFFFFFFFFF.
func Hash(name string) uint64 {
	crc := ^uint64(0)
	for i := 0; i < len(name); i++ {
		crc = table[byte(crc>>56)^name[i]] ^ crc<<8
	}
	return crc
}

// Key is one interned identifier: the raw on-disk id, plus the resolved name
// when the table knows it. Encoding writes the raw id back, so keys whose
// ids are unknown to the current table survive a decode/encode round trip
// bit-exactly.
type Key struct {
	ID    uint64
	Name  string
	Known bool
}

// String renders the resolved name, or the raw id as 0x-prefixed hex when
// the id is unknown.
func (k Key) String() string {
	if k.Known {
		return k.Name
	}
	return fmt.Sprintf("0x%016x", k.ID)
}

// Table maps interned ids to names and back. Build it once (Add/AddID),
// then share it read-only; lookups are safe for concurrent readers.
type Table struct {
	byID   map[uint64]string
	byName map[string]uint64
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		byID:   make(map[uint64]string),
		byName: make(map[string]uint64),
	}
}

// Add registers name under its computed hash and returns the resulting key.
// Re-adding the same name is a no-op.
func (t *Table) Add(name string) Key {
	id := Hash(name)
	t.byID[id] = name
	t.byName[name] = id
	return Key{ID: id, Name: name, Known: true}
}

// AddID registers an explicit id for name, trusting the caller over the
// hash function. Conflicting registrations of one id are rejected.
func (t *Table) AddID(id uint64, name string) error {
	if existing, ok := t.byID[id]; ok && existing != name {
		return errors.New(errors.PhaseRegistry, errors.KindDuplicateKey).
			Detail("id 0x%016x maps to both %q and %q", id, existing, name).
			Build()
	}
	t.byID[id] = name
	t.byName[name] = id
	return nil
}

// Len returns the number of registered names.
func (t *Table) Len() int {
	return len(t.byID)
}

// Resolve returns the key for a raw on-disk id. Unknown ids yield a key
// that still carries the id, rendering as hex.
func (t *Table) Resolve(id uint64) Key {
	if name, ok := t.byID[id]; ok {
		return Key{ID: id, Name: name, Known: true}
	}
	return Key{ID: id}
}

// KeyOf returns the key for a name, using the registered id when present
// and the computed hash otherwise.
func (t *Table) KeyOf(name string) Key {
	if id, ok := t.byName[name]; ok {
		return Key{ID: id, Name: name, Known: true}
	}
	return Key{ID: Hash(name), Name: name, Known: true}
}
