package names_test

import (
	"errors"
	"strings"
	"testing"

	acterrors "github.com/mercurytools/actordef/errors"
	"github.com/mercurytools/actordef/names"
)

func TestHashEmptyString(t *testing.T) {
	// Zero input bytes leave the initial value untouched.
	if got := names.Hash(""); got != 0xFFFFFFFFFFFFFFFF {
		t.Errorf("Hash(\"\") = %#016x, want 0xffffffffffffffff", got)
	}
}

func TestHashDeterministic(t *testing.T) {
	inputs := []string{"Root", "CCharClass", "actors/characters/samus.bmsad", "a", "b"}
	seen := make(map[uint64]string)
	for _, in := range inputs {
		h1 := names.Hash(in)
		h2 := names.Hash(in)
		if h1 != h2 {
			t.Errorf("Hash(%q) unstable: %#x vs %#x", in, h1, h2)
		}
		if prev, ok := seen[h1]; ok {
			t.Errorf("Hash collision between %q and %q", prev, in)
		}
		seen[h1] = in
	}
}

func TestHashSensitiveToEveryByte(t *testing.T) {
	if names.Hash("Root") == names.Hash("Roo") {
		t.Error("hash ignores trailing byte")
	}
	if names.Hash("Root") == names.Hash("root") {
		t.Error("hash ignores case of first byte")
	}
}

func TestTableResolve(t *testing.T) {
	tbl := names.NewTable()
	root := tbl.Add("Root")

	got := tbl.Resolve(root.ID)
	if !got.Known || got.Name != "Root" || got.ID != root.ID {
		t.Errorf("Resolve(%#x) = %+v, want known Root", root.ID, got)
	}

	unknown := tbl.Resolve(0x1234)
	if unknown.Known {
		t.Error("unregistered id resolved as known")
	}
	if unknown.ID != 0x1234 {
		t.Errorf("unknown key lost its id: %#x", unknown.ID)
	}
	if unknown.String() != "0x0000000000001234" {
		t.Errorf("unknown key renders as %q", unknown.String())
	}
}

func TestTableKeyOf(t *testing.T) {
	tbl := names.NewTable()

	// Unregistered names fall back to the computed hash.
	k := tbl.KeyOf("Root")
	if !k.Known || k.ID != names.Hash("Root") {
		t.Errorf("KeyOf(Root) = %+v", k)
	}

	// Registered ids win over the hash.
	if err := tbl.AddID(7, "Seven"); err != nil {
		t.Fatalf("AddID: %v", err)
	}
	if k := tbl.KeyOf("Seven"); k.ID != 7 {
		t.Errorf("KeyOf(Seven).ID = %d, want 7", k.ID)
	}
}

func TestTableAddIDConflict(t *testing.T) {
	tbl := names.NewTable()
	if err := tbl.AddID(1, "one"); err != nil {
		t.Fatalf("first AddID: %v", err)
	}
	// Same mapping again is fine.
	if err := tbl.AddID(1, "one"); err != nil {
		t.Fatalf("repeated AddID: %v", err)
	}

	err := tbl.AddID(1, "uno")
	if err == nil {
		t.Fatal("conflicting AddID succeeded")
	}
	if !errors.Is(err, &acterrors.Error{Phase: acterrors.PhaseRegistry, Kind: acterrors.KindDuplicateKey}) {
		t.Errorf("conflict error = %v", err)
	}
	if !strings.Contains(err.Error(), "uno") {
		t.Errorf("conflict error does not name the new value: %v", err)
	}
}

func TestKeyStringKnown(t *testing.T) {
	tbl := names.NewTable()
	k := tbl.Add("sModelName")
	if k.String() != "sModelName" {
		t.Errorf("known key renders as %q", k.String())
	}
}
