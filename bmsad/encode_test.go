package bmsad_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/mercurytools/actordef/bmsad"
	acterrors "github.com/mercurytools/actordef/errors"
	"github.com/mercurytools/actordef/internal/wire"
	"github.com/mercurytools/actordef/names"
)

// richResourceBytes builds a CharClass resource exercising every section:
// sub-actors, a field block, extra properties with an id unknown to the
// name table, a function table, a dependency payload, binaries, sources.
func richResourceBytes(t *testing.T) []byte {
	t.Helper()
	return envelope("samus", "CharClass", func(w *wire.Writer) {
		w.WriteCString("samus.cmdl")
		w.WriteU16(1)
		w.WriteU32(2)
		w.WriteU16(3)
		w.WriteCount(1)
		w.WriteCString("samus_alt")
		for i := 0; i < 9; i++ {
			w.WriteF32(float32(i) / 2)
		}
		w.WriteU32(0xFFFFFFFF)
		w.Byte(1)
		w.WriteCString("extras")
		w.Byte(0)

		w.WriteCount(2) // components

		w.WriteCString("LIFE")
		writeComponentHead(w, "CLifeComponent", func(sub *wire.Writer) {
			sub.WriteF32(99)
			sub.Byte(0)
		})
		w.WriteCount(1) // extra
		w.WriteU64(0x123456789ABCDEF0) // unknown to the table
		w.WriteCString("string")
		w.WriteCString("drifted")
		w.WriteCount(1) // functions
		w.WriteCString("SetLife")
		w.WriteU16(4)
		w.WriteCount(2)
		w.WriteU64(names.Hash("fAmount"))
		w.Byte('f')
		w.WriteF32(12.5)
		w.WriteU64(names.Hash("bInstant"))
		w.Byte('b')
		w.Byte(1)

		w.WriteCString("FX")
		writeComponentHead(w, "CFXComponent", nil)
		w.WriteCount(0) // extra
		w.WriteCount(0) // functions
		w.WriteCount(1) // fx dependency entries
		w.WriteCString("muzzle.pkg")
		w.WriteU32(7)
		w.WriteU32(8)
		w.Byte(9)

		w.WriteCount(1)
		w.WriteCString("samus.bin")
		w.WriteCount(1)
		w.WriteCString("samus.txt")
		w.Byte(2)
	})
}

func TestEncodeReproducesInput(t *testing.T) {
	snap := testSnapshot(t)
	data := richResourceBytes(t)

	res, err := bmsad.Parse(data, snap)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := res.Encode(snap)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("Encode produced %d bytes differing from the %d-byte input", len(out), len(data))
	}
}

func TestDecodeEncodeDecode(t *testing.T) {
	snap := testSnapshot(t)
	res, err := bmsad.Parse(richResourceBytes(t), snap)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := res.Encode(snap)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	res2, err := bmsad.Parse(out, snap)
	if err != nil {
		t.Fatalf("re-Parse: %v", err)
	}
	if !reflect.DeepEqual(res, res2) {
		t.Errorf("trees differ after a round trip:\n%+v\n%+v", res, res2)
	}
}

func TestEncodeMinimalActorDef(t *testing.T) {
	snap := testSnapshot(t)
	res := &bmsad.Resource{Name: "test", Definition: &bmsad.ActorDef{}}

	out, err := res.Encode(snap)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := envelope("test", "ActorDef", func(w *wire.Writer) {
		writeActorDefHeader(w)
		w.WriteCount(0)
		writeActorDefTail(w)
	})
	if !bytes.Equal(out, want) {
		t.Errorf("Encode = % x, want % x", out, want)
	}
}

func TestEncodeExtraPresenceMismatch(t *testing.T) {
	snap := testSnapshot(t)
	tests := []struct {
		name string
		comp bmsad.Component
	}{
		{"absent on descendant", bmsad.Component{Type: "CLifeComponent"}},
		{"present on outsider", bmsad.Component{Type: "CSceneComponent", Extra: []bmsad.ExtraField{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &bmsad.Resource{Name: "x", Definition: &bmsad.ActorDef{
				Entries: []bmsad.ComponentEntry{{Key: "X", Component: tt.comp}},
			}}
			_, err := res.Encode(snap)
			wantKind(t, err, acterrors.KindInvalidData)
		})
	}
}

func TestEncodeDependencyMismatch(t *testing.T) {
	snap := testSnapshot(t)
	res := &bmsad.Resource{Name: "x", Definition: &bmsad.ActorDef{
		Entries: []bmsad.ComponentEntry{{Key: "FX", Component: bmsad.Component{
			Type:         "CFXComponent",
			Extra:        []bmsad.ExtraField{},
			Dependencies: &bmsad.SwarmDependencies{},
		}}},
	}}
	_, err := res.Encode(snap)
	wantKind(t, err, acterrors.KindInvalidData)
}

func TestEncodeDuplicateComponentKey(t *testing.T) {
	snap := testSnapshot(t)
	comp := bmsad.Component{Type: "CSceneComponent"}
	res := &bmsad.Resource{Name: "x", Definition: &bmsad.ActorDef{
		Entries: []bmsad.ComponentEntry{
			{Key: "A", Component: comp},
			{Key: "A", Component: comp},
		},
	}}
	_, err := res.Encode(snap)
	wantKind(t, err, acterrors.KindDuplicateKey)
}

func TestUnknownInternedIDRoundTrip(t *testing.T) {
	snap := testSnapshot(t)
	data := richResourceBytes(t)
	res, err := bmsad.Parse(data, snap)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	extra := res.Definition.Components()[0].Component.Extra
	if extra[0].Key.Known {
		t.Fatalf("fixture id unexpectedly known: %+v", extra[0].Key)
	}
	out, err := res.Encode(snap)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("unknown interned id did not survive the round trip")
	}
}
