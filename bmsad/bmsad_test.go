package bmsad_test

import (
	"testing"

	"github.com/mercurytools/actordef/internal/wire"
	"github.com/mercurytools/actordef/names"
	"github.com/mercurytools/actordef/registry"
	"github.com/mercurytools/actordef/schema"
)

// testSnapshot builds the synthetic registry shared by most tests:
//
//	CActorComponent                      (root, extra-less branch base)
//	├── CSceneComponent                  no extra section
//	└── CComponent                       extra-bearing base
//	    ├── CLifeComponent               has its own schema
//	    │   └── CDamageComponent         inherits CLifeComponent's schema
//	    ├── CFXComponent                 effects dependency family
//	    ├── CStandaloneFXComponent
//	    ├── CCollisionComponent
//	    ├── CGrabComponent
//	    ├── CBillboardComponent
//	    └── CSwarmControllerComponent
func testSnapshot(t testing.TB) *registry.Snapshot {
	t.Helper()
	hierarchy := registry.NewHierarchy(map[string]string{
		"CActorComponent":           "",
		"CSceneComponent":           "CActorComponent",
		"CComponent":                "CActorComponent",
		"CLifeComponent":            "CComponent",
		"CDamageComponent":          "CLifeComponent",
		"CFXComponent":              "CComponent",
		"CStandaloneFXComponent":    "CComponent",
		"CCollisionComponent":       "CComponent",
		"CGrabComponent":            "CComponent",
		"CBillboardComponent":       "CComponent",
		"CSwarmControllerComponent": "CComponent",
	})
	schemas := map[string]*schema.Schema{
		"CActorComponentDef": {Name: "CActorComponentDef"},
		"CCharClassLifeComponent": {
			Name: "CCharClassLifeComponent",
			Fields: []schema.Field{
				{Name: "fMaxLife", Type: schema.PrimFloat32},
				{Name: "bImmune", Type: schema.PrimBool},
			},
		},
	}
	tbl := names.NewTable()
	tbl.Add("")
	tbl.Add("Root")
	return registry.NewSnapshot(registry.GameSamusReturns, hierarchy, schemas, tbl)
}

// envelope frames a definition body written by the callback.
func envelope(name, typ string, body func(w *wire.Writer)) []byte {
	w := wire.NewWriter()
	w.WriteBytes([]byte("MSAD"))
	w.WriteU32(0x0200000F)
	w.WriteCString(name)
	w.WriteCString(typ)
	if body != nil {
		body(w)
	}
	return w.Bytes()
}

// writeActorDefHeader writes the scalar prefix of an ActorDef body with no
// sub-actors.
func writeActorDefHeader(w *wire.Writer) {
	w.WriteU16(0)
	w.WriteU32(0)
	w.WriteU16(0)
	w.WriteCount(0) // sub_actors
	w.WriteCString("")
}

// writeActorDefTail writes empty binaries and sources lists.
func writeActorDefTail(w *wire.Writer) {
	w.WriteCount(0) // binaries
	w.WriteCount(0) // sources
}

// actorDefWith frames components (written by the callback, count included)
// in an otherwise empty ActorDef resource.
func actorDefWith(components func(w *wire.Writer)) []byte {
	return envelope("test", "ActorDef", func(w *wire.Writer) {
		writeActorDefHeader(w)
		components(w)
		writeActorDefTail(w)
	})
}

// writeComponentHead writes a component's type, flags, and field-block
// prefix. A nil fields callback writes a zero-length block.
func writeComponentHead(w *wire.Writer, typ string, fields func(w *wire.Writer)) {
	w.WriteCString(typ)
	w.WriteU32(0x10)
	w.WriteU32(0x20)
	if fields == nil {
		w.WriteU32(0)
		return
	}
	sub := wire.NewWriter()
	sub.WriteU64(names.Hash(""))
	sub.WriteU64(names.Hash("Root"))
	fields(sub)
	w.WriteU32(uint32(sub.Len()))
	w.WriteBytes(sub.Bytes())
}

// writeComponentTail writes an empty extra section (when present), no
// functions, and no dependency payload bytes.
func writeComponentTail(w *wire.Writer, hasExtra bool) {
	if hasExtra {
		w.WriteCount(0) // extra
	}
	w.WriteCount(0) // functions
}
