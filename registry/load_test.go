package registry_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/klauspost/compress/zstd"

	acterrors "github.com/mercurytools/actordef/errors"
	"github.com/mercurytools/actordef/names"
	"github.com/mercurytools/actordef/registry"
	"github.com/mercurytools/actordef/schema"
)

const typesYAML = `
hierarchy:
  CActorComponent: ""
  CComponent: CActorComponent
  CLifeComponent: CComponent
schemas:
  CActorComponentDef: []
  CCharClassLifeComponent:
    - { name: fMaxLife, type: float32 }
    - { name: vOffset, type: { array: float32, len: 3 } }
    - { name: aSounds, type: { vector: string } }
    - name: oGrid
      type:
        struct:
          - { name: uWidth, type: uint16 }
    - name: uShape
      type:
        union:
          - { tag: s, name: asString, type: string }
          - { tag: i, name: asIndex, type: uint32 }
`

func snapshotFS(namesFile string, namesData []byte) fstest.MapFS {
	fsys := fstest.MapFS{
		"samus_returns/types.yaml": &fstest.MapFile{Data: []byte(typesYAML)},
	}
	if namesFile != "" {
		fsys["samus_returns/"+namesFile] = &fstest.MapFile{Data: namesData}
	}
	return fsys
}

func TestLoadSnapshot(t *testing.T) {
	fsys := snapshotFS("names.json", []byte(`{"Root": 123, "bEnabled": 456}`))

	snap, err := registry.LoadSnapshot(fsys, registry.GameSamusReturns)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.Game() != registry.GameSamusReturns {
		t.Errorf("Game = %v", snap.Game())
	}
	if snap.Types().Len() != 3 || snap.SchemaCount() != 2 {
		t.Errorf("types = %d, schemas = %d", snap.Types().Len(), snap.SchemaCount())
	}

	sc, ok := snap.Schema("CCharClassLifeComponent")
	if !ok {
		t.Fatal("CCharClassLifeComponent not loaded")
	}
	if len(sc.Fields) != 5 {
		t.Fatalf("fields = %d", len(sc.Fields))
	}
	if arr, ok := sc.Fields[1].Type.(schema.Array); !ok || arr.Len != 3 {
		t.Errorf("vOffset type = %v", sc.Fields[1].Type)
	}
	if u, ok := sc.Fields[4].Type.(schema.Union); !ok || len(u.Cases) != 2 || u.Cases[1].Tag != 'i' {
		t.Errorf("uShape type = %v", sc.Fields[4].Type)
	}

	if key := snap.Names().Resolve(123); !key.Known || key.Name != "Root" {
		t.Errorf("Resolve(123) = %+v", key)
	}
}

func TestLoadSnapshotCompressedNames(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	compressed := enc.EncodeAll([]byte(`{"Root": 1}`), nil)
	enc.Close()

	fsys := snapshotFS("names.json.zst", compressed)
	snap, err := registry.LoadSnapshot(fsys, registry.GameSamusReturns)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if key := snap.Names().Resolve(1); !key.Known || key.Name != "Root" {
		t.Errorf("Resolve(1) = %+v", key)
	}
}

func TestLoadSnapshotMissingNamesDegrades(t *testing.T) {
	fsys := snapshotFS("", nil)
	snap, err := registry.LoadSnapshot(fsys, registry.GameSamusReturns)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.Names().Len() != 0 {
		t.Errorf("names = %d, want empty table", snap.Names().Len())
	}
	if key := snap.Names().Resolve(names.Hash("Root")); key.Known {
		t.Errorf("Resolve on empty table = %+v", key)
	}
}

func TestLoadSnapshotMissingTypesFails(t *testing.T) {
	fsys := fstest.MapFS{}
	_, err := registry.LoadSnapshot(fsys, registry.GameSamusReturns)
	var e *acterrors.Error
	if !errors.As(err, &e) || e.Kind != acterrors.KindNotFound {
		t.Errorf("error = %v", err)
	}
}

func TestLoadSnapshotRejectsInvalidDocument(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown scalar type", `
hierarchy: {}
schemas:
  CBad:
    - { name: x, type: float64 }
`},
		{"missing field name", `
hierarchy: {}
schemas:
  CBad:
    - { type: float32 }
`},
		{"hierarchy not a map", `
hierarchy: [a, b]
schemas: {}
`},
		{"missing schemas key", `
hierarchy: {}
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				"samus_returns/types.yaml": &fstest.MapFile{Data: []byte(tt.yaml)},
			}
			_, err := registry.LoadSnapshot(fsys, registry.GameSamusReturns)
			var e *acterrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("error = %v", err)
			}
			if e.Kind != acterrors.KindInvalidData {
				t.Errorf("kind = %s: %v", e.Kind, err)
			}
			if e.Cause == nil {
				t.Errorf("document schema violation lost its cause: %v", err)
			}
		})
	}
}

func TestLoadSnapshotRejectsConflictingNameIDs(t *testing.T) {
	fsys := snapshotFS("names.json", []byte(`{"A": 7, "B": 7}`))
	_, err := registry.LoadSnapshot(fsys, registry.GameSamusReturns)
	var e *acterrors.Error
	if !errors.As(err, &e) || e.Kind != acterrors.KindDuplicateKey {
		t.Errorf("error = %v", err)
	}
}
