package registry_test

import (
	"errors"
	"testing"

	acterrors "github.com/mercurytools/actordef/errors"
	"github.com/mercurytools/actordef/registry"
	"github.com/mercurytools/actordef/schema"
)

func TestParseGame(t *testing.T) {
	for _, g := range []registry.Game{registry.GameSamusReturns, registry.GameDread} {
		got, err := registry.ParseGame(g.String())
		if err != nil || got != g {
			t.Errorf("ParseGame(%q) = %v, %v", g.String(), got, err)
		}
	}
	if _, err := registry.ParseGame("prime4"); err == nil {
		t.Error("unknown game accepted")
	}
}

func TestHierarchyParentOf(t *testing.T) {
	h := registry.NewHierarchy(map[string]string{
		"CActorComponent": "",
		"CComponent":      "CActorComponent",
	})

	p, err := h.ParentOf("CComponent")
	if err != nil || p != "CActorComponent" {
		t.Errorf("ParentOf = %q, %v", p, err)
	}
	if p, err := h.ParentOf("CActorComponent"); err != nil || p != "" {
		t.Errorf("root ParentOf = %q, %v", p, err)
	}

	_, err = h.ParentOf("CMissing")
	var e *acterrors.Error
	if !errors.As(err, &e) || e.Kind != acterrors.KindUnknownType || e.TypeName != "CMissing" {
		t.Errorf("unknown type error = %v", err)
	}
}

func TestHierarchyIsChildOf(t *testing.T) {
	h := registry.NewHierarchy(map[string]string{
		"CActorComponent": "",
		"CComponent":      "CActorComponent",
		"CLifeComponent":  "CComponent",
		"CSceneComponent": "CActorComponent",
	})

	tests := []struct {
		typ, ancestor string
		want          bool
	}{
		{"CComponent", "CComponent", true}, // equal counts
		{"CLifeComponent", "CComponent", true},
		{"CLifeComponent", "CActorComponent", true},
		{"CSceneComponent", "CComponent", false},
		{"CComponent", "CLifeComponent", false}, // ancestry is not symmetric
	}
	for _, tt := range tests {
		got, err := h.IsChildOf(tt.typ, tt.ancestor)
		if err != nil {
			t.Errorf("IsChildOf(%s, %s): %v", tt.typ, tt.ancestor, err)
		}
		if got != tt.want {
			t.Errorf("IsChildOf(%s, %s) = %v, want %v", tt.typ, tt.ancestor, got, tt.want)
		}
	}

	if _, err := h.IsChildOf("CMissing", "CComponent"); err == nil {
		t.Error("walk through an unknown type succeeded")
	}
}

func TestHierarchyCycleBounded(t *testing.T) {
	h := registry.NewHierarchy(map[string]string{
		"CA": "CB",
		"CB": "CA",
	})
	_, err := h.IsChildOf("CA", "CZ")
	var e *acterrors.Error
	if !errors.As(err, &e) || e.Kind != acterrors.KindInvalidData {
		t.Errorf("cyclic hierarchy error = %v", err)
	}
}

func TestResolveSchemaDirect(t *testing.T) {
	h := registry.NewHierarchy(map[string]string{"CLifeComponent": ""})
	snap := registry.NewSnapshot(registry.GameSamusReturns, h, map[string]*schema.Schema{
		"CCharClassLifeComponent": {Name: "CCharClassLifeComponent"},
	}, nil)

	sc, err := snap.ResolveSchema("CLifeComponent")
	if err != nil || sc.Name != "CCharClassLifeComponent" {
		t.Errorf("ResolveSchema = %v, %v", sc, err)
	}
}

func TestResolveSchemaRootSpecialCase(t *testing.T) {
	// CActorComponent maps straight to CActorComponentDef, never through
	// prefix substitution.
	h := registry.NewHierarchy(map[string]string{"CActorComponent": ""})
	snap := registry.NewSnapshot(registry.GameSamusReturns, h, map[string]*schema.Schema{
		"CActorComponentDef": {Name: "CActorComponentDef"},
	}, nil)

	sc, err := snap.ResolveSchema("CActorComponent")
	if err != nil || sc.Name != "CActorComponentDef" {
		t.Errorf("ResolveSchema = %v, %v", sc, err)
	}
}

func TestResolveSchemaGrandparent(t *testing.T) {
	// T's grandparent, but neither T nor its parent, has a schema.
	h := registry.NewHierarchy(map[string]string{
		"CChildComponent":  "CParentComponent",
		"CParentComponent": "CGrandComponent",
		"CGrandComponent":  "",
	})
	snap := registry.NewSnapshot(registry.GameSamusReturns, h, map[string]*schema.Schema{
		"CCharClassGrandComponent": {Name: "CCharClassGrandComponent"},
	}, nil)

	sc, err := snap.ResolveSchema("CChildComponent")
	if err != nil {
		t.Fatalf("ResolveSchema: %v", err)
	}
	if sc.Name != "CCharClassGrandComponent" {
		t.Errorf("schema = %s", sc.Name)
	}
}

func TestResolveSchemaFailureCitesRequestedType(t *testing.T) {
	h := registry.NewHierarchy(map[string]string{
		"CChildComponent":  "CParentComponent",
		"CParentComponent": "",
	})
	snap := registry.NewSnapshot(registry.GameSamusReturns, h, nil, nil)

	_, err := snap.ResolveSchema("CChildComponent")
	var e *acterrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("error type %T", err)
	}
	if e.Kind != acterrors.KindUnknownComponentType {
		t.Errorf("kind = %s", e.Kind)
	}
	if e.TypeName != "CChildComponent" {
		t.Errorf("TypeName = %q, want the originally requested type", e.TypeName)
	}
	want := []string{"CChildComponent", "CParentComponent"}
	if len(e.Chain) != 2 || e.Chain[0] != want[0] || e.Chain[1] != want[1] {
		t.Errorf("Chain = %v, want %v", e.Chain, want)
	}
}

func TestResolveSchemaCycleBounded(t *testing.T) {
	h := registry.NewHierarchy(map[string]string{
		"CA": "CB",
		"CB": "CA",
	})
	snap := registry.NewSnapshot(registry.GameSamusReturns, h, nil, nil)
	if _, err := snap.ResolveSchema("CA"); err == nil {
		t.Error("cyclic ascent terminated without error")
	}
}
