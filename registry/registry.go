// Package registry holds the versioned configuration a decode call consumes:
// the class-inheritance table, the schema registry with its name resolution,
// and the interned-name table, bundled per game as an immutable Snapshot.
//
// Snapshots never compute this data; they load it (see LoadSnapshot) or
// receive it programmatically (NewHierarchy, NewSnapshot), so tests can swap
// in synthetic registries.
package registry

import (
	"fmt"

	"github.com/mercurytools/actordef/errors"
	"github.com/mercurytools/actordef/names"
	"github.com/mercurytools/actordef/schema"
)

// Game selects which registry snapshot applies to a resource.
type Game int

const (
	GameSamusReturns Game = iota + 1
	GameDread
)

// String returns the snapshot directory name for the game.
func (g Game) String() string {
	switch g {
	case GameSamusReturns:
		return "samus_returns"
	case GameDread:
		return "dread"
	default:
		return fmt.Sprintf("game(%d)", int(g))
	}
}

// ParseGame maps a snapshot directory name back to its Game.
func ParseGame(s string) (Game, error) {
	switch s {
	case "samus_returns":
		return GameSamusReturns, nil
	case "dread":
		return GameDread, nil
	default:
		return 0, errors.NotFound(errors.PhaseRegistry, "game", s)
	}
}

// Resolution constants of the component type system.
const (
	// ComponentBase is the ancestor gating a component's extra-properties
	// section.
	ComponentBase = "CComponent"

	// RootComponentType is the plain component type resolved without
	// ascent, directly to RootComponentSchema.
	RootComponentType   = "CActorComponent"
	RootComponentSchema = "CActorComponentDef"

	// schemaPrefix replaces the first character of a class name when
	// deriving its candidate schema name.
	schemaPrefix = "CCharClass"
)

// maxAscent bounds walks up the parent chain. Authoritative tables are
// shallow; the bound guards cyclic or self-referential data.
const maxAscent = 64

// Hierarchy is the type to parent edge table. Root types have an empty
// parent. Immutable after construction; safe for concurrent readers.
type Hierarchy struct {
	parent map[string]string
}

// NewHierarchy copies edges into a Hierarchy. Every type the table knows
// must appear as a key; roots map to the empty string.
func NewHierarchy(edges map[string]string) *Hierarchy {
	parent := make(map[string]string, len(edges))
	for t, p := range edges {
		parent[t] = p
	}
	return &Hierarchy{parent: parent}
}

// Known reports whether the table has an entry for t.
func (h *Hierarchy) Known(t string) bool {
	_, ok := h.parent[t]
	return ok
}

// Len returns the number of registered types.
func (h *Hierarchy) Len() int {
	return len(h.parent)
}

// ParentOf returns t's parent, or the empty string when t is a root. Types
// absent from the table fail with an unknown-type error.
func (h *Hierarchy) ParentOf(t string) (string, error) {
	p, ok := h.parent[t]
	if !ok {
		return "", errors.UnknownType(errors.PhaseRegistry, t)
	}
	return p, nil
}

// IsChildOf reports whether ancestor equals t or is reachable from t by
// repeated parent lookup. Walking through a type absent from the table is
// an error; an ancestor the chain never reaches is simply false.
func (h *Hierarchy) IsChildOf(t, ancestor string) (bool, error) {
	cur := t
	for depth := 0; depth < maxAscent; depth++ {
		if cur == ancestor {
			return true, nil
		}
		p, err := h.ParentOf(cur)
		if err != nil {
			return false, err
		}
		if p == "" {
			return false, nil
		}
		cur = p
	}
	return false, ascentExceeded(t)
}

func ascentExceeded(t string) *errors.Error {
	return errors.New(errors.PhaseRegistry, errors.KindInvalidData).
		TypeName(t).
		Detail("ancestor chain exceeds %d entries, hierarchy is cyclic", maxAscent).
		Build()
}

// Snapshot bundles the per-game registries consumed by decode calls.
// Immutable after construction; safe to share across goroutines.
type Snapshot struct {
	game    Game
	types   *Hierarchy
	schemas map[string]*schema.Schema
	names   *names.Table
}

// NewSnapshot assembles a snapshot from already-built parts. A nil table is
// replaced with an empty one.
func NewSnapshot(game Game, types *Hierarchy, schemas map[string]*schema.Schema, tbl *names.Table) *Snapshot {
	copied := make(map[string]*schema.Schema, len(schemas))
	for name, s := range schemas {
		copied[name] = s
	}
	if tbl == nil {
		tbl = names.NewTable()
	}
	return &Snapshot{game: game, types: types, schemas: copied, names: tbl}
}

// Game returns the game this snapshot describes.
func (s *Snapshot) Game() Game {
	return s.game
}

// Types returns the hierarchy table.
func (s *Snapshot) Types() *Hierarchy {
	return s.types
}

// Names returns the interned-name table.
func (s *Snapshot) Names() *names.Table {
	return s.names
}

// Schema looks up a registered schema by its schema name (not by component
// type name; see ResolveSchema for that).
func (s *Snapshot) Schema(name string) (*schema.Schema, bool) {
	sc, ok := s.schemas[name]
	return sc, ok
}

// SchemaCount returns the number of registered schemas.
func (s *Snapshot) SchemaCount() int {
	return len(s.schemas)
}

// ResolveSchema maps a component type name to the field schema governing
// its field block. RootComponentType short-circuits to its fixed schema.
// Every other type derives a candidate schema name by replacing the leading
// class prefix with the schema prefix; on a miss, resolution ascends to the
// parent type and tries again. When the chain exhausts without a match the
// error cites the originally requested type, with the full chain attempted.
func (s *Snapshot) ResolveSchema(typeName string) (*schema.Schema, error) {
	chain := make([]string, 0, 4)
	cur := typeName
	for depth := 0; depth < maxAscent; depth++ {
		chain = append(chain, cur)
		if cur == RootComponentType {
			// The plain component type maps to its fixed schema, never
			// through prefix substitution. Ascent ends here either way.
			if sc, ok := s.schemas[RootComponentSchema]; ok {
				return sc, nil
			}
			return nil, errors.UnknownComponentType(errors.PhaseRegistry, typeName, chain)
		}
		if len(cur) > 1 {
			if sc, ok := s.schemas[schemaPrefix+cur[1:]]; ok {
				return sc, nil
			}
		}
		p, err := s.types.ParentOf(cur)
		if err != nil {
			return nil, errors.New(errors.PhaseRegistry, errors.KindUnknownComponentType).
				TypeName(typeName).
				Chain(chain...).
				Detail("no schema registered on ancestor chain").
				Cause(err).
				Build()
		}
		if p == "" || p == cur {
			return nil, errors.UnknownComponentType(errors.PhaseRegistry, typeName, chain)
		}
		cur = p
	}
	return nil, ascentExceeded(typeName)
}
