package bmsad

import (
	"github.com/mercurytools/actordef/errors"
	"github.com/mercurytools/actordef/registry"
	"github.com/mercurytools/actordef/schema"
)

// Validate re-checks a tree against the snapshot without re-encoding it:
// the definition is one of the two known variants, every non-empty field
// block structurally matches its resolved schema, extra-section presence
// agrees with the hierarchy, dependency payloads carry the dispatched
// layout's concrete type, and no keyed collection repeats a key. A tree
// produced by Parse always validates against the snapshot that decoded it.
func (res *Resource) Validate(snap *registry.Snapshot) error {
	switch res.Definition.(type) {
	case *CharClass, *ActorDef:
	case nil:
		return errors.New(errors.PhaseValidate, errors.KindInvalidData).
			Detail("resource has no definition body").
			Build()
	default:
		return errors.UnknownDefinitionType(errors.PhaseValidate, res.Definition.TypeName())
	}

	seen := make(map[string]bool)
	for _, e := range res.Definition.Components() {
		if seen[e.Key] {
			return errors.DuplicateKey(errors.PhaseValidate, []string{"components"}, e.Key)
		}
		seen[e.Key] = true
		if err := validateComponent(&e.Component, snap, []string{"components", e.Key}); err != nil {
			return err
		}
	}
	return nil
}

func validateComponent(c *Component, snap *registry.Snapshot, path []string) error {
	if c.Fields != nil {
		sc, err := snap.ResolveSchema(c.Type)
		if err != nil {
			return errors.WithPath(err, path...)
		}
		if err := schema.CheckFields(c.Fields.Fields, sc.Fields, append(path, "fields")); err != nil {
			return err
		}
	}

	hasExtra, err := snap.Types().IsChildOf(c.Type, registry.ComponentBase)
	if err != nil {
		return errors.WithPath(err, path...)
	}
	if hasExtra != (c.Extra != nil) {
		return errors.New(errors.PhaseValidate, errors.KindInvalidData).
			Path(path...).
			TypeName(c.Type).
			Detail("extra section present=%v, but descent from %s requires present=%v",
				c.Extra != nil, registry.ComponentBase, hasExtra).
			Build()
	}
	seenExtra := make(map[uint64]bool, len(c.Extra))
	for _, e := range c.Extra {
		if seenExtra[e.Key.ID] {
			return errors.DuplicateKey(errors.PhaseValidate, append(pathCopy(path), "extra"), e.Key.String())
		}
		seenExtra[e.Key.ID] = true
		if e.Value.Kind != ExtraBool && e.Value.Kind != ExtraString {
			return errors.UnsupportedValueType(errors.PhaseValidate,
				append(pathCopy(path), "extra", e.Key.String()), e.Value.Kind.Tag())
		}
	}

	for _, fn := range c.Functions {
		seenArgs := make(map[uint64]bool, len(fn.Args))
		for _, arg := range fn.Args {
			argPath := append(pathCopy(path), "functions", fn.Name, arg.Key.String())
			if seenArgs[arg.Key.ID] {
				return errors.DuplicateKey(errors.PhaseValidate, argPath[:len(argPath)-1], arg.Key.String())
			}
			seenArgs[arg.Key.ID] = true
			if arg.Value.Kind.Tag() == 0 {
				return errors.UnsupportedValueType(errors.PhaseValidate, argPath, string(arg.Value.Kind.Tag()))
			}
		}
	}

	layout, err := dispatchDependencies(snap.Types(), c.Type)
	if err != nil {
		return errors.WithPath(err, path...)
	}
	depPath := append(pathCopy(path), "dependencies")
	if layout == nil {
		if c.Dependencies != nil {
			return errors.New(errors.PhaseValidate, errors.KindInvalidData).
				Path(depPath...).
				TypeName(c.Type).
				Detail("component type is outside every dependency family, payload must be nil").
				Build()
		}
		return nil
	}
	if c.Dependencies == nil {
		return errors.New(errors.PhaseValidate, errors.KindInvalidData).
			Path(depPath...).
			TypeName(c.Type).
			Detail("component type dispatches to the %s layout, payload is nil", layout.base).
			Build()
	}
	if !layoutMatches(layout.base, c.Dependencies) {
		return errors.New(errors.PhaseValidate, errors.KindInvalidData).
			Path(depPath...).
			TypeName(c.Type).
			Detail("payload is %T, component type dispatches to the %s layout",
				c.Dependencies, layout.base).
			Build()
	}
	return nil
}

// layoutMatches reports whether a payload's concrete type is the one the
// dispatch base decodes to. The standalone effects family aliases the
// effects layout, so both bases accept an effects payload.
func layoutMatches(base string, dep Dependencies) bool {
	switch dep.(type) {
	case *FXDependencies:
		return base == "CFXComponent" || base == "CStandaloneFXComponent"
	case *CollisionDependencies:
		return base == "CCollisionComponent"
	case *GrabDependencies:
		return base == "CGrabComponent"
	case *BillboardDependencies:
		return base == "CBillboardComponent"
	case *SwarmDependencies:
		return base == "CSwarmControllerComponent"
	default:
		return false
	}
}
