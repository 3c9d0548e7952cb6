package bmsad

import (
	"github.com/mercurytools/actordef/errors"
	"github.com/mercurytools/actordef/internal/wire"
	"github.com/mercurytools/actordef/registry"
	"github.com/mercurytools/actordef/schema"
)

// Parse decodes one resource from data using the registry snapshot. The
// stream must be exactly exhausted by the envelope and its body; trailing
// bytes fail the decode. Full consumption is the primary signal that the
// snapshot's tables are complete for the targeted game version, so a
// schema gap cannot hide behind a plausible partial parse.
func Parse(data []byte, snap *registry.Snapshot) (*Resource, error) {
	r := wire.NewReader(data)

	magic, err := r.ReadBytes(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != Magic {
		return nil, errors.FormatViolation(errors.PhaseDecode, 0,
			"magic %q, want %q", magic, Magic)
	}

	versionAt := r.Offset()
	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, errors.FormatViolation(errors.PhaseDecode, versionAt,
			"version %#08x, want %#08x", version, Version)
	}

	name, err := r.ReadCString()
	if err != nil {
		return nil, errors.WithPath(err, "name")
	}
	typAt := r.Offset()
	typ, err := r.ReadCString()
	if err != nil {
		return nil, errors.WithPath(err, "type")
	}

	var def Definition
	switch typ {
	case TypeCharClass:
		def, err = decodeCharClass(r, snap)
	case TypeActorDef:
		def, err = decodeActorDef(r, snap)
	default:
		e := errors.UnknownDefinitionType(errors.PhaseDecode, typ)
		e.Offset = typAt
		return nil, e
	}
	if err != nil {
		return nil, err
	}

	if n := r.Remaining(); n > 0 {
		return nil, errors.FormatViolation(errors.PhaseDecode, r.Offset(),
			"%d trailing bytes after definition body", n)
	}
	return &Resource{Name: name, Definition: def}, nil
}

func decodeActorDef(r *wire.Reader, snap *registry.Snapshot) (*ActorDef, error) {
	d := &ActorDef{}
	var err error
	if d.Unk1, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if d.Unk2, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if d.Unk3, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if d.SubActors, err = decodeStringList(r, "sub_actors"); err != nil {
		return nil, err
	}
	if d.Unk4, err = r.ReadCString(); err != nil {
		return nil, err
	}
	if d.Entries, err = decodeComponents(r, snap); err != nil {
		return nil, err
	}
	if d.Binaries, err = decodeStringList(r, "binaries"); err != nil {
		return nil, err
	}
	if d.Sources, err = decodeSources(r); err != nil {
		return nil, err
	}
	return d, nil
}

func decodeCharClass(r *wire.Reader, snap *registry.Snapshot) (*CharClass, error) {
	d := &CharClass{}
	var err error
	if d.ModelName, err = r.ReadCString(); err != nil {
		return nil, err
	}
	if d.Unk1, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if d.Unk2, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if d.Unk3, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if d.SubActors, err = decodeStringList(r, "sub_actors"); err != nil {
		return nil, err
	}
	for i := range d.Unk4 {
		if d.Unk4[i], err = r.ReadF32(); err != nil {
			return nil, err
		}
	}

	// The magic constant is checked before anything after it is read, so a
	// header drift fails here rather than as garbage further down.
	magicAt := r.Offset()
	magic, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if magic != CharClassMagic {
		return nil, errors.FormatViolation(errors.PhaseDecode, magicAt,
			"char class magic %#08x, want %#08x", magic, CharClassMagic)
	}

	if d.Unk5, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if d.Unk6, err = r.ReadCString(); err != nil {
		return nil, err
	}
	if d.Unk7, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if d.Entries, err = decodeComponents(r, snap); err != nil {
		return nil, err
	}
	if d.Binaries, err = decodeStringList(r, "binaries"); err != nil {
		return nil, err
	}
	if d.Sources, err = decodeSources(r); err != nil {
		return nil, err
	}
	return d, nil
}

func decodeStringList(r *wire.Reader, what string) ([]string, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, errors.WithPath(err, what)
	}
	list := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s, err := r.ReadCString()
		if err != nil {
			return nil, errors.WithPath(err, what)
		}
		list = append(list, s)
	}
	return list, nil
}

func decodeSources(r *wire.Reader) ([]SourceRef, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, errors.WithPath(err, "sources")
	}
	list := make([]SourceRef, 0, n)
	for i := 0; i < n; i++ {
		var ref SourceRef
		if ref.Name, err = r.ReadCString(); err != nil {
			return nil, errors.WithPath(err, "sources")
		}
		if ref.Flag, err = r.ReadByte(); err != nil {
			return nil, errors.WithPath(err, "sources")
		}
		list = append(list, ref)
	}
	return list, nil
}

func decodeComponents(r *wire.Reader, snap *registry.Snapshot) ([]ComponentEntry, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, errors.WithPath(err, "components")
	}
	entries := make([]ComponentEntry, 0, n)
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		keyAt := r.Offset()
		key, err := r.ReadCString()
		if err != nil {
			return nil, errors.WithPath(err, "components")
		}
		if seen[key] {
			e := errors.DuplicateKey(errors.PhaseDecode, []string{"components"}, key)
			e.Offset = keyAt
			return nil, e
		}
		seen[key] = true

		c, err := decodeComponent(r, snap, []string{"components", key})
		if err != nil {
			return nil, err
		}
		entries = append(entries, ComponentEntry{Key: key, Component: c})
	}
	return entries, nil
}

func decodeComponent(r *wire.Reader, snap *registry.Snapshot, path []string) (Component, error) {
	var c Component
	var err error

	typeAt := r.Offset()
	if c.Type, err = r.ReadCString(); err != nil {
		return c, errors.WithPath(err, path...)
	}
	for i := range c.Flags {
		if c.Flags[i], err = r.ReadU32(); err != nil {
			return c, errors.WithPath(err, path...)
		}
	}

	if c.Fields, err = decodeFieldBlock(r, snap, c.Type, typeAt, path); err != nil {
		return c, err
	}

	// The extra-properties section exists on the wire exactly for
	// CComponent descendants; its absence elsewhere is structural, not an
	// empty map.
	hasExtra, err := snap.Types().IsChildOf(c.Type, registry.ComponentBase)
	if err != nil {
		return c, errors.WithPath(errors.WithOffset(err, typeAt), path...)
	}
	if hasExtra {
		if c.Extra, err = decodeExtra(r, snap, path); err != nil {
			return c, err
		}
	}

	if c.Functions, err = decodeFunctions(r, snap, path); err != nil {
		return c, err
	}

	layout, err := dispatchDependencies(snap.Types(), c.Type)
	if err != nil {
		return c, errors.WithPath(errors.WithOffset(err, typeAt), path...)
	}
	if layout != nil {
		if c.Dependencies, err = layout.decode(r, append(path, "dependencies")); err != nil {
			return c, err
		}
	}
	return c, nil
}

func decodeFieldBlock(r *wire.Reader, snap *registry.Snapshot, typeName string, typeAt int, path []string) (*FieldBlock, error) {
	length, err := r.ReadU32()
	if err != nil {
		return nil, errors.WithPath(err, path...)
	}
	// A zero length is a normal value: no inner content, no schema lookup.
	if length == 0 {
		return nil, nil
	}

	sub, err := r.Sub(int(length))
	if err != nil {
		return nil, errors.WithPath(err, path...)
	}

	fb := &FieldBlock{}
	id, err := sub.ReadU64()
	if err != nil {
		return nil, errors.WithPath(err, path...)
	}
	fb.KeyEmpty = snap.Names().Resolve(id)
	if id, err = sub.ReadU64(); err != nil {
		return nil, errors.WithPath(err, path...)
	}
	fb.KeyRoot = snap.Names().Resolve(id)

	sc, err := snap.ResolveSchema(typeName)
	if err != nil {
		return nil, errors.WithPath(errors.WithOffset(err, typeAt), path...)
	}
	if fb.Fields, err = schema.DecodeFields(sub, sc.Fields, append(path, "fields")); err != nil {
		return nil, err
	}

	if n := sub.Remaining(); n > 0 {
		return nil, errors.WithPath(errors.FormatViolation(errors.PhaseDecode, sub.Offset(),
			"field block declares %d bytes, %d left unconsumed", length, n), path...)
	}
	return fb, nil
}

func decodeExtra(r *wire.Reader, snap *registry.Snapshot, path []string) ([]ExtraField, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, errors.WithPath(err, append(path, "extra")...)
	}
	extra := make([]ExtraField, 0, n)
	seen := make(map[uint64]bool, n)
	for i := 0; i < n; i++ {
		keyAt := r.Offset()
		id, err := r.ReadU64()
		if err != nil {
			return nil, errors.WithPath(err, append(path, "extra")...)
		}
		key := snap.Names().Resolve(id)
		if seen[id] {
			e := errors.DuplicateKey(errors.PhaseDecode, append(pathCopy(path), "extra"), key.String())
			e.Offset = keyAt
			return nil, e
		}
		seen[id] = true

		entryPath := append(pathCopy(path), "extra", key.String())
		tagAt := r.Offset()
		tag, err := r.ReadCString()
		if err != nil {
			return nil, errors.WithPath(err, entryPath...)
		}
		var value ExtraValue
		switch tag {
		case "bool":
			b, err := r.ReadBool()
			if err != nil {
				return nil, errors.WithPath(err, entryPath...)
			}
			value = ExtraBoolValue(b)
		case "string":
			s, err := r.ReadCString()
			if err != nil {
				return nil, errors.WithPath(err, entryPath...)
			}
			value = ExtraStringValue(s)
		default:
			e := errors.UnsupportedValueType(errors.PhaseDecode, entryPath, tag)
			e.Offset = tagAt
			return nil, e
		}
		extra = append(extra, ExtraField{Key: key, Value: value})
	}
	return extra, nil
}

func decodeFunctions(r *wire.Reader, snap *registry.Snapshot, path []string) ([]FunctionEntry, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, errors.WithPath(err, append(path, "functions")...)
	}
	funcs := make([]FunctionEntry, 0, n)
	for i := 0; i < n; i++ {
		var fn FunctionEntry
		if fn.Name, err = r.ReadCString(); err != nil {
			return nil, errors.WithPath(err, append(path, "functions")...)
		}
		if fn.Aux, err = r.ReadU16(); err != nil {
			return nil, errors.WithPath(err, append(path, "functions", fn.Name)...)
		}
		if fn.Args, err = decodeFunctionArgs(r, snap, append(pathCopy(path), "functions", fn.Name)); err != nil {
			return nil, err
		}
		funcs = append(funcs, fn)
	}
	return funcs, nil
}

func decodeFunctionArgs(r *wire.Reader, snap *registry.Snapshot, path []string) ([]FunctionArg, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, errors.WithPath(err, path...)
	}
	args := make([]FunctionArg, 0, n)
	seen := make(map[uint64]bool, n)
	for i := 0; i < n; i++ {
		keyAt := r.Offset()
		id, err := r.ReadU64()
		if err != nil {
			return nil, errors.WithPath(err, path...)
		}
		key := snap.Names().Resolve(id)
		if seen[id] {
			e := errors.DuplicateKey(errors.PhaseDecode, pathCopy(path), key.String())
			e.Offset = keyAt
			return nil, e
		}
		seen[id] = true

		argPath := append(pathCopy(path), key.String())
		tagAt := r.Offset()
		tag, err := r.ReadByte()
		if err != nil {
			return nil, errors.WithPath(err, argPath...)
		}
		var value ArgValue
		switch tag {
		case 's':
			s, err := r.ReadCString()
			if err != nil {
				return nil, errors.WithPath(err, argPath...)
			}
			value = ArgStringValue(s)
		case 'f':
			f, err := r.ReadF32()
			if err != nil {
				return nil, errors.WithPath(err, argPath...)
			}
			value = ArgFloatValue(f)
		case 'b':
			b, err := r.ReadBool()
			if err != nil {
				return nil, errors.WithPath(err, argPath...)
			}
			value = ArgBoolValue(b)
		case 'i':
			u, err := r.ReadU32()
			if err != nil {
				return nil, errors.WithPath(err, argPath...)
			}
			value = ArgUIntValue(u)
		default:
			e := errors.UnsupportedValueType(errors.PhaseDecode, argPath, string(tag))
			e.Offset = tagAt
			return nil, e
		}
		args = append(args, FunctionArg{Key: key, Value: value})
	}
	return args, nil
}

// pathCopy detaches a path from its backing array before appending entry
// names, so sibling decodes cannot clobber each other's error paths.
func pathCopy(path []string) []string {
	return append([]string{}, path...)
}
