package bmsad

import (
	"github.com/mercurytools/actordef/errors"
	"github.com/mercurytools/actordef/internal/wire"
	"github.com/mercurytools/actordef/registry"
	"github.com/mercurytools/actordef/schema"
)

// Encode emits the exact byte stream Parse reads. The format has no
// redundant degrees of freedom, so encoding a decoded tree reproduces the
// original input byte for byte. The encoder applies the same structural
// rules as the decoder: extra-section presence gated by the hierarchy,
// dependency layout chosen by the ordered dispatch table, field blocks
// length-prefixed with the exact encoded size.
func (res *Resource) Encode(snap *registry.Snapshot) ([]byte, error) {
	if res.Definition == nil {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Detail("resource has no definition body").
			Build()
	}
	w := wire.NewWriter()
	w.WriteBytes([]byte(Magic))
	w.WriteU32(Version)
	w.WriteCString(res.Name)
	w.WriteCString(res.Definition.TypeName())

	var err error
	switch d := res.Definition.(type) {
	case *CharClass:
		err = encodeCharClass(w, d, snap)
	case *ActorDef:
		err = encodeActorDef(w, d, snap)
	default:
		err = errors.UnknownDefinitionType(errors.PhaseEncode, res.Definition.TypeName())
	}
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func encodeActorDef(w *wire.Writer, d *ActorDef, snap *registry.Snapshot) error {
	w.WriteU16(d.Unk1)
	w.WriteU32(d.Unk2)
	w.WriteU16(d.Unk3)
	encodeStringList(w, d.SubActors)
	w.WriteCString(d.Unk4)
	if err := encodeComponents(w, d.Entries, snap); err != nil {
		return err
	}
	encodeStringList(w, d.Binaries)
	encodeSources(w, d.Sources)
	return nil
}

func encodeCharClass(w *wire.Writer, d *CharClass, snap *registry.Snapshot) error {
	w.WriteCString(d.ModelName)
	w.WriteU16(d.Unk1)
	w.WriteU32(d.Unk2)
	w.WriteU16(d.Unk3)
	encodeStringList(w, d.SubActors)
	for _, f := range d.Unk4 {
		w.WriteF32(f)
	}
	w.WriteU32(CharClassMagic)
	w.Byte(d.Unk5)
	w.WriteCString(d.Unk6)
	w.Byte(d.Unk7)
	if err := encodeComponents(w, d.Entries, snap); err != nil {
		return err
	}
	encodeStringList(w, d.Binaries)
	encodeSources(w, d.Sources)
	return nil
}

func encodeStringList(w *wire.Writer, list []string) {
	w.WriteCount(len(list))
	for _, s := range list {
		w.WriteCString(s)
	}
}

func encodeSources(w *wire.Writer, list []SourceRef) {
	w.WriteCount(len(list))
	for _, ref := range list {
		w.WriteCString(ref.Name)
		w.Byte(ref.Flag)
	}
}

func encodeComponents(w *wire.Writer, entries []ComponentEntry, snap *registry.Snapshot) error {
	w.WriteCount(len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Key] {
			return errors.DuplicateKey(errors.PhaseEncode, []string{"components"}, e.Key)
		}
		seen[e.Key] = true
		w.WriteCString(e.Key)
		if err := encodeComponent(w, &e.Component, snap, []string{"components", e.Key}); err != nil {
			return err
		}
	}
	return nil
}

func encodeComponent(w *wire.Writer, c *Component, snap *registry.Snapshot, path []string) error {
	w.WriteCString(c.Type)
	for _, f := range c.Flags {
		w.WriteU32(f)
	}

	if c.Fields == nil {
		w.WriteU32(0)
	} else {
		sub := wire.NewWriter()
		sub.WriteU64(c.Fields.KeyEmpty.ID)
		sub.WriteU64(c.Fields.KeyRoot.ID)
		if err := schema.EncodeFields(sub, c.Fields.Fields, append(path, "fields")); err != nil {
			return err
		}
		w.WriteU32(uint32(sub.Len()))
		w.WriteBytes(sub.Bytes())
	}

	hasExtra, err := snap.Types().IsChildOf(c.Type, registry.ComponentBase)
	if err != nil {
		return errors.WithPath(err, path...)
	}
	if hasExtra != (c.Extra != nil) {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(path...).
			TypeName(c.Type).
			Detail("extra section present=%v, but descent from %s requires present=%v",
				c.Extra != nil, registry.ComponentBase, hasExtra).
			Build()
	}
	if hasExtra {
		if err := encodeExtra(w, c.Extra, path); err != nil {
			return err
		}
	}

	if err := encodeFunctions(w, c.Functions, path); err != nil {
		return err
	}

	layout, err := dispatchDependencies(snap.Types(), c.Type)
	if err != nil {
		return errors.WithPath(err, path...)
	}
	depPath := append(path, "dependencies")
	if layout == nil {
		if c.Dependencies != nil {
			return errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(depPath...).
				TypeName(c.Type).
				Detail("component type is outside every dependency family, payload must be nil").
				Build()
		}
		return nil
	}
	if c.Dependencies == nil {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(depPath...).
			TypeName(c.Type).
			Detail("component type dispatches to the %s layout, payload is nil", layout.base).
			Build()
	}
	return layout.encode(w, c.Dependencies, depPath)
}

func encodeExtra(w *wire.Writer, extra []ExtraField, path []string) error {
	w.WriteCount(len(extra))
	seen := make(map[uint64]bool, len(extra))
	for _, e := range extra {
		if seen[e.Key.ID] {
			return errors.DuplicateKey(errors.PhaseEncode, append(pathCopy(path), "extra"), e.Key.String())
		}
		seen[e.Key.ID] = true
		w.WriteU64(e.Key.ID)
		switch e.Value.Kind {
		case ExtraBool:
			w.WriteCString("bool")
			if e.Value.Flag {
				w.Byte(1)
			} else {
				w.Byte(0)
			}
		case ExtraString:
			w.WriteCString("string")
			w.WriteCString(e.Value.Str)
		default:
			return errors.UnsupportedValueType(errors.PhaseEncode,
				append(pathCopy(path), "extra", e.Key.String()), e.Value.Kind.Tag())
		}
	}
	return nil
}

func encodeFunctions(w *wire.Writer, funcs []FunctionEntry, path []string) error {
	w.WriteCount(len(funcs))
	for _, fn := range funcs {
		w.WriteCString(fn.Name)
		w.WriteU16(fn.Aux)
		w.WriteCount(len(fn.Args))
		seen := make(map[uint64]bool, len(fn.Args))
		for _, arg := range fn.Args {
			argPath := append(pathCopy(path), "functions", fn.Name, arg.Key.String())
			if seen[arg.Key.ID] {
				return errors.DuplicateKey(errors.PhaseEncode, argPath[:len(argPath)-1], arg.Key.String())
			}
			seen[arg.Key.ID] = true
			w.WriteU64(arg.Key.ID)
			switch arg.Value.Kind {
			case ArgString:
				w.Byte('s')
				w.WriteCString(arg.Value.Str)
			case ArgFloat32:
				w.Byte('f')
				w.WriteF32(arg.Value.F32)
			case ArgBool:
				w.Byte('b')
				if arg.Value.Flag {
					w.Byte(1)
				} else {
					w.Byte(0)
				}
			case ArgUInt32:
				w.Byte('i')
				w.WriteU32(arg.Value.U32)
			default:
				return errors.UnsupportedValueType(errors.PhaseEncode, argPath, string(arg.Value.Kind.Tag()))
			}
		}
	}
	return nil
}
