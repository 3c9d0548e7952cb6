package bmsad

import (
	"github.com/mercurytools/actordef/errors"
	"github.com/mercurytools/actordef/internal/wire"
	"github.com/mercurytools/actordef/registry"
)

// Dependencies is a component's type-specific auxiliary block, one of a
// fixed closed set of layouts. A nil interface is the empty variant:
// components outside every dependency-bearing family carry zero payload
// bytes, and that is a normal state, not an error.
type Dependencies interface {
	// BaseType returns the family base type whose layout this payload uses.
	BaseType() string

	isDependencies()
}

// FXEntry is one effects-file reference.
type FXEntry struct {
	File string
	Unk1 uint32
	Unk2 uint32
	Unk3 byte
}

// FXDependencies is the effects-family payload: a counted list of effects
// files. CStandaloneFXComponent shares this layout.
type FXDependencies struct {
	Entries []FXEntry
}

func (*FXDependencies) BaseType() string { return "CFXComponent" }
func (*FXDependencies) isDependencies() {}

// CollisionDependencies is a single collision-file record.
type CollisionDependencies struct {
	File string
	Unk  uint16
}

func (*CollisionDependencies) BaseType() string { return "CCollisionComponent" }
func (*CollisionDependencies) isDependencies() {}

// GrabCurve is one of the two parameter curves inside a grab entry.
type GrabCurve struct {
	Unk1 uint16
	Unk2 [8]float32
}

// GrabEntry is one grab-parameter block.
type GrabEntry struct {
	Unk1 string
	Unk2 string
	Unk3 string
	Unk4 float32
	Unk5 byte
	Unk6 byte
	Unk7 uint16
	Unk8 [2]GrabCurve
}

// GrabDependencies is the grab-family payload.
type GrabDependencies struct {
	Entries []GrabEntry
}

func (*GrabDependencies) BaseType() string { return "CGrabComponent" }
func (*GrabDependencies) isDependencies() {}

// BillboardGroup is one entry of the billboard payload's first list.
type BillboardGroup struct {
	ID   string
	Unk1 [3]uint32
	Unk2 byte
	Unk3 [2]uint32
	Unk4 float32
}

// BillboardItem is one entry of the billboard payload's second list.
type BillboardItem struct {
	ID   string
	Unk1 byte
	Unk2 [4]uint32
}

// BillboardDependencies is the dual-list billboard record.
type BillboardDependencies struct {
	ID1    string
	Groups []BillboardGroup
	ID2    string
	Items  []BillboardItem
}

func (*BillboardDependencies) BaseType() string { return "CBillboardComponent" }
func (*BillboardDependencies) isDependencies() {}

// SwarmDependencies is the triple string-list swarm-controller record.
type SwarmDependencies struct {
	Unk1 []string
	Unk2 []string
	Unk3 []string
}

func (*SwarmDependencies) BaseType() string { return "CSwarmControllerComponent" }
func (*SwarmDependencies) isDependencies() {}

// dependencyLayout binds one family base type to its payload codec.
type dependencyLayout struct {
	base   string
	decode func(r *wire.Reader, path []string) (Dependencies, error)
	encode func(w *wire.Writer, d Dependencies, path []string) error
}

// dependencyLayouts is scanned in order: the first base type the component
// descends from wins. The order is part of the format. The standalone
// effects family reuses the effects layout but is dispatched last.
var dependencyLayouts = []dependencyLayout{
	{"CFXComponent", decodeFXDeps, encodeFXDeps},
	{"CCollisionComponent", decodeCollisionDeps, encodeCollisionDeps},
	{"CGrabComponent", decodeGrabDeps, encodeGrabDeps},
	{"CBillboardComponent", decodeBillboardDeps, encodeBillboardDeps},
	{"CSwarmControllerComponent", decodeSwarmDeps, encodeSwarmDeps},
	{"CStandaloneFXComponent", decodeFXDeps, encodeFXDeps},
}

// dispatchDependencies returns the layout for a component type, or nil when
// the type belongs to no dependency-bearing family.
func dispatchDependencies(types *registry.Hierarchy, componentType string) (*dependencyLayout, error) {
	for i := range dependencyLayouts {
		ok, err := types.IsChildOf(componentType, dependencyLayouts[i].base)
		if err != nil {
			return nil, err
		}
		if ok {
			return &dependencyLayouts[i], nil
		}
	}
	return nil, nil
}

func decodeFXDeps(r *wire.Reader, path []string) (Dependencies, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, errors.WithPath(err, path...)
	}
	d := &FXDependencies{Entries: make([]FXEntry, 0, n)}
	for i := 0; i < n; i++ {
		var e FXEntry
		if e.File, err = r.ReadCString(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		if e.Unk1, err = r.ReadU32(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		if e.Unk2, err = r.ReadU32(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		if e.Unk3, err = r.ReadByte(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		d.Entries = append(d.Entries, e)
	}
	return d, nil
}

func encodeFXDeps(w *wire.Writer, dep Dependencies, path []string) error {
	d, ok := dep.(*FXDependencies)
	if !ok {
		return dependencyMismatch(dep, "effects list", path)
	}
	w.WriteCount(len(d.Entries))
	for _, e := range d.Entries {
		w.WriteCString(e.File)
		w.WriteU32(e.Unk1)
		w.WriteU32(e.Unk2)
		w.Byte(e.Unk3)
	}
	return nil
}

func decodeCollisionDeps(r *wire.Reader, path []string) (Dependencies, error) {
	d := &CollisionDependencies{}
	var err error
	if d.File, err = r.ReadCString(); err != nil {
		return nil, errors.WithPath(err, path...)
	}
	if d.Unk, err = r.ReadU16(); err != nil {
		return nil, errors.WithPath(err, path...)
	}
	return d, nil
}

func encodeCollisionDeps(w *wire.Writer, dep Dependencies, path []string) error {
	d, ok := dep.(*CollisionDependencies)
	if !ok {
		return dependencyMismatch(dep, "collision record", path)
	}
	w.WriteCString(d.File)
	w.WriteU16(d.Unk)
	return nil
}

func decodeGrabDeps(r *wire.Reader, path []string) (Dependencies, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, errors.WithPath(err, path...)
	}
	d := &GrabDependencies{Entries: make([]GrabEntry, 0, n)}
	for i := 0; i < n; i++ {
		var e GrabEntry
		if e.Unk1, err = r.ReadCString(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		if e.Unk2, err = r.ReadCString(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		if e.Unk3, err = r.ReadCString(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		if e.Unk4, err = r.ReadF32(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		if e.Unk5, err = r.ReadByte(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		if e.Unk6, err = r.ReadByte(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		if e.Unk7, err = r.ReadU16(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		for c := range e.Unk8 {
			if e.Unk8[c].Unk1, err = r.ReadU16(); err != nil {
				return nil, errors.WithPath(err, path...)
			}
			for f := range e.Unk8[c].Unk2 {
				if e.Unk8[c].Unk2[f], err = r.ReadF32(); err != nil {
					return nil, errors.WithPath(err, path...)
				}
			}
		}
		d.Entries = append(d.Entries, e)
	}
	return d, nil
}

func encodeGrabDeps(w *wire.Writer, dep Dependencies, path []string) error {
	d, ok := dep.(*GrabDependencies)
	if !ok {
		return dependencyMismatch(dep, "grab parameter list", path)
	}
	w.WriteCount(len(d.Entries))
	for _, e := range d.Entries {
		w.WriteCString(e.Unk1)
		w.WriteCString(e.Unk2)
		w.WriteCString(e.Unk3)
		w.WriteF32(e.Unk4)
		w.Byte(e.Unk5)
		w.Byte(e.Unk6)
		w.WriteU16(e.Unk7)
		for _, c := range e.Unk8 {
			w.WriteU16(c.Unk1)
			for _, f := range c.Unk2 {
				w.WriteF32(f)
			}
		}
	}
	return nil
}

func decodeBillboardDeps(r *wire.Reader, path []string) (Dependencies, error) {
	d := &BillboardDependencies{}
	var err error
	if d.ID1, err = r.ReadCString(); err != nil {
		return nil, errors.WithPath(err, path...)
	}
	n, err := r.ReadCount()
	if err != nil {
		return nil, errors.WithPath(err, path...)
	}
	d.Groups = make([]BillboardGroup, 0, n)
	for i := 0; i < n; i++ {
		var g BillboardGroup
		if g.ID, err = r.ReadCString(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		for j := range g.Unk1 {
			if g.Unk1[j], err = r.ReadU32(); err != nil {
				return nil, errors.WithPath(err, path...)
			}
		}
		if g.Unk2, err = r.ReadByte(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		for j := range g.Unk3 {
			if g.Unk3[j], err = r.ReadU32(); err != nil {
				return nil, errors.WithPath(err, path...)
			}
		}
		if g.Unk4, err = r.ReadF32(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		d.Groups = append(d.Groups, g)
	}
	if d.ID2, err = r.ReadCString(); err != nil {
		return nil, errors.WithPath(err, path...)
	}
	n, err = r.ReadCount()
	if err != nil {
		return nil, errors.WithPath(err, path...)
	}
	d.Items = make([]BillboardItem, 0, n)
	for i := 0; i < n; i++ {
		var it BillboardItem
		if it.ID, err = r.ReadCString(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		if it.Unk1, err = r.ReadByte(); err != nil {
			return nil, errors.WithPath(err, path...)
		}
		for j := range it.Unk2 {
			if it.Unk2[j], err = r.ReadU32(); err != nil {
				return nil, errors.WithPath(err, path...)
			}
		}
		d.Items = append(d.Items, it)
	}
	return d, nil
}

func encodeBillboardDeps(w *wire.Writer, dep Dependencies, path []string) error {
	d, ok := dep.(*BillboardDependencies)
	if !ok {
		return dependencyMismatch(dep, "billboard record", path)
	}
	w.WriteCString(d.ID1)
	w.WriteCount(len(d.Groups))
	for _, g := range d.Groups {
		w.WriteCString(g.ID)
		for _, v := range g.Unk1 {
			w.WriteU32(v)
		}
		w.Byte(g.Unk2)
		for _, v := range g.Unk3 {
			w.WriteU32(v)
		}
		w.WriteF32(g.Unk4)
	}
	w.WriteCString(d.ID2)
	w.WriteCount(len(d.Items))
	for _, it := range d.Items {
		w.WriteCString(it.ID)
		w.Byte(it.Unk1)
		for _, v := range it.Unk2 {
			w.WriteU32(v)
		}
	}
	return nil
}

func decodeSwarmDeps(r *wire.Reader, path []string) (Dependencies, error) {
	d := &SwarmDependencies{}
	for _, list := range []*[]string{&d.Unk1, &d.Unk2, &d.Unk3} {
		n, err := r.ReadCount()
		if err != nil {
			return nil, errors.WithPath(err, path...)
		}
		*list = make([]string, 0, n)
		for i := 0; i < n; i++ {
			s, err := r.ReadCString()
			if err != nil {
				return nil, errors.WithPath(err, path...)
			}
			*list = append(*list, s)
		}
	}
	return d, nil
}

func encodeSwarmDeps(w *wire.Writer, dep Dependencies, path []string) error {
	d, ok := dep.(*SwarmDependencies)
	if !ok {
		return dependencyMismatch(dep, "swarm controller record", path)
	}
	for _, list := range [][]string{d.Unk1, d.Unk2, d.Unk3} {
		w.WriteCount(len(list))
		for _, s := range list {
			w.WriteCString(s)
		}
	}
	return nil
}

func dependencyMismatch(dep Dependencies, want string, path []string) error {
	return errors.New(errors.PhaseEncode, errors.KindInvalidData).
		Path(path...).
		Detail("dependency payload is %T, component type dispatches to the %s layout", dep, want).
		Build()
}
