package bmsad

import (
	"github.com/mercurytools/actordef/names"
	"github.com/mercurytools/actordef/schema"
)

// Resource is one decoded actor definition file: the envelope name plus the
// definition body. The envelope type string is implied by the body's
// concrete variant.
type Resource struct {
	Name       string
	Definition Definition
}

// Definition is the body of a resource, one of two variants: *CharClass or
// *ActorDef.
type Definition interface {
	// TypeName returns the envelope type string selecting this variant.
	TypeName() string

	// Components returns the ordered component collection.
	Components() []ComponentEntry

	isDefinition()
}

// SourceRef is one (name, flag) source file reference.
type SourceRef struct {
	Name string
	Flag byte
}

// ComponentEntry pairs a component with its key. Entries keep file order;
// keys are unique within one definition.
type ComponentEntry struct {
	Key       string
	Component Component
}

// ActorDef is the actor definition variant.
type ActorDef struct {
	Unk1      uint16
	Unk2      uint32
	Unk3      uint16
	SubActors []string
	Unk4      string
	Entries   []ComponentEntry
	Binaries  []string
	Sources   []SourceRef
}

func (*ActorDef) TypeName() string { return TypeActorDef }

func (d *ActorDef) Components() []ComponentEntry { return d.Entries }

func (*ActorDef) isDefinition() {}

// CharClass is the character class variant. It extends the actor definition
// layout with a model name, a fixed float block, and a magic constant that
// must read back as CharClassMagic.
type CharClass struct {
	ModelName string
	Unk1      uint16
	Unk2      uint32
	Unk3      uint16
	SubActors []string
	Unk4      [9]float32
	Unk5      byte
	Unk6      string
	Unk7      byte
	Entries   []ComponentEntry
	Binaries  []string
	Sources   []SourceRef
}

func (*CharClass) TypeName() string { return TypeCharClass }

func (d *CharClass) Components() []ComponentEntry { return d.Entries }

func (*CharClass) isDefinition() {}

// Component is one behavior module attached to a definition.
//
// Fields is nil exactly when the wire carried a zero field-block length.
// Extra is nil exactly when the section was absent from the wire, which the
// format ties to the component type's descent from CComponent; a present
// section with no entries is a non-nil empty slice.
type Component struct {
	Type         string
	Flags        [2]uint32
	Fields       *FieldBlock
	Extra        []ExtraField
	Functions    []FunctionEntry
	Dependencies Dependencies
}

// FieldBlock is the schema-resolved field region of a component: two
// interned-key placeholders followed by the resolved schema's fields in
// declared order.
type FieldBlock struct {
	KeyEmpty names.Key
	KeyRoot  names.Key
	Fields   []schema.FieldValue
}

// ExtraField is one entry of a component's extra-properties section.
type ExtraField struct {
	Key   names.Key
	Value ExtraValue
}

// ExtraKind discriminates ExtraValue.
type ExtraKind byte

const (
	ExtraBool ExtraKind = iota + 1
	ExtraString
)

// Tag returns the inline wire tag for the kind.
func (k ExtraKind) Tag() string {
	switch k {
	case ExtraBool:
		return "bool"
	case ExtraString:
		return "string"
	default:
		return ""
	}
}

// ExtraValue is the tagged union carried by an extra-properties entry.
type ExtraValue struct {
	Str  string
	Flag bool
	Kind ExtraKind
}

// ExtraBoolValue builds a bool-typed extra value.
func ExtraBoolValue(v bool) ExtraValue { return ExtraValue{Kind: ExtraBool, Flag: v} }

// ExtraStringValue builds a string-typed extra value.
func ExtraStringValue(v string) ExtraValue { return ExtraValue{Kind: ExtraString, Str: v} }

// FunctionEntry is one named function call in a component's function table.
type FunctionEntry struct {
	Name string
	Aux  uint16
	Args []FunctionArg
}

// FunctionArg pairs an interned argument key with its value. Keys are
// unique within one entry; order is file order.
type FunctionArg struct {
	Key   names.Key
	Value ArgValue
}

// ArgKind discriminates ArgValue.
type ArgKind byte

const (
	ArgString ArgKind = iota + 1
	ArgFloat32
	ArgBool
	ArgUInt32
)

// Tag returns the single-byte wire discriminant for the kind.
func (k ArgKind) Tag() byte {
	switch k {
	case ArgString:
		return 's'
	case ArgFloat32:
		return 'f'
	case ArgBool:
		return 'b'
	case ArgUInt32:
		return 'i'
	default:
		return 0
	}
}

// ArgValue is one function argument value, discriminated on the wire by a
// single ASCII tag byte.
type ArgValue struct {
	Str  string
	F32  float32
	U32  uint32
	Flag bool
	Kind ArgKind
}

// ArgStringValue builds a string argument.
func ArgStringValue(v string) ArgValue { return ArgValue{Kind: ArgString, Str: v} }

// ArgFloatValue builds a float32 argument.
func ArgFloatValue(v float32) ArgValue { return ArgValue{Kind: ArgFloat32, F32: v} }

// ArgBoolValue builds a bool argument.
func ArgBoolValue(v bool) ArgValue { return ArgValue{Kind: ArgBool, Flag: v} }

// ArgUIntValue builds a uint32 argument.
func ArgUIntValue(v uint32) ArgValue { return ArgValue{Kind: ArgUInt32, U32: v} }
