package schema

// Kind identifies which payload field of a Value is meaningful.
type Kind byte

const (
	KindBool Kind = iota + 1
	KindUInt8
	KindUInt16
	KindUInt32
	KindUInt64
	KindInt32
	KindFloat32
	KindString
	KindArray
	KindVector
	KindStruct
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindUInt8:
		return "uint8"
	case KindUInt16:
		return "uint16"
	case KindUInt32:
		return "uint32"
	case KindUInt64:
		return "uint64"
	case KindInt32:
		return "int32"
	case KindFloat32:
		return "float32"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindVector:
		return "vector"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	default:
		return "invalid"
	}
}

// Kind returns the value kind a primitive decodes to.
func (p Prim) Kind() Kind {
	switch p {
	case PrimBool:
		return KindBool
	case PrimUInt8:
		return KindUInt8
	case PrimUInt16:
		return KindUInt16
	case PrimUInt32:
		return KindUInt32
	case PrimUInt64:
		return KindUInt64
	case PrimInt32:
		return KindInt32
	case PrimFloat32:
		return KindFloat32
	case PrimString:
		return KindString
	default:
		return 0
	}
}

// Value is one decoded field value. Kind selects the payload; the other
// fields are zero. Values are plain trees with no references into readers
// or registries, so reflect.DeepEqual compares them structurally.
type Value struct {
	Fields []FieldValue // KindStruct
	List   []Value      // KindArray, KindVector
	Sel    *Variant     // KindUnion
	Str    string       // KindString
	Uint   uint64       // KindUInt8 through KindUInt64
	Int    int32        // KindInt32
	F32    float32      // KindFloat32
	Flag   bool         // KindBool
	Kind   Kind
}

// FieldValue pairs a field name with its decoded value.
type FieldValue struct {
	Name  string
	Value Value
}

// Variant is a decoded union case: the wire tag plus the case's value.
type Variant struct {
	Value Value
	Tag   byte
}

// Value constructors. Tests and tools build field trees with these instead
// of spelling out struct literals.

func Bool(v bool) Value       { return Value{Kind: KindBool, Flag: v} }
func UInt8(v uint8) Value     { return Value{Kind: KindUInt8, Uint: uint64(v)} }
func UInt16(v uint16) Value   { return Value{Kind: KindUInt16, Uint: uint64(v)} }
func UInt32(v uint32) Value   { return Value{Kind: KindUInt32, Uint: uint64(v)} }
func UInt64(v uint64) Value   { return Value{Kind: KindUInt64, Uint: v} }
func Int32(v int32) Value     { return Value{Kind: KindInt32, Int: v} }
func Float32(v float32) Value { return Value{Kind: KindFloat32, F32: v} }
func String(v string) Value   { return Value{Kind: KindString, Str: v} }

// ArrayOf builds a fixed-array value.
func ArrayOf(elems ...Value) Value { return Value{Kind: KindArray, List: elems} }

// VectorOf builds a count-prefixed vector value.
func VectorOf(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: KindVector, List: elems}
}

// StructOf builds a nested struct value.
func StructOf(fields ...FieldValue) Value { return Value{Kind: KindStruct, Fields: fields} }

// UnionOf builds a union value carrying the selected case.
func UnionOf(tag byte, v Value) Value {
	return Value{Kind: KindUnion, Sel: &Variant{Tag: tag, Value: v}}
}
