// Package schema describes field layouts for component field blocks.
//
// A Schema is an ordered list of named, typed fields. Field types form a
// small descriptor language: primitive scalars, fixed-length arrays,
// count-prefixed vectors, nested structs, and byte-tagged unions. The
// registry package resolves component type names to schemas; the bmsad
// package walks a schema to decode or encode the raw field bytes.
package schema

import (
	"fmt"
	"strconv"
)

// Type is one field-layout descriptor.
type Type interface {
	isType()
	String() string
}

// Prim represents primitive scalar types.
type Prim byte

const (
	PrimBool Prim = iota + 1
	PrimUInt8
	PrimUInt16
	PrimUInt32
	PrimUInt64
	PrimInt32
	PrimFloat32
	PrimString
)

func (Prim) isType() {}

func (p Prim) String() string {
	switch p {
	case PrimBool:
		return "bool"
	case PrimUInt8:
		return "uint8"
	case PrimUInt16:
		return "uint16"
	case PrimUInt32:
		return "uint32"
	case PrimUInt64:
		return "uint64"
	case PrimInt32:
		return "int32"
	case PrimFloat32:
		return "float32"
	case PrimString:
		return "string"
	default:
		return "prim(" + strconv.Itoa(int(p)) + ")"
	}
}

// Array is a fixed-length sequence with no count prefix.
type Array struct {
	Elem Type
	Len  int
}

func (Array) isType() {}

func (a Array) String() string {
	return fmt.Sprintf("%s[%d]", a.Elem, a.Len)
}

// Vector is a sequence prefixed with a uint32 element count.
type Vector struct {
	Elem Type
}

func (Vector) isType() {}

func (v Vector) String() string {
	return fmt.Sprintf("vector<%s>", v.Elem)
}

// Struct is a nested record; fields are encoded in declared order.
type Struct struct {
	Fields []Field
}

func (Struct) isType() {}

func (s Struct) String() string {
	return "struct"
}

// Union is a tagged union: one tag byte on the wire selects a case.
type Union struct {
	Cases []Case
}

func (Union) isType() {}

func (u Union) String() string {
	return "union"
}

// Field is one named member of a Schema or Struct.
type Field struct {
	Name string
	Type Type
}

// Case is one alternative of a Union, selected by its wire tag.
type Case struct {
	Type Type
	Name string
	Tag  byte
}

// CaseFor returns the case matching tag, or nil.
func (u Union) CaseFor(tag byte) *Case {
	for i := range u.Cases {
		if u.Cases[i].Tag == tag {
			return &u.Cases[i]
		}
	}
	return nil
}

// Schema is the complete field layout registered under one schema name.
type Schema struct {
	Name   string
	Fields []Field
}
