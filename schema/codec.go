package schema

import (
	"strconv"

	"github.com/mercurytools/actordef/errors"
	"github.com/mercurytools/actordef/internal/wire"
)

// DecodeFields reads one value per declared field, in declared order.
func DecodeFields(r *wire.Reader, fields []Field, path []string) ([]FieldValue, error) {
	values := make([]FieldValue, 0, len(fields))
	for _, f := range fields {
		v, err := DecodeValue(r, f.Type, child(path, f.Name))
		if err != nil {
			return nil, err
		}
		values = append(values, FieldValue{Name: f.Name, Value: v})
	}
	return values, nil
}

// DecodeValue reads one value shaped by the descriptor t. Failures carry the
// field path and the byte offset where the offending value starts.
func DecodeValue(r *wire.Reader, t Type, path []string) (Value, error) {
	switch d := t.(type) {
	case Prim:
		return decodePrim(r, d, path)
	case Array:
		list := make([]Value, 0, d.Len)
		for i := 0; i < d.Len; i++ {
			v, err := DecodeValue(r, d.Elem, child(path, strconv.Itoa(i)))
			if err != nil {
				return Value{}, err
			}
			list = append(list, v)
		}
		return Value{Kind: KindArray, List: list}, nil
	case Vector:
		n, err := r.ReadCount()
		if err != nil {
			return Value{}, errors.WithPath(err, path...)
		}
		list := make([]Value, 0, n)
		for i := 0; i < n; i++ {
			v, err := DecodeValue(r, d.Elem, child(path, strconv.Itoa(i)))
			if err != nil {
				return Value{}, err
			}
			list = append(list, v)
		}
		return Value{Kind: KindVector, List: list}, nil
	case Struct:
		fields, err := DecodeFields(r, d.Fields, path)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindStruct, Fields: fields}, nil
	case Union:
		at := r.Offset()
		tag, err := r.ReadByte()
		if err != nil {
			return Value{}, errors.WithPath(err, path...)
		}
		c := d.CaseFor(tag)
		if c == nil {
			e := errors.UnsupportedValueType(errors.PhaseDecode, pathCopy(path), string(tag))
			e.Offset = at
			return Value{}, e
		}
		v, err := DecodeValue(r, c.Type, child(path, c.Name))
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindUnion, Sel: &Variant{Tag: tag, Value: v}}, nil
	default:
		return Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(pathCopy(path)...).
			Offset(r.Offset()).
			Detail("unrecognized descriptor %T", t).
			Build()
	}
}

func decodePrim(r *wire.Reader, p Prim, path []string) (Value, error) {
	var v Value
	var err error
	switch p {
	case PrimBool:
		var b bool
		b, err = r.ReadBool()
		v = Bool(b)
	case PrimUInt8:
		var b byte
		b, err = r.ReadByte()
		v = UInt8(b)
	case PrimUInt16:
		var u uint16
		u, err = r.ReadU16()
		v = UInt16(u)
	case PrimUInt32:
		var u uint32
		u, err = r.ReadU32()
		v = UInt32(u)
	case PrimUInt64:
		var u uint64
		u, err = r.ReadU64()
		v = UInt64(u)
	case PrimInt32:
		var i int32
		i, err = r.ReadI32()
		v = Int32(i)
	case PrimFloat32:
		var f float32
		f, err = r.ReadF32()
		v = Float32(f)
	case PrimString:
		var s string
		s, err = r.ReadCString()
		v = String(s)
	default:
		return Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(pathCopy(path)...).
			Offset(r.Offset()).
			Detail("unrecognized primitive %d", p).
			Build()
	}
	if err != nil {
		return Value{}, errors.WithPath(err, path...)
	}
	return v, nil
}

// EncodeFields writes each field value in order.
func EncodeFields(w *wire.Writer, values []FieldValue, path []string) error {
	for _, fv := range values {
		if err := EncodeValue(w, fv.Value, child(path, fv.Name)); err != nil {
			return err
		}
	}
	return nil
}

// EncodeValue writes one value. The value tree alone determines the wire
// bytes; descriptors are only needed for decoding. Structurally invalid
// trees (zero kind, union without a selected case) fail rather than emit
// undefined bytes.
func EncodeValue(w *wire.Writer, v Value, path []string) error {
	switch v.Kind {
	case KindBool:
		if v.Flag {
			w.Byte(1)
		} else {
			w.Byte(0)
		}
	case KindUInt8:
		w.Byte(byte(v.Uint))
	case KindUInt16:
		w.WriteU16(uint16(v.Uint))
	case KindUInt32:
		w.WriteU32(uint32(v.Uint))
	case KindUInt64:
		w.WriteU64(v.Uint)
	case KindInt32:
		w.WriteI32(v.Int)
	case KindFloat32:
		w.WriteF32(v.F32)
	case KindString:
		w.WriteCString(v.Str)
	case KindArray:
		return encodeElems(w, v.List, path)
	case KindVector:
		w.WriteCount(len(v.List))
		return encodeElems(w, v.List, path)
	case KindStruct:
		return EncodeFields(w, v.Fields, path)
	case KindUnion:
		if v.Sel == nil {
			return errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(pathCopy(path)...).
				Detail("union value has no selected case").
				Build()
		}
		w.Byte(v.Sel.Tag)
		return EncodeValue(w, v.Sel.Value, path)
	default:
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(pathCopy(path)...).
			Detail("value has kind %d", v.Kind).
			Build()
	}
	return nil
}

func encodeElems(w *wire.Writer, elems []Value, path []string) error {
	for i, e := range elems {
		if err := EncodeValue(w, e, child(path, strconv.Itoa(i))); err != nil {
			return err
		}
	}
	return nil
}
