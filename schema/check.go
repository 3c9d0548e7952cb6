package schema

import (
	"strconv"

	"github.com/mercurytools/actordef/errors"
)

// CheckValue reports whether v structurally matches the descriptor t:
// matching kinds, array lengths, struct field names in declared order, and
// union tags drawn from the declared cases. The walk is fail-fast and
// returns a validate-phase error naming the first mismatch.
func CheckValue(v Value, t Type, path []string) error {
	switch d := t.(type) {
	case Prim:
		if v.Kind != d.Kind() {
			return kindMismatch(v.Kind, d.String(), path)
		}
	case Array:
		if v.Kind != KindArray {
			return kindMismatch(v.Kind, d.String(), path)
		}
		if len(v.List) != d.Len {
			return errors.New(errors.PhaseValidate, errors.KindInvalidData).
				Path(path...).
				Detail("array has %d elements, layout declares %d", len(v.List), d.Len).
				Build()
		}
		return checkElems(v.List, d.Elem, path)
	case Vector:
		if v.Kind != KindVector {
			return kindMismatch(v.Kind, d.String(), path)
		}
		return checkElems(v.List, d.Elem, path)
	case Struct:
		if v.Kind != KindStruct {
			return kindMismatch(v.Kind, d.String(), path)
		}
		return CheckFields(v.Fields, d.Fields, path)
	case Union:
		if v.Kind != KindUnion || v.Sel == nil {
			return kindMismatch(v.Kind, d.String(), path)
		}
		c := d.CaseFor(v.Sel.Tag)
		if c == nil {
			return errors.UnsupportedValueType(errors.PhaseValidate, pathCopy(path), string(v.Sel.Tag))
		}
		return CheckValue(v.Sel.Value, c.Type, child(path, c.Name))
	default:
		return errors.New(errors.PhaseValidate, errors.KindInvalidData).
			Path(path...).
			Detail("unrecognized descriptor %T", t).
			Build()
	}
	return nil
}

// CheckFields matches decoded field values against declared fields by
// position: same count, same names, same order.
func CheckFields(values []FieldValue, decl []Field, path []string) error {
	if len(values) != len(decl) {
		return errors.New(errors.PhaseValidate, errors.KindInvalidData).
			Path(path...).
			Detail("%d field values against %d declared fields", len(values), len(decl)).
			Build()
	}
	for i, f := range decl {
		if values[i].Name != f.Name {
			return errors.New(errors.PhaseValidate, errors.KindInvalidData).
				Path(path...).
				Detail("field %d is %q, layout declares %q", i, values[i].Name, f.Name).
				Build()
		}
		if err := CheckValue(values[i].Value, f.Type, child(path, f.Name)); err != nil {
			return err
		}
	}
	return nil
}

func checkElems(elems []Value, t Type, path []string) error {
	for i, e := range elems {
		if err := CheckValue(e, t, child(path, strconv.Itoa(i))); err != nil {
			return err
		}
	}
	return nil
}

func kindMismatch(got Kind, want string, path []string) error {
	return errors.New(errors.PhaseValidate, errors.KindInvalidData).
		Path(path...).
		Detail("value kind %s, layout declares %s", got, want).
		Build()
}

// child extends a path without sharing the parent's backing array.
func child(path []string, elem string) []string {
	return append(path[:len(path):len(path)], elem)
}

func pathCopy(path []string) []string {
	return append([]string{}, path...)
}
