package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // bytes to tree
	PhaseEncode   Phase = "encode"   // tree to bytes
	PhaseValidate Phase = "validate" // tree consistency checks
	PhaseRegistry Phase = "registry" // snapshot loading and lookups
	PhaseAsset    Phase = "asset"    // asset provider access
)

// Kind categorizes the error
type Kind string

const (
	KindFormatViolation       Kind = "format_violation"
	KindUnknownType           Kind = "unknown_type"
	KindUnknownComponentType  Kind = "unknown_component_type"
	KindUnknownDefinitionType Kind = "unknown_definition_type"
	KindUnsupportedValueType  Kind = "unsupported_value_type"
	KindDuplicateKey          Kind = "duplicate_key"
	KindInvalidData           Kind = "invalid_data"
	KindNotFound              Kind = "not_found"
)

// Error is the structured error type used throughout the library.
// Offset is the byte position in the input buffer, or -1 when not
// applicable. Chain holds the ancestor types visited while resolving a
// schema, outermost request first.
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Chain    []string
	Offset   int
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset >= 0 {
		b.WriteString(" (offset ")
		b.WriteString(strconv.Itoa(e.Offset))
		b.WriteByte(')')
	}

	if e.TypeName != "" {
		b.WriteString(": type ")
		b.WriteString(e.TypeName)
		if len(e.Chain) > 1 {
			b.WriteString(" (ascent ")
			b.WriteString(strings.Join(e.Chain, " -> "))
			b.WriteByte(')')
		}
	}

	if e.Detail != "" {
		if e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// TypeName sets the offending type name
func (b *Builder) TypeName(name string) *Builder {
	b.err.TypeName = name
	return b
}

// Chain sets the ascent chain attempted during schema resolution
func (b *Builder) Chain(chain ...string) *Builder {
	b.err.Chain = chain
	return b
}

// Offset sets the byte offset into the input
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// FormatViolation creates a framing error at the given byte offset:
// magic/version mismatch, truncation, trailing data, or a declared-length
// vs consumed-bytes mismatch.
func FormatViolation(phase Phase, offset int, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindFormatViolation,
		Offset: offset,
		Detail: detail,
	}
}

// UnknownType creates an error for a type name absent from the hierarchy
func UnknownType(phase Phase, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnknownType,
		TypeName: typeName,
		Offset:   -1,
		Detail:   "no hierarchy entry",
	}
}

// UnknownComponentType creates an error for a component type whose ascent
// chain reached no registered schema. The reported type is the originally
// requested one, not the ancestor where ascent stopped.
func UnknownComponentType(phase Phase, typeName string, chain []string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnknownComponentType,
		TypeName: typeName,
		Chain:    chain,
		Offset:   -1,
		Detail:   "no schema registered on ancestor chain",
	}
}

// UnknownDefinitionType creates an error for an envelope type outside the
// fixed definition table
func UnknownDefinitionType(phase Phase, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnknownDefinitionType,
		TypeName: typeName,
		Offset:   -1,
		Detail:   "not a definition type",
	}
}

// UnsupportedValueType creates an error for an unrecognized value
// discriminant tag
func UnsupportedValueType(phase Phase, path []string, tag string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedValueType,
		Path:   path,
		Offset: -1,
		Detail: fmt.Sprintf("unsupported value tag %q", tag),
		Value:  tag,
	}
}

// DuplicateKey creates an error for a repeated key in a map-keyed collection
func DuplicateKey(phase Phase, path []string, key string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateKey,
		Path:   path,
		Offset: -1,
		Detail: fmt.Sprintf("duplicate key %q", key),
		Value:  key,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Offset: -1,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Offset: -1,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: -1,
		Detail: detail,
		Cause:  cause,
	}
}

// WithPath prepends path elements to err when it is an *Error, so outer
// decoders can add enclosing context to errors raised deeper in the tree.
// Other error values pass through unchanged.
func WithPath(err error, elems ...string) error {
	if e, ok := err.(*Error); ok {
		if len(elems) > 0 {
			e.Path = append(append([]string{}, elems...), e.Path...)
		}
		return e
	}
	return err
}

// WithOffset sets the byte offset on err when it is an *Error and carries
// none yet. Other error values pass through unchanged.
func WithOffset(err error, offset int) error {
	if e, ok := err.(*Error); ok {
		if e.Offset < 0 {
			e.Offset = offset
		}
		return e
	}
	return err
}
