// Package errors provides structured error types for the actordef library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: byte offset into the
// input, field path, offending type name, and the ascent chain attempted
// during schema resolution.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindFormatViolation).
//		Offset(12).
//		Detail("declared length %d, consumed %d", 32, 28).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FormatViolation(errors.PhaseDecode, off, "trailing data")
//	err := errors.DuplicateKey(errors.PhaseDecode, path, "LIFE")
//
// All errors implement the standard error interface and support errors.Is/As;
// Is matches on (Phase, Kind).
package errors
