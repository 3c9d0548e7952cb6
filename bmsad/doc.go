// Package bmsad implements the codec for MSAD actor definition resources.
//
// A resource is an envelope (magic, version, name, definition type) around
// one definition body, either a character class or an actor definition. The
// body owns an ordered collection of components; each component's field
// block carries no embedded schema, so its layout is resolved at decode time
// through the registry snapshot's class hierarchy.
//
// Parse decodes one resource from a byte buffer. The decoder is strict:
// unknown types, duplicate keys, framing mismatches, and trailing bytes all
// abort the decode with a structured error, and no partial tree is ever
// returned. Encode is the exact inverse and reproduces well-formed inputs
// byte for byte.
//
// Decoding is synchronous and allocation-bounded by the input length. A
// snapshot is shared read-only, so independent Parse calls may run
// concurrently; ParseAll decodes a batch with bounded parallelism.
package bmsad
