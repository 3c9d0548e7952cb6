// Package actordef provides a Go codec for the binary actor definition
// resources ("BMSAD") used by the Mercury engine to describe runtime
// objects assembled from pluggable behavior components.
//
// A resource carries no self-describing schema: the layout of every
// component's field block is resolved at decode time against a versioned,
// externally supplied class-inheritance table and schema registry. The
// codec is strict: unknown types, framing mismatches, and trailing bytes
// all abort the decode rather than producing a plausible partial parse.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	actordef/            Root package with the asset provider contract
//	├── bmsad/           Resource codec: envelope, definitions, components
//	├── registry/        Type hierarchy, schema resolution, snapshot loading
//	├── schema/          Field-layout descriptors and the typed value tree
//	├── names/           64-bit name hashing and interned-string tables
//	├── asset/           Asset providers (in-memory, directory tree) and catalog
//	├── errors/          Structured error types for decode failures
//	└── cmd/inspect/     Command-line resource inspector
//
// # Quick Start
//
// Load a registry snapshot and decode one resource:
//
//	snap, err := registry.LoadSnapshot(os.DirFS("registries"), registry.GameSamusReturns)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := os.ReadFile("samus.bmsad")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := bmsad.Parse(data, snap)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Name, len(res.Definition.Components()))
//
// # Thread Safety
//
// A Snapshot is immutable after construction and safe for concurrent
// readers. Decoded Resource trees are owned by the caller and are not
// synchronized. Independent decode calls share no mutable state; see
// bmsad.ParseAll for bounded-concurrency batch decoding.
package actordef
