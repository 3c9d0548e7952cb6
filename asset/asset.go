// Package asset implements the asset-provider contract of the root package:
// an in-memory map for tests and tools, a provider over an extracted game
// directory tree, and a catalog mapping asset ids back to path names.
//
// Asset ids are the 64-bit name hash of the asset's path. The archive
// container formats of the game are out of scope; Dir stands in for an
// already extracted tree.
package asset

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mercurytools/actordef"
	"github.com/mercurytools/actordef/errors"
	"github.com/mercurytools/actordef/names"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the asset package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the asset package's logger.
// This must be called before any providers are built.
func SetLogger(l *zap.Logger) {
	logger = l
}

// ID returns the asset id for a path name.
func ID(name string) actordef.AssetID {
	return actordef.AssetID(names.Hash(name))
}

// Map is an in-memory asset provider. Build it up front with Add, then
// share it read-only; lookups are safe for concurrent readers.
type Map struct {
	data  map[actordef.AssetID][]byte
	names map[actordef.AssetID]string
}

// NewMap creates an empty in-memory provider.
func NewMap() *Map {
	return &Map{
		data:  make(map[actordef.AssetID][]byte),
		names: make(map[actordef.AssetID]string),
	}
}

// Add stores data under the id hashed from name and returns that id.
func (m *Map) Add(name string, data []byte) actordef.AssetID {
	id := ID(name)
	m.data[id] = data
	m.names[id] = name
	return id
}

// RawAsset returns the bytes stored under id.
func (m *Map) RawAsset(id actordef.AssetID) ([]byte, error) {
	data, ok := m.data[id]
	if !ok {
		return nil, errors.NotFound(errors.PhaseAsset, "asset", id.String())
	}
	return data, nil
}

// AssetNames returns the id to name mapping of every stored asset.
func (m *Map) AssetNames() map[actordef.AssetID]string {
	out := make(map[actordef.AssetID]string, len(m.names))
	for id, name := range m.names {
		out[id] = name
	}
	return out
}
