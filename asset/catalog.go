package asset

import (
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/mercurytools/actordef"
	"github.com/mercurytools/actordef/errors"
)

// Catalog maps asset ids back to names, with a content digest per id so
// merged trees cannot silently shadow differing data: re-registering an id
// is allowed only when the new content digests identically.
type Catalog struct {
	names   map[actordef.AssetID]string
	digests map[actordef.AssetID]uint64
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		names:   make(map[actordef.AssetID]string),
		digests: make(map[actordef.AssetID]uint64),
	}
}

// Register records name and the digest of data under name's id. A repeated
// id with matching content is a no-op; differing content is rejected.
func (c *Catalog) Register(name string, data []byte) (actordef.AssetID, error) {
	id := ID(name)
	digest := xxhash.Sum64(data)
	if prev, ok := c.digests[id]; ok {
		if prev != digest {
			return 0, errors.New(errors.PhaseAsset, errors.KindDuplicateKey).
				Detail("asset %s registered twice with differing content", id).
				Build()
		}
		Logger().Warn("duplicate asset content",
			zap.String("name", name), zap.String("id", id.String()))
		return id, nil
	}
	c.names[id] = name
	c.digests[id] = digest
	return id, nil
}

// AddProvider registers every asset a cataloging provider holds.
func (c *Catalog) AddProvider(p actordef.AssetProvider) error {
	cataloger, ok := p.(actordef.AssetCataloger)
	if !ok {
		return errors.New(errors.PhaseAsset, errors.KindInvalidData).
			Detail("provider %T cannot enumerate its assets", p).
			Build()
	}
	byID := cataloger.AssetNames()

	// Deterministic order so a conflict is reported against the same
	// earlier registration on every run.
	sorted := make([]string, 0, len(byID))
	for _, name := range byID {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		data, err := p.RawAsset(ID(name))
		if err != nil {
			return err
		}
		if _, err := c.Register(name, data); err != nil {
			return err
		}
	}
	return nil
}

// Name resolves an id back to its registered name.
func (c *Catalog) Name(id actordef.AssetID) (string, bool) {
	name, ok := c.names[id]
	return name, ok
}

// Len returns the number of registered assets.
func (c *Catalog) Len() int {
	return len(c.names)
}
