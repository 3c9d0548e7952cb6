package actordef

import "fmt"

// AssetID identifies one asset inside the game filesystem. It is the 64-bit
// hash of the asset's path (see names.Hash).
type AssetID uint64

// String renders the id as 0x-prefixed hex, the same form unknown interned
// names render as.
func (id AssetID) String() string {
	return fmt.Sprintf("0x%016x", uint64(id))
}

// AssetProvider supplies raw asset bytes by id. Implementations live in the
// asset package; the codec never touches storage or archive structure
// directly.
type AssetProvider interface {
	RawAsset(id AssetID) ([]byte, error)
}

// AssetCataloger is implemented by providers that can enumerate the assets
// they hold as an id to name mapping.
type AssetCataloger interface {
	AssetNames() map[AssetID]string
}
