package asset

import (
	"io/fs"

	"go.uber.org/zap"

	"github.com/mercurytools/actordef"
	"github.com/mercurytools/actordef/errors"
)

// Dir is an asset provider over a directory tree mirroring the extracted
// game filesystem. File paths relative to the root name the assets; file
// contents are read lazily on RawAsset.
type Dir struct {
	fsys  fs.FS
	paths map[actordef.AssetID]string
}

// NewDir indexes every regular file under fsys by the hash of its path.
func NewDir(fsys fs.FS) (*Dir, error) {
	d := &Dir{fsys: fsys, paths: make(map[actordef.AssetID]string)}
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		d.paths[ID(p)] = p
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.PhaseAsset, errors.KindInvalidData, err,
			"index asset tree")
	}
	Logger().Info("asset tree indexed", zap.Int("assets", len(d.paths)))
	return d, nil
}

// RawAsset reads the file registered under id.
func (d *Dir) RawAsset(id actordef.AssetID) ([]byte, error) {
	p, ok := d.paths[id]
	if !ok {
		return nil, errors.NotFound(errors.PhaseAsset, "asset", id.String())
	}
	data, err := fs.ReadFile(d.fsys, p)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseAsset, errors.KindNotFound, err, "read "+p)
	}
	Logger().Debug("asset read", zap.String("path", p), zap.Int("bytes", len(data)))
	return data, nil
}

// AssetNames returns the id to path mapping of every indexed file.
func (d *Dir) AssetNames() map[actordef.AssetID]string {
	out := make(map[actordef.AssetID]string, len(d.paths))
	for id, p := range d.paths {
		out[id] = p
	}
	return out
}
