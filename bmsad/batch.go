package bmsad

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mercurytools/actordef"
	"github.com/mercurytools/actordef/errors"
	"github.com/mercurytools/actordef/registry"
)

// ParseAll decodes every requested asset concurrently, at most workers at a
// time, and returns the decoded resources keyed by asset id. The first
// failure cancels the remaining work and is returned; no partial result map
// is ever handed back. workers below one means one.
func ParseAll(ctx context.Context, provider actordef.AssetProvider, snap *registry.Snapshot, ids []actordef.AssetID, workers int) (map[actordef.AssetID]*Resource, error) {
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]*Resource, len(ids))
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := provider.RawAsset(id)
			if err != nil {
				return errors.Wrap(errors.PhaseAsset, errors.KindNotFound, err,
					"load asset "+id.String())
			}
			res, err := Parse(data, snap)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[actordef.AssetID]*Resource, len(ids))
	for i, id := range ids {
		out[id] = results[i]
	}
	return out, nil
}
