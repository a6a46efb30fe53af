package inference

import (
	"context"

	"golang.org/x/sync/errgroup"

	"ledgerscope/domain/grid"
)

// ProfileColumns infers every column of a projection, fanning out one worker
// per column. Workers read the shared projection and write only their own
// output slot; the group is joined before any result is visible.
func ProfileColumns(ctx context.Context, proj *grid.Projection, config Config) ([]ColumnProfile, error) {
	coercer := NewCoercer(config)
	profiles := make([]ColumnProfile, len(proj.Headers))

	g, _ := errgroup.WithContext(ctx)
	for i, name := range proj.Headers {
		g.Go(func() error {
			profiles[i] = coercer.ProfileColumn(name, proj.Columns[name])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}
