package heliacal

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// HeliacalEvents runs the requests concurrently, at most the engine's
// worker count at a time, and returns their results in request order.
// Requests that find no event yield a StatusNotFound result; any other
// failure cancels the remaining requests and is returned.
func (e *Engine) HeliacalEvents(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, r := range reqs {
		i, r := i, r
		g.Go(func() error {
			res, err := e.HeliacalEvent(ctx, r.Start, r.Location, r.Atmosphere, r.Observer, r.Object, r.Event, r.Flags)
			results[i] = res
			if statusOf(err) == StatusNotFound {
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
