package ingest

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Each pulls records from the session until it is exhausted, fn returns
// an error, or ctx is cancelled. Cancellation is cooperative at the
// record boundary: no partially read line is ever delivered or dropped
// mid-record.
func (s *Session[E]) Each(ctx context.Context, fn func(LineRecord[E]) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, ok := s.Next()
		if !ok {
			return nil
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// ConsumePair consumes two independent sessions concurrently, typically
// one per subprocess stdout and stderr stream. Each session stays
// single-threaded on its own goroutine; fn must be safe to call from
// both. The first failure cancels the other session.
func ConsumePair[E any](ctx context.Context, out, errs *Session[E], fn func(LineRecord[E]) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return out.Each(ctx, fn) })
	g.Go(func() error { return errs.Each(ctx, fn) })
	return g.Wait()
}
