package doapi

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Branch is one leg of a fan-out.
type Branch func(ctx context.Context) error

// Join runs every branch concurrently and returns once all have finished.
//
// Failure policy is all-or-nothing: a failing branch does not cancel its
// siblings, but Join reports the first error observed, and callers must commit
// nothing from any branch unless Join returns nil.
func Join(ctx context.Context, branches ...Branch) error {
	var group errgroup.Group

	for _, branch := range branches {
		group.Go(func() error {
			return branch(ctx)
		})
	}

	return group.Wait()
}

// Collect adapts a fetch into a Branch that stores its result in dst on
// success. dst is left untouched on failure.
func Collect[T any](dst *T, fetch func(ctx context.Context) (T, error)) Branch {
	return func(ctx context.Context) error {
		value, err := fetch(ctx)
		if err != nil {
			return err
		}

		*dst = value

		return nil
	}
}
