package domain

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RunInstances runs n independent fuzzing instances and waits for all of them.
// Each instance owns its state; nothing mutable is shared between calls of run.
// The first failure cancels the context handed to the others.
func RunInstances(ctx context.Context, n int, run func(ctx context.Context, instance int) error) error {
	if n <= 0 {
		n = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)

	for i := range n {
		group.Go(func() error {
			if err := run(groupCtx, i); err != nil {
				return fmt.Errorf("instance %d: %w", i, err)
			}

			return nil
		})
	}

	return group.Wait()
}
