package analytics

import (
	"golang.org/x/sync/errgroup"
)

// forEach calls fn for every i in [0,n), with at most concurrency calls in flight.
// fn must only write to state owned by slot i: results are then in slot order,
// independent of completion order.
func forEach(n, concurrency int, fn func(i int) error) error {
	if concurrency <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
