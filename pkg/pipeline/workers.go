package pipeline

import (
	"context"
	"sync"
)

// itemError pairs a failed item with its error.
type itemError[T any] struct {
	Item T
	Err  error
}

// itemResult pairs a successful output with the item that produced it. A
// source may answer under a different spelling of the queried name, so
// callers that key ledger entries or snapshot records by subject need the
// input back, not just the output.
type itemResult[T, R any] struct {
	Item T
	Out  R
}

// fanOut runs fn over items with at most workers goroutines. Successes
// keep input order and carry their originating item; failures are
// returned alongside theirs so the caller can ledger them. The first
// context cancellation stops dispatching new items.
func fanOut[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) (R, error)) ([]itemResult[T, R], []itemError[T]) {
	if workers < 1 {
		workers = 1
	}

	type slot struct {
		ok  bool
		out R
		err error
	}
	slots := make([]slot, len(items))

	var wg sync.WaitGroup
	indices := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				out, err := fn(ctx, items[i])
				if err != nil {
					slots[i] = slot{err: err}
					continue
				}
				slots[i] = slot{ok: true, out: out}
			}
		}()
	}

dispatch:
	for i := range items {
		select {
		case <-ctx.Done():
			break dispatch
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()

	successes := make([]itemResult[T, R], 0, len(items))
	var failures []itemError[T]
	for i, s := range slots {
		switch {
		case s.ok:
			successes = append(successes, itemResult[T, R]{Item: items[i], Out: s.out})
		case s.err != nil:
			failures = append(failures, itemError[T]{Item: items[i], Err: s.err})
		case ctx.Err() != nil:
			// Never dispatched. Report the cancellation, not silence.
			failures = append(failures, itemError[T]{Item: items[i], Err: ctx.Err()})
		}
	}
	return successes, failures
}
