package extract

import (
	"context"

	"github.com/fwojciec/pagefeat"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of documents extracted at once by All
// when no limit is given.
const DefaultConcurrency = 4

// Result is the outcome of one document in a batch. Exactly one of Outcome
// and Err is set.
type Result struct {
	Outcome pagefeat.Outcome
	Err     error
}

// All extracts every document with at most concurrency calls in flight and
// returns the results in input order. A failed document does not stop the
// others; cancelling ctx does.
func All(ctx context.Context, ext pagefeat.Extractor, documents []string, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]Result, len(documents))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, doc := range documents {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Err: err}
				return nil
			}
			outcome, err := ext.Extract(ctx, doc)
			results[i] = Result{Outcome: outcome, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
