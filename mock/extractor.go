package mock

import (
	"context"

	"github.com/fwojciec/pagefeat"
)

var _ pagefeat.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pagefeat.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, document string) (pagefeat.Outcome, error)
}

func (e *Extractor) Extract(ctx context.Context, document string) (pagefeat.Outcome, error) {
	return e.ExtractFn(ctx, document)
}
