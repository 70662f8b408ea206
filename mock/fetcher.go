package mock

import (
	"context"

	"github.com/fwojciec/pagefeat"
)

var _ pagefeat.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pagefeat.Fetcher. A nil CloseFn makes
// Close a no-op so most tests only set FetchFn.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (m *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return m.FetchFn(ctx, url)
}

func (m *Fetcher) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}
