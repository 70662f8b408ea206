package pagefeat

import "context"

// Fetcher loads the document behind a URL so it can be extracted the same way
// as an uploaded file. The http package fetches static pages; the rod
// package renders them in a headless browser first.
type Fetcher interface {
	// Fetch returns the page decoded as UTF-8. Unreachable hosts and non-OK
	// responses are EUNAVAILABLE.
	Fetch(ctx context.Context, url string) (document string, err error)

	Close() error
}
