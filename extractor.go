package pagefeat

import "context"

// Extractor extracts the features of one HTML document.
type Extractor interface {
	// Extract returns Found or NotFound. An error is returned only when the
	// document is malformed (EINVALID) or the generator could not be reached
	// (EUNAVAILABLE, ETIMEOUT).
	Extract(ctx context.Context, document string) (Outcome, error)
}
