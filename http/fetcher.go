package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/pagefeat"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxPageBytes caps the size of a fetched page. It matches the
// server's default upload limit so a page that can be fetched can also be
// uploaded.
const DefaultMaxPageBytes = DefaultMaxUploadBytes

// Ensure Fetcher implements pagefeat.Fetcher at compile time.
var _ pagefeat.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves raw HTML with a plain GET. It does not execute
// JavaScript; use rod.Fetcher for client-rendered pages.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBytes sets the largest page the fetcher accepts.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxBytes: DefaultMaxPageBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// Fetch returns the body of url as text. Non-200 responses and unreachable
// hosts are EUNAVAILABLE, a slow server is ETIMEOUT, and oversized or
// non-UTF-8 pages are EINVALID.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", pagefeat.Errorf(pagefeat.EINVALID, "invalid url %q: %v", url, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", f.requestError(ctx, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", pagefeat.Errorf(pagefeat.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", f.requestError(ctx, url, err)
	}
	if int64(len(body)) > f.maxBytes {
		return "", pagefeat.Errorf(pagefeat.EINVALID, "page %s exceeds %d bytes", url, f.maxBytes)
	}
	return pagefeat.DecodeDocument(body)
}

// requestError returns caller cancellation unchanged, reports the client
// timeout as ETIMEOUT and any other failure as EUNAVAILABLE.
func (f *Fetcher) requestError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return pagefeat.Errorf(pagefeat.ETIMEOUT, "fetch %s: no response within %s", url, f.timeout)
	}
	return pagefeat.Errorf(pagefeat.EUNAVAILABLE, "fetch %s: %v", url, err)
}

// Close is a no-op; http.Client needs no cleanup.
func (f *Fetcher) Close() error {
	return nil
}
