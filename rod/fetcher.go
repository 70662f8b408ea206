// Package rod renders pages in headless Chrome so features built by
// JavaScript are present in the document sent for extraction.
package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/pagefeat"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds navigation and rendering of one page.
const DefaultFetchTimeout = 10 * time.Second

// serializeJS returns the rendered document including open shadow roots,
// which outerHTML leaves out.
const serializeJS = `() => {
	const roots = [];
	const walk = (node) => {
		node.querySelectorAll('*').forEach((el) => {
			if (el.shadowRoot) {
				roots.push(el.shadowRoot);
				walk(el.shadowRoot);
			}
		});
	};
	walk(document);
	const html = document.documentElement;
	if (typeof html.getHTML !== 'function') {
		return html.outerHTML;
	}
	return '<!DOCTYPE html><html>' + html.getHTML({ shadowRoots: roots }) + '</html>';
}`

// Ensure Fetcher implements pagefeat.Fetcher at compile time.
var _ pagefeat.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using a headless Chrome browser.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	// Leakless kills Chrome if this process dies without Close
	l := launcher.New().
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, pagefeat.Errorf(pagefeat.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, pagefeat.Errorf(pagefeat.EUNAVAILABLE, "connecting to browser: %v", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// Fetch navigates to url, waits for it to settle and returns the rendered
// HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	browser := f.browser
	f.mu.Unlock()
	if browser == nil {
		return "", pagefeat.Errorf(pagefeat.EINVALID, "fetcher is closed")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	// One tab per fetch
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", f.fetchError(ctx, url, err)
	}
	defer page.Close()

	// Every page operation below honours the deadline
	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", f.fetchError(ctx, url, err)
	}
	// Wait for the load event, then for scripts to stop fetching
	if err := page.WaitLoad(); err != nil {
		return "", f.fetchError(ctx, url, err)
	}
	if err := page.WaitIdle(time.Second); err != nil {
		return "", f.fetchError(ctx, url, err)
	}

	// Serialize the live DOM, shadow roots included
	res, err := page.Eval(serializeJS)
	if err != nil {
		return "", f.fetchError(ctx, url, err)
	}
	return res.Value.Str(), nil
}

// fetchError reports an expired deadline as ETIMEOUT, returns caller
// cancellation wrapped, and reports anything else as the browser being
// unable to load the page.
func (f *Fetcher) fetchError(ctx context.Context, url string, err error) error {
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return pagefeat.Errorf(pagefeat.ETIMEOUT, "fetch %s: page did not settle before the deadline", url)
	case ctxErr != nil:
		return fmt.Errorf("fetch %s: %w", url, ctxErr)
	}
	return pagefeat.Errorf(pagefeat.EUNAVAILABLE, "fetch %s: %v", url, err)
}

// Close shuts down the browser and its process. Close is safe to call
// multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}

// LauncherPID returns the browser process ID, or zero after Close.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}
