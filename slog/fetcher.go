package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagefeat"
)

var _ pagefeat.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher records every page fetch made for extract --url. Failed
// fetches are logged at warn level with their application error code.
type LoggingFetcher struct {
	next   pagefeat.Fetcher
	logger *slog.Logger
}

func NewLoggingFetcher(next pagefeat.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (document string, err error) {
	defer func(begin time.Time) {
		if err != nil {
			f.logger.Warn("fetch",
				"url", url,
				"code", pagefeat.ErrorCode(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		f.logger.Info("fetch", "url", url, "bytes", len(document), "duration", time.Since(begin))
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close releases the wrapped fetcher and logs a failure to do so.
func (f *LoggingFetcher) Close() error {
	err := f.next.Close()
	if err != nil {
		f.logger.Warn("fetcher close failed", "err", err)
	}
	return err
}
