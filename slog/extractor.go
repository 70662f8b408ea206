package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagefeat"
)

// Ensure LoggingExtractor implements pagefeat.Extractor.
var _ pagefeat.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   pagefeat.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next pagefeat.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(ctx context.Context, document string) (outcome pagefeat.Outcome, err error) {
	defer func(begin time.Time) {
		attrs := []any{"document_bytes", len(document)}
		switch o := outcome.(type) {
		case pagefeat.Found:
			attrs = append(attrs,
				"outcome", "found",
				"actions", len(o.Features.Actions),
				"info", len(o.Features.Info),
				"dropped", len(o.Dropped),
			)
			for _, info := range o.Dropped {
				e.logger.Debug("info dropped as overlapping an action", "description", info.Description)
			}
		case pagefeat.NotFound:
			attrs = append(attrs, "outcome", "not_found", "reason", o.Reason)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		e.logger.Info("extract", attrs...)
	}(time.Now())
	return e.next.Extract(ctx, document)
}
