package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagefeat"
)

// Ensure LoggingGenerator implements pagefeat.Generator.
var _ pagefeat.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with logging. When a TokenCounter is
// set, the prompt size in tokens is logged too; counting failures are logged
// as warnings and never fail the call.
type LoggingGenerator struct {
	next    pagefeat.Generator
	counter pagefeat.TokenCounter
	logger  *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator. counter may be nil.
func NewLoggingGenerator(next pagefeat.Generator, counter pagefeat.TokenCounter, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, counter: counter, logger: logger}
}

// Generate delegates to the wrapped generator and logs the exchange.
func (g *LoggingGenerator) Generate(ctx context.Context, prompt string, tool *pagefeat.Tool) (call *pagefeat.ToolCall, err error) {
	attrs := []any{"tool", tool.Name, "prompt_bytes", len(prompt)}
	if g.counter != nil {
		if n, cerr := g.counter.CountTokens(ctx, prompt); cerr != nil {
			g.logger.Warn("token count failed", "err", cerr)
		} else {
			attrs = append(attrs, "prompt_tokens", n)
		}
	}

	defer func(begin time.Time) {
		called := ""
		if call != nil {
			called = call.Name
		}
		g.logger.Info("generate", append(attrs,
			"called", called,
			"duration", time.Since(begin),
			"err", err,
		)...)
	}(time.Now())
	return g.next.Generate(ctx, prompt, tool)
}
