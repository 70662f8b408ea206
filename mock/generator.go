package mock

import (
	"context"

	"github.com/fwojciec/pagefeat"
)

var (
	_ pagefeat.Generator    = (*Generator)(nil)
	_ pagefeat.TokenCounter = (*TokenCounter)(nil)
)

// Generator is a mock implementation of pagefeat.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string, tool *pagefeat.Tool) (*pagefeat.ToolCall, error)
}

func (g *Generator) Generate(ctx context.Context, prompt string, tool *pagefeat.Tool) (*pagefeat.ToolCall, error) {
	return g.GenerateFn(ctx, prompt, tool)
}

// TokenCounter is a mock implementation of pagefeat.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, prompt string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, prompt string) (int, error) {
	return c.CountTokensFn(ctx, prompt)
}
