package gemini

import (
	"context"

	"github.com/fwojciec/pagefeat"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// TokenizerModel is the vocabulary used when no model is given. The local
// tokenizer only knows Gemini vocabularies, so counts for prompts sent to
// other providers are estimates.
const TokenizerModel = "gemini-2.0-flash"

var _ pagefeat.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts prompt tokens locally, without calling the API.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for model, or TokenizerModel when
// model is empty.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = TokenizerModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, pagefeat.Errorf(pagefeat.EUNAVAILABLE, "tokenizer for %s: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens returns the number of tokens text occupies as a user turn.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: text}},
	}}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}
