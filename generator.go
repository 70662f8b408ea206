package pagefeat

import (
	"context"
	"encoding/json"
)

// Tool describes the single structured shape a generator is forced to answer with.
type Tool struct {
	Name        string
	Description string

	// Parameters is the JSON Schema of the tool arguments.
	Parameters json.RawMessage
}

// ToolCall is a generator's invocation of a Tool.
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// Generator sends a prompt to a remote language model and forces it to
// answer through one tool.
type Generator interface {
	// Generate makes exactly one outbound request. It returns a nil ToolCall
	// and a nil error when the model answered without calling the tool.
	// Any error means the model could not be reached or rejected the request.
	Generate(ctx context.Context, prompt string, tool *Tool) (*ToolCall, error)
}

// TokenCounter measures a prompt in the tokens of a particular model. Counts
// are reported in logs only; prompts are never truncated to fit.
type TokenCounter interface {
	CountTokens(ctx context.Context, prompt string) (int, error)
}
