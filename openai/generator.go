// Package openai implements pagefeat.Generator on top of any OpenAI-compatible
// chat completions endpoint. The default target is Ollama's hosted API, which
// serves open-weight models behind a bearer token.
package openai

import (
	"context"
	"encoding/json"

	"github.com/fwojciec/pagefeat"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

const (
	// DefaultBaseURL is Ollama's OpenAI-compatible API.
	DefaultBaseURL = "https://ollama.com/v1"

	// DefaultModel is the model the generator asks for when none is configured.
	DefaultModel = "gpt-oss:120b"
)

// Ensure Generator implements pagefeat.Generator at compile time.
var _ pagefeat.Generator = (*Generator)(nil)

// Generator asks a chat completions endpoint for a single forced tool call.
type Generator struct {
	client openai.Client
	model  string
}

// Config configures a Generator.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// Options are appended to the client options, e.g. a custom HTTP client.
	Options []option.RequestOption
}

// NewGenerator creates a new Generator. SDK retries are disabled: each
// Generate call makes exactly one request.
func NewGenerator(cfg Config) *Generator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	}
	opts = append(opts, cfg.Options...)

	return &Generator{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// Generate sends prompt as a single user message and forces the model to
// answer by calling tool.
func (g *Generator) Generate(ctx context.Context, prompt string, tool *pagefeat.Tool) (*pagefeat.ToolCall, error) {
	params, err := BuildParams(g.model, prompt, tool)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, nil
	}

	for _, call := range resp.Choices[0].Message.ToolCalls {
		if call.Function.Name == "" {
			continue
		}
		return &pagefeat.ToolCall{
			Name:      call.Function.Name,
			Arguments: json.RawMessage(call.Function.Arguments),
		}, nil
	}
	return nil, nil
}

// BuildParams returns the chat completion request for prompt, declaring tool
// as the only tool and naming it in tool_choice.
func BuildParams(model, prompt string, tool *pagefeat.Tool) (openai.ChatCompletionNewParams, error) {
	var parameters openai.FunctionParameters
	if err := json.Unmarshal(tool.Parameters, &parameters); err != nil {
		return openai.ChatCompletionNewParams{}, pagefeat.Errorf(pagefeat.EINTERNAL, "invalid tool schema: %v", err)
	}

	function := openai.FunctionDefinitionParam{
		Name:       tool.Name,
		Parameters: parameters,
	}
	if tool.Description != "" {
		function.Description = openai.String(tool.Description)
	}

	return openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Tools: []openai.ChatCompletionToolUnionParam{{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: function,
				Type:     constant.ValueOf[constant.Function](),
			},
		}},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfFunctionToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: tool.Name},
				Type:     constant.ValueOf[constant.Function](),
			},
		},
	}, nil
}
