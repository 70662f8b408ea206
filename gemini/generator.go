package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/pagefeat"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Generator implements pagefeat.Generator at compile time.
var _ pagefeat.Generator = (*Generator)(nil)

// Generator implements pagefeat.Generator using Google Gemini function calling.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Generate sends prompt and forces Gemini to answer by calling tool.
func (g *Generator) Generate(ctx context.Context, prompt string, tool *pagefeat.Tool) (*pagefeat.ToolCall, error) {
	config, err := BuildConfig(tool)
	if err != nil {
		return nil, err
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	for _, call := range result.FunctionCalls() {
		if call == nil || call.Name == "" {
			continue
		}
		args, err := json.Marshal(call.Args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode function call arguments: %w", err)
		}
		return &pagefeat.ToolCall{Name: call.Name, Arguments: args}, nil
	}
	return nil, nil
}

// BuildConfig returns the GenerateContentConfig declaring tool as the only
// function and restricting function calling to it.
func BuildConfig(tool *pagefeat.Tool) (*genai.GenerateContentConfig, error) {
	var params map[string]any
	if err := json.Unmarshal(tool.Parameters, &params); err != nil {
		return nil, pagefeat.Errorf(pagefeat.EINTERNAL, "invalid tool schema: %v", err)
	}

	temp := float32(0)
	return &genai.GenerateContentConfig{
		Temperature: &temp,
		Tools: []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  BuildSchema(params),
			}},
		}},
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingConfigModeAny,
				AllowedFunctionNames: []string{tool.Name},
			},
		},
	}, nil
}

// BuildSchema converts a JSON Schema document into a Gemini Schema.
// Keywords Gemini does not support (e.g. additionalProperties) are dropped.
func BuildSchema(params map[string]any) *genai.Schema {
	schema := &genai.Schema{}

	if typeStr, ok := params["type"].(string); ok {
		switch typeStr {
		case "object":
			schema.Type = genai.TypeObject
		case "array":
			schema.Type = genai.TypeArray
		case "string":
			schema.Type = genai.TypeString
		case "number":
			schema.Type = genai.TypeNumber
		case "integer":
			schema.Type = genai.TypeInteger
		case "boolean":
			schema.Type = genai.TypeBoolean
		}
	}

	if desc, ok := params["description"].(string); ok {
		schema.Description = desc
	}

	if props, ok := params["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if propMap, ok := prop.(map[string]any); ok {
				schema.Properties[name] = BuildSchema(propMap)
			}
		}
	}

	if items, ok := params["items"].(map[string]any); ok {
		schema.Items = BuildSchema(items)
	}

	if required, ok := params["required"].([]any); ok {
		for _, r := range required {
			if rs, ok := r.(string); ok {
				schema.Required = append(schema.Required, rs)
			}
		}
	}

	if minLength, ok := params["minLength"].(float64); ok {
		n := int64(minLength)
		schema.MinLength = &n
	}

	return schema
}
