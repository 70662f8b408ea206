package extract_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/pagefeat"
	"github.com/fwojciec/pagefeat/extract"
	"github.com/fwojciec/pagefeat/jsonschema"
	"github.com/fwojciec/pagefeat/mock"
	"github.com/fwojciec/pagefeat/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator returns a generator that answers every call with a Features
// tool call carrying args.
func stubGenerator(args string) *mock.Generator {
	return &mock.Generator{
		GenerateFn: func(_ context.Context, _ string, tool *pagefeat.Tool) (*pagefeat.ToolCall, error) {
			return &pagefeat.ToolCall{Name: tool.Name, Arguments: json.RawMessage(args)}, nil
		},
	}
}

func newService(t *testing.T, gen pagefeat.Generator) *extract.Service {
	t.Helper()
	v, err := jsonschema.NewFeaturesValidator()
	require.NoError(t, err)
	return &extract.Service{Generator: gen, Validator: v}
}

func TestService_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns exactly the generated action and info", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, stubGenerator(`{
			"actions": [{"description": "Sign In", "process": "enter email, enter password, click Sign In"}],
			"info_": [{"description": "The page title is Dashboard Overview."}]
		}`))

		outcome, err := svc.Extract(context.Background(), "<html></html>")

		require.NoError(t, err)
		found, ok := outcome.(pagefeat.Found)
		require.True(t, ok, "expected Found, got %T", outcome)
		assert.Equal(t, []pagefeat.Action{{
			Description: "Sign In",
			Process:     "enter email, enter password, click Sign In",
		}}, found.Features.Actions)
		assert.Equal(t, []pagefeat.Info{{Description: "The page title is Dashboard Overview."}}, found.Features.Info)
		assert.Empty(t, found.Dropped)
	})

	t.Run("sends the rendered document and the Features tool", func(t *testing.T) {
		t.Parallel()

		var gotPrompt string
		var gotTool *pagefeat.Tool
		gen := &mock.Generator{
			GenerateFn: func(_ context.Context, p string, tool *pagefeat.Tool) (*pagefeat.ToolCall, error) {
				gotPrompt = p
				gotTool = tool
				return nil, nil
			},
		}
		doc := "<form><input name=q><button>Go</button></form>"

		_, err := newService(t, gen).Extract(context.Background(), doc)

		require.NoError(t, err)
		assert.Equal(t, prompt.Render(doc), gotPrompt)
		require.NotNil(t, gotTool)
		assert.Equal(t, pagefeat.FeaturesToolName, gotTool.Name)
		assert.JSONEq(t, string(pagefeat.FeaturesSchema()), string(gotTool.Parameters))
	})

	t.Run("empty document with conforming empty result is found", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, stubGenerator(`{"actions": [], "info_": []}`))

		outcome, err := svc.Extract(context.Background(), "")

		require.NoError(t, err)
		found, ok := outcome.(pagefeat.Found)
		require.True(t, ok, "expected Found, got %T", outcome)
		assert.Empty(t, found.Features.Actions)
		assert.Empty(t, found.Features.Info)
	})

	t.Run("empty document with no tool call is not found", func(t *testing.T) {
		t.Parallel()

		gen := &mock.Generator{
			GenerateFn: func(context.Context, string, *pagefeat.Tool) (*pagefeat.ToolCall, error) {
				return nil, nil
			},
		}

		outcome, err := newService(t, gen).Extract(context.Background(), "")

		require.NoError(t, err)
		assert.IsType(t, pagefeat.NotFound{}, outcome)
	})

	t.Run("missing info_ is not found rather than defaulted", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, stubGenerator(`{"actions": [{"description": "Sign In", "process": "click Sign In"}]}`))

		outcome, err := svc.Extract(context.Background(), "<html></html>")

		require.NoError(t, err)
		notFound, ok := outcome.(pagefeat.NotFound)
		require.True(t, ok, "expected NotFound, got %T", outcome)
		assert.Contains(t, notFound.Reason, "info_")
	})

	t.Run("missing info_ is not found without a schema validator", func(t *testing.T) {
		t.Parallel()

		svc := &extract.Service{Generator: stubGenerator(`{"actions": []}`)}

		outcome, err := svc.Extract(context.Background(), "<html></html>")

		require.NoError(t, err)
		notFound, ok := outcome.(pagefeat.NotFound)
		require.True(t, ok, "expected NotFound, got %T", outcome)
		assert.Equal(t, "features missing info_", notFound.Reason)
	})

	t.Run("wrong tool name is not found", func(t *testing.T) {
		t.Parallel()

		gen := &mock.Generator{
			GenerateFn: func(context.Context, string, *pagefeat.Tool) (*pagefeat.ToolCall, error) {
				return &pagefeat.ToolCall{Name: "Summary", Arguments: json.RawMessage(`{"actions": [], "info_": []}`)}, nil
			},
		}

		outcome, err := newService(t, gen).Extract(context.Background(), "<html></html>")

		require.NoError(t, err)
		notFound, ok := outcome.(pagefeat.NotFound)
		require.True(t, ok)
		assert.Contains(t, notFound.Reason, "Summary")
	})

	t.Run("validator rejection is not found", func(t *testing.T) {
		t.Parallel()

		svc := &extract.Service{
			Generator: stubGenerator(`{"actions": [], "info_": []}`),
			Validator: &mock.Validator{
				ValidateFn: func([]byte) error {
					return pagefeat.Errorf(pagefeat.EINVALID, "schema says no")
				},
			},
		}

		outcome, err := svc.Extract(context.Background(), "<html></html>")

		require.NoError(t, err)
		assert.Equal(t, pagefeat.NotFound{Reason: "schema says no"}, outcome)
	})

	t.Run("unmerged info fragment is not found", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, stubGenerator(`{
			"actions": [],
			"info_": [{"description": "$3,456K"}, {"description": "Total Views"}]
		}`))

		outcome, err := svc.Extract(context.Background(), "<html></html>")

		require.NoError(t, err)
		assert.IsType(t, pagefeat.NotFound{}, outcome)
	})

	t.Run("drops info overlapping an action", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, stubGenerator(`{
			"actions": [{"description": "Apply date filter", "process": "pick dates and click 'Apply'"}],
			"info_": [
				{"description": "The Apply button confirms the range."},
				{"description": "Total Sales are shown for the period."}
			]
		}`))

		outcome, err := svc.Extract(context.Background(), "<html></html>")

		require.NoError(t, err)
		found, ok := outcome.(pagefeat.Found)
		require.True(t, ok)
		assert.Equal(t, []pagefeat.Info{{Description: "Total Sales are shown for the period."}}, found.Features.Info)
		assert.Equal(t, []pagefeat.Info{{Description: "The Apply button confirms the range."}}, found.Dropped)
	})

	t.Run("transport failure is unavailable, never an empty result", func(t *testing.T) {
		t.Parallel()

		gen := &mock.Generator{
			GenerateFn: func(context.Context, string, *pagefeat.Tool) (*pagefeat.ToolCall, error) {
				return nil, errors.New("dial tcp: connection refused")
			},
		}

		outcome, err := newService(t, gen).Extract(context.Background(), "<html></html>")

		require.Error(t, err)
		assert.Nil(t, outcome)
		assert.Equal(t, pagefeat.EUNAVAILABLE, pagefeat.ErrorCode(err))
		assert.Contains(t, pagefeat.ErrorMessage(err), "connection refused")
	})

	t.Run("deadline is a timeout", func(t *testing.T) {
		t.Parallel()

		gen := &mock.Generator{
			GenerateFn: func(ctx context.Context, _ string, _ *pagefeat.Tool) (*pagefeat.ToolCall, error) {
				<-ctx.Done()
				return nil, fmt.Errorf("post: %w", ctx.Err())
			},
		}
		ctx, cancel := context.WithTimeout(context.Background(), 0)
		defer cancel()

		_, err := newService(t, gen).Extract(ctx, "<html></html>")

		require.Error(t, err)
		assert.Equal(t, pagefeat.ETIMEOUT, pagefeat.ErrorCode(err))
	})

	t.Run("caller cancellation is returned as is", func(t *testing.T) {
		t.Parallel()

		gen := &mock.Generator{
			GenerateFn: func(ctx context.Context, _ string, _ *pagefeat.Tool) (*pagefeat.ToolCall, error) {
				return nil, ctx.Err()
			},
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newService(t, gen).Extract(ctx, "<html></html>")

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("application errors from the generator keep their code", func(t *testing.T) {
		t.Parallel()

		gen := &mock.Generator{
			GenerateFn: func(context.Context, string, *pagefeat.Tool) (*pagefeat.ToolCall, error) {
				return nil, pagefeat.Errorf(pagefeat.EINVALID, "prompt too large")
			},
		}

		_, err := newService(t, gen).Extract(context.Background(), "<html></html>")

		assert.Equal(t, pagefeat.EINVALID, pagefeat.ErrorCode(err))
	})
}
