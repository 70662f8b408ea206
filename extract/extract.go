// Package extract provides feature extraction orchestration.
// It coordinates prompt rendering, the generator call, schema validation and
// the local result rules for one document.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/pagefeat"
	"github.com/fwojciec/pagefeat/prompt"
)

// Ensure Service implements pagefeat.Extractor at compile time.
var _ pagefeat.Extractor = (*Service)(nil)

// Service extracts features by asking a Generator for a Features tool call.
type Service struct {
	Generator pagefeat.Generator

	// Validator checks raw tool arguments against the Features schema.
	// Optional: when nil only the local decoding rules apply.
	Validator pagefeat.Validator
}

// Extract renders the document into the prompt, makes one generator call and
// turns its answer into an Outcome. Anything the generator returns that does
// not satisfy the schema or the result rules becomes NotFound.
func (s *Service) Extract(ctx context.Context, document string) (pagefeat.Outcome, error) {
	tool := pagefeat.FeaturesTool()

	call, err := s.Generator.Generate(ctx, prompt.Render(document), tool)
	if err != nil {
		return nil, generatorError(ctx, err)
	}
	if call == nil {
		return pagefeat.NotFound{Reason: "generator did not call the Features tool"}, nil
	}
	if call.Name != tool.Name {
		return pagefeat.NotFound{Reason: fmt.Sprintf("generator called unexpected tool %q", call.Name)}, nil
	}

	if s.Validator != nil {
		if err := s.Validator.Validate(call.Arguments); err != nil {
			return pagefeat.NotFound{Reason: pagefeat.ErrorMessage(err)}, nil
		}
	}

	features, err := pagefeat.ParseFeatures(call.Arguments)
	if err != nil {
		return pagefeat.NotFound{Reason: pagefeat.ErrorMessage(err)}, nil
	}
	if err := features.Validate(); err != nil {
		return pagefeat.NotFound{Reason: pagefeat.ErrorMessage(err)}, nil
	}

	features, dropped := features.WithoutOverlaps()
	return pagefeat.Found{Features: features, Dropped: dropped}, nil
}

// generatorError classifies a failed generator call. Cancellation by the
// caller is returned unchanged so it is never reported as a provider fault.
func generatorError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return pagefeat.Errorf(pagefeat.ETIMEOUT, "generator timed out: %v", err)
	case pagefeat.ErrorCode(err) != pagefeat.EINTERNAL:
		return err
	default:
		return pagefeat.Errorf(pagefeat.EUNAVAILABLE, "generator unavailable: %v", err)
	}
}
