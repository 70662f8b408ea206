// Package jsonschema validates structured generator output against a JSON
// Schema using santhosh-tekuri/jsonschema.
package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/pagefeat"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Ensure Validator implements pagefeat.Validator at compile time.
var _ pagefeat.Validator = (*Validator)(nil)

const resourceName = "features.schema.json"

// Validator validates documents against one compiled schema.
// Validator is safe for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schema.
func NewValidator(schema []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(resourceName, bytes.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	compiled, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// NewFeaturesValidator returns a Validator for pagefeat.FeaturesSchema.
func NewFeaturesValidator() (*Validator, error) {
	return NewValidator(pagefeat.FeaturesSchema())
}

// Validate returns EINVALID if raw is not JSON or does not match the schema.
func (v *Validator) Validate(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return pagefeat.Errorf(pagefeat.EINVALID, "structured output is not JSON: %v", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return pagefeat.Errorf(pagefeat.EINVALID, "structured output does not match schema: %v", err)
	}
	return nil
}
