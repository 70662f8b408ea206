package mock

import "github.com/fwojciec/pagefeat"

var _ pagefeat.Validator = (*Validator)(nil)

// Validator is a mock implementation of pagefeat.Validator.
type Validator struct {
	ValidateFn func(raw []byte) error
}

func (v *Validator) Validate(raw []byte) error {
	return v.ValidateFn(raw)
}
