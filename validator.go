package pagefeat

// Validator checks raw structured output against the Features schema.
type Validator interface {
	Validate(raw []byte) error
}
