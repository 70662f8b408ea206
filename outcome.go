package pagefeat

// Outcome is the result of one extraction: either Found or NotFound.
// NotFound is a legitimate answer, distinct from a Found with empty lists and
// from an error reaching the generator.
type Outcome interface {
	outcome()
}

// Found holds a conforming Features value.
type Found struct {
	Features Features

	// Dropped lists Info entries removed because they overlapped an Action.
	Dropped []Info
}

// NotFound reports that the generator produced no conforming result.
type NotFound struct {
	Reason string
}

func (Found) outcome()    {}
func (NotFound) outcome() {}
