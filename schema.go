package pagefeat

import (
	_ "embed"
	"encoding/json"
)

// FeaturesToolName is the name of the only tool a generator may call.
const FeaturesToolName = "Features"

// featuresSchema is the JSON Schema of the Features tool arguments. The
// field descriptions are the classification policy the generator follows, so
// they are kept as data next to the types rather than in code.
//
//go:embed features.schema.json
var featuresSchema []byte

// FeaturesSchema returns a copy of the JSON Schema of Features.
func FeaturesSchema() json.RawMessage {
	out := make(json.RawMessage, len(featuresSchema))
	copy(out, featuresSchema)
	return out
}

// FeaturesTool returns the tool definition the generator is forced to call.
func FeaturesTool() *Tool {
	return &Tool{
		Name:        FeaturesToolName,
		Description: "Report the complete set of features of the rendered HTML page: interactive actions and read-only information.",
		Parameters:  FeaturesSchema(),
	}
}
