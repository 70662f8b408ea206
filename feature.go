package pagefeat

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Action is one complete interactive goal on a page, such as signing in or
// filtering a table by date.
type Action struct {
	// Description is a short label of the goal's outcome.
	Description string `json:"description"`

	// Process narrates every human step needed to reach the outcome,
	// mentioning every control involved.
	Process string `json:"process"`
}

// Info is one cohesive statement of static, non-interactive page content.
type Info struct {
	Description string `json:"description"`
}

// Features is the complete extraction result for one document. Both lists
// may be empty; an empty Features is a valid answer.
type Features struct {
	Actions []Action `json:"actions"`
	Info    []Info   `json:"info_"`
}

// MarshalJSON encodes empty lists as [] rather than null.
func (f Features) MarshalJSON() ([]byte, error) {
	type features Features
	out := features(f)
	if out.Actions == nil {
		out.Actions = []Action{}
	}
	if out.Info == nil {
		out.Info = []Info{}
	}
	return json.Marshal(out)
}

// ParseFeatures decodes a structured generator result. Both "actions" and
// "info_" must be present and non-null; a missing field is never defaulted.
func ParseFeatures(raw []byte) (Features, error) {
	var doc struct {
		Actions *[]Action `json:"actions"`
		Info    *[]Info   `json:"info_"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		return Features{}, Errorf(EINVALID, "malformed features: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Features{}, Errorf(EINVALID, "malformed features: trailing data")
	}
	if doc.Actions == nil {
		return Features{}, Errorf(EINVALID, "features missing actions")
	}
	if doc.Info == nil {
		return Features{}, Errorf(EINVALID, "features missing info_")
	}
	return Features{Actions: *doc.Actions, Info: *doc.Info}, nil
}

// Validate returns an error if any Action or Info is incomplete, or if an
// Info entry is a bare fragment that should have been merged with its label.
func (f *Features) Validate() error {
	for i, a := range f.Actions {
		if strings.TrimSpace(a.Description) == "" {
			return Errorf(EINVALID, "action %d description required", i)
		}
		if strings.TrimSpace(a.Process) == "" {
			return Errorf(EINVALID, "action %d process required", i)
		}
	}
	for i, info := range f.Info {
		if strings.TrimSpace(info.Description) == "" {
			return Errorf(EINVALID, "info %d description required", i)
		}
		if IsFragment(info.Description) {
			return Errorf(EINVALID, "info %d is an unmerged fragment: %q", i, info.Description)
		}
	}
	return nil
}

// IsFragment reports whether s carries no word of at least two letters,
// e.g. "0.43%" or "$3,456K". Such text is a value whose label was split into
// a separate entry.
func IsFragment(s string) bool {
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if utf8.RuneCountInString(field) >= 2 {
			return false
		}
	}
	return true
}

// DecodeDocument converts uploaded document bytes to text.
// Returns EINVALID if the bytes are not valid UTF-8.
func DecodeDocument(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", Errorf(EINVALID, "document is not valid UTF-8 text")
	}
	return string(data), nil
}
