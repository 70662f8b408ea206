package pagefeat

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// quotedRe matches labels quoted with straight or curly quotes, e.g. 'Apply'
// or "Sign In". Apostrophes inside words are not treated as quotes.
var quotedRe = regexp.MustCompile(`"([^"]+)"|“([^”]+)”|‘([^’]+)’|(?:^|[^\pL\pN])'([^']+)'`)

// controlNouns name the kinds of element a single-word label can refer to.
// A bare "Next" is an ordinary word; "the Next button" is a control.
var controlNouns = map[string]bool{
	"button":   true,
	"link":     true,
	"field":    true,
	"input":    true,
	"tab":      true,
	"menu":     true,
	"icon":     true,
	"checkbox": true,
	"dropdown": true,
	"toggle":   true,
	"option":   true,
	"control":  true,
}

// References returns the UI element references an Action mentions: every
// quoted label in its description and process, plus the description itself.
// Labels keep their original case and are de-duplicated case-insensitively,
// in order of appearance.
func References(a Action) []string {
	var refs []string
	seen := make(map[string]bool)
	add := func(s string) {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if utf8.RuneCountInString(s) < 2 || seen[key] {
			return
		}
		seen[key] = true
		refs = append(refs, s)
	}

	add(a.Description)
	for _, text := range []string{a.Description, a.Process} {
		for _, label := range quotedLabels(text) {
			add(label)
		}
	}
	return refs
}

func quotedLabels(text string) []string {
	var labels []string
	for _, m := range quotedRe.FindAllStringSubmatch(text, -1) {
		for _, group := range m[1:] {
			if group != "" {
				labels = append(labels, group)
			}
		}
	}
	return labels
}

// Mentions reports whether text refers to the UI element labelled ref. The
// text mentions ref when it quotes the same label in any case, or contains it
// as a whole phrase with the same capitalisation. Single-word labels written
// unquoted also need a control noun next to them ("the Apply button").
func Mentions(text, ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	for _, label := range quotedLabels(text) {
		if strings.EqualFold(strings.TrimSpace(label), ref) {
			return true
		}
	}

	multiWord := len(strings.Fields(ref)) > 1
	for start := 0; start < len(text); {
		i := strings.Index(text[start:], ref)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(ref)
		if boundaryBefore(text, i) && boundaryAfter(text, end) {
			if multiWord || controlNouns[wordAfter(text, end)] || controlNouns[wordBefore(text, i)] {
				return true
			}
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		start = i + size
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

// wordAfter returns the lower-cased word following s[i:], singular.
func wordAfter(s string, i int) string {
	rest := strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	end := strings.IndexFunc(rest, func(r rune) bool { return !isWordRune(r) })
	if end < 0 {
		end = len(rest)
	}
	return strings.TrimSuffix(strings.ToLower(rest[:end]), "s")
}

// wordBefore returns the lower-cased word preceding s[:i], singular.
func wordBefore(s string, i int) string {
	rest := strings.TrimRightFunc(s[:i], unicode.IsSpace)
	if begin := strings.LastIndexFunc(rest, func(r rune) bool { return !isWordRune(r) }); begin >= 0 {
		_, size := utf8.DecodeRuneInString(rest[begin:])
		rest = rest[begin+size:]
	}
	return strings.TrimSuffix(strings.ToLower(rest), "s")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// WithoutOverlaps returns a copy of f with every Info entry removed that
// mentions a UI element already captured by an Action. Removed entries are
// returned separately. Order of the remaining entries is preserved.
func (f Features) WithoutOverlaps() (Features, []Info) {
	var refs []string
	for _, a := range f.Actions {
		refs = append(refs, References(a)...)
	}

	out := Features{Actions: f.Actions, Info: make([]Info, 0, len(f.Info))}
	var dropped []Info
	for _, info := range f.Info {
		if overlaps(info.Description, refs) {
			dropped = append(dropped, info)
			continue
		}
		out.Info = append(out.Info, info)
	}
	return out, dropped
}

func overlaps(text string, refs []string) bool {
	for _, ref := range refs {
		if Mentions(text, ref) {
			return true
		}
	}
	return false
}
