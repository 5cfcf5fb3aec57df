package translate

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultLanguageCodes are the intermediate languages recognized when the
// configuration does not override them.
var DefaultLanguageCodes = []string{"es", "ar", "he", "zh", "ru", "fa"}

// Language is one recognized intermediate language.
type Language struct {
	Code string // BCP 47 code, e.g. "es"
	Name string // English display name, e.g. "Spanish"
}

// Registry is the immutable set of recognized intermediate languages.
type Registry struct {
	byCode map[string]Language
}

// NewRegistry builds a Registry from BCP 47 codes. Codes that do not parse
// are a construction-time error; the registry is never mutated after.
func NewRegistry(codes []string) (*Registry, error) {
	if len(codes) == 0 {
		codes = DefaultLanguageCodes
	}
	namer := display.English.Languages()
	byCode := make(map[string]Language, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("language registry: invalid code %q: %w", code, err)
		}
		name := namer.Name(tag)
		if name == "" {
			return nil, fmt.Errorf("language registry: no display name for %q", code)
		}
		byCode[code] = Language{Code: code, Name: name}
	}
	return &Registry{byCode: byCode}, nil
}

// Lookup resolves a language code; ok is false for unrecognized codes.
func (r *Registry) Lookup(code string) (Language, bool) {
	l, ok := r.byCode[code]
	return l, ok
}

// All returns the recognized languages sorted by code.
func (r *Registry) All() []Language {
	out := make([]Language, 0, len(r.byCode))
	for _, l := range r.byCode {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
