package domain

import (
	"fmt"
	"strings"
)

// InclusionMode narrows a boolean attribute of the pool.
// The zero value behaves like ModeBoth.
type InclusionMode string

const (
	// ModeBoth imposes no restriction.
	ModeBoth InclusionMode = "both"

	// ModeOnly keeps items with the attribute set.
	ModeOnly InclusionMode = "only"

	// ModeExclude drops items with the attribute set.
	ModeExclude InclusionMode = "exclude"
)

// ParseInclusionMode parses a mode string. Empty input yields ModeBoth.
func ParseInclusionMode(s string) (InclusionMode, error) {
	switch InclusionMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeBoth:
		return ModeBoth, nil
	case ModeOnly:
		return ModeOnly, nil
	case ModeExclude:
		return ModeExclude, nil
	default:
		return "", NewValidationError("mode", fmt.Sprintf("must be one of both, only, exclude (got %q)", s), nil)
	}
}

// Normalize returns ModeBoth for the zero value.
func (m InclusionMode) Normalize() InclusionMode {
	if m == "" {
		return ModeBoth
	}
	return m
}

// Irregular-mode values accepted from clients. "regular" and "irregular"
// are the labels the game screens use.
const (
	IrregularModeRegular   = "regular"
	IrregularModeIrregular = "irregular"
	IrregularModeBoth      = "both"
)

// ParseIrregularMode maps the client's game mode label to an InclusionMode
// over the irregular flag.
func ParseIrregularMode(s string) (InclusionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", IrregularModeBoth:
		return ModeBoth, nil
	case IrregularModeIrregular:
		return ModeOnly, nil
	case IrregularModeRegular:
		return ModeExclude, nil
	default:
		return "", NewValidationError("mode", fmt.Sprintf("must be one of regular, irregular, both (got %q)", s), nil)
	}
}

// WordFilter restricts the word pool. Empty fields match everything.
type WordFilter struct {
	PartsOfSpeech []string
}

// Normalize trims and drops empty entries.
func (f WordFilter) Normalize() WordFilter {
	return WordFilter{PartsOfSpeech: compactStrings(f.PartsOfSpeech, false)}
}

// ConjugationFilter restricts the conjugation pool. Empty fields match everything.
type ConjugationFilter struct {
	Tenses     []string
	Groups     []int
	Irregular  InclusionMode
	Pronominal InclusionMode
}

// Normalize lowercases tenses and defaults the modes.
func (f ConjugationFilter) Normalize() ConjugationFilter {
	return ConjugationFilter{
		Tenses:     compactStrings(f.Tenses, true),
		Groups:     f.Groups,
		Irregular:  f.Irregular.Normalize(),
		Pronominal: f.Pronominal.Normalize(),
	}
}

// Validate checks group bounds and modes.
func (f ConjugationFilter) Validate() error {
	for _, g := range f.Groups {
		if g < MinVerbGroup || g > MaxVerbGroup {
			return NewValidationError("groups", fmt.Sprintf("contains invalid group %d", g), nil)
		}
	}
	for field, m := range map[string]InclusionMode{"mode": f.Irregular, "pronominal_mode": f.Pronominal} {
		switch m.Normalize() {
		case ModeBoth, ModeOnly, ModeExclude:
		default:
			return NewValidationError(field, fmt.Sprintf("has invalid value %q", m), nil)
		}
	}
	return nil
}

func compactStrings(in []string, lower bool) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if lower {
			s = strings.ToLower(s)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
