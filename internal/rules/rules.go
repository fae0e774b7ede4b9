// Package rules defines the scene validation ruleset: the built-in defaults,
// the partial override document a user may supply, and the two-level merge
// that produces the effective ruleset.
//
// The ruleset has three built-in sections (technical, composition,
// continuity). Sections or keys outside the built-in schema are carried
// through untouched in explicit extension slots and never validated.
package rules

// RuleSet is the effective, fully-merged validation configuration.
// It is built once and treated as immutable afterwards; concurrent reads
// are safe.
type RuleSet struct {
	Technical   TechnicalRules   `json:"technical" yaml:"technical"`
	Composition CompositionRules `json:"composition" yaml:"composition"`
	Continuity  ContinuityRules  `json:"continuity" yaml:"continuity"`

	// Extensions holds ruleset sections outside the built-in schema,
	// preserved verbatim from the override document.
	Extensions map[string]any `json:"-" yaml:"-"`
}

// TechnicalRules whitelists acceptable technical specifications.
type TechnicalRules struct {
	Resolution      []string  `json:"resolution" yaml:"resolution"`
	FrameRate       []float64 `json:"frameRate" yaml:"frameRate"`
	ColorSpace      []string  `json:"colorSpace" yaml:"colorSpace"`
	AudioChannels   []float64 `json:"audioChannels" yaml:"audioChannels"`
	AudioSampleRate []float64 `json:"audioSampleRate" yaml:"audioSampleRate"`

	// Extra holds unknown keys found in a user-supplied technical section.
	Extra map[string]any `json:"-" yaml:"-"`
}

// CompositionRules toggles compositional guideline enforcement.
type CompositionRules struct {
	EnforceRuleOfThirds bool `json:"enforceRuleOfThirds" yaml:"enforceRuleOfThirds"`
	EnforceHeadroom     bool `json:"enforceHeadroom" yaml:"enforceHeadroom"`
	EnforceLeadingSpace bool `json:"enforceLeadingSpace" yaml:"enforceLeadingSpace"`

	Extra map[string]any `json:"-" yaml:"-"`
}

// ContinuityRules toggles cross-scene continuity analysis.
// Only CheckProps gates the continuity call; the other flags are carried in
// the configuration but the analysis prompt always covers all four concerns.
type ContinuityRules struct {
	CheckProps     bool `json:"checkProps" yaml:"checkProps"`
	CheckWardrobe  bool `json:"checkWardrobe" yaml:"checkWardrobe"`
	CheckLighting  bool `json:"checkLighting" yaml:"checkLighting"`
	CheckTimeOfDay bool `json:"checkTimeOfDay" yaml:"checkTimeOfDay"`

	Extra map[string]any `json:"-" yaml:"-"`
}

// Defaults returns the built-in ruleset.
func Defaults() RuleSet {
	return RuleSet{
		Technical: TechnicalRules{
			Resolution:      []string{"1920x1080", "3840x2160", "4096x2160"},
			FrameRate:       []float64{24, 25, 30, 60},
			ColorSpace:      []string{"Rec.709", "Rec.2020", "DCI-P3"},
			AudioChannels:   []float64{2, 5.1, 7.1},
			AudioSampleRate: []float64{48000, 96000},
		},
		Composition: CompositionRules{
			EnforceRuleOfThirds: true,
			EnforceHeadroom:     true,
			EnforceLeadingSpace: true,
		},
		Continuity: ContinuityRules{
			CheckProps:     true,
			CheckWardrobe:  true,
			CheckLighting:  true,
			CheckTimeOfDay: true,
		},
	}
}

// Overrides is a partial ruleset document. Nil fields mean "not set, keep
// the default". The zero value overrides nothing.
type Overrides struct {
	Technical   *TechnicalOverrides   `json:"technical" yaml:"technical"`
	Composition *CompositionOverrides `json:"composition" yaml:"composition"`
	Continuity  *ContinuityOverrides  `json:"continuity" yaml:"continuity"`

	// Extensions holds sections outside the built-in schema.
	Extensions map[string]any `json:"-" yaml:"-"`
}

// TechnicalOverrides replaces whole allowed-value sets. A nil slice keeps
// the default set; an empty slice deliberately allows nothing.
type TechnicalOverrides struct {
	Resolution      []string  `json:"resolution" yaml:"resolution"`
	FrameRate       []float64 `json:"frameRate" yaml:"frameRate"`
	ColorSpace      []string  `json:"colorSpace" yaml:"colorSpace"`
	AudioChannels   []float64 `json:"audioChannels" yaml:"audioChannels"`
	AudioSampleRate []float64 `json:"audioSampleRate" yaml:"audioSampleRate"`

	Extra map[string]any `json:"-" yaml:"-"`
}

// CompositionOverrides overrides individual composition toggles.
type CompositionOverrides struct {
	EnforceRuleOfThirds *bool `json:"enforceRuleOfThirds" yaml:"enforceRuleOfThirds"`
	EnforceHeadroom     *bool `json:"enforceHeadroom" yaml:"enforceHeadroom"`
	EnforceLeadingSpace *bool `json:"enforceLeadingSpace" yaml:"enforceLeadingSpace"`

	Extra map[string]any `json:"-" yaml:"-"`
}

// ContinuityOverrides overrides individual continuity toggles.
type ContinuityOverrides struct {
	CheckProps     *bool `json:"checkProps" yaml:"checkProps"`
	CheckWardrobe  *bool `json:"checkWardrobe" yaml:"checkWardrobe"`
	CheckLighting  *bool `json:"checkLighting" yaml:"checkLighting"`
	CheckTimeOfDay *bool `json:"checkTimeOfDay" yaml:"checkTimeOfDay"`

	Extra map[string]any `json:"-" yaml:"-"`
}

// Merge lays a partial override document over the defaults, two levels deep:
// section, then key. Override values win on conflict; defaults fill every
// key the override leaves unset. Unknown sections and keys pass through.
// Merge is pure; neither argument is mutated.
func Merge(defaults RuleSet, ov *Overrides) RuleSet {
	out := defaults
	if ov == nil {
		return out
	}

	if t := ov.Technical; t != nil {
		if t.Resolution != nil {
			out.Technical.Resolution = t.Resolution
		}
		if t.FrameRate != nil {
			out.Technical.FrameRate = t.FrameRate
		}
		if t.ColorSpace != nil {
			out.Technical.ColorSpace = t.ColorSpace
		}
		if t.AudioChannels != nil {
			out.Technical.AudioChannels = t.AudioChannels
		}
		if t.AudioSampleRate != nil {
			out.Technical.AudioSampleRate = t.AudioSampleRate
		}
		out.Technical.Extra = t.Extra
	}

	if c := ov.Composition; c != nil {
		if c.EnforceRuleOfThirds != nil {
			out.Composition.EnforceRuleOfThirds = *c.EnforceRuleOfThirds
		}
		if c.EnforceHeadroom != nil {
			out.Composition.EnforceHeadroom = *c.EnforceHeadroom
		}
		if c.EnforceLeadingSpace != nil {
			out.Composition.EnforceLeadingSpace = *c.EnforceLeadingSpace
		}
		out.Composition.Extra = c.Extra
	}

	if n := ov.Continuity; n != nil {
		if n.CheckProps != nil {
			out.Continuity.CheckProps = *n.CheckProps
		}
		if n.CheckWardrobe != nil {
			out.Continuity.CheckWardrobe = *n.CheckWardrobe
		}
		if n.CheckLighting != nil {
			out.Continuity.CheckLighting = *n.CheckLighting
		}
		if n.CheckTimeOfDay != nil {
			out.Continuity.CheckTimeOfDay = *n.CheckTimeOfDay
		}
		out.Continuity.Extra = n.Extra
	}

	if len(ov.Extensions) > 0 {
		out.Extensions = ov.Extensions
	}

	return out
}
