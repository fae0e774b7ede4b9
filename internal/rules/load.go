package rules

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	technicalKeys = map[string]bool{
		"resolution":      true,
		"frameRate":       true,
		"colorSpace":      true,
		"audioChannels":   true,
		"audioSampleRate": true,
	}
	compositionKeys = map[string]bool{
		"enforceRuleOfThirds": true,
		"enforceHeadroom":     true,
		"enforceLeadingSpace": true,
	}
	continuityKeys = map[string]bool{
		"checkProps":     true,
		"checkWardrobe":  true,
		"checkLighting":  true,
		"checkTimeOfDay": true,
	}
)

// ParseOverrides decodes a partial ruleset document. YAML is a superset of
// JSON, so a single decoder covers both formats. Unknown sections and unknown
// keys inside known sections land in the extension slots.
func ParseOverrides(data []byte) (*Overrides, error) {
	var ov Overrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("decode ruleset: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode ruleset: %w", err)
	}

	for section, val := range raw {
		switch section {
		case "technical":
			if ov.Technical != nil {
				ov.Technical.Extra = unknownKeys(val, technicalKeys)
			}
		case "composition":
			if ov.Composition != nil {
				ov.Composition.Extra = unknownKeys(val, compositionKeys)
			}
		case "continuity":
			if ov.Continuity != nil {
				ov.Continuity.Extra = unknownKeys(val, continuityKeys)
			}
		default:
			if ov.Extensions == nil {
				ov.Extensions = make(map[string]any)
			}
			ov.Extensions[section] = val
		}
	}

	return &ov, nil
}

func unknownKeys(section any, known map[string]bool) map[string]any {
	m, ok := section.(map[string]any)
	if !ok {
		return nil
	}
	var extra map[string]any
	for k, v := range m {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra
}

// Load produces the effective ruleset from an optional rules file.
// An empty path returns the defaults. Any read or parse failure is logged
// and falls back to the defaults rather than propagating the error.
func Load(path string, logger *zap.Logger) RuleSet {
	if logger == nil {
		logger = zap.NewNop()
	}

	if path == "" {
		logger.Info("no rules file provided, using default rules")
		return Defaults()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read rules file, using defaults",
			zap.String("path", path), zap.Error(err))
		return Defaults()
	}

	ov, err := ParseOverrides(data)
	if err != nil {
		logger.Error("failed to parse rules file, using defaults",
			zap.String("path", path), zap.Error(err))
		return Defaults()
	}

	logger.Info("loaded custom rules", zap.String("path", path))
	return Merge(Defaults(), ov)
}
