// Package validator checks scene documents against the effective ruleset and
// orchestrates the optional continuity analysis.
package validator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"scenevalidator/internal/continuity"
	"scenevalidator/internal/rules"
	"scenevalidator/internal/scene"
	"scenevalidator/internal/storage"
)

// Result is the outcome of one validation. Valid is true exactly when
// Errors is empty; warnings never affect validity.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`

	// SceneName identifies the validated scene for reporting; empty when
	// the document never loaded.
	SceneName string `json:"-"`
}

// Validator holds the immutable effective ruleset and the injected
// collaborators. Safe for sequential reuse; callers validating concurrently
// on one instance must synchronize externally.
type Validator struct {
	rules    rules.RuleSet
	analyzer continuity.Analyzer
	fetcher  storage.BlobFetcher
	logger   *zap.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithAnalyzer injects the continuity collaborator. Without one, continuity
// checks are skipped.
func WithAnalyzer(a continuity.Analyzer) Option {
	return func(v *Validator) { v.analyzer = a }
}

// WithBlobFetcher injects the cloud-blob input used by ValidateBlob.
func WithBlobFetcher(f storage.BlobFetcher) Option {
	return func(v *Validator) { v.fetcher = f }
}

// WithLogger injects a logger; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// New builds a Validator over an effective ruleset.
func New(rs rules.RuleSet, opts ...Option) *Validator {
	v := &Validator{rules: rs, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Rules returns the effective ruleset the validator was built with.
func (v *Validator) Rules() rules.RuleSet {
	return v.rules
}

// Validate checks one scene document. A scene missing required fields fails
// immediately with a single error and no further checks.
func (v *Validator) Validate(ctx context.Context, sc *scene.Scene) *Result {
	if missing := sc.MissingFields(); len(missing) > 0 {
		return &Result{
			Valid:     false,
			Errors:    []string{"Missing required fields: " + strings.Join(missing, ", ")},
			Warnings:  []string{},
			SceneName: sc.DisplayName(),
		}
	}

	var errs, warnings []string

	errs = append(errs, v.checkTechnical(sc)...)
	warnings = append(warnings, v.checkComposition(sc)...)

	contErrs, contWarns := v.checkContinuity(ctx, sc)
	errs = append(errs, contErrs...)
	warnings = append(warnings, contWarns...)

	if errs == nil {
		errs = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return &Result{
		Valid:     len(errs) == 0,
		Errors:    errs,
		Warnings:  warnings,
		SceneName: sc.DisplayName(),
	}
}

// checkTechnical compares the scene's technical block against the ruleset
// whitelists. Keys absent from the block are skipped. Audio channel and
// sample-rate whitelists exist in the ruleset but are not enforced here,
// matching the tool's published behavior.
func (v *Validator) checkTechnical(sc *scene.Scene) []string {
	tech := sc.Technical
	if tech == nil {
		return nil
	}

	tr := v.rules.Technical
	var errs []string

	if tech.Resolution != nil && !containsString(tr.Resolution, *tech.Resolution) {
		errs = append(errs, fmt.Sprintf("Invalid resolution: %s. Must be one of %s",
			*tech.Resolution, formatStrings(tr.Resolution)))
	}
	if tech.FrameRate != nil && !containsFloat(tr.FrameRate, *tech.FrameRate) {
		errs = append(errs, fmt.Sprintf("Invalid frame rate: %s. Must be one of %s",
			formatFloat(*tech.FrameRate), formatFloats(tr.FrameRate)))
	}
	if tech.ColorSpace != nil && !containsString(tr.ColorSpace, *tech.ColorSpace) {
		errs = append(errs, fmt.Sprintf("Invalid color space: %s. Must be one of %s",
			*tech.ColorSpace, formatStrings(tr.ColorSpace)))
	}
	return errs
}

// checkComposition emits a warning when rule-of-thirds enforcement is on and
// the scene explicitly declares it does not follow the rule. Headroom and
// leading-space toggles are carried in the ruleset but not checked.
func (v *Validator) checkComposition(sc *scene.Scene) []string {
	if !v.rules.Composition.EnforceRuleOfThirds || sc.Composition == nil {
		return nil
	}
	if sc.Composition.RuleOfThirds != nil && !*sc.Composition.RuleOfThirds {
		return []string{"Scene does not follow rule of thirds"}
	}
	return nil
}

// checkContinuity delegates to the analyzer when continuity.checkProps is on
// and the scene carries previous scenes. Analyzer failures never fail the
// validation; they downgrade to a single warning.
func (v *Validator) checkContinuity(ctx context.Context, sc *scene.Scene) (errs, warnings []string) {
	if !v.rules.Continuity.CheckProps || len(sc.PreviousScenes) == 0 || v.analyzer == nil {
		return nil, nil
	}

	findings, err := v.analyzer.AnalyzeContinuity(ctx, sc, sc.PreviousScenes)
	if err != nil {
		v.logger.Error("continuity analysis failed",
			zap.String("scene", sc.DisplayName()), zap.Error(err))
		return nil, []string{"Could not perform automated continuity check"}
	}

	return findings.Errors, findings.Warnings
}

// ValidateFile validates a scene from a local file. Load failures become an
// invalid result rather than a returned error.
func (v *Validator) ValidateFile(ctx context.Context, path string) *Result {
	sc, err := scene.Load(path)
	if err != nil {
		v.logger.Error("failed to load scene file", zap.String("path", path), zap.Error(err))
		return &Result{
			Valid:    false,
			Errors:   []string{fmt.Sprintf("Could not load scene file: %v", err)},
			Warnings: []string{},
		}
	}
	v.logger.Info("loaded scene", zap.String("path", path), zap.String("scene", sc.DisplayName()))
	return v.Validate(ctx, sc)
}

// ValidateBlob validates a scene fetched from object storage. Fetch and
// parse failures become an invalid result.
func (v *Validator) ValidateBlob(ctx context.Context, bucket, object string) *Result {
	if v.fetcher == nil {
		return &Result{
			Valid:    false,
			Errors:   []string{"Cloud storage client not initialized"},
			Warnings: []string{},
		}
	}

	data, err := v.fetcher.Fetch(ctx, bucket, object)
	if err != nil {
		v.logger.Error("failed to fetch scene blob",
			zap.String("bucket", bucket), zap.String("object", object), zap.Error(err))
		return &Result{
			Valid:    false,
			Errors:   []string{fmt.Sprintf("Could not load scene from gs://%s/%s: %v", bucket, object, err)},
			Warnings: []string{},
		}
	}

	sc, err := scene.Parse(data)
	if err != nil {
		return &Result{
			Valid:    false,
			Errors:   []string{fmt.Sprintf("Could not load scene from gs://%s/%s: %v", bucket, object, err)},
			Warnings: []string{},
		}
	}
	v.logger.Info("loaded scene",
		zap.String("source", fmt.Sprintf("gs://%s/%s", bucket, object)),
		zap.String("scene", sc.DisplayName()))
	return v.Validate(ctx, sc)
}

func containsString(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

func containsFloat(set []float64, value float64) bool {
	for _, f := range set {
		if f == value {
			return true
		}
	}
	return false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatStrings(set []string) string {
	return "[" + strings.Join(set, ", ") + "]"
}

func formatFloats(set []float64) string {
	parts := make([]string, len(set))
	for i, f := range set {
		parts[i] = formatFloat(f)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
