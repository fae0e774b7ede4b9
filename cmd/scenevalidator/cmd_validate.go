package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scenevalidator/internal/continuity"
	"scenevalidator/internal/history"
	"scenevalidator/internal/report"
	"scenevalidator/internal/rules"
	"scenevalidator/internal/storage"
	"scenevalidator/internal/validator"
)

var (
	sceneFile      string
	gcsBucket      string
	gcsBlob        string
	rulesFile      string
	apiKey         string
	geminiModel    string
	serviceAccount string
	outputPath     string
	historyDB      string
	noContinuity   bool
	showSummary    bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scene document",
	Long: `Validates a scene document against the effective ruleset and prints a
Markdown report. The scene comes from --scene-file, or from Google Cloud
Storage via --gcs-bucket and --gcs-blob.

Exits non-zero when the scene is invalid.

Examples:
  scenevalidator validate --scene-file scene.json
  scenevalidator validate --scene-file scene.json --rules-file rules.yaml --output report.md
  scenevalidator validate --gcs-bucket dailies --gcs-blob ep01/s12.json --service-account sa.json`,
	RunE: runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&sceneFile, "scene-file", "", "path to scene JSON file")
	f.StringVar(&gcsBucket, "gcs-bucket", "", "Google Cloud Storage bucket name")
	f.StringVar(&gcsBlob, "gcs-blob", "", "Google Cloud Storage blob path")
	f.StringVar(&rulesFile, "rules-file", "", "path to validation rules file (JSON or YAML)")
	f.StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY)")
	f.StringVar(&geminiModel, "model", "", "Gemini model for continuity analysis")
	f.StringVar(&serviceAccount, "service-account", "", "path to Google Cloud service account JSON")
	f.StringVar(&outputPath, "output", "", "output path for the validation report")
	f.StringVar(&historyDB, "history-db", "", "SQLite database recording validation runs")
	f.BoolVar(&noContinuity, "no-continuity", false, "skip continuity analysis (no Gemini key needed)")
	f.BoolVar(&showSummary, "summary", false, "print a one-line summary table after the report")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	useBlob, err := selectSource(sceneFile, gcsBucket, gcsBlob)
	if err != nil {
		return err
	}
	useFile := !useBlob

	effective := rules.Load(rulesFile, logger)

	opts := []validator.Option{validator.WithLogger(logger)}

	if !noContinuity {
		analyzer, err := continuity.NewGeminiAnalyzer(ctx, continuity.GeminiConfig{
			APIKey: apiKey,
			Model:  geminiModel,
		}, logger)
		if err != nil {
			return err
		}
		opts = append(opts, validator.WithAnalyzer(analyzer))
	}

	if useBlob {
		fetcher, err := storage.NewGCSFetcher(ctx, serviceAccount, logger)
		if err != nil {
			return err
		}
		defer fetcher.Close()
		opts = append(opts, validator.WithBlobFetcher(fetcher))
	}

	v := validator.New(effective, opts...)

	var result *validator.Result
	var source string
	if useFile {
		source = sceneFile
		result = v.ValidateFile(ctx, sceneFile)
	} else {
		source = fmt.Sprintf("gs://%s/%s", gcsBucket, gcsBlob)
		result = v.ValidateBlob(ctx, gcsBucket, gcsBlob)
	}

	text := report.Render(result)
	if outputPath != "" {
		report.Save(outputPath, text, logger)
	}
	fmt.Println(text)

	sceneName := result.SceneName
	if sceneName == "" {
		sceneName = source
	}
	if showSummary {
		fmt.Println(report.Summary(sceneName, result))
	}

	if historyDB != "" {
		if err := recordRun(sceneName, source, result); err != nil {
			logger.Error("failed to record validation run", zap.Error(err))
		}
	}

	if !result.Valid {
		return errSceneInvalid
	}
	return nil
}

// selectSource enforces the scene-source flag contract: exactly one of a
// local file or a complete bucket+blob pair.
func selectSource(file, bucket, blob string) (useBlob bool, err error) {
	hasFile := file != ""
	hasBlob := bucket != "" || blob != ""
	switch {
	case !hasFile && !hasBlob:
		return false, errors.New("either --scene-file or both --gcs-bucket and --gcs-blob are required")
	case hasFile && hasBlob:
		return false, errors.New("--scene-file and --gcs-bucket/--gcs-blob are mutually exclusive")
	case hasBlob && (bucket == "" || blob == ""):
		return false, errors.New("--gcs-bucket and --gcs-blob must be given together")
	}
	return hasBlob, nil
}

func recordRun(sceneName, source string, result *validator.Result) error {
	store, err := history.Open(historyDB)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(history.Run{
		SceneName:    sceneName,
		Source:       source,
		Valid:        result.Valid,
		ErrorCount:   len(result.Errors),
		WarningCount: len(result.Warnings),
	})
	return err
}
