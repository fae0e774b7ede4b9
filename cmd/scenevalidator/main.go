// scenevalidator validates media-production scene descriptions against a
// configurable ruleset: technical specifications, compositional guidelines,
// and cross-scene continuity (delegated to the Gemini API).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool

	// Logger
	logger *zap.Logger
)

// errSceneInvalid signals a completed validation that failed, so main can
// exit non-zero without printing a spurious error.
var errSceneInvalid = errors.New("scene failed validation")

var rootCmd = &cobra.Command{
	Use:   "scenevalidator",
	Short: "Validate scene structure and composition for media production",
	Long: `scenevalidator checks scene description documents against technical,
compositional, and continuity rules.

Scenes are JSON documents read from a local file or a Google Cloud Storage
object. Rules can be customized with a partial rules file (JSON or YAML)
merged over the built-in defaults. Continuity against previous scenes is
analyzed by the Gemini API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSceneInvalid) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
