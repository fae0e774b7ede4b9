package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"scenevalidator/internal/rules"
)

var rulesShowFile string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective validation ruleset",
	Long: `Prints the effective ruleset as JSON: the built-in defaults, optionally
merged with a partial rules file. Useful for checking what a custom rules
file actually changes.`,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesShowFile, "rules-file", "", "path to validation rules file (JSON or YAML)")
}

func runRules(cmd *cobra.Command, args []string) error {
	effective := rules.Load(rulesShowFile, logger)

	data, err := json.MarshalIndent(effective, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ruleset: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
