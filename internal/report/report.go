// Package report renders validation results for humans: a Markdown document
// mirroring the validator's published report format, and a compact console
// summary table.
package report

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"scenevalidator/internal/validator"
)

// Render produces the Markdown validation report: title, pass/fail status,
// then Errors and Warnings bullet sections, each omitted when empty.
func Render(result *validator.Result) string {
	lines := []string{"# Scene Validation Report", ""}

	if result.Valid {
		lines = append(lines, "## ✅ Scene is valid")
	} else {
		lines = append(lines, "## ❌ Scene is invalid")
	}
	lines = append(lines, "")

	if len(result.Errors) > 0 {
		lines = append(lines, "## Errors")
		for _, e := range result.Errors {
			lines = append(lines, "- "+e)
		}
		lines = append(lines, "")
	}

	if len(result.Warnings) > 0 {
		lines = append(lines, "## Warnings")
		for _, w := range result.Warnings {
			lines = append(lines, "- "+w)
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// Save writes a rendered report to a file. Write failures are logged and
// swallowed; the caller already holds the report text.
func Save(path, text string, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		logger.Error("failed to save report", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("saved validation report", zap.String("path", path))
}

// Summary renders a one-row status table for terminal output.
func Summary(sceneName string, result *validator.Result) string {
	status := "INVALID"
	if result.Valid {
		status = "VALID"
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Scene", "Status", "Errors", "Warnings"})
	t.AppendRow(table.Row{sceneName, status, len(result.Errors), len(result.Warnings)})
	return t.Render()
}
