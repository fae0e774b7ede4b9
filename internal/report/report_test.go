package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenevalidator/internal/validator"
)

func TestRender(t *testing.T) {
	t.Run("valid with one warning", func(t *testing.T) {
		text := Render(&validator.Result{
			Valid:    true,
			Errors:   []string{},
			Warnings: []string{"w1"},
		})

		assert.Contains(t, text, "# Scene Validation Report")
		assert.Contains(t, text, "✅ Scene is valid")
		assert.NotContains(t, text, "## Errors")
		assert.Contains(t, text, "## Warnings")
		assert.Contains(t, text, "- w1")
	})

	t.Run("invalid with errors and warnings", func(t *testing.T) {
		text := Render(&validator.Result{
			Valid:    false,
			Errors:   []string{"e1", "e2"},
			Warnings: []string{"w1"},
		})

		assert.Contains(t, text, "❌ Scene is invalid")
		errIdx := strings.Index(text, "## Errors")
		warnIdx := strings.Index(text, "## Warnings")
		require.NotEqual(t, -1, errIdx)
		require.NotEqual(t, -1, warnIdx)
		assert.Less(t, errIdx, warnIdx)
		assert.Contains(t, text, "- e1")
		assert.Contains(t, text, "- e2")
	})

	t.Run("clean pass has no sections", func(t *testing.T) {
		text := Render(&validator.Result{Valid: true, Errors: []string{}, Warnings: []string{}})
		assert.NotContains(t, text, "## Errors")
		assert.NotContains(t, text, "## Warnings")
	})
}

func TestSave(t *testing.T) {
	t.Run("writes the report", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.md")
		Save(path, "# report", nil)
		assert.FileExists(t, path)
	})

	t.Run("write failure is swallowed", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Save(filepath.Join(t.TempDir(), "missing", "dir", "report.md"), "# report", nil)
		})
	})
}

func TestSummary(t *testing.T) {
	out := Summary("S1", &validator.Result{Valid: false, Errors: []string{"e"}, Warnings: []string{}})
	assert.Contains(t, out, "S1")
	assert.Contains(t, out, "INVALID")
}
