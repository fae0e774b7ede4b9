package continuity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenevalidator/internal/scene"
)

func TestBuildPrompt(t *testing.T) {
	current, err := scene.Parse([]byte(`{
		"sceneName": "S2",
		"sceneNumber": 2,
		"location": "Loft",
		"timeOfDay": "Night",
		"characters": ["A"],
		"props": ["revolver"],
		"previousScenes": [{"sceneName": "S1", "props": ["knife"]}]
	}`))
	require.NoError(t, err)

	prompt := BuildPrompt(current, current.PreviousScenes)

	assert.Contains(t, prompt, "Analyze continuity")
	assert.Contains(t, prompt, `"revolver"`)
	assert.Contains(t, prompt, `"knife"`)
	assert.Contains(t, prompt, "continuityErrors")
	assert.Contains(t, prompt, "continuityWarnings")
	assert.Contains(t, prompt, "props, wardrobe, lighting, and time of day")
}

func TestParseFindings(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		f, err := ParseFindings(`{"continuityErrors": ["prop vanished"], "continuityWarnings": ["check lighting"]}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"prop vanished"}, f.Errors)
		assert.Equal(t, []string{"check lighting"}, f.Warnings)
	})

	t.Run("fenced json", func(t *testing.T) {
		f, err := ParseFindings("```json\n{\"continuityErrors\": [], \"continuityWarnings\": [\"w\"]}\n```")
		require.NoError(t, err)
		assert.Empty(t, f.Errors)
		assert.Equal(t, []string{"w"}, f.Warnings)
	})

	t.Run("json surrounded by prose", func(t *testing.T) {
		f, err := ParseFindings(`Here is the analysis: {"continuityErrors": ["e"], "continuityWarnings": []} hope it helps`)
		require.NoError(t, err)
		assert.Equal(t, []string{"e"}, f.Errors)
	})

	t.Run("single findings field accepted", func(t *testing.T) {
		f, err := ParseFindings(`{"continuityErrors": ["e"]}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"e"}, f.Errors)
		assert.Empty(t, f.Warnings)
	})

	t.Run("braces inside strings do not confuse extraction", func(t *testing.T) {
		f, err := ParseFindings(`{"continuityErrors": ["prop {lamp} moved"], "continuityWarnings": []}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"prop {lamp} moved"}, f.Errors)
	})

	t.Run("no json is a failure", func(t *testing.T) {
		_, err := ParseFindings("the scene looks fine to me")
		assert.Error(t, err)
	})

	t.Run("missing both fields is a failure", func(t *testing.T) {
		_, err := ParseFindings(`{"verdict": "fine"}`)
		assert.Error(t, err)
	})

	t.Run("non-object json is a failure", func(t *testing.T) {
		_, err := ParseFindings(`["a", "b"]`)
		assert.Error(t, err)
	})
}

func TestBuildPromptNoPrevious(t *testing.T) {
	current, err := scene.Parse([]byte(`{"sceneName": "S1"}`))
	require.NoError(t, err)

	prompt := BuildPrompt(current, nil)
	assert.Contains(t, prompt, "Previous scenes:\n[]")
}

func TestFindingsJSONShape(t *testing.T) {
	data, err := json.Marshal(Findings{Errors: []string{"e"}, Warnings: []string{"w"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"continuityErrors": ["e"], "continuityWarnings": ["w"]}`, string(data))
}
