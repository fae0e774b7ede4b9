package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestDefaults(t *testing.T) {
	d := Defaults()

	assert.Equal(t, []string{"1920x1080", "3840x2160", "4096x2160"}, d.Technical.Resolution)
	assert.Equal(t, []float64{24, 25, 30, 60}, d.Technical.FrameRate)
	assert.Equal(t, []string{"Rec.709", "Rec.2020", "DCI-P3"}, d.Technical.ColorSpace)
	assert.Equal(t, []float64{2, 5.1, 7.1}, d.Technical.AudioChannels)
	assert.Equal(t, []float64{48000, 96000}, d.Technical.AudioSampleRate)

	assert.True(t, d.Composition.EnforceRuleOfThirds)
	assert.True(t, d.Composition.EnforceHeadroom)
	assert.True(t, d.Composition.EnforceLeadingSpace)

	assert.True(t, d.Continuity.CheckProps)
	assert.True(t, d.Continuity.CheckWardrobe)
	assert.True(t, d.Continuity.CheckLighting)
	assert.True(t, d.Continuity.CheckTimeOfDay)
}

func TestMerge(t *testing.T) {
	t.Run("nil overrides is identity", func(t *testing.T) {
		merged := Merge(Defaults(), nil)
		if diff := cmp.Diff(Defaults(), merged); diff != "" {
			t.Errorf("merge changed defaults (-want +got):\n%s", diff)
		}
	})

	t.Run("empty overrides is identity", func(t *testing.T) {
		merged := Merge(Defaults(), &Overrides{})
		if diff := cmp.Diff(Defaults(), merged); diff != "" {
			t.Errorf("merge changed defaults (-want +got):\n%s", diff)
		}
	})

	t.Run("override value wins, unset keys keep defaults", func(t *testing.T) {
		merged := Merge(Defaults(), &Overrides{
			Technical: &TechnicalOverrides{
				Resolution: []string{"1280x720"},
			},
		})

		assert.Equal(t, []string{"1280x720"}, merged.Technical.Resolution)
		// Every other technical key is filled from the defaults.
		assert.Equal(t, Defaults().Technical.FrameRate, merged.Technical.FrameRate)
		assert.Equal(t, Defaults().Technical.ColorSpace, merged.Technical.ColorSpace)
		assert.Equal(t, Defaults().Technical.AudioChannels, merged.Technical.AudioChannels)
		assert.Equal(t, Defaults().Technical.AudioSampleRate, merged.Technical.AudioSampleRate)
		// Untouched sections come through whole.
		assert.Equal(t, Defaults().Composition, merged.Composition)
		assert.Equal(t, Defaults().Continuity, merged.Continuity)
	})

	t.Run("boolean toggles override per key", func(t *testing.T) {
		merged := Merge(Defaults(), &Overrides{
			Composition: &CompositionOverrides{
				EnforceRuleOfThirds: boolPtr(false),
			},
			Continuity: &ContinuityOverrides{
				CheckProps: boolPtr(false),
			},
		})

		assert.False(t, merged.Composition.EnforceRuleOfThirds)
		assert.True(t, merged.Composition.EnforceHeadroom)
		assert.True(t, merged.Composition.EnforceLeadingSpace)
		assert.False(t, merged.Continuity.CheckProps)
		assert.True(t, merged.Continuity.CheckWardrobe)
	})

	t.Run("empty allowed-value set is an override, not unset", func(t *testing.T) {
		merged := Merge(Defaults(), &Overrides{
			Technical: &TechnicalOverrides{Resolution: []string{}},
		})
		assert.Empty(t, merged.Technical.Resolution)
	})

	t.Run("extensions pass through", func(t *testing.T) {
		merged := Merge(Defaults(), &Overrides{
			Extensions: map[string]any{
				"delivery": map[string]any{"container": "mxf"},
			},
		})
		assert.Contains(t, merged.Extensions, "delivery")
	})

	t.Run("does not mutate defaults", func(t *testing.T) {
		d := Defaults()
		Merge(d, &Overrides{
			Technical: &TechnicalOverrides{Resolution: []string{"1280x720"}},
		})
		assert.Equal(t, Defaults(), d)
	})
}

func TestParseOverrides(t *testing.T) {
	t.Run("json document", func(t *testing.T) {
		ov, err := ParseOverrides([]byte(`{
			"technical": {"resolution": ["1280x720"], "frameRate": [23.976, 24]},
			"continuity": {"checkProps": false}
		}`))
		require.NoError(t, err)
		require.NotNil(t, ov.Technical)
		assert.Equal(t, []string{"1280x720"}, ov.Technical.Resolution)
		assert.Equal(t, []float64{23.976, 24}, ov.Technical.FrameRate)
		require.NotNil(t, ov.Continuity)
		require.NotNil(t, ov.Continuity.CheckProps)
		assert.False(t, *ov.Continuity.CheckProps)
		assert.Nil(t, ov.Composition)
	})

	t.Run("yaml document", func(t *testing.T) {
		ov, err := ParseOverrides([]byte("composition:\n  enforceRuleOfThirds: false\n"))
		require.NoError(t, err)
		require.NotNil(t, ov.Composition)
		require.NotNil(t, ov.Composition.EnforceRuleOfThirds)
		assert.False(t, *ov.Composition.EnforceRuleOfThirds)
	})

	t.Run("unknown section preserved", func(t *testing.T) {
		ov, err := ParseOverrides([]byte(`{"delivery": {"container": "mxf"}}`))
		require.NoError(t, err)
		assert.Contains(t, ov.Extensions, "delivery")
	})

	t.Run("unknown key in known section preserved", func(t *testing.T) {
		ov, err := ParseOverrides([]byte(`{"technical": {"resolution": ["1280x720"], "bitDepth": [10, 12]}}`))
		require.NoError(t, err)
		require.NotNil(t, ov.Technical)
		assert.Contains(t, ov.Technical.Extra, "bitDepth")
		assert.NotContains(t, ov.Technical.Extra, "resolution")
	})

	t.Run("malformed document fails", func(t *testing.T) {
		_, err := ParseOverrides([]byte(`{"technical": {`))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		got := Load("", nil)
		assert.Equal(t, Defaults(), got)
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		got := Load(filepath.Join(t.TempDir(), "nope.json"), nil)
		assert.Equal(t, Defaults(), got)
	})

	t.Run("malformed file falls back to defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.json")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
		got := Load(path, nil)
		assert.Equal(t, Defaults(), got)
	})

	t.Run("valid file merges over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.json")
		require.NoError(t, os.WriteFile(path,
			[]byte(`{"technical": {"resolution": ["1280x720"]}}`), 0o644))

		got := Load(path, nil)
		assert.Equal(t, []string{"1280x720"}, got.Technical.Resolution)
		assert.Equal(t, Defaults().Technical.FrameRate, got.Technical.FrameRate)
		assert.Equal(t, Defaults().Continuity, got.Continuity)
	})
}
