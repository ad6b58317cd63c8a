package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/luaufmt/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies rules and slices", func(t *testing.T) {
		t.Parallel()

		enabled := true
		original := config.NewConfig()
		original.Ignore = []string{"Packages/**"}
		original.EnableRules = []string{"LF001"}
		original.Rules["LF001"] = config.RuleConfig{
			Enabled: &enabled,
			Options: map[string]any{"dedupe": true},
		}

		clone := original.Clone()
		require.NotNil(t, clone)

		clone.Ignore[0] = "changed"
		clone.EnableRules[0] = "changed"
		*clone.Rules["LF001"].Enabled = false
		clone.Rules["LF001"].Options["dedupe"] = false

		assert.Equal(t, "Packages/**", original.Ignore[0])
		assert.Equal(t, "LF001", original.EnableRules[0])
		assert.True(t, *original.Rules["LF001"].Enabled)
		assert.Equal(t, true, original.Rules["LF001"].Options["dedupe"])
		assert.Equal(t, original.Knit, clone.Knit)
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
ignore:
  - "Packages/**"
knit:
  workspace: always
  packages_root: ServerStorage
rules:
  LF001:
    options:
      dedupe: true
`)

	cfg, err := config.FromYAML(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Packages/**"}, cfg.Ignore)
	assert.Equal(t, config.KnitAlways, cfg.Knit.Workspace)
	assert.Equal(t, "ServerStorage", cfg.Knit.PackagesRoot)
	assert.Equal(t, true, cfg.Rules["LF001"].Options["dedupe"])
	assert.Nil(t, cfg.Rules["LF001"].Enabled)
}

func TestFromYAML_Invalid(t *testing.T) {
	t.Parallel()

	_, err := config.FromYAML([]byte("rules: [unterminated"))
	require.Error(t, err)
}

func TestToYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ignore = []string{"out/**"}
	cfg.DryRun = true

	data, err := cfg.ToYAML()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dryrun", "CLI-only fields are not serialized")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Ignore, parsed.Ignore)
	assert.Equal(t, cfg.Knit, parsed.Knit)
	assert.Equal(t, cfg.Watch, parsed.Watch)
	assert.False(t, parsed.DryRun)
}
