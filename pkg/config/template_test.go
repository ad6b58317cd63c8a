package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/luaufmt/pkg/config"
)

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("yaml parses back", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Format: config.TemplateYAML})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, config.KnitAuto, cfg.Knit.Workspace)
		assert.Equal(t, config.DefaultPackagesRoot, cfg.Knit.PackagesRoot)
		assert.Equal(t, config.DefaultDebounceMS, cfg.Watch.DebounceMS)
	})

	t.Run("toml parses back", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Format: config.TemplateTOML})
		require.NoError(t, err)

		cfg, undecoded, err := config.FromTOML(data)
		require.NoError(t, err)
		assert.Empty(t, undecoded)
		assert.Equal(t, config.DefaultPackagesDir, cfg.Knit.PackagesDir)
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		_, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.Error(t, err)
	})
}
