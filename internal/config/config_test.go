package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsRunnable(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 4, cfg.Concurrency.BulkFanout)
	assert.Equal(t, 3, cfg.Generation.PersonaVariations)
	assert.NotEmpty(t, cfg.Prompts.Blueprint)
	assert.NotEmpty(t, cfg.Prompts.RemixSuggestions)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[llm]
provider = "openai"
model = "gpt-4o"

[server]
port = "9090"

[generation]
creative_count = 5

[prompts]
personas = "custom personas prompt %s"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Generation.CreativeCount)
	assert.Equal(t, "custom personas prompt %s", cfg.Prompts.Personas)

	// Anything the file omits keeps its default.
	assert.Equal(t, "dev", cfg.Server.Mode)
	assert.Equal(t, 3, cfg.Generation.PersonaVariations)
	assert.NotEmpty(t, cfg.Prompts.Creatives)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm\nprovider ="), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "claude")
	t.Setenv("LLM_MODEL", "claude-sonnet-4")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("PORT", "3000")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "claude", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4", cfg.LLM.Model)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "3000", cfg.Server.Port)
}

func TestApplyEnvIgnoresUnset(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "gemini", cfg.LLM.Provider)
}
