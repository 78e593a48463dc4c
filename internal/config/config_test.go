package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, env := range []string{"PORT", "SERVER_PORT", "DATABASE_URL", "OPENROUTER_API_KEY", "OPENROUTER_MODEL", "USE_JSON_FORMAT", "LLM_TIMEOUT"} {
		t.Setenv(env, "")
	}
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite://data/app.db", cfg.Database.URL)
	assert.Equal(t, "", cfg.LLM.APIKey)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "mistralai/mistral-7b-instruct", cfg.LLM.Model)
	assert.Equal(t, "https://localhost", cfg.LLM.Referrer)
	assert.Equal(t, "fynd-feedback-app", cfg.LLM.AppTitle)
	assert.True(t, cfg.LLM.JSONMode)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 0.4, cfg.LLM.Generation.Temperature)
	assert.Equal(t, 180, cfg.LLM.Generation.MaxTokens)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
	assert.False(t, cfg.AdminAuthEnabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-live")
	t.Setenv("OPENROUTER_MODEL", "openai/gpt-4o-mini")
	t.Setenv("USE_JSON_FORMAT", "false")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/feedback")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("PORT", "9000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-live", cfg.LLM.APIKey)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.LLM.Model)
	assert.False(t, cfg.LLM.JSONMode)
	assert.Equal(t, "postgres://u:p@db:5432/feedback", cfg.Database.URL)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "7070"
llm:
  model: "anthropic/claude-3-haiku"
  json_mode: false
admin:
  username: "ops"
  password_hash: "$2a$10$abcdefghijklmnopqrstuu"
jwt:
  secret: "s3cret"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "anthropic/claude-3-haiku", cfg.LLM.Model)
	assert.False(t, cfg.LLM.JSONMode)
	// 文件未设置的键保持默认值
	assert.Equal(t, "https://localhost", cfg.LLM.Referrer)
	assert.Equal(t, "ops", cfg.Admin.Username)
	assert.True(t, cfg.AdminAuthEnabled())
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
