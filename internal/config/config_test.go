package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FocuswithJustin/KanjiLens/core/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kanjilens.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Render.StepCount, cfg.Render.StepCount)
	assert.Equal(t, "wk_", cfg.Render.MarkerPrefix)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.CacheTTL)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, `
store:
  path: /tmp/kl.db
render:
  step_count: 3
server:
  port: 9000
  allowed_origins: ["https://example.com"]
  cache_ttl: 5s
logging:
  level: debug
sources:
  - name: jlpt
    dictionary: jlpt.json
    threshold: 2
    rank_count: 5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/kl.db", cfg.Store.Path)
	assert.Equal(t, 3, cfg.Render.StepCount)
	assert.Equal(t, "wk_", cfg.Render.MarkerPrefix, "unset fields keep defaults")
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Server.CacheTTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, Source{Name: "jlpt", Dictionary: "jlpt.json", Threshold: 2, RankCount: 5}, cfg.Sources[0])
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvDB, "/env/settings.db")
	t.Setenv(EnvPort, "7000")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogFormat, "json")

	cfg, err := Load(writeFile(t, "server:\n  port: 9000\n"))
	require.NoError(t, err)
	assert.Equal(t, "/env/settings.db", cfg.Store.Path)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadBadPortEnv(t *testing.T) {
	t.Setenv(EnvPort, "eighty")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeFile(t, "render: [unclosed"))
	require.Error(t, err)
	var pe *errors.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty store", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"zero steps", func(c *Config) { c.Render.StepCount = 0 }, "render.step_count"},
		{"bad prefix", func(c *Config) { c.Render.MarkerPrefix = `x" onclick="` }, "render.marker_prefix"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative ttl", func(c *Config) { c.Server.CacheTTL = -time.Second }, "server.cache_ttl"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }, "server.rate_limit"},
		{"zero message rate", func(c *Config) { c.Server.MaxMessageRate = 0 }, "server.max_message_rate"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"source without file", func(c *Config) { c.Sources = []Source{{Name: "x"}} }, "sources[0].dictionary"},
		{"negative threshold", func(c *Config) {
			c.Sources = []Source{{Dictionary: "d.json", Threshold: -1}}
		}, "sources[0].threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			var ce *errors.ConfigurationError
			require.True(t, errors.As(err, &ce), "want ConfigurationError, got %v", err)
			assert.Equal(t, tt.field, ce.Field)
		})
	}

	assert.NoError(t, Default().Validate())
}
