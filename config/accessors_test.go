package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyAPIKey     = "custom.api.key"
	testKeyAPITimeout = "custom.api.timeout"
	testKeyAPIRetries = "custom.api.retries"
)

func loadCustom(t *testing.T, content string) *Config {
	t.Helper()
	path := writeFile(t, t.TempDir(), "config.yaml", content)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	return cfg
}

const customYAML = `
custom:
  api:
    key: secret
    timeout: 2s
    retries: 3
    verbose: true
    ratio: 0.5
    broken: soon
`

func TestAccessors(t *testing.T) {
	cfg := loadCustom(t, customYAML)

	assert.True(t, cfg.Exists(testKeyAPIKey))
	assert.False(t, cfg.Exists("custom.api.missing"))

	assert.Equal(t, "secret", cfg.GetString(testKeyAPIKey))
	assert.Equal(t, "fallback", cfg.GetString("custom.api.missing", "fallback"))
	assert.Empty(t, cfg.GetString("custom.api.missing"))

	assert.Equal(t, 3, cfg.GetInt(testKeyAPIRetries))
	assert.Equal(t, 7, cfg.GetInt(testKeyAPIKey, 7))
	assert.Equal(t, 0, cfg.GetInt("custom.api.missing"))

	assert.True(t, cfg.GetBool("custom.api.verbose"))
	assert.True(t, cfg.GetBool("custom.api.missing", true))

	assert.Equal(t, 2*time.Second, cfg.GetDuration(testKeyAPITimeout))
	assert.Equal(t, time.Minute, cfg.GetDuration("custom.api.broken", time.Minute))
}

func TestAccessorsOnNilConfig(t *testing.T) {
	var cfg *Config
	assert.False(t, cfg.Exists(testKeyAPIKey))
	assert.Equal(t, "x", cfg.GetString(testKeyAPIKey, "x"))
	assert.Equal(t, 1, cfg.GetInt(testKeyAPIRetries, 1))
	assert.Error(t, cfg.Unmarshal("custom", &struct{}{}))
	assert.Error(t, cfg.InjectInto(&struct{}{}))
}

func TestGetRequiredString(t *testing.T) {
	cfg := loadCustom(t, customYAML)

	v, err := cfg.GetRequiredString(testKeyAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "secret", v)

	_, err = cfg.GetRequiredString("custom.api.token")
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, err.Error(), "CUSTOM_API_TOKEN")
}

func TestUnmarshalSubtree(t *testing.T) {
	cfg := loadCustom(t, customYAML)

	var api struct {
		Key     string `koanf:"key"`
		Retries int    `koanf:"retries"`
	}
	require.NoError(t, cfg.Unmarshal("custom.api", &api))
	assert.Equal(t, "secret", api.Key)
	assert.Equal(t, 3, api.Retries)
}

func TestInjectInto(t *testing.T) {
	cfg := loadCustom(t, customYAML)

	var settings struct {
		Key      string        `config:"custom.api.key" required:"true"`
		Timeout  time.Duration `config:"custom.api.timeout"`
		Retries  int           `config:"custom.api.retries"`
		Ratio    float64       `config:"custom.api.ratio"`
		Verbose  bool          `config:"custom.api.verbose"`
		Region   string        `config:"custom.api.region" default:"eu-west-1"`
		Optional string        `config:"custom.api.optional"`
		Untagged string
		internal string `config:"custom.api.key"`
	}
	require.NoError(t, cfg.InjectInto(&settings))

	assert.Equal(t, "secret", settings.Key)
	assert.Equal(t, 2*time.Second, settings.Timeout)
	assert.Equal(t, 3, settings.Retries)
	assert.InDelta(t, 0.5, settings.Ratio, 1e-9)
	assert.True(t, settings.Verbose)
	assert.Equal(t, "eu-west-1", settings.Region)
	assert.Empty(t, settings.Optional)
	assert.Empty(t, settings.Untagged)
	assert.Empty(t, settings.internal)
}

func TestInjectIntoFromEnvironment(t *testing.T) {
	t.Setenv("CUSTOM_API_RETRIES", "9")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	var settings struct {
		Retries int `config:"custom.api.retries"`
	}
	require.NoError(t, cfg.InjectInto(&settings))
	assert.Equal(t, 9, settings.Retries)
}

func TestInjectIntoErrors(t *testing.T) {
	cfg := loadCustom(t, customYAML)

	t.Run("not_a_pointer", func(t *testing.T) {
		assert.ErrorContains(t, cfg.InjectInto(struct{}{}), "pointer to a struct")
	})

	t.Run("missing_required", func(t *testing.T) {
		var s struct {
			Token string `config:"custom.api.token" required:"true"`
		}
		var cerr *ConfigError
		require.ErrorAs(t, cfg.InjectInto(&s), &cerr)
	})

	t.Run("malformed_value", func(t *testing.T) {
		var s struct {
			Timeout time.Duration `config:"custom.api.broken"`
		}
		assert.ErrorContains(t, cfg.InjectInto(&s), "invalid duration")
	})

	t.Run("unsupported_type", func(t *testing.T) {
		var s struct {
			Keys []string `config:"custom.api.key"`
		}
		assert.ErrorContains(t, cfg.InjectInto(&s), "unsupported field type")
	})
}
