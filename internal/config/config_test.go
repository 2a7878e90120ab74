package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
		Scoring: ScoringConfig{
			MaxTagCount:   10,
			UserTagCap:    5,
			MinTextLength: 20,
			MaxTextLength: 10000,
		},
		RateLimit: RateLimitConfig{Enabled: true, RequestsPerSecond: 2, Burst: 10},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown environment", func(c *Config) { c.App.Environment = "test" }},
		{"environment is case sensitive", func(c *Config) { c.App.Environment = "DEVELOPMENT" }},
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logger.Format = "xml" }},
		{"empty data path", func(c *Config) { c.Data.BasePath = "" }},
		{"zero max tags", func(c *Config) { c.Scoring.MaxTagCount = 0 }},
		{"negative user tag cap", func(c *Config) { c.Scoring.UserTagCap = -1 }},
		{"min above max", func(c *Config) { c.Scoring.MinTextLength = 20000 }},
		{"zero rps", func(c *Config) { c.RateLimit.RequestsPerSecond = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_RateLimitDisabledSkipsChecks(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit = RateLimitConfig{Enabled: false}

	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)

	cfg, err := Load([]string{"-env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, dir, cfg.Data.BasePath)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 10, cfg.Scoring.MaxTagCount)
	assert.Equal(t, 5, cfg.Scoring.UserTagCap)
	assert.Equal(t, 20, cfg.Scoring.MinTextLength)
	assert.Equal(t, 10000, cfg.Scoring.MaxTextLength)
	assert.Equal(t, uint64(0), cfg.Scoring.NoiseSeed)
	assert.True(t, cfg.Scoring.Parallel)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 2.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, filepath.Join(dir, "dreams.db"), cfg.Data.DatabasePath())
	assert.Equal(t, filepath.Join(dir, "reports"), cfg.Data.ReportsPath())
	assert.Equal(t, filepath.Join(dir, "search"), cfg.Data.SearchPath())
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"# scoring\nSCORING_MAX_TAGS=7\nSERVER_PORT=7000\nLOG_LEVEL=\"warn\"\n",
	), 0o600))

	t.Setenv("DATA_PATH", dir)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SCORING_MAX_TAGS", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load([]string{"-env-file", envFile, "-log-level", "debug", "-cors-origins", "https://a.test, https://b.test"})
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port, "environment beats .env")
	assert.Equal(t, 7, cfg.Scoring.MaxTagCount, ".env beats default")
	assert.Equal(t, "debug", cfg.Logger.Level, "flag beats everything")
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.CORSOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	missing := filepath.Join(dir, "none.env")

	tests := []struct {
		name string
		args []string
	}{
		{"bad duration", []string{"-read-timeout", "soon"}},
		{"bad seed", []string{"-noise-seed", "-4"}},
		{"bad rps", []string{"-rate-limit-rps", "fast"}},
		{"bad env", []string{"-env", "qa"}},
		{"unknown flag", []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(append([]string{"-env-file", missing}, tt.args...))
			assert.Error(t, err)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("~/dreams", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "dreams"), got)

	got, err = expandPath("/abs/../abs/path", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	got, err = expandPath("relative", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestGetConfigValues(t *testing.T) {
	t.Setenv("CFG_TEST_VALUE", "env")
	t.Setenv("CFG_TEST_INT", "12")
	t.Setenv("CFG_TEST_BAD_INT", "twelve")
	t.Setenv("CFG_TEST_BOOL", "YES")

	assert.Equal(t, "flag", getConfigValue("flag", "CFG_TEST_VALUE", "default"))
	assert.Equal(t, "env", getConfigValue("", "CFG_TEST_VALUE", "default"))
	assert.Equal(t, "default", getConfigValue("", "CFG_TEST_UNSET", "default"))
	assert.Equal(t, 12, getIntConfigValue("", "CFG_TEST_INT", 3))
	assert.Equal(t, 3, getIntConfigValue("", "CFG_TEST_BAD_INT", 3))
	assert.True(t, getBoolConfigValue("", "CFG_TEST_BOOL", false))
	assert.False(t, getBoolConfigValue("no", "CFG_TEST_BOOL", true))
	assert.True(t, getBoolConfigValue("", "CFG_TEST_UNSET", true))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("invalid format", func(t *testing.T) {
		path := filepath.Join(dir, "bad.env")
		require.NoError(t, os.WriteFile(path, []byte("NOT_A_PAIR\n"), 0o600))
		assert.Error(t, loadEnvFile(path))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.ErrorIs(t, loadEnvFile(filepath.Join(dir, "absent.env")), os.ErrNotExist)
	})

	t.Run("does not overwrite", func(t *testing.T) {
		path := filepath.Join(dir, "keep.env")
		require.NoError(t, os.WriteFile(path, []byte("CFG_TEST_KEEP=file\n  CFG_TEST_NEW = 'quoted'  \n\n"), 0o600))
		t.Setenv("CFG_TEST_KEEP", "env")
		t.Setenv("CFG_TEST_NEW", "")

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "env", os.Getenv("CFG_TEST_KEEP"))
		assert.Equal(t, "quoted", os.Getenv("CFG_TEST_NEW"))
	})
}
