// Package config loads server configuration from command-line flags,
// environment variables, a .env file and defaults, in that order of precedence.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Data      DataConfig
	Server    ServerConfig
	Scoring   ScoringConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string // json or pretty; empty picks by environment
}

// DataConfig locates on-disk state.
type DataConfig struct {
	BasePath string
}

// DatabasePath is the SQLite database file.
func (d DataConfig) DatabasePath() string { return filepath.Join(d.BasePath, "dreams.db") }

// ReportsPath is the Badger directory for validation reports.
func (d DataConfig) ReportsPath() string { return filepath.Join(d.BasePath, "reports") }

// SearchPath is the Bleve index directory.
func (d DataConfig) SearchPath() string { return filepath.Join(d.BasePath, "search") }

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// ScoringConfig configures the evaluation engine.
type ScoringConfig struct {
	MaxTagCount   int
	UserTagCap    int
	MinTextLength int
	MaxTextLength int
	NoiseSeed     uint64 // 0 disables the uncertainty term
	Parallel      bool
}

// RateLimitConfig configures per-client limits on scoring endpoints.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// Load parses args and the environment into a validated Config.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("dreamnft", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (json, pretty)")
	dataPath := fs.String("data-path", "", "Base path for databases and indexes")

	port := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins")

	maxTags := fs.String("max-tags", "", "Maximum AI tags per dream (default: 10)")
	userTagCap := fs.String("user-tag-cap", "", "Maximum user tags per dream (default: 5)")
	minText := fs.String("min-text-length", "", "Minimum characters for authenticity validation (default: 20)")
	maxText := fs.String("max-text-length", "", "Maximum narrative characters (default: 10000)")
	noiseSeed := fs.String("noise-seed", "", "Seed for the authenticity uncertainty term (default: 0, disabled)")
	parallel := fs.String("parallel", "", "Run evaluators concurrently (default: true)")

	rateEnabled := fs.String("rate-limit", "", "Enable rate limiting (default: true)")
	rateRPS := fs.String("rate-limit-rps", "", "Sustained requests per second per client (default: 2)")
	rateBurst := fs.String("rate-limit-burst", "", "Burst size per client (default: 10)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// A missing .env file is not an error.
	if err := loadEnvFile(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			Format: getConfigValue(*logFormat, "LOG_FORMAT", ""),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*port, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		Scoring: ScoringConfig{
			MaxTagCount:   getIntConfigValue(*maxTags, "SCORING_MAX_TAGS", 10),
			UserTagCap:    getIntConfigValue(*userTagCap, "SCORING_USER_TAG_CAP", 5),
			MinTextLength: getIntConfigValue(*minText, "SCORING_MIN_TEXT_LENGTH", 20),
			MaxTextLength: getIntConfigValue(*maxText, "SCORING_MAX_TEXT_LENGTH", 10000),
			Parallel:      getBoolConfigValue(*parallel, "SCORING_PARALLEL", true),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBoolConfigValue(*rateEnabled, "RATE_LIMIT_ENABLED", true),
			Burst:   getIntConfigValue(*rateBurst, "RATE_LIMIT_BURST", 10),
		},
	}

	seed, err := strconv.ParseUint(getConfigValue(*noiseSeed, "SCORING_NOISE_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid noise seed: %w", err)
	}
	cfg.Scoring.NoiseSeed = seed

	rps, err := strconv.ParseFloat(getConfigValue(*rateRPS, "RATE_LIMIT_RPS", "2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit rps: %w", err)
	}
	cfg.RateLimit.RequestsPerSecond = rps

	timeouts := []struct {
		dst  *time.Duration
		flag string
		env  string
		def  string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
	}
	for _, t := range timeouts {
		raw := getConfigValue(t.flag, t.env, t.def)
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToLower(t.env), raw, err)
		}
		*t.dst = d
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that all config values are present and valid.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Logger.Format {
	case "", "json", "pretty":
	default:
		return fmt.Errorf("invalid log format: %s (must be json or pretty)", c.Logger.Format)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	s := c.Scoring
	if s.MaxTagCount <= 0 || s.UserTagCap <= 0 || s.MinTextLength <= 0 || s.MaxTextLength <= 0 {
		return errors.New("scoring limits must be positive")
	}
	if s.MinTextLength > s.MaxTextLength {
		return fmt.Errorf("min text length %d exceeds max text length %d", s.MinTextLength, s.MaxTextLength)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("rate limit rps and burst must be positive when enabled")
	}
	return nil
}

// expandPath expands ~ and makes path absolute. An empty path yields defaultPath.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// expandDataPath defaults the data directory to ~/DreamNFT/data.
func (c *Config) expandDataPath() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	expanded, err := expandPath(c.Data.BasePath, filepath.Join(home, "DreamNFT", "data"))
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1" and "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	v := strings.ToLower(getConfigValue(flagValue, envKey, ""))
	if v == "" {
		return defaultValue
	}
	return v == "true" || v == "1" || v == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default. Unparsable
// values fall back to the default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	v := getConfigValue(flagValue, envKey, "")
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads KEY=value lines from path into the environment without
// overriding variables that are already set. Blank lines and # comments are
// skipped.
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- operator supplied path
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}
