// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Server ServerConfig
	Auth   AuthConfig
	Search SearchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds persistent data configuration.
// The data directory holds the SQLite database and all
// content-addressed book artifacts (archives and covers).
type DataConfig struct {
	Dir          string
	DatabaseFile string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 30s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	SessionDuration time.Duration // session lifetime (default: 720h)
	// Login/register attempts allowed per second per client IP.
	LoginRateLimit float64
	LoginRateBurst int
}

// SearchConfig holds search pagination limits.
type SearchConfig struct {
	DefaultLimit int // page size when the caller does not specify one
	MaxLimit     int // ceiling for caller-supplied page sizes
	ListAllLimit int // ceiling for the internal list-everything path
}

// DatabasePath returns the full path to the SQLite database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Data.Dir, c.Data.DatabaseFile)
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataDir := flag.String("data-dir", "", "Directory for the database and book files")
	dbFile := flag.String("db-file", "", "SQLite database filename (default: diya.db)")
	host := flag.String("host", "", "Server host IP (default: 0.0.0.0)")
	port := flag.String("port", "", "Server port (default: 8080)")

	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	sessionDuration := flag.String("session-duration", "", "Session lifetime (default: 720h)")

	searchDefault := flag.String("search-default-limit", "", "Default search page size (default: 10)")
	searchMax := flag.String("search-max-limit", "", "Maximum search page size (default: 50)")
	searchListAll := flag.String("search-list-all-limit", "", "Ceiling for the list-everything path (default: 1000)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			Dir:          getConfigValue(*dataDir, "DATA_DIR", ""),
			DatabaseFile: getConfigValue(*dbFile, "DB_FILE", "diya.db"),
		},
		Server: ServerConfig{
			Host: getConfigValue(*host, "SERVER_HOST", "0.0.0.0"),
			Port: getConfigValue(*port, "SERVER_PORT", "8080"),
		},
		Auth: AuthConfig{
			LoginRateLimit: 1,
			LoginRateBurst: 5,
		},
		Search: SearchConfig{
			DefaultLimit: getIntConfigValue(*searchDefault, "SEARCH_DEFAULT_LIMIT", 10),
			MaxLimit:     getIntConfigValue(*searchMax, "SEARCH_MAX_LIMIT", 50),
			ListAllLimit: getIntConfigValue(*searchListAll, "SEARCH_LIST_ALL_LIMIT", 1000),
		},
	}

	// Parse durations.
	for _, d := range []struct {
		flagValue string
		envKey    string
		def       string
		dst       *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "30s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*sessionDuration, "SESSION_DURATION", "720h", &cfg.Auth.SessionDuration},
	} {
		str := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(str)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToLower(d.envKey), str, err)
		}
		*d.dst = parsed
	}

	// Expand and validate the data directory.
	if err := cfg.expandDataDir(); err != nil {
		return nil, fmt.Errorf("invalid data dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.Dir == "" {
		return errors.New("data dir cannot be empty after expansion")
	}
	if c.Data.DatabaseFile == "" {
		return errors.New("database filename cannot be empty")
	}

	if c.Search.DefaultLimit <= 0 || c.Search.MaxLimit <= 0 || c.Search.ListAllLimit <= 0 {
		return errors.New("search limits must be positive")
	}
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return errors.New("search default limit cannot exceed the max limit")
	}

	return nil
}

// expandDataDir expands ~ and makes the path absolute.
// Defaults to ~/Diya/data when unset.
func (c *Config) expandDataDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Diya", "data")

	expanded, err := expandPath(c.Data.Dir, defaultPath)
	if err != nil {
		return err
	}
	c.Data.Dir = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
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

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
