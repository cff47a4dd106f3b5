// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultRequestTimeout bounds how long the analysis server waits on a request.
	defaultRequestTimeout = 30 * time.Second
	// defaultServerPort is the port the analysis server binds when the config omits one.
	defaultServerPort = 8080
	// defaultResultsDir is where annotation result files are looked up.
	defaultResultsDir = "results"
	// defaultReportsDir is where generated reports and exports are written.
	defaultReportsDir = "reports"
)

// Config represents the top-level application configuration. Field names
// match their config keys case-insensitively so the same struct decodes
// through encoding/json and viper alike.
type Config struct {
	ResultsDir     string   `json:"resultsDir,omitempty"`
	GoldenPath     string   `json:"goldenPath,omitempty"`
	ReportsDir     string   `json:"reportsDir,omitempty"`
	ExportPath     string   `json:"exportPath,omitempty"`
	ServerPort     int      `json:"serverPort,omitempty"`
	ServerOrigins  []string `json:"serverOrigins,omitempty"`
	TimeoutSeconds int      `json:"timeoutSeconds,omitempty"`
	LogFile        string   `json:"logFile,omitempty"`
	Debug          bool     `json:"debug"`
	JSONMode       bool     `json:"jsonMode"`
	ConfigPath     string   `json:"-"`
}

// ResultsDirPath returns the directory holding annotation result files,
// applying a default if not set.
func (c Config) ResultsDirPath() string {
	if dir := strings.TrimSpace(c.ResultsDir); dir != "" {
		return dir
	}
	return defaultResultsDir
}

// ReportsDirPath returns the directory reports are written to, applying a
// default if not set.
func (c Config) ReportsDirPath() string {
	if dir := strings.TrimSpace(c.ReportsDir); dir != "" {
		return dir
	}
	return defaultReportsDir
}

// RequestTimeout returns the timeout duration for server requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ServerAddr returns the listen address for the analysis server.
func (c Config) ServerAddr() string {
	port := c.ServerPort
	if port <= 0 {
		port = defaultServerPort
	}
	return fmt.Sprintf(":%d", port)
}

// AllowedOrigins returns the CORS allowlist for the analysis server,
// defaulting to the usual local frontend dev servers.
func (c Config) AllowedOrigins() []string {
	if len(c.ServerOrigins) > 0 {
		return c.ServerOrigins
	}
	return []string{"http://localhost:3000", "http://localhost:5173"}
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "accord.log"
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
