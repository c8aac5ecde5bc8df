package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is prepended to every environment variable the scraper reads
	EnvPrefix = "LISTINGSCRAPER_"

	appName = "listingscraper"
)

// Config holds all configuration options for the listing scraper
type Config struct {
	// HTTP client settings shared by page and photo requests
	Client ClientConfig `yaml:"client" json:"client"`

	// Download orchestration settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Output layout
	Output OutputConfig `yaml:"output" json:"output"`

	// Retry policy for listing page fetches
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ClientConfig holds outbound request settings
type ClientConfig struct {
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	PageTimeout    time.Duration `yaml:"page_timeout" json:"page_timeout"`

	// MaxRequestsPerMinute caps photo requests across all workers; 0 means no cap
	MaxRequestsPerMinute int `yaml:"max_requests_per_minute" json:"max_requests_per_minute"`
}

// DownloadConfig holds photo download settings
type DownloadConfig struct {
	ConcurrentDownloads int           `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	MinContentBytes     int64         `yaml:"min_content_bytes" json:"min_content_bytes"`
	PolitenessDelay     time.Duration `yaml:"politeness_delay" json:"politeness_delay"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
	MetadataFile  string `yaml:"metadata_file" json:"metadata_file"`
}

// RetryConfig controls retries of the listing page request
type RetryConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled"`
	MaxAttempts  int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay    time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay     time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier   float64       `yaml:"multiplier" json:"multiplier"`
	JitterFactor float64       `yaml:"jitter_factor" json:"jitter_factor"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			RequestTimeout: 10 * time.Second,
			PageTimeout:    30 * time.Second,
		},
		Download: DownloadConfig{
			ConcurrentDownloads: 10,
			MinContentBytes:     1001,
			PolitenessDelay:     200 * time.Millisecond,
		},
		Output: OutputConfig{
			BaseDirectory: "./listing_images",
			MetadataFile:  "property_details.json",
		},
		Retry: RetryConfig{
			Enabled:      true,
			MaxAttempts:  3,
			BaseDelay:    1 * time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
			JitterFactor: 0.1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(EnvPrefix + "USER_AGENT"); v != "" {
		c.Client.UserAgent = v
	}
	if v := os.Getenv(EnvPrefix + "REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREQUEST_TIMEOUT: %w", EnvPrefix, err))
		} else {
			c.Client.RequestTimeout = d
		}
	}
	if v := os.Getenv(EnvPrefix + "MAX_REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_REQUESTS_PER_MINUTE: %w", EnvPrefix, err))
		} else {
			c.Client.MaxRequestsPerMinute = n
		}
	}
	if v := os.Getenv(EnvPrefix + "OUTPUT_DIR"); v != "" {
		c.Output.BaseDirectory = v
	}
	if v := os.Getenv(EnvPrefix + "CONCURRENT_DOWNLOADS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCONCURRENT_DOWNLOADS: %w", EnvPrefix, err))
		} else {
			c.Download.ConcurrentDownloads = n
		}
	}
	if v := os.Getenv(EnvPrefix + "MIN_CONTENT_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMIN_CONTENT_BYTES: %w", EnvPrefix, err))
		} else {
			c.Download.MinContentBytes = n
		}
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches the working directory, then the XDG config dirs
func findConfigFile() string {
	for _, loc := range []string{".listingscraper.yaml", ".listingscraper.yml"} {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	if path, err := xdg.SearchConfigFile(filepath.Join(appName, "config.yaml")); err == nil {
		return path
	}
	return ""
}

// DefaultConfigPath is where `config init` writes when no path is given
func DefaultConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(appName, "config.yaml"))
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Client.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Client.PageTimeout <= 0 {
		errs = append(errs, errors.New("page timeout must be positive"))
	}
	if c.Client.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if c.Client.MaxRequestsPerMinute < 0 {
		errs = append(errs, errors.New("max requests per minute cannot be negative"))
	}

	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.ConcurrentDownloads > 50 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 50"))
	}
	if c.Download.MinContentBytes < 0 {
		errs = append(errs, errors.New("min content bytes cannot be negative"))
	}
	if c.Download.PolitenessDelay < 0 {
		errs = append(errs, errors.New("politeness delay cannot be negative"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.MetadataFile == "" || strings.ContainsAny(c.Output.MetadataFile, `/\`) {
		errs = append(errs, errors.New("metadata file must be a plain file name"))
	}

	if c.Retry.Enabled && c.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("retry max attempts must be at least 1"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags applies explicitly set command line flags
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.BaseDirectory = v
	}
	if v, ok := flags["concurrent"].(int); ok && v > 0 {
		c.Download.ConcurrentDownloads = v
	}
	if v, ok := flags["min-bytes"].(int64); ok && v >= 0 {
		c.Download.MinContentBytes = v
	}
	if v, ok := flags["rate"].(int); ok && v >= 0 {
		c.Client.MaxRequestsPerMinute = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok && v > 0 {
		c.Client.RequestTimeout = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["log-file"].(string); ok && v != "" {
		c.Logging.File = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	if envFile, err := xdg.SearchConfigFile(filepath.Join(appName, ".env")); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg.MergeCommandLineFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
