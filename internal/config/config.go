package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Configuration represents the complete configuration for a collection run.
type Configuration struct {
	Global      GlobalConfig      `yaml:"global"`
	Collection  CollectionConfig  `yaml:"collection"`
	Destination DestinationConfig `yaml:"destination"`
	Network     NetworkConfig     `yaml:"network"`
	Monitoring  MonitoringConfig  `yaml:"monitoring"`
}

// GlobalConfig represents global application settings
type GlobalConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	MetricsPort int    `yaml:"metrics_port"`
}

// CollectionConfig governs the Collection Engine and Raw Reader.
type CollectionConfig struct {
	StagingRoot      string   `yaml:"staging_root"`
	MaxConcurrency   int      `yaml:"max_concurrency"`
	HashAlgorithm    string   `yaml:"hash_algorithm"`
	HashSizeCeiling  string   `yaml:"hash_size_ceiling"`
	FollowSymlinks   bool     `yaml:"follow_symlinks"`
	SkipPaths        []string `yaml:"skip_paths"`
	BodyfileEnabled  bool     `yaml:"bodyfile_enabled"`
	BodyfileRoots    []string `yaml:"bodyfile_roots"`
}

// DestinationConfig selects and configures the packager/uploader backend.
type DestinationConfig struct {
	Type  string               `yaml:"type"` // "local", "s3", or "sftp"
	Local LocalDestinationConf `yaml:"local"`
	S3    S3DestinationConfig  `yaml:"s3"`
	SFTP  SFTPDestinationConfig `yaml:"sftp"`
}

// LocalDestinationConf writes the finished package to a local path.
type LocalDestinationConf struct {
	Path string `yaml:"path"`
}

// S3DestinationConfig configures the S3 multipart uploader.
type S3DestinationConfig struct {
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Prefix       string `yaml:"prefix"`
	StorageClass string `yaml:"storage_class"`
	PartSizeMB   int64  `yaml:"part_size_mb"`
	Concurrency  int    `yaml:"concurrency"`
}

// SFTPDestinationConfig configures the SFTP uploader.
type SFTPDestinationConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	PrivateKeyPath string `yaml:"private_key_path"`
	KnownHostsPath string `yaml:"known_hosts_path"`
	RemotePath     string `yaml:"remote_path"`
	Concurrency    int    `yaml:"concurrency"`
}

// NetworkConfig represents network configuration shared by both uploaders.
type NetworkConfig struct {
	Timeouts       TimeoutConfig        `yaml:"timeouts"`
	Retry          RetryConfig          `yaml:"retry"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// TimeoutConfig represents timeout settings
type TimeoutConfig struct {
	Connect time.Duration `yaml:"connect"`
	Read    time.Duration `yaml:"read"`
	Write   time.Duration `yaml:"write"`
}

// RetryConfig represents retry settings, per the upload retry policy.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
	Multiplier  float64       `yaml:"multiplier"`
}

// CircuitBreakerConfig represents circuit breaker settings
type CircuitBreakerConfig struct {
	Enabled          bool          `yaml:"enabled"`
	FailureThreshold int           `yaml:"failure_threshold"`
	Timeout          time.Duration `yaml:"timeout"`
}

// MonitoringConfig represents monitoring settings
type MonitoringConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// MetricsConfig represents metrics settings
type MetricsConfig struct {
	Enabled    bool `yaml:"enabled"`
	Prometheus bool `yaml:"prometheus"`
}

// LoggingConfig represents logging settings
type LoggingConfig struct {
	Structured bool   `yaml:"structured"`
	Format     string `yaml:"format"`
}

// NewDefault returns a configuration with sensible defaults.
func NewDefault() *Configuration {
	return &Configuration{
		Global: GlobalConfig{
			LogLevel:    "INFO",
			LogFile:     "",
			MetricsPort: 8080,
		},
		Collection: CollectionConfig{
			StagingRoot:     "/var/tmp/collection",
			MaxConcurrency:  8,
			HashAlgorithm:   "sha256",
			HashSizeCeiling: "500MB",
			FollowSymlinks:  false,
			BodyfileEnabled: false,
		},
		Destination: DestinationConfig{
			Type: "local",
			Local: LocalDestinationConf{
				Path: "/var/tmp/collection-output",
			},
			S3: S3DestinationConfig{
				StorageClass: "STANDARD",
				PartSizeMB:   64,
				Concurrency:  4,
			},
			SFTP: SFTPDestinationConfig{
				Port:        22,
				Concurrency: 4,
			},
		},
		Network: NetworkConfig{
			Timeouts: TimeoutConfig{
				Connect: 10 * time.Second,
				Read:    30 * time.Second,
				Write:   300 * time.Second,
			},
			Retry: RetryConfig{
				MaxAttempts: 5,
				BaseDelay:   250 * time.Millisecond,
				MaxDelay:    30 * time.Second,
				Multiplier:  2.0,
			},
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:          true,
				FailureThreshold: 5,
				Timeout:          60 * time.Second,
			},
		},
		Monitoring: MonitoringConfig{
			Metrics: MetricsConfig{
				Enabled:    true,
				Prometheus: true,
			},
			Logging: LoggingConfig{
				Structured: true,
				Format:     "json",
			},
		},
	}
}

// Load returns the default configuration overlaid with filename's YAML
// contents and then the COLLECTOR_* environment variables, validated
// before return. It is the single entry point an outer CLI needs; the
// core itself never calls this — every other component takes an
// already-built *Configuration.
func Load(filename string) (*Configuration, error) {
	cfg := NewDefault()
	if filename != "" {
		if err := cfg.LoadFromFile(filename); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables
func (c *Configuration) LoadFromEnv() error {
	if val := os.Getenv("COLLECTOR_LOG_LEVEL"); val != "" {
		c.Global.LogLevel = val
	}
	if val := os.Getenv("COLLECTOR_LOG_FILE"); val != "" {
		c.Global.LogFile = val
	}
	if val := os.Getenv("COLLECTOR_METRICS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Global.MetricsPort = port
		}
	}

	if val := os.Getenv("COLLECTOR_STAGING_ROOT"); val != "" {
		c.Collection.StagingRoot = val
	}
	if val := os.Getenv("COLLECTOR_MAX_CONCURRENCY"); val != "" {
		if concurrency, err := strconv.Atoi(val); err == nil {
			c.Collection.MaxConcurrency = concurrency
		}
	}
	if val := os.Getenv("COLLECTOR_HASH_SIZE_CEILING"); val != "" {
		c.Collection.HashSizeCeiling = val
	}
	if val := os.Getenv("COLLECTOR_FOLLOW_SYMLINKS"); val != "" {
		c.Collection.FollowSymlinks = strings.ToLower(val) == "true"
	}

	if val := os.Getenv("COLLECTOR_DESTINATION_TYPE"); val != "" {
		c.Destination.Type = val
	}
	if val := os.Getenv("COLLECTOR_S3_BUCKET"); val != "" {
		c.Destination.S3.Bucket = val
	}
	if val := os.Getenv("COLLECTOR_SFTP_HOST"); val != "" {
		c.Destination.SFTP.Host = val
	}

	if val := os.Getenv("COLLECTOR_RETRY_MAX_ATTEMPTS"); val != "" {
		if attempts, err := strconv.Atoi(val); err == nil {
			c.Network.Retry.MaxAttempts = attempts
		}
	}

	return nil
}

// SaveToFile saves the configuration to a YAML file
func (c *Configuration) SaveToFile(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Configuration) Validate() error {
	if c.Collection.StagingRoot == "" {
		return fmt.Errorf("staging_root is required")
	}

	if c.Collection.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be greater than 0")
	}

	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	logLevelValid := false
	for _, level := range validLogLevels {
		if c.Global.LogLevel == level {
			logLevelValid = true
			break
		}
	}
	if !logLevelValid {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)",
			c.Global.LogLevel, strings.Join(validLogLevels, ", "))
	}

	switch c.Destination.Type {
	case "local":
		if c.Destination.Local.Path == "" {
			return fmt.Errorf("destination.local.path is required when destination.type is local")
		}
	case "s3":
		if c.Destination.S3.Bucket == "" {
			return fmt.Errorf("destination.s3.bucket is required when destination.type is s3")
		}
		if c.Destination.S3.PartSizeMB <= 0 {
			return fmt.Errorf("destination.s3.part_size_mb must be greater than 0")
		}
	case "sftp":
		if c.Destination.SFTP.Host == "" {
			return fmt.Errorf("destination.sftp.host is required when destination.type is sftp")
		}
	default:
		return fmt.Errorf("invalid destination.type: %s (must be one of: local, s3, sftp)", c.Destination.Type)
	}

	if c.Network.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("network.retry.max_attempts must be greater than 0")
	}

	return nil
}
