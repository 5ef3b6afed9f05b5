package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const (
	TestDebugLevel = "DEBUG"
	TestBucket     = "forensic-evidence-bucket"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	if cfg.Global.LogLevel != "INFO" {
		t.Errorf("Expected LogLevel to be INFO, got %s", cfg.Global.LogLevel)
	}
	if cfg.Global.MetricsPort != 8080 {
		t.Errorf("Expected MetricsPort to be 8080, got %d", cfg.Global.MetricsPort)
	}

	if cfg.Collection.MaxConcurrency != 8 {
		t.Errorf("Expected MaxConcurrency to be 8, got %d", cfg.Collection.MaxConcurrency)
	}
	if cfg.Collection.FollowSymlinks {
		t.Error("Expected FollowSymlinks to be disabled by default")
	}

	if cfg.Destination.Type != "local" {
		t.Errorf("Expected destination type to be local, got %s", cfg.Destination.Type)
	}

	if cfg.Network.Retry.MaxAttempts != 5 {
		t.Errorf("Expected MaxAttempts to be 5, got %d", cfg.Network.Retry.MaxAttempts)
	}
	if cfg.Network.Retry.BaseDelay != 250*time.Millisecond {
		t.Errorf("Expected BaseDelay to be 250ms, got %v", cfg.Network.Retry.BaseDelay)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  func() *Configuration
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			config: func() *Configuration {
				return NewDefault()
			},
			wantErr: false,
		},
		{
			name: "invalid max concurrency",
			config: func() *Configuration {
				cfg := NewDefault()
				cfg.Collection.MaxConcurrency = 0
				return cfg
			},
			wantErr: true,
			errMsg:  "max_concurrency must be greater than 0",
		},
		{
			name: "missing staging root",
			config: func() *Configuration {
				cfg := NewDefault()
				cfg.Collection.StagingRoot = ""
				return cfg
			},
			wantErr: true,
			errMsg:  "staging_root is required",
		},
		{
			name: "invalid log level",
			config: func() *Configuration {
				cfg := NewDefault()
				cfg.Global.LogLevel = "INVALID"
				return cfg
			},
			wantErr: true,
			errMsg:  "invalid log_level",
		},
		{
			name: "s3 destination without bucket",
			config: func() *Configuration {
				cfg := NewDefault()
				cfg.Destination.Type = "s3"
				return cfg
			},
			wantErr: true,
			errMsg:  "destination.s3.bucket is required",
		},
		{
			name: "sftp destination without host",
			config: func() *Configuration {
				cfg := NewDefault()
				cfg.Destination.Type = "sftp"
				return cfg
			},
			wantErr: true,
			errMsg:  "destination.sftp.host is required",
		},
		{
			name: "unknown destination type",
			config: func() *Configuration {
				cfg := NewDefault()
				cfg.Destination.Type = "ftp"
				return cfg
			},
			wantErr: true,
			errMsg:  "invalid destination.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config()
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.errMsg != "" && !contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, want error containing %v", err, tt.errMsg)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
global:
  log_level: DEBUG
  metrics_port: 9090

collection:
  staging_root: /tmp/staging
  max_concurrency: 16
  follow_symlinks: true

destination:
  type: s3
  s3:
    bucket: forensic-evidence-bucket
    region: us-east-1
    storage_class: STANDARD_IA
    part_size_mb: 128
`

	err := os.WriteFile(configFile, []byte(configContent), 0600)
	if err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg := NewDefault()
	err = cfg.LoadFromFile(configFile)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Global.LogLevel != TestDebugLevel {
		t.Errorf("Expected LogLevel to be DEBUG, got %s", cfg.Global.LogLevel)
	}
	if cfg.Global.MetricsPort != 9090 {
		t.Errorf("Expected MetricsPort to be 9090, got %d", cfg.Global.MetricsPort)
	}
	if cfg.Collection.MaxConcurrency != 16 {
		t.Errorf("Expected MaxConcurrency to be 16, got %d", cfg.Collection.MaxConcurrency)
	}
	if !cfg.Collection.FollowSymlinks {
		t.Error("Expected FollowSymlinks to be true")
	}
	if cfg.Destination.Type != "s3" {
		t.Errorf("Expected destination type to be s3, got %s", cfg.Destination.Type)
	}
	if cfg.Destination.S3.Bucket != TestBucket {
		t.Errorf("Expected bucket to be %s, got %s", TestBucket, cfg.Destination.S3.Bucket)
	}
	if cfg.Destination.S3.PartSizeMB != 128 {
		t.Errorf("Expected PartSizeMB to be 128, got %d", cfg.Destination.S3.PartSizeMB)
	}
}

func TestLoadFromFileNonExistent(t *testing.T) {
	cfg := NewDefault()
	err := cfg.LoadFromFile("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error when loading non-existent config file")
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Destination.Type != "local" {
		t.Errorf("Expected default destination type local, got %s", cfg.Destination.Type)
	}
}

func TestLoad_FileOverlaysDefaultsAndValidates(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configFile, []byte(`
destination:
  type: s3
  s3:
    bucket: forensic-evidence-bucket
    part_size_mb: 64
`), 0600)
	if err != nil {
		t.Fatalf("write test config: %v", err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Destination.S3.Bucket != TestBucket {
		t.Errorf("Expected bucket %s, got %s", TestBucket, cfg.Destination.S3.Bucket)
	}
	if cfg.Collection.MaxConcurrency != 8 {
		t.Errorf("Expected default MaxConcurrency 8 to survive overlay, got %d", cfg.Collection.MaxConcurrency)
	}
}

func TestLoad_InvalidDestinationFailsValidation(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configFile, []byte(`
destination:
  type: s3
`), 0600)
	if err != nil {
		t.Fatalf("write test config: %v", err)
	}

	if _, err := Load(configFile); err == nil {
		t.Error("Expected Load to fail validation when s3 bucket is missing")
	}
}

func TestLoadFromEnv(t *testing.T) {
	testEnvVars := map[string]string{
		"COLLECTOR_LOG_LEVEL":          "ERROR",
		"COLLECTOR_METRICS_PORT":       "9090",
		"COLLECTOR_STAGING_ROOT":       "/mnt/staging",
		"COLLECTOR_MAX_CONCURRENCY":    "32",
		"COLLECTOR_FOLLOW_SYMLINKS":    "true",
		"COLLECTOR_DESTINATION_TYPE":   "s3",
		"COLLECTOR_S3_BUCKET":          TestBucket,
		"COLLECTOR_RETRY_MAX_ATTEMPTS": "7",
	}

	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	cfg := NewDefault()
	err := cfg.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Global.LogLevel != "ERROR" {
		t.Errorf("Expected LogLevel to be ERROR, got %s", cfg.Global.LogLevel)
	}
	if cfg.Global.MetricsPort != 9090 {
		t.Errorf("Expected MetricsPort to be 9090, got %d", cfg.Global.MetricsPort)
	}
	if cfg.Collection.StagingRoot != "/mnt/staging" {
		t.Errorf("Expected StagingRoot to be /mnt/staging, got %s", cfg.Collection.StagingRoot)
	}
	if cfg.Collection.MaxConcurrency != 32 {
		t.Errorf("Expected MaxConcurrency to be 32, got %d", cfg.Collection.MaxConcurrency)
	}
	if !cfg.Collection.FollowSymlinks {
		t.Error("Expected FollowSymlinks to be true")
	}
	if cfg.Destination.Type != "s3" {
		t.Errorf("Expected destination type to be s3, got %s", cfg.Destination.Type)
	}
	if cfg.Destination.S3.Bucket != TestBucket {
		t.Errorf("Expected bucket to be %s, got %s", TestBucket, cfg.Destination.S3.Bucket)
	}
	if cfg.Network.Retry.MaxAttempts != 7 {
		t.Errorf("Expected MaxAttempts to be 7, got %d", cfg.Network.Retry.MaxAttempts)
	}
}

func TestSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "saved_config.yaml")

	cfg := NewDefault()
	cfg.Global.LogLevel = TestDebugLevel
	cfg.Destination.S3.Bucket = TestBucket

	err := cfg.SaveToFile(configFile)
	if err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	newCfg := NewDefault()
	err = newCfg.LoadFromFile(configFile)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if newCfg.Global.LogLevel != TestDebugLevel {
		t.Errorf("Expected LogLevel to be DEBUG, got %s", newCfg.Global.LogLevel)
	}
	if newCfg.Destination.S3.Bucket != TestBucket {
		t.Errorf("Expected bucket to be %s, got %s", TestBucket, newCfg.Destination.S3.Bucket)
	}
}

func TestSaveToFileCreateDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := NewDefault()
	err := cfg.SaveToFile(configFile)
	if err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	if _, err := os.Stat(filepath.Dir(configFile)); os.IsNotExist(err) {
		t.Error("Config directory was not created")
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
