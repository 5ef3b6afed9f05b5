/*
Package config provides configuration management for the collection core
with multi-source support.

This package implements a hierarchical configuration system that supports
YAML files, environment variables, and runtime overrides. Precedence, from
lowest to highest:

	Default Values (compiled-in) → Configuration File (YAML) → Environment Variables (COLLECTOR_*) → Runtime Overrides

# Configuration sections

Global Settings:
  - Logging level and destination
  - Metrics port

Collection Settings:
  - Staging root, where the Collection Engine assembles acquired artifacts
    before packaging
  - Maximum worker concurrency
  - Hash algorithm and size ceiling
  - Symlink policy
  - Bodyfile timeline generation toggle and root paths

Destination Settings:
  - Destination type: local, s3, or sftp
  - Per-backend connection and transfer settings

Network Settings:
  - Timeouts
  - Retry policy (exponential backoff)
  - Circuit breaker parameters

Monitoring Settings:
  - Metrics collection
  - Logging format

# Usage

	cfg := config.NewDefault()

	if err := cfg.LoadFromFile("/etc/collector/config.yaml"); err != nil {
		log.Fatal(err)
	}

	if err := cfg.LoadFromEnv(); err != nil {
		log.Fatal(err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

Configuration file format:

	global:
	  log_level: INFO
	  metrics_port: 8080

	collection:
	  staging_root: /var/tmp/collection
	  max_concurrency: 8
	  hash_algorithm: sha256
	  hash_size_ceiling: 500MB
	  follow_symlinks: false

	destination:
	  type: s3
	  s3:
	    bucket: forensic-evidence
	    region: us-east-1
	    storage_class: STANDARD_IA
	    part_size_mb: 64

Environment variable mapping:

	COLLECTOR_LOG_LEVEL="DEBUG"
	COLLECTOR_STAGING_ROOT="/mnt/staging"
	COLLECTOR_MAX_CONCURRENCY="16"
	COLLECTOR_DESTINATION_TYPE="sftp"
	COLLECTOR_S3_BUCKET="forensic-evidence"
	COLLECTOR_SFTP_HOST="collector.example.com"
	COLLECTOR_RETRY_MAX_ATTEMPTS="5"

# Validation

Validate() checks that the staging root is set, concurrency and retry
limits are positive, the log level is recognized, and the selected
destination type carries the fields it requires (bucket for s3, host for
sftp, path for local).
*/
package config
