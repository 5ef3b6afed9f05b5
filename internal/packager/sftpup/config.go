// Package sftpup implements the SFTP destination backend for the
// Packager/Uploader: a round-robin pool of concurrent SFTP sessions that
// write disjoint byte ranges of the same remote archive file in
// parallel, the SFTP analogue of an S3 multipart upload.
package sftpup

import "time"

// Config configures one SFTP destination.
type Config struct {
	Host                  string        `yaml:"host"`
	Port                  int           `yaml:"port"`
	Username              string        `yaml:"username"`
	PrivateKeyPath        string        `yaml:"private_key_path"`
	RemoteDirectory       string        `yaml:"remote_directory"`
	ConcurrentConnections int           `yaml:"concurrent_connections"`
	BufferSizeMB          int           `yaml:"buffer_size_mb"`
	ConnectionTimeoutSec  int           `yaml:"connection_timeout_sec"`
	HostKeyFingerprint    string        `yaml:"host_key_fingerprint"`
	MaxRetries            int           `yaml:"max_retries"`
}

// NewDefaultConfig returns the configuration the specification's default
// values describe.
func NewDefaultConfig() *Config {
	return &Config{
		Port:                  22,
		ConcurrentConnections: 4,
		BufferSizeMB:          8,
		ConnectionTimeoutSec:  30,
		MaxRetries:            3,
	}
}

func (c *Config) connectTimeout() time.Duration {
	if c.ConnectionTimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ConnectionTimeoutSec) * time.Second
}

func (c *Config) partSize() int64 {
	if c.BufferSizeMB <= 0 {
		return 8 * 1024 * 1024
	}
	return int64(c.BufferSizeMB) * 1024 * 1024
}

func (c *Config) sessions() int {
	if c.ConcurrentConnections <= 0 {
		return 4
	}
	return c.ConcurrentConnections
}
