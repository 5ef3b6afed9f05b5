package sftpup

import (
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Port != 22 {
		t.Errorf("Port = %d, want 22", cfg.Port)
	}
	if cfg.ConcurrentConnections != 4 {
		t.Errorf("ConcurrentConnections = %d, want 4", cfg.ConcurrentConnections)
	}
	if cfg.BufferSizeMB != 8 {
		t.Errorf("BufferSizeMB = %d, want 8", cfg.BufferSizeMB)
	}
	if cfg.ConnectionTimeoutSec != 30 {
		t.Errorf("ConnectionTimeoutSec = %d, want 30", cfg.ConnectionTimeoutSec)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
}

func TestConfig_ZeroValueDefaults(t *testing.T) {
	cfg := &Config{}

	if got, want := cfg.connectTimeout(), 30*time.Second; got != want {
		t.Errorf("connectTimeout() = %v, want %v", got, want)
	}
	if got, want := cfg.partSize(), int64(8*1024*1024); got != want {
		t.Errorf("partSize() = %d, want %d", got, want)
	}
	if got, want := cfg.sessions(), 4; got != want {
		t.Errorf("sessions() = %d, want %d", got, want)
	}
}

func TestConfig_ExplicitValuesOverrideDefaults(t *testing.T) {
	cfg := &Config{
		ConnectionTimeoutSec:  5,
		BufferSizeMB:          16,
		ConcurrentConnections: 2,
	}

	if got, want := cfg.connectTimeout(), 5*time.Second; got != want {
		t.Errorf("connectTimeout() = %v, want %v", got, want)
	}
	if got, want := cfg.partSize(), int64(16*1024*1024); got != want {
		t.Errorf("partSize() = %d, want %d", got, want)
	}
	if got, want := cfg.sessions(), 2; got != want {
		t.Errorf("sessions() = %d, want %d", got, want)
	}
}
