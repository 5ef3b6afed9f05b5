package s3obj

import (
	"time"
)

// Config represents the S3-compatible destination backend configuration.
type Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	ForcePathStyle  bool   `yaml:"force_path_style"`

	// Performance settings
	MaxRetries     int           `yaml:"max_retries"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	PoolSize       int           `yaml:"pool_size"`

	// Advanced settings
	UseAccelerate bool `yaml:"use_accelerate"`
	UseDualStack  bool `yaml:"use_dual_stack"`
	DisableSSL    bool `yaml:"disable_ssl"`

	// CargoShip optimization settings
	EnableCargoShipOptimization bool    `yaml:"enable_cargoship_optimization"`
	TargetThroughput            float64 `yaml:"target_throughput"`  // MB/s
	OptimizationLevel           string  `yaml:"optimization_level"` // "standard", "aggressive"

	// S3 Storage Tier Configuration
	StorageTier     string          `yaml:"storage_tier"`     // "STANDARD", "STANDARD_IA", "ONEZONE_IA", etc.
	TierConstraints TierConstraints `yaml:"tier_constraints"` // Tier-specific constraints
}

// TierConstraints defines tier-specific constraints and limitations on the
// destination storage tier the packaged archive is uploaded to.
type TierConstraints struct {
	MinObjectSize      int64         `yaml:"min_object_size"`      // Minimum object size in bytes
	DeletionEmbargo    time.Duration `yaml:"deletion_embargo"`     // Minimum storage duration before deletion
	RetrievalLatency   string        `yaml:"retrieval_latency"`    // Expected retrieval latency ("instant", "minutes", "hours")
	RetrievalCost      bool          `yaml:"retrieval_cost"`       // Whether retrieval incurs additional charges
	MinimumStorageDays int           `yaml:"minimum_storage_days"` // Minimum billable storage period
	TransitionDelay    time.Duration `yaml:"transition_delay"`     // Delay before transitioning to this tier
}

// NewDefaultConfig returns a configuration with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:                  3,
		ConnectTimeout:              10 * time.Second,
		RequestTimeout:              30 * time.Second,
		PoolSize:                    8,
		EnableCargoShipOptimization: true,
		TargetThroughput:            800.0, // 800 MB/s destination throughput target
		OptimizationLevel:           "standard",
		StorageTier:                 TierStandard,      // Default to Standard tier
		TierConstraints:             TierConstraints{}, // Use tier defaults
	}
}
