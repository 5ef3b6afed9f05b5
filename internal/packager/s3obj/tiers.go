package s3obj

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/scttfrdmn/cargoship/pkg/aws/config"
)

// S3 Storage Tier Constants
const (
	TierStandard          = "STANDARD"
	TierStandardIA        = "STANDARD_IA"
	TierOneZoneIA         = "ONEZONE_IA"
	TierReducedRedundancy = "REDUCED_REDUNDANCY"
	TierGlacierIR         = "GLACIER_IR"
	TierGlacier           = "GLACIER"
	TierDeepArchive       = "DEEP_ARCHIVE"
	TierIntelligent       = "INTELLIGENT_TIERING"
)

// StorageTierInfo contains tier-specific information and constraints
type StorageTierInfo struct {
	Name               string        `json:"name"`
	MinObjectSize      int64         `json:"min_object_size"`
	DeletionEmbargo    time.Duration `json:"deletion_embargo"`
	RetrievalLatency   string        `json:"retrieval_latency"`
	RetrievalCost      bool          `json:"retrieval_cost"`
	MinimumStorageDays int           `json:"minimum_storage_days"`
	RecommendedUseCase string        `json:"recommended_use_case"`
	CostPerGBMonth     float64       `json:"cost_per_gb_month"` // Approximate cost in USD
}

// Predefined storage tier information with AWS constraints
var StorageTiers = map[string]StorageTierInfo{
	TierStandard: {
		Name:               "Standard",
		MinObjectSize:      0,
		DeletionEmbargo:    0,
		RetrievalLatency:   "instant",
		RetrievalCost:      false,
		MinimumStorageDays: 0,
		RecommendedUseCase: "Frequently accessed data",
		CostPerGBMonth:     0.023, // Approximate USD
	},
	TierStandardIA: {
		Name:               "Standard-Infrequent Access",
		MinObjectSize:      128 * 1024,          // 128 KB minimum
		DeletionEmbargo:    30 * 24 * time.Hour, // 30 days minimum storage
		RetrievalLatency:   "instant",
		RetrievalCost:      true, // $0.01 per GB retrieval cost
		MinimumStorageDays: 30,
		RecommendedUseCase: "Infrequently accessed data that needs instant access",
		CostPerGBMonth:     0.0125,
	},
	TierOneZoneIA: {
		Name:               "One Zone-Infrequent Access",
		MinObjectSize:      128 * 1024,          // 128 KB minimum
		DeletionEmbargo:    30 * 24 * time.Hour, // 30 days minimum storage
		RetrievalLatency:   "instant",
		RetrievalCost:      true, // $0.01 per GB retrieval cost
		MinimumStorageDays: 30,
		RecommendedUseCase: "Infrequently accessed data in single AZ",
		CostPerGBMonth:     0.01,
	},
	TierReducedRedundancy: {
		Name:               "Reduced Redundancy",
		MinObjectSize:      0,
		DeletionEmbargo:    0,
		RetrievalLatency:   "instant",
		RetrievalCost:      false,
		MinimumStorageDays: 0,
		RecommendedUseCase: "Non-critical, reproducible data (deprecated)",
		CostPerGBMonth:     0.024,
	},
	TierGlacierIR: {
		Name:               "Glacier Instant Retrieval",
		MinObjectSize:      128 * 1024,          // 128 KB minimum
		DeletionEmbargo:    90 * 24 * time.Hour, // 90 days minimum storage
		RetrievalLatency:   "instant",
		RetrievalCost:      true, // $0.03 per GB retrieval cost
		MinimumStorageDays: 90,
		RecommendedUseCase: "Archive data needing instant access",
		CostPerGBMonth:     0.004,
	},
	TierGlacier: {
		Name:               "Glacier Flexible Retrieval",
		MinObjectSize:      40 * 1024,           // 40 KB minimum
		DeletionEmbargo:    90 * 24 * time.Hour, // 90 days minimum storage
		RetrievalLatency:   "minutes-hours",
		RetrievalCost:      true, // Variable retrieval costs
		MinimumStorageDays: 90,
		RecommendedUseCase: "Long-term archive with flexible retrieval",
		CostPerGBMonth:     0.0036,
	},
	TierDeepArchive: {
		Name:               "Glacier Deep Archive",
		MinObjectSize:      40 * 1024,            // 40 KB minimum
		DeletionEmbargo:    180 * 24 * time.Hour, // 180 days minimum storage
		RetrievalLatency:   "hours",
		RetrievalCost:      true, // Variable retrieval costs
		MinimumStorageDays: 180,
		RecommendedUseCase: "Long-term archive rarely accessed",
		CostPerGBMonth:     0.00099,
	},
	TierIntelligent: {
		Name:               "Intelligent Tiering",
		MinObjectSize:      128 * 1024, // 128 KB minimum for optimization
		DeletionEmbargo:    0,
		RetrievalLatency:   "variable",
		RetrievalCost:      false, // No retrieval charges
		MinimumStorageDays: 0,
		RecommendedUseCase: "Automatic cost optimization for changing access patterns",
		CostPerGBMonth:     0.023, // Plus monitoring charges
	},
}

// ConvertTierToStorageClass converts our tier constants to AWS SDK storage class types
func ConvertTierToStorageClass(tier string) types.StorageClass {
	switch tier {
	case TierStandard:
		return types.StorageClassStandard
	case TierStandardIA:
		return types.StorageClassStandardIa
	case TierOneZoneIA:
		return types.StorageClassOnezoneIa
	case TierReducedRedundancy:
		return types.StorageClassReducedRedundancy
	case TierGlacierIR:
		return types.StorageClassGlacierIr
	case TierGlacier:
		return types.StorageClassGlacier
	case TierDeepArchive:
		return types.StorageClassDeepArchive
	case TierIntelligent:
		return types.StorageClassIntelligentTiering
	default:
		return types.StorageClassStandard
	}
}

// ConvertTierToCargoShipStorageClass converts our tier constants to CargoShip storage class types
func ConvertTierToCargoShipStorageClass(tier string) config.StorageClass {
	switch tier {
	case TierStandard:
		return config.StorageClassStandard
	case TierStandardIA:
		return config.StorageClassStandardIA
	case TierOneZoneIA:
		return config.StorageClassOneZoneIA
	case TierReducedRedundancy:
		return config.StorageClassStandard // Fallback to Standard (deprecated tier)
	case TierGlacierIR:
		return config.StorageClassGlacier // Use Glacier for instant retrieval (CargoShip limitation)
	case TierGlacier:
		return config.StorageClassGlacier
	case TierDeepArchive:
		return config.StorageClassDeepArchive
	case TierIntelligent:
		return config.StorageClassIntelligentTiering
	default:
		return config.StorageClassStandard
	}
}
