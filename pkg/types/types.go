// Package types defines the data model shared by every component of the
// collection core: artifacts going in, acquired metadata and reports coming
// out.
package types

import "time"

// ArtifactKind enumerates the broad category of an artifact. The core never
// interprets kind-specific semantics (it does not parse event logs or
// registry hives); kind only steers path resolution and logging.
type ArtifactKind string

const (
	KindFileSystem        ArtifactKind = "filesystem"
	KindLogs              ArtifactKind = "logs"
	KindMemory            ArtifactKind = "memory"
	KindVolatileData      ArtifactKind = "volatile_data"
	KindWindowsSpecific   ArtifactKind = "windows"
	KindLinuxSpecific     ArtifactKind = "linux"
	KindMacOSSpecific     ArtifactKind = "macos"
	KindPlatformSpecific  ArtifactKind = "platform_specific"
)

// Artifact is a declarative unit of forensic interest. Artifacts are produced
// by an external configuration loader and never mutated after construction.
type Artifact struct {
	Name            string            `json:"name" yaml:"name"`
	Kind            ArtifactKind      `json:"kind" yaml:"kind"`
	Subkind         string            `json:"subkind,omitempty" yaml:"subkind,omitempty"`
	SourcePath      string            `json:"source_path" yaml:"source_path"`
	DestinationName string            `json:"destination_name" yaml:"destination_name"`
	Description     string            `json:"description,omitempty" yaml:"description,omitempty"`
	Required        bool              `json:"required" yaml:"required"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Regex           string            `json:"regex,omitempty" yaml:"regex,omitempty"`
}

// NormalizedKind treats any subkind the core does not recognize as plain
// FileSystem.
func (a Artifact) NormalizedKind() ArtifactKind {
	switch a.Kind {
	case KindFileSystem, KindLogs, KindMemory, KindVolatileData,
		KindWindowsSpecific, KindLinuxSpecific, KindMacOSSpecific:
		return a.Kind
	default:
		return KindFileSystem
	}
}

// ArtifactMetadata describes one acquired filesystem object.
type ArtifactMetadata struct {
	OriginalPath    string     `json:"original_path"`
	CollectionTime  time.Time  `json:"collection_time"`
	FileSize        int64      `json:"file_size"`
	CreatedTime     *time.Time `json:"created_time,omitempty"`
	AccessedTime    *time.Time `json:"accessed_time,omitempty"`
	ModifiedTime    *time.Time `json:"modified_time,omitempty"`
	IsLocked        bool       `json:"is_locked"`
}

// ReportEntry pairs an acquired object's staging-relative path with its
// metadata, the unit the CollectionReport accumulates.
type ReportEntry struct {
	RelativeOutputPath string           `json:"path"`
	Metadata           ArtifactMetadata `json:"-"`
}

// CollectionReport is the ordered outcome of a collection run.
type CollectionReport struct {
	Entries             []ReportEntry
	PermissionFailures  []string
}

// SummaryEntry is the JSON shape of one CollectionReport entry within
// collection-summary.json.
type SummaryEntry struct {
	Path           string     `json:"path"`
	OriginalPath   string     `json:"original_path"`
	CollectionTime time.Time  `json:"collection_time"`
	FileSize       int64      `json:"file_size"`
	CreatedTime    *time.Time `json:"created_time,omitempty"`
	AccessedTime   *time.Time `json:"accessed_time,omitempty"`
	ModifiedTime   *time.Time `json:"modified_time,omitempty"`
	IsLocked       bool       `json:"is_locked"`
}

// CollectionSummary is the serialized form written to
// <staging_root>/collection-summary.json.
type CollectionSummary struct {
	Entries            []SummaryEntry `json:"entries"`
	PermissionFailures []string       `json:"permission_failures"`
}

// ToSummary converts a CollectionReport into its serializable form.
func (r *CollectionReport) ToSummary() CollectionSummary {
	entries := make([]SummaryEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, SummaryEntry{
			Path:           e.RelativeOutputPath,
			OriginalPath:   e.Metadata.OriginalPath,
			CollectionTime: e.Metadata.CollectionTime,
			FileSize:       e.Metadata.FileSize,
			CreatedTime:    e.Metadata.CreatedTime,
			AccessedTime:   e.Metadata.AccessedTime,
			ModifiedTime:   e.Metadata.ModifiedTime,
			IsLocked:       e.Metadata.IsLocked,
		})
	}
	failures := r.PermissionFailures
	if failures == nil {
		failures = []string{}
	}
	return CollectionSummary{Entries: entries, PermissionFailures: failures}
}

// BodyfileRecord is one canonical line of a filesystem timeline.
type BodyfileRecord struct {
	MD5     string
	Name    string
	Inode   uint64
	Mode    string
	UID     uint32
	GID     uint32
	Size    int64
	ATime   string
	MTime   string
	CTime   string
	CRTime  string
}
