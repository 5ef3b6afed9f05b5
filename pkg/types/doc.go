/*
Package types defines the data model shared by every collection component.

# Architecture overview

The data flow is a straight pipeline, not a layered service:

	┌────────────────┐     ┌────────────────┐     ┌──────────────────┐
	│  Artifact list  │ ──▶ │ Collection      │ ──▶ │ CollectionReport  │
	│ (external       │     │ Engine          │     │ + staging root    │
	│  config loader)  │     │ (internal/engine)│    └──────────────────┘
	└────────────────┘     └────────────────┘              │
	                                                         ▼
	                                                ┌──────────────────┐
	                                                │ Packager/Uploader │
	                                                │ (internal/packager)│
	                                                └──────────────────┘

Artifact is the only input type; ArtifactMetadata, ReportEntry and
CollectionReport are the output types every downstream component consumes.
BodyfileRecord is the single-purpose record type for the filesystem timeline
generator, which runs independently of artifact acquisition.
*/
package types
