// Package s3obj implements the S3-compatible destination backend for the
// Packager/Uploader: a write-only streaming uploader tuned for pushing one
// large archive per collection run, not a general-purpose object-store
// client.
//
// Uploads prefer the CargoShip transporter, which multiparts large archives
// across a concurrent connection pool for throughput well above a naive
// single-stream PUT; NewBackend falls back to the plain AWS SDK client when
// CargoShip optimization is disabled or unavailable. Destination storage
// tier (tiers.go) selects the S3/CargoShip storage class an archive lands
// in; multipart session state (multipart_state.go) tracks which part
// numbers an Upload has actually confirmed, so Complete can catch a part
// the caller thinks finished but this session never saw succeed.
package s3obj
