package s3obj

import (
	"time"
)

// BackendMetrics tracks S3 backend performance metrics, updated directly by
// Backend.recordMetrics/recordError under Backend.mu and read back through
// Backend.GetMetrics.
type BackendMetrics struct {
	Requests        int64
	Errors          int64
	BytesUploaded   int64
	AverageLatency  time.Duration
	LastError       string
	LastErrorTime   time.Time

	MultipartUploads          int64 // Total multipart uploads initiated
	MultipartUploadsParts     int64 // Total parts uploaded
	MultipartUploadsCompleted int64 // Completed multipart uploads
	MultipartUploadsFailed    int64 // Failed multipart uploads
	MultipartBytes            int64 // Total bytes uploaded via multipart
}
