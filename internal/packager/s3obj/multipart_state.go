package s3obj

import (
	"time"
)

// UploadPart represents a single part of a multipart upload
type UploadPart struct {
	PartNumber   int       `json:"part_number"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag"`
	Completed    bool      `json:"completed"`
	LastModified time.Time `json:"last_modified"`
	RetryCount   int       `json:"retry_count"`     // Number of retry attempts
	Error        string    `json:"error,omitempty"` // Last error if any
}

// MultipartUploadState tracks the state of an in-progress multipart upload.
// The total part count is unknown ahead of time — the archive streams
// through an in-memory pipe as it is built, so parts arrive as they are
// produced rather than against a precomputed plan. State exists to answer
// one question reliably when Complete is called: which part numbers has
// this session actually confirmed uploaded.
type MultipartUploadState struct {
	UploadID      string
	Bucket        string
	Key           string
	Parts         map[int]*UploadPart // Key is part number
	StartedAt     time.Time
	LastUpdatedAt time.Time
	BytesUploaded int64
	Status        MultipartUploadStatus
}

// MultipartUploadStatus represents the status of a multipart upload
type MultipartUploadStatus string

const (
	UploadStatusInitiated  MultipartUploadStatus = "initiated"
	UploadStatusInProgress MultipartUploadStatus = "in_progress"
	UploadStatusCompleted  MultipartUploadStatus = "completed"
	UploadStatusFailed     MultipartUploadStatus = "failed"
	UploadStatusAborted    MultipartUploadStatus = "aborted"
)

// NewMultipartUploadState creates a new multipart upload state tracker
func NewMultipartUploadState(uploadID, bucket, key string) *MultipartUploadState {
	return &MultipartUploadState{
		UploadID:      uploadID,
		Bucket:        bucket,
		Key:           key,
		Parts:         make(map[int]*UploadPart),
		StartedAt:     time.Now(),
		LastUpdatedAt: time.Now(),
		Status:        UploadStatusInitiated,
	}
}

// MarkPartCompleted marks a part as successfully uploaded
func (s *MultipartUploadState) MarkPartCompleted(partNumber int, size int64, etag string) {
	part := &UploadPart{
		PartNumber:   partNumber,
		Size:         size,
		ETag:         etag,
		Completed:    true,
		LastModified: time.Now(),
	}
	s.Parts[partNumber] = part

	s.BytesUploaded += size
	s.LastUpdatedAt = time.Now()
	s.Status = UploadStatusInProgress
}

// MarkPartFailed marks a part as failed
func (s *MultipartUploadState) MarkPartFailed(partNumber int, err error) {
	part, exists := s.Parts[partNumber]
	if !exists {
		part = &UploadPart{PartNumber: partNumber}
		s.Parts[partNumber] = part
	}
	part.Completed = false
	part.RetryCount++
	part.LastModified = time.Now()
	part.Error = err.Error()

	s.LastUpdatedAt = time.Now()
}

// CompletedPartNumbers returns the part numbers this state has recorded as
// successfully uploaded, used by Complete to catch a part the caller
// thinks finished but that this session never confirmed.
func (s *MultipartUploadState) CompletedPartNumbers() map[int]struct{} {
	out := make(map[int]struct{}, len(s.Parts))
	for n, p := range s.Parts {
		if p.Completed {
			out[n] = struct{}{}
		}
	}
	return out
}
