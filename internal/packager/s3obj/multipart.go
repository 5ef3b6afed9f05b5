package s3obj

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hostforensics/collector/internal/packager"
)

// Upload streams an archive to the destination backend, choosing a
// multipart session per packager.StreamOptions when the caller has
// decided the archive crosses the multipart threshold.
type Upload struct {
	backend *Backend
	key     string
	tier    string

	mu       sync.Mutex
	uploadID string
	state    *MultipartUploadState
}

// NewUpload starts tracking an upload of key against this backend. No
// network call happens until the caller chooses SingleShot or the first
// UploadPart.
func NewUpload(backend *Backend, key, storageTier string) *Upload {
	return &Upload{backend: backend, key: key, tier: storageTier}
}

// SingleShot uploads data as one PutObject call, satisfying
// packager.Uploader for archives below the multipart threshold.
func (u *Upload) SingleShot(ctx context.Context, data []byte) (string, error) {
	if err := u.backend.PutObject(ctx, u.key, data); err != nil {
		return "", err
	}
	return u.key, nil
}

// ensureUploadID creates the multipart session on first use. Multiple
// part-uploader goroutines call UploadPart concurrently on the same
// Upload, so session creation and state bookkeeping are serialized
// behind mu rather than relying on an unguarded uploadID == "" check.
func (u *Upload) ensureUploadID(ctx context.Context) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.uploadID != "" {
		return u.uploadID, nil
	}

	client := u.backend.pool.Get()
	defer u.backend.pool.Put(client)

	out, err := client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:       aws.String(u.backend.bucket),
		Key:          aws.String(u.key),
		ContentType:  aws.String(u.backend.detectContentType(u.key)),
		StorageClass: ConvertTierToStorageClass(u.tier),
	})
	if err != nil {
		return "", u.backend.translateError(err, "CreateMultipartUpload", u.key)
	}
	u.uploadID = aws.ToString(out.UploadId)
	u.state = NewMultipartUploadState(u.uploadID, u.backend.bucket, u.key)
	u.backend.mu.Lock()
	u.backend.metrics.MultipartUploads++
	u.backend.mu.Unlock()
	return u.uploadID, nil
}

// UploadPart uploads one part of a multipart session, creating the
// session on the backend on first use.
func (u *Upload) UploadPart(ctx context.Context, partNumber int, data []byte) (string, error) {
	if _, err := u.ensureUploadID(ctx); err != nil {
		return "", err
	}

	client := u.backend.pool.Get()
	defer u.backend.pool.Put(client)

	u.mu.Lock()
	uploadID := u.uploadID
	u.mu.Unlock()

	start := time.Now()
	out, err := client.UploadPart(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(u.backend.bucket),
		Key:        aws.String(u.key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(int32(partNumber)),
		Body:       bytes.NewReader(data),
	})
	u.mu.Lock()
	if err != nil {
		u.state.MarkPartFailed(partNumber, err)
		u.mu.Unlock()
		return "", u.backend.translateError(err, "UploadPart", u.key)
	}
	etag := aws.ToString(out.ETag)
	u.state.MarkPartCompleted(partNumber, int64(len(data)), etag)
	u.mu.Unlock()
	u.backend.recordMetrics(time.Since(start), false)
	u.backend.mu.Lock()
	u.backend.metrics.MultipartUploadsParts++
	u.backend.metrics.MultipartBytes += int64(len(data))
	u.backend.mu.Unlock()
	return etag, nil
}

// Complete finalizes the multipart session with the given parts, which
// must already be sorted by part number. Before calling S3, every part
// number is cross-checked against this session's own completion state —
// catching a caller that thinks a part finished when this Upload never
// recorded a successful UploadPart for it.
func (u *Upload) Complete(ctx context.Context, parts []packager.CompletedPart) (string, error) {
	u.mu.Lock()
	uploadID := u.uploadID
	state := u.state
	u.mu.Unlock()
	if uploadID == "" {
		return "", fmt.Errorf("no multipart session to complete for key %s", u.key)
	}

	if state != nil {
		confirmed := state.CompletedPartNumbers()
		for _, p := range parts {
			if _, ok := confirmed[p.PartNumber]; !ok {
				return "", fmt.Errorf("part %d for key %s was never confirmed uploaded by this session", p.PartNumber, u.key)
			}
		}
	}

	client := u.backend.pool.Get()
	defer u.backend.pool.Put(client)

	completed := make([]s3types.CompletedPart, len(parts))
	for i, p := range parts {
		completed[i] = s3types.CompletedPart{
			PartNumber: aws.Int32(int32(p.PartNumber)),
			ETag:       aws.String(p.ETag),
		}
	}

	_, err := client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(u.backend.bucket),
		Key:             aws.String(u.key),
		UploadId:        aws.String(uploadID),
		MultipartUpload: &s3types.CompletedMultipartUpload{Parts: completed},
	})
	if err != nil {
		if state != nil {
			u.mu.Lock()
			state.Status = UploadStatusFailed
			u.mu.Unlock()
		}
		return "", u.backend.translateError(err, "CompleteMultipartUpload", u.key)
	}

	if state != nil {
		u.mu.Lock()
		state.Status = UploadStatusCompleted
		u.mu.Unlock()
	}
	u.backend.mu.Lock()
	u.backend.metrics.MultipartUploadsCompleted++
	u.backend.mu.Unlock()
	return u.key, nil
}

// Abort cancels an in-progress multipart session, releasing server-side
// storage reserved for already-uploaded parts.
func (u *Upload) Abort(ctx context.Context) error {
	u.mu.Lock()
	uploadID := u.uploadID
	state := u.state
	u.mu.Unlock()
	if uploadID == "" {
		return nil
	}

	if state != nil {
		u.mu.Lock()
		confirmed := len(state.CompletedPartNumbers())
		state.Status = UploadStatusAborted
		u.mu.Unlock()
		u.backend.logger.Warn("aborting multipart upload", "key", u.key, "upload_id", uploadID, "parts_confirmed", confirmed)
	}

	client := u.backend.pool.Get()
	defer u.backend.pool.Put(client)

	_, err := client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(u.backend.bucket),
		Key:      aws.String(u.key),
		UploadId: aws.String(uploadID),
	})
	u.backend.mu.Lock()
	u.backend.metrics.MultipartUploadsFailed++
	u.backend.mu.Unlock()
	if err != nil {
		return u.backend.translateError(err, "AbortMultipartUpload", u.key)
	}
	return nil
}
