package packager

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeUploader records every call StreamUpload makes against it, guarding
// its state behind a mutex since streamMultipart drives UploadPart from
// several goroutines concurrently.
type fakeUploader struct {
	mu sync.Mutex

	singleShot []byte
	parts      map[int][]byte
	completed  []CompletedPart
	aborted    bool
	failPart   int
	partCalls  int
}

func (f *fakeUploader) SingleShot(ctx context.Context, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.singleShot = append([]byte(nil), data...)
	return "local-key", nil
}

func (f *fakeUploader) UploadPart(ctx context.Context, partNumber int, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.partCalls++
	if f.failPart != 0 && partNumber == f.failPart {
		return "", fmt.Errorf("injected failure on part %d", partNumber)
	}
	if f.parts == nil {
		f.parts = make(map[int][]byte)
	}
	cp := append([]byte(nil), data...)
	f.parts[partNumber] = cp
	return fmt.Sprintf("etag-%d", partNumber), nil
}

func (f *fakeUploader) Complete(ctx context.Context, parts []CompletedPart) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = parts
	return "remote-key", nil
}

func (f *fakeUploader) Abort(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aborted = true
	return nil
}

func TestStreamUpload_SmallArchiveUsesSingleShot(t *testing.T) {
	staging := writeTestTree(t)
	uploader := &fakeUploader{}

	key, err := StreamUpload(context.Background(), staging, uploader, StreamOptions{MultipartThreshold: 1 << 30})
	if err != nil {
		t.Fatalf("StreamUpload: %v", err)
	}
	if key != "local-key" {
		t.Errorf("key = %q, want local-key", key)
	}
	if len(uploader.singleShot) == 0 {
		t.Error("expected SingleShot to receive archive bytes")
	}
	if uploader.partCalls != 0 {
		t.Errorf("expected no multipart calls, got %d", uploader.partCalls)
	}
}

func TestStreamUpload_LargeArchiveUsesMultipart(t *testing.T) {
	staging := writeTestTree(t)
	uploader := &fakeUploader{}

	key, err := StreamUpload(context.Background(), staging, uploader, StreamOptions{
		MultipartThreshold: 1,
		PartSize:           8,
		Concurrency:        3,
	})
	if err != nil {
		t.Fatalf("StreamUpload: %v", err)
	}
	if key != "remote-key" {
		t.Errorf("key = %q, want remote-key", key)
	}
	if uploader.partCalls == 0 {
		t.Error("expected at least one UploadPart call")
	}
	if len(uploader.completed) != uploader.partCalls {
		t.Errorf("completed %d parts, uploaded %d", len(uploader.completed), uploader.partCalls)
	}

	for i, p := range uploader.completed {
		if p.PartNumber != i+1 {
			t.Fatalf("completed parts not in order: index %d has part number %d", i, p.PartNumber)
		}
	}
	if uploader.aborted {
		t.Error("upload should not have been aborted on success")
	}
}

func TestStreamUpload_PartCountMatchesArchiveSize(t *testing.T) {
	root := t.TempDir()
	staging := filepath.Join(root, "staging")
	if err := os.MkdirAll(staging, 0o755); err != nil {
		t.Fatalf("mkdir staging: %v", err)
	}

	const payloadSize = 120 * 1024 * 1024
	const partSize = 8 * 1024 * 1024

	payload := make([]byte, payloadSize)
	if _, err := rand.Read(payload); err != nil {
		t.Fatalf("generate payload: %v", err)
	}
	// .zst forces Store so the archive stream carries the payload
	// byte-for-byte, making the part count predictable.
	if err := os.WriteFile(filepath.Join(staging, "payload.zst"), payload, 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}

	var archive bytes.Buffer
	if err := WriteArchive(&archive, staging); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}
	wantParts := (archive.Len() + partSize - 1) / partSize

	uploader := &fakeUploader{}
	_, err := StreamUpload(context.Background(), staging, uploader, StreamOptions{
		MultipartThreshold: 1,
		PartSize:           partSize,
		Concurrency:        4,
	})
	if err != nil {
		t.Fatalf("StreamUpload: %v", err)
	}
	if uploader.partCalls != wantParts {
		t.Errorf("partCalls = %d, want %d", uploader.partCalls, wantParts)
	}

	var total int
	for _, p := range uploader.parts {
		total += len(p)
	}
	if total != archive.Len() {
		t.Errorf("uploaded %d bytes, archive is %d bytes", total, archive.Len())
	}
}

func TestStreamUpload_MultipartFailureAborts(t *testing.T) {
	staging := writeTestTree(t)
	uploader := &fakeUploader{failPart: 2}

	_, err := StreamUpload(context.Background(), staging, uploader, StreamOptions{
		MultipartThreshold: 1,
		PartSize:           8,
		Concurrency:        2,
	})
	if err == nil {
		t.Fatal("expected StreamUpload to fail when a part upload fails")
	}

	uploader.mu.Lock()
	aborted := uploader.aborted
	uploader.mu.Unlock()
	if !aborted {
		t.Error("expected Abort to be called after a part failure")
	}
}

func TestStreamOptions_WithDefaults(t *testing.T) {
	got := StreamOptions{}.withDefaults()
	if got.PartSize != defaultPartSize {
		t.Errorf("PartSize = %d, want %d", got.PartSize, defaultPartSize)
	}
	if got.Concurrency != defaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", got.Concurrency, defaultConcurrency)
	}
	if got.MultipartThreshold != defaultMultipartThreshold {
		t.Errorf("MultipartThreshold = %d, want %d", got.MultipartThreshold, defaultMultipartThreshold)
	}
}
