package packager

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/hostforensics/collector/internal/metrics"
	"github.com/hostforensics/collector/pkg/errors"
	"github.com/hostforensics/collector/pkg/recovery"
	"github.com/hostforensics/collector/pkg/status"
)

var (
	streamMetricsOnce sync.Once
	streamMetrics     *metrics.Collector
)

// collector lazily builds the one metrics.Collector every StreamUpload
// call shares; it is never Start()ed, so no HTTP listener opens.
func collector() *metrics.Collector {
	streamMetricsOnce.Do(func() {
		streamMetrics, _ = metrics.NewCollector(&metrics.Config{Enabled: true, Namespace: "collector", Subsystem: "packager"})
	})
	return streamMetrics
}

// recordRetryOutcome records whether a recovery-managed call against
// destination needed more than one attempt to reach its final outcome.
func recordRetryOutcome(destination string, attempts int, err error) {
	if attempts <= 1 {
		return
	}
	if err != nil {
		collector().RecordRetryExhausted(destination)
		collector().RecordError("upload", err)
		return
	}
	collector().RecordRetrySuccess(destination)
}

const (
	defaultPartSize           = 8 * 1024 * 1024
	defaultConcurrency        = 4
	defaultMultipartThreshold = 100 * 1024 * 1024
)

// CompletedPart is one finished part of a multipart upload, in the shape
// the destination's Complete call needs.
type CompletedPart struct {
	PartNumber int
	ETag       string
	Size       int64
}

// Uploader is the destination-side contract StreamUpload drives. Both
// internal/packager/s3obj and internal/packager/sftpup implement it.
type Uploader interface {
	SingleShot(ctx context.Context, data []byte) (string, error)
	UploadPart(ctx context.Context, partNumber int, data []byte) (etag string, err error)
	Complete(ctx context.Context, parts []CompletedPart) (string, error)
	Abort(ctx context.Context) error
}

// StreamOptions controls the threshold and shape of the multipart upload
// path. Zero values are replaced with the packager's defaults.
type StreamOptions struct {
	PartSize           int64
	Concurrency        int
	MultipartThreshold int64
}

func (o StreamOptions) withDefaults() StreamOptions {
	if o.PartSize <= 0 {
		o.PartSize = defaultPartSize
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
	}
	if o.MultipartThreshold <= 0 {
		o.MultipartThreshold = defaultMultipartThreshold
	}
	return o
}

// projectedSize sums the apparent size of every regular file under root,
// used to decide between a single-shot and a multipart upload before the
// (compressed) archive has actually been built.
func projectedSize(root string) (int64, error) {
	var total int64
	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// StreamUpload builds the ZIP archive for stagingRoot and hands it to
// uploader, choosing a single PutObject-style call or a multipart session
// depending on the projected archive size relative to
// opts.MultipartThreshold. The archive is streamed through an in-memory
// pipe rather than ever written whole to local disk.
func StreamUpload(ctx context.Context, stagingRoot string, uploader Uploader, opts StreamOptions) (string, error) {
	opts = opts.withDefaults()

	size, err := projectedSize(stagingRoot)
	if err != nil {
		return "", errors.New(errors.ErrCodeInternal, "failed to size staging directory").
			WithComponent("packager").WithOperation("stream_upload").WithCause(err)
	}

	tracker := status.NewTracker(status.DefaultTrackerConfig())
	op, ctx := tracker.StartOperation(ctx, "upload", map[string]interface{}{"staging_root": stagingRoot, "projected_size": size})

	pr, pw := io.Pipe()
	buildErrCh := make(chan error, 1)
	go func() {
		buildErrCh <- WriteArchive(pw, stagingRoot)
		pw.Close()
	}()

	if size < opts.MultipartThreshold {
		data, readErr := io.ReadAll(pr)
		buildErr := <-buildErrCh
		if buildErr != nil {
			_ = tracker.FailOperation(op.ID, buildErr)
			return "", buildErr
		}
		if readErr != nil {
			err := errors.New(errors.ErrCodeInternal, "failed to buffer archive for single-shot upload").
				WithComponent("packager").WithOperation("stream_upload").WithCause(readErr)
			_ = tracker.FailOperation(op.ID, err)
			return "", err
		}
		_ = tracker.SetPhase(op.ID, "single_shot")
		rm := recovery.NewRecoveryManager(recovery.DefaultRecoveryConfig())
		start := time.Now()
		attempts := 0
		key, err := rm.ExecuteWithResult(ctx, "upload", "single_shot", func() (interface{}, error) {
			attempts++
			return uploader.SingleShot(ctx, data)
		})
		collector().RecordOperation("single_shot_upload", time.Since(start), int64(len(data)), err == nil)
		recordRetryOutcome("upload", attempts, err)
		if err != nil {
			_ = tracker.FailOperation(op.ID, err)
			return "", err
		}
		_ = tracker.UpdateProgress(op.ID, int64(len(data)), int64(len(data)), "bytes")
		_ = tracker.CompleteOperation(op.ID)
		return key.(string), nil
	}

	_ = tracker.SetPhase(op.ID, "multipart")
	key, err := streamMultipart(ctx, pr, uploader, opts, tracker, op.ID, size)
	if buildErr := <-buildErrCh; buildErr != nil && err == nil {
		err = buildErr
	}
	if err != nil {
		_ = tracker.FailOperation(op.ID, err)
	} else {
		_ = tracker.CompleteOperation(op.ID)
	}
	return key, err
}

// streamMultipart reads r in opts.PartSize chunks, uploading up to
// opts.Concurrency parts at a time through a bounded job channel
// (capacity 2*opts.Concurrency, matching the producer/consumer
// backpressure the collection core uses elsewhere). Parts are generated
// in strictly increasing order; the completion call lists them sorted by
// part number regardless of upload completion order.
func streamMultipart(ctx context.Context, r io.Reader, uploader Uploader, opts StreamOptions, tracker *status.Tracker, opID string, projectedTotal int64) (string, error) {
	type job struct {
		partNumber int
		data       []byte
	}

	jobCh := make(chan job, 2*opts.Concurrency)
	resultCh := make(chan CompletedPart, 2*opts.Concurrency)
	errCh := make(chan error, 1)

	reportErr := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}

	rm := recovery.NewRecoveryManager(recovery.DefaultRecoveryConfig())

	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				start := time.Now()
				attempts := 0
				etag, err := rm.ExecuteWithResult(ctx, "upload", "upload_part", func() (interface{}, error) {
					attempts++
					return uploader.UploadPart(ctx, j.partNumber, j.data)
				})
				collector().RecordOperation("upload_part", time.Since(start), int64(len(j.data)), err == nil)
				recordRetryOutcome("upload", attempts, err)
				if err != nil {
					reportErr(err)
					continue
				}
				resultCh <- CompletedPart{PartNumber: j.partNumber, ETag: etag.(string), Size: int64(len(j.data))}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	readErrCh := make(chan error, 1)
	go func() {
		defer close(jobCh)
		buf := make([]byte, opts.PartSize)
		partNumber := 1
		for {
			n, err := io.ReadFull(r, buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				select {
				case jobCh <- job{partNumber: partNumber, data: data}:
					partNumber++
				case <-ctx.Done():
					readErrCh <- ctx.Err()
					return
				}
			}
			switch err {
			case io.EOF, io.ErrUnexpectedEOF:
				readErrCh <- nil
				return
			case nil:
				continue
			default:
				readErrCh <- err
				return
			}
		}
	}()

	var parts []CompletedPart
	var uploaded int64
	for p := range resultCh {
		parts = append(parts, p)
		uploaded += p.Size
		_ = tracker.UpdateProgress(opID, uploaded, projectedTotal, "bytes")
	}

	var firstErr error
	select {
	case err := <-errCh:
		firstErr = err
	default:
	}
	if readErr := <-readErrCh; readErr != nil && firstErr == nil {
		firstErr = readErr
	}
	if firstErr != nil {
		_ = uploader.Abort(ctx)
		return "", firstErr
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })
	return uploader.Complete(ctx, parts)
}
