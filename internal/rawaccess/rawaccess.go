// Package rawaccess implements the Raw Reader: it copies a source path
// (file or directory) into a destination path, preserving timestamps, with
// a best-effort policy on locked or restricted files. The platform-specific
// open strategy lives behind a small capability interface selected at build
// time (posix.go / windows.go), fixed for any given binary.
package rawaccess

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/hostforensics/collector/internal/buffer"
	"github.com/hostforensics/collector/pkg/errors"
	"github.com/hostforensics/collector/pkg/types"
	"github.com/hostforensics/collector/pkg/utils"
)

// sequentialThreshold is the directory-entry count at or below which
// regular-file copies run on the calling goroutine.
const sequentialThreshold = 8

// maxWorkers bounds the parallel copy pool.
const maxWorkers = 16

// Reader copies artifacts from the host filesystem into a staging area.
type Reader struct {
	logger *utils.StructuredLogger
	pool   *buffer.CategoryPool
}

// New constructs a Reader. logger may be nil, in which case a default
// structured logger is used.
func New(logger *utils.StructuredLogger) *Reader {
	if logger == nil {
		logger, _ = utils.NewStructuredLogger(utils.DefaultStructuredLoggerConfig())
	}
	return &Reader{logger: logger.WithComponent("rawaccess"), pool: buffer.NewCategoryPool()}
}

// IsDirectory reports whether source is a directory.
func (r *Reader) IsDirectory(source string) (bool, error) {
	info, err := os.Lstat(source)
	if err != nil {
		return false, errors.New(errors.ErrCodeSourceMissing, "source does not exist").
			WithComponent("rawaccess").
			WithOperation("is_directory").
			WithContext("path", source).
			WithCause(err)
	}
	return info.IsDir(), nil
}

// BackupModeAvailable reports whether the Windows backup-semantics reader
// is usable in this process. Always false on non-Windows builds.
func BackupModeAvailable() bool {
	return backupModeAvailable()
}

// Collect copies source into destination, recursing when source is a
// directory, and returns the acquired object's metadata.
func (r *Reader) Collect(ctx context.Context, source, destination string) (types.ArtifactMetadata, error) {
	isDir, err := r.IsDirectory(source)
	if err != nil {
		return types.ArtifactMetadata{}, err
	}
	if isDir {
		return r.collectDir(ctx, source, destination)
	}
	return r.collectFile(source, destination)
}

// collectFile copies one regular file, preserving timestamps where the
// platform strategy can obtain them.
func (r *Reader) collectFile(source, destination string) (types.ArtifactMetadata, error) {
	if err := os.MkdirAll(filepath.Dir(destination), 0o750); err != nil {
		return types.ArtifactMetadata{}, errors.New(errors.ErrCodeInternal, "failed to create destination directory").
			WithComponent("rawaccess").
			WithOperation("collect_file").
			WithContext("path", destination).
			WithCause(err)
	}

	meta := types.ArtifactMetadata{OriginalPath: source}

	src, ts, err := openSource(source)
	if err != nil {
		if os.IsNotExist(err) {
			return meta, errors.New(errors.ErrCodeSourceMissing, "source does not exist").
				WithComponent("rawaccess").WithOperation("open").WithContext("path", source).WithCause(err)
		}
		if os.IsPermission(err) {
			return meta, errors.New(errors.ErrCodeUnauthorized, "permission denied opening source").
				WithComponent("rawaccess").WithOperation("open").WithContext("path", source).WithCause(err)
		}
		meta.IsLocked = true
		return meta, errors.New(errors.ErrCodeLocked, "failed to open source").
			WithComponent("rawaccess").WithOperation("open").WithContext("path", source).WithCause(err)
	}
	defer src.Close()

	meta.CreatedTime = ts.Created
	meta.AccessedTime = ts.Accessed
	meta.ModifiedTime = ts.Modified
	meta.CollectionTime = time.Now().UTC()

	dst, err := os.Create(destination)
	if err != nil {
		return meta, errors.New(errors.ErrCodeInternal, "failed to create destination file").
			WithComponent("rawaccess").WithOperation("collect_file").WithContext("path", destination).WithCause(err)
	}
	defer dst.Close()

	cat := buffer.CategoryFor(filepath.Ext(source))
	buf := r.pool.Get(cat)
	defer r.pool.Put(cat, buf)

	written, copyErr := io.CopyBuffer(dst, src, buf)
	meta.FileSize = written
	if copyErr != nil {
		// Read error mid-file: close at the point reached, mark is_locked,
		// still emit the bytes actually copied.
		meta.IsLocked = true
		r.logger.Warn("partial read copying artifact", map[string]interface{}{
			"source": source, "error": copyErr.Error(),
		})
	}
	return meta, nil
}

// collectDir walks a directory recursively, copying each regular file it
// finds beneath destination and folding per-file failures into the
// returned metadata instead of aborting the whole walk.
func (r *Reader) collectDir(ctx context.Context, source, destination string) (types.ArtifactMetadata, error) {
	meta := types.ArtifactMetadata{OriginalPath: source, CollectionTime: time.Now().UTC()}

	if err := os.MkdirAll(destination, 0o750); err != nil {
		meta.IsLocked = true
		return meta, errors.New(errors.ErrCodeInternal, "failed to create destination directory").
			WithComponent("rawaccess").WithOperation("collect_dir").WithContext("path", destination).WithCause(err)
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		// Open failure on a directory aborts recursion for that directory
		// only and sets is_locked; it is not propagated as fatal.
		meta.IsLocked = true
		r.logger.Warn("failed to enumerate directory", map[string]interface{}{
			"source": source, "error": err.Error(),
		})
		return meta, nil
	}

	var subdirs, regular []os.DirEntry
	for _, e := range entries {
		if e.Name() == "." || e.Name() == ".." {
			continue
		}
		if e.IsDir() {
			subdirs = append(subdirs, e)
		} else {
			regular = append(regular, e)
		}
	}

	// Recurse sequentially on subdirectories to materialize the output tree.
	for _, d := range subdirs {
		childMeta, _ := r.collectDir(ctx, filepath.Join(source, d.Name()), filepath.Join(destination, d.Name()))
		meta.FileSize += childMeta.FileSize
		meta.IsLocked = meta.IsLocked || childMeta.IsLocked
	}

	childMetas := r.copyRegularEntries(ctx, source, destination, regular)
	for _, cm := range childMetas {
		meta.FileSize += cm.FileSize
		meta.IsLocked = meta.IsLocked || cm.IsLocked
	}

	return meta, nil
}

// copyRegularEntries copies the non-directory children of a directory,
// sequentially when count <= sequentialThreshold, otherwise across a
// worker pool sized min(entries, min(2*GOMAXPROCS, maxWorkers)).
func (r *Reader) copyRegularEntries(ctx context.Context, source, destination string, entries []os.DirEntry) []types.ArtifactMetadata {
	results := make([]types.ArtifactMetadata, len(entries))

	copyOne := func(i int) {
		select {
		case <-ctx.Done():
			return
		default:
		}
		name := entries[i].Name()
		m, err := r.collectFile(filepath.Join(source, name), filepath.Join(destination, name))
		if err != nil {
			r.logger.Warn("failed to collect entry", map[string]interface{}{
				"source": filepath.Join(source, name), "error": err.Error(),
			})
		}
		results[i] = m
	}

	if len(entries) <= sequentialThreshold {
		for i := range entries {
			copyOne(i)
		}
		return results
	}

	workers := len(entries)
	if max := 2 * runtime.GOMAXPROCS(0); workers > max {
		workers = max
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers < 1 {
		workers = 1
	}

	chunk := int(math.Ceil(float64(len(entries)) / float64(workers)))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(entries) {
			break
		}
		end := start + chunk
		if end > len(entries) {
			end = len(entries)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				copyOne(i)
			}
		}(start, end)
	}
	wg.Wait()
	return results
}
