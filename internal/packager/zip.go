// Package packager builds the single ZIP deliverable from a staging
// directory and hands it either to local disk or to one of the streaming
// destination backends (internal/packager/s3obj, internal/packager/sftpup).
package packager

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/hostforensics/collector/pkg/errors"
)

// storedExtensions are file extensions treated as already compressed;
// entries with these extensions are stored rather than deflated.
var storedExtensions = map[string]struct{}{
	".zip": {}, ".gz": {}, ".xz": {}, ".7z": {}, ".bz2": {}, ".zst": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
}

// DeflateLevel is the klauspost/compress flate level used for entries that
// are not already compressed. BestSpeed favors throughput over ratio,
// matching the priority of a collection run under time pressure.
const DeflateLevel = flate.BestSpeed

// newZipWriter constructs an *archive/zip.Writer that uses
// klauspost/compress's flate implementation for the Deflate method instead
// of the standard library's, which is slower on large trees.
func newZipWriter(w io.Writer) *zip.Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, DeflateLevel)
	})
	return zw
}

// methodFor returns Store for already-compressed extensions, Deflate
// otherwise.
func methodFor(name string) uint16 {
	ext := strings.ToLower(filepath.Ext(name))
	if _, stored := storedExtensions[ext]; stored {
		return zip.Store
	}
	return zip.Deflate
}

// WriteArchive walks stagingRoot and writes one ZIP entry per file to w,
// preserving the directory structure relative to stagingRoot. Empty
// directories are emitted as zero-length entries with a trailing slash;
// non-empty directories get no entry of their own.
func WriteArchive(w io.Writer, stagingRoot string) error {
	zw := newZipWriter(w)
	defer zw.Close()

	err := filepath.Walk(stagingRoot, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == stagingRoot {
			return nil
		}
		rel, err := filepath.Rel(stagingRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			entries, err := os.ReadDir(path)
			if err != nil {
				return err
			}
			if len(entries) > 0 {
				return nil
			}
			hdr := &zip.FileHeader{Name: rel + "/", Method: zip.Store}
			hdr.SetModTime(info.ModTime())
			_, err = zw.CreateHeader(hdr)
			return err
		}

		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = rel
		hdr.Method = methodFor(rel)

		entryWriter, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(entryWriter, f)
		return err
	})
	if err != nil {
		return errors.New(errors.ErrCodeInternal, "failed to build archive").
			WithComponent("packager").WithOperation("write_archive").
			WithContext("staging_root", stagingRoot).WithCause(err)
	}
	return nil
}

// PackageLocal writes stagingRoot's contents into a ZIP file named
// <hostName>_<timestamp>.zip in the parent directory of stagingRoot, and
// returns the archive's path.
func PackageLocal(stagingRoot, hostName string, timestamp time.Time) (string, error) {
	parent := filepath.Dir(stagingRoot)
	name := hostName + "_" + timestamp.UTC().Format("20060102T150405Z") + ".zip"
	archivePath := filepath.Join(parent, name)

	f, err := os.Create(archivePath)
	if err != nil {
		return "", errors.New(errors.ErrCodeInternal, "failed to create archive file").
			WithComponent("packager").WithOperation("package_local").
			WithContext("path", archivePath).WithCause(err)
	}
	defer f.Close()

	if err := WriteArchive(f, stagingRoot); err != nil {
		return "", err
	}
	return archivePath, nil
}
