// Package hashsum computes content digests over a byte stream under a size
// ceiling, the single hashing entry point shared by the Collection Engine
// and the Bodyfile Walker.
package hashsum

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"

	"github.com/hostforensics/collector/pkg/errors"
)

// readBufSize matches the buffered-read discipline used throughout the
// module's I/O paths.
const readBufSize = 256 * 1024

// SHA256 returns the hex-encoded SHA-256 digest of path, or ok=false (not an
// error) when the file exceeds maxBytes. maxBytes <= 0 means unlimited.
func SHA256(path string, maxBytes int64) (digest string, ok bool, err error) {
	return sumFile(path, maxBytes, sha256.New())
}

// MD5 returns the hex-encoded MD5 digest of path, or ok=false when the file
// exceeds maxBytes. Used by the Bodyfile Walker's optional hash field.
func MD5(path string, maxBytes int64) (digest string, ok bool, err error) {
	return sumFile(path, maxBytes, md5.New())
}

func sumFile(path string, maxBytes int64, h hash.Hash) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, errors.New(errors.ErrCodeSourceMissing, "hash source missing").
			WithComponent("hashsum").
			WithOperation("open").
			WithContext("path", path).
			WithCause(err)
	}
	defer f.Close()

	if maxBytes > 0 {
		info, err := f.Stat()
		if err != nil {
			return "", false, errors.New(errors.ErrCodeInternal, "stat failed").
				WithComponent("hashsum").
				WithOperation("stat").
				WithContext("path", path).
				WithCause(err)
		}
		if info.Size() > maxBytes {
			return "", false, nil
		}
	}

	buf := make([]byte, readBufSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", false, errors.New(errors.ErrCodeLocked, "read failed while hashing").
			WithComponent("hashsum").
			WithOperation("read").
			WithContext("path", path).
			WithCause(err)
	}

	return hex.EncodeToString(h.Sum(nil)), true, nil
}
