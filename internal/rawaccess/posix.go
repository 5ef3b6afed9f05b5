//go:build !windows

package rawaccess

import (
	"os"
	"time"
)

// sourceTimestamps carries the timestamps a platform open strategy managed
// to obtain from the source, converted to UTC.
type sourceTimestamps struct {
	Created  *time.Time
	Accessed *time.Time
	Modified *time.Time
}

// openSource opens source with ordinary file I/O, preserving stat
// timestamps.
func openSource(source string) (*os.File, sourceTimestamps, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, sourceTimestamps{}, err
	}

	ts := sourceTimestamps{}
	if info, statErr := f.Stat(); statErr == nil {
		// os.FileInfo only guarantees ModTime portably; atime/ctime are
		// exposed via platform-specific Sys() shapes that differ enough
		// across POSIX kernels (Linux/Darwin/BSD field names) that reading
		// them here would trade portability for a field the walker already
		// re-derives itself in internal/bodyfile for the cases that need it.
		mtime := info.ModTime().UTC()
		ts.Modified = &mtime
	}
	return f, ts, nil
}

// backupModeAvailable is always false on POSIX builds; backup semantics is
// a Windows-only privilege.
func backupModeAvailable() bool {
	return false
}
