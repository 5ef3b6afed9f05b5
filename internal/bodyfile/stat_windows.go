//go:build windows

package bodyfile

import (
	"os"
	"syscall"
	"time"
)

// inodeOf has no POSIX-style (device, inode) pair available through
// os.FileInfo on Windows; hard-link dedup is skipped on this build (each
// entry is still visited, just not deduped by inode).
func inodeOf(info os.FileInfo) (inodeKey, bool) {
	return inodeKey{}, false
}

// statFields reports no uid/gid/inode on Windows.
func statFields(info os.FileInfo) (inode uint64, uid, gid uint32, ok bool) {
	return 0, 0, 0, false
}

// timesOf returns the last-access and creation timestamps Windows tracks
// natively. CreationTime fills the ctime slot here since Windows has no
// POSIX inode-change-time concept; it is the closest available analogue.
func timesOf(info os.FileInfo) (atime, ctime time.Time, ok bool) {
	sys, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return time.Unix(0, sys.LastAccessTime.Nanoseconds()), time.Unix(0, sys.CreationTime.Nanoseconds()), true
}
