//go:build !windows

package bodyfile

import (
	"os"
	"syscall"
)

// inodeOf extracts the (device, inode) pair used to dedup visited
// filesystem objects within one walk.
func inodeOf(info os.FileInfo) (inodeKey, bool) {
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return inodeKey{}, false
	}
	return inodeKey{dev: uint64(sys.Dev), ino: sys.Ino}, true
}

// statFields returns the inode, uid, and gid a POSIX stat call provides.
func statFields(info os.FileInfo) (inode uint64, uid, gid uint32, ok bool) {
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, 0, false
	}
	return sys.Ino, sys.Uid, sys.Gid, true
}
