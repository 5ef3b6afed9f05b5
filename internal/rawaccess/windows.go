//go:build windows

package rawaccess

import (
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// sourceTimestamps carries the timestamps a platform open strategy managed
// to obtain from the source, converted to UTC.
type sourceTimestamps struct {
	Created  *time.Time
	Accessed *time.Time
	Modified *time.Time
}

// openSource opens source with backup semantics and a sequential-scan hint,
// so files held open by another process (registry hives, event logs) can
// still be read. Timestamps come from the open handle itself.
func openSource(source string) (*os.File, sourceTimestamps, error) {
	pathPtr, err := windows.UTF16PtrFromString(source)
	if err != nil {
		return nil, sourceTimestamps{}, err
	}

	handle, err := windows.CreateFile(
		pathPtr,
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS|windows.FILE_FLAG_SEQUENTIAL_SCAN,
		0,
	)
	if err != nil {
		return nil, sourceTimestamps{}, err
	}

	var ts sourceTimestamps
	var info windows.ByHandleFileInformation
	if err := windows.GetFileInformationByHandle(handle, &info); err == nil {
		created := time.Unix(0, info.CreationTime.Nanoseconds()).UTC()
		accessed := time.Unix(0, info.LastAccessTime.Nanoseconds()).UTC()
		modified := time.Unix(0, info.LastWriteTime.Nanoseconds()).UTC()
		ts.Created = &created
		ts.Accessed = &accessed
		ts.Modified = &modified
	}

	// os.NewFile takes ownership of the handle for the returned *os.File.
	f := os.NewFile(uintptr(handle), source)
	return f, ts, nil
}

// backupModeAvailable probes whether the process holds SeBackupPrivilege.
// Failure to enable the privilege degrades to false; it never panics.
func backupModeAvailable() bool {
	var token windows.Token
	process, err := windows.GetCurrentProcess()
	if err != nil {
		return false
	}
	if err := windows.OpenProcessToken(process, windows.TOKEN_ADJUST_PRIVILEGES|windows.TOKEN_QUERY, &token); err != nil {
		return false
	}
	defer token.Close()

	var privilegeLuid windows.LUID
	namePtr, err := windows.UTF16PtrFromString("SeBackupPrivilege")
	if err != nil {
		return false
	}
	if err := windows.LookupPrivilegeValue(nil, namePtr, &privilegeLuid); err != nil {
		return false
	}

	privileges := windows.Tokenprivileges{
		PrivilegeCount: 1,
		Privileges: [1]windows.LUIDAndAttributes{{
			Luid:       privilegeLuid,
			Attributes: windows.SE_PRIVILEGE_ENABLED,
		}},
	}
	if err := windows.AdjustTokenPrivileges(token, false, &privileges, 0, nil, nil); err != nil {
		return false
	}
	return true
}
