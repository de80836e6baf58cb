//go:build windows

package publish

import (
	"errors"
	"io/fs"

	"golang.org/x/sys/windows"
)

// Probe reports whether path is currently held exclusively by another
// process. It opens the file read-write with a zero share mode, so any
// other open handle makes the call fail with a sharing violation, and
// closes the handle immediately. Advisory only: the answer can be stale
// by the time the caller acts on it. A missing file probes as unlocked.
func Probe(path string) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	h, err := windows.CreateFile(
		p,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0, // no sharing: fail if anyone else has the file open
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		if errors.Is(err, windows.ERROR_FILE_NOT_FOUND) || errors.Is(err, windows.ERROR_PATH_NOT_FOUND) {
			return false
		}
		return IsSharingViolation(err) || errors.Is(err, fs.ErrPermission)
	}
	windows.CloseHandle(h)
	return false
}

// IsSharingViolation reports whether err is a sharing/lock-class
// failure: another process holds conflicting access to the path. This
// is the only failure class eligible for automatic retry.
func IsSharingViolation(err error) bool {
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION) ||
		errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}
