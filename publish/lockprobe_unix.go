//go:build unix

package publish

import (
	"errors"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// Probe reports whether path is currently held exclusively by another
// process. It opens the file read-write, takes a non-blocking flock,
// and releases everything immediately. Advisory only: the answer can
// be stale by the time the caller acts on it. A missing file probes as
// unlocked.
func Probe(path string) bool {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false
		}
		return IsSharingViolation(err) || errors.Is(err, fs.ErrPermission)
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN)
	}
	unix.Flock(int(f.Fd()), unix.LOCK_UN)
	return false
}

// IsSharingViolation reports whether err is a sharing/lock-class
// failure: another process holds conflicting access to the path. This
// is the only failure class eligible for automatic retry.
func IsSharingViolation(err error) bool {
	return errors.Is(err, unix.EBUSY) ||
		errors.Is(err, unix.ETXTBSY) ||
		errors.Is(err, unix.EAGAIN) ||
		errors.Is(err, unix.EWOULDBLOCK)
}
