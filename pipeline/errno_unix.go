//go:build unix

package pipeline

import (
	"errors"

	"golang.org/x/sys/unix"
)

// errnoKind maps platform error codes that carry a specific meaning in
// the taxonomy. Everything else falls through to the generic classes.
func errnoKind(err error) (Kind, bool) {
	switch {
	case errors.Is(err, unix.ENAMETOOLONG):
		return KindPathTooLong, true
	case errors.Is(err, unix.ENOTDIR):
		return KindMissingDirectory, true
	case errors.Is(err, unix.EINVAL):
		return KindInvalidArgument, true
	case errors.Is(err, unix.ENOTSUP), errors.Is(err, unix.EOPNOTSUPP):
		return KindUnsupported, true
	}
	return KindUnexpected, false
}

// errnoHint decodes the platform error code into a human phrase, or
// returns "" when the code carries no extra signal.
func errnoHint(err error) string {
	switch {
	case errors.Is(err, unix.EBUSY), errors.Is(err, unix.ETXTBSY):
		return "the file is in use by another process"
	case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK):
		return "the file is locked by another process"
	}
	return ""
}
