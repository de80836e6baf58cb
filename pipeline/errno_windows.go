//go:build windows

package pipeline

import (
	"errors"

	"golang.org/x/sys/windows"
)

// errnoKind maps platform error codes that carry a specific meaning in
// the taxonomy. Everything else falls through to the generic classes.
func errnoKind(err error) (Kind, bool) {
	switch {
	case errors.Is(err, windows.ERROR_FILENAME_EXCED_RANGE):
		return KindPathTooLong, true
	case errors.Is(err, windows.ERROR_PATH_NOT_FOUND):
		return KindMissingDirectory, true
	case errors.Is(err, windows.ERROR_INVALID_PARAMETER):
		return KindInvalidArgument, true
	case errors.Is(err, windows.ERROR_NOT_SUPPORTED):
		return KindUnsupported, true
	}
	return KindUnexpected, false
}

// errnoHint decodes the platform error code into a human phrase, or
// returns "" when the code carries no extra signal.
func errnoHint(err error) string {
	switch {
	case errors.Is(err, windows.ERROR_SHARING_VIOLATION):
		return "the file is in use by another process"
	case errors.Is(err, windows.ERROR_LOCK_VIOLATION):
		return "the file is locked by another process"
	}
	return ""
}
