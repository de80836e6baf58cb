package pipeline

import (
	"fmt"
)

// Kind is the failure taxonomy. Every error a run can surface is
// classified into exactly one Kind, and each Kind maps to a stable
// process exit code.
type Kind int

const (
	KindUnexpected Kind = iota
	KindUsage
	KindBadPath
	KindNotFound
	KindOutputDir
	KindDestinationLocked
	KindPermission
	KindMissingDirectory
	KindPathTooLong
	KindCorruptInput
	KindIO
	KindLockContention
	KindInvalidArgument
	KindUnsupported
	KindCleanup
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage error"
	case KindBadPath:
		return "invalid path"
	case KindNotFound:
		return "source not found"
	case KindOutputDir:
		return "cannot prepare output directory"
	case KindDestinationLocked:
		return "destination locked"
	case KindPermission:
		return "permission denied"
	case KindMissingDirectory:
		return "directory not found"
	case KindPathTooLong:
		return "path too long"
	case KindCorruptInput:
		return "corrupt input"
	case KindIO:
		return "i/o failure"
	case KindLockContention:
		return "lock contention"
	case KindInvalidArgument:
		return "invalid argument"
	case KindUnsupported:
		return "unsupported operation"
	case KindCleanup:
		return "cleanup failure"
	}
	return "unexpected error"
}

// ExitCode returns the stable process exit code for this failure kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindUsage:
		return 2
	case KindBadPath:
		return 3
	case KindNotFound:
		return 4
	case KindOutputDir:
		return 5
	case KindDestinationLocked:
		return 6
	case KindPermission:
		return 10
	case KindMissingDirectory:
		return 11
	case KindPathTooLong:
		return 12
	case KindCorruptInput:
		return 13
	case KindIO, KindLockContention:
		// Exhausted lock-contention retries report as a generic I/O
		// failure; the pre-check lock has its own code.
		return 14
	case KindInvalidArgument:
		return 15
	case KindUnsupported:
		return 16
	case KindCleanup:
		return 17
	}
	return 99
}

// Failure is the single tagged error variant every stage reports
// through: what went wrong (Kind), where (Stage), on which path, and
// the underlying cause. It replaces a catch-by-type chain with one
// classification switched on at the CLI boundary.
type Failure struct {
	Kind  Kind
	Stage Stage
	Path  string
	Err   error
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("%s while %s", f.Kind, f.Stage)
	if f.Path != "" {
		msg += ": " + f.Path
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	if hint := f.Hint(); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}

func (f *Failure) Unwrap() error { return f.Err }

// Hint decodes the platform error code underneath the failure into a
// human phrase, distinguishing a file that is in use from one that is
// locked from a general I/O failure.
func (f *Failure) Hint() string {
	if h := errnoHint(f.Err); h != "" {
		return h
	}
	switch f.Kind {
	case KindDestinationLocked, KindLockContention:
		return "the file is locked by another process"
	case KindIO:
		return "general I/O failure"
	}
	return ""
}
