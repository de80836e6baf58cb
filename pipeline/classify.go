package pipeline

import (
	"errors"
	"io/fs"
	"os"

	"github.com/dendrascience/treeport/archive"
	"github.com/dendrascience/treeport/codec"
	"github.com/dendrascience/treeport/publish"
)

// Classify turns an arbitrary error from a stage into a tagged
// *Failure. It is the one place failure-class ordering lives; stages
// never inspect errors themselves. An error that is already a *Failure
// passes through unchanged, keeping the stage label of wherever it was
// first classified.
func Classify(stage Stage, path string, err error) *Failure {
	var existing *Failure
	if errors.As(err, &existing) {
		return existing
	}

	kind := KindUnexpected
	switch {
	case isCorrupt(err):
		kind = KindCorruptInput
	case isContention(err):
		kind = KindLockContention
	case errors.Is(err, archive.ErrExpectedDirectory), errors.Is(err, archive.ErrUnsafePath):
		kind = KindInvalidArgument
	case errors.Is(err, fs.ErrNotExist):
		// Missing input during validation is its own outcome; a path
		// vanishing mid-run is a different one.
		if stage == StageValidating {
			kind = KindNotFound
		} else {
			kind = KindMissingDirectory
		}
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermission
	default:
		if k, ok := errnoKind(err); ok {
			kind = k
		} else if isFilesystemError(err) {
			kind = KindIO
		}
	}

	return &Failure{Kind: kind, Stage: stage, Path: path, Err: err}
}

func isCorrupt(err error) bool {
	var corrupt *codec.CorruptInputError
	return errors.As(err, &corrupt)
}

func isContention(err error) bool {
	var contention *publish.ContentionError
	return errors.As(err, &contention)
}

// isFilesystemError distinguishes OS-level failures (which classify as
// I/O) from programming errors (which stay unexpected).
func isFilesystemError(err error) bool {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return true
	}
	var linkErr *os.LinkError
	return errors.As(err, &linkErr)
}
