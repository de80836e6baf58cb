package archive

import "errors"

// Sentinel errors for package archive.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// ErrExpectedDirectory is returned when the pack source is not a directory.
	ErrExpectedDirectory = errors.New("expected directory but got file")

	// ErrUnsafePath is returned when an archive entry would resolve
	// outside the unpack destination.
	ErrUnsafePath = errors.New("archive entry path escapes destination")
)
