// Package pipeline orchestrates the archive/codec/publish stages into
// the two end-to-end runs (encode, decode) and owns the failure
// taxonomy surfaced to the CLI.
//
// A run moves through a fixed sequence of stages and remembers which
// one it is in; any error is classified once, tagged with that stage,
// and carried to the boundary as a *Failure. Cleanup of temporary
// artifacts runs on every exit path; a cleanup failure is surfaced as
// the run's outcome only when nothing else went wrong first.
package pipeline
