// Package publish owns the crash-safe delivery of pipeline output: a
// uniquely named temporary sibling of the destination, a durable flush,
// and a rename over the final path. The rename is retried only for
// sharing/lock-class failures, with a linear backoff; every other
// failure class surfaces immediately.
//
// The package also tracks every temporary artifact a run creates and
// guarantees a bounded, retrying deletion attempt on the way out, and
// offers an advisory probe for whether another process currently holds
// a path exclusively.
package publish
