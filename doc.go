// Package main provides the treeport command-line interface.
//
// treeport converts a directory tree into a single portable text blob
// and back, for transport over channels that only accept text. The tree
// is packed into one archive, streamed through a fixed-alphabet text
// encoding, and published atomically so the destination file is never
// observed half-written.
//
// The main binary supports two subcommands:
//   - encode: pack a directory and write it as a text file
//   - decode: rebuild the archive, or the whole tree, from a text file
//
// Every failure carries the pipeline stage it happened in and maps to a
// stable exit code, so scripted callers can tell a locked destination
// from corrupt input from a missing source.
package main
