// Package archive packs a directory tree into a single opaque byte
// stream and reconstructs it. The container is a standard zip so the
// payload stays inspectable with ordinary tooling, with deflate provided
// by klauspost/compress for throughput.
//
// Entries are stored with forward-slash paths relative to the packed
// root. Empty directories are preserved as explicit trailing-slash
// entries. Symlinks are skipped. Unpack refuses entries whose paths
// would escape the destination directory.
package archive
