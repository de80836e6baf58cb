// Package codec implements the byte/text transform used to carry archive
// blobs over text-only channels.
//
// The encoder emits standard base64 (padded, 64-symbol alphabet) wrapped
// at a fixed column so output survives editors and mailers that reflow
// long lines. The decoder is the inverse and additionally tolerates any
// amount of interleaved ASCII whitespace, so text that was reformatted in
// transit still decodes to the original bytes. Any other byte outside the
// alphabet is rejected with a CorruptInputError rather than silently
// producing wrong output.
//
// Both directions are single-pass streams: memory use is bounded by a
// fixed internal buffer regardless of payload size.
package codec
