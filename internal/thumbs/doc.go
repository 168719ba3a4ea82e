// Package thumbs mirrors an image tree into a parallel tree of resized
// previews.
//
// A run walks the source root, maps every supported image to the same
// relative path under the destination root (with the encoder's extension) and
// regenerates the preview only when it is missing or older than the source.
// Each file ends in exactly one of Generated, Skipped or Failed; a failing
// file is reported and the walk continues. When a Ledger is configured the
// timestamp check is supplemented by a source checksum comparison.
package thumbs
