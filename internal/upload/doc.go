// Package upload imports files into box content directories.
//
// Rag and bag boxes are filled from the local filesystem: a single
// file or a directory of files is copied into the box's directory
// under the bablib data dir. Failures are counted per file rather
// than aborting the import, so one unreadable file does not discard
// an otherwise good batch.
package upload
