// Package security confines store file access to a single directory.
//
// All reads, writes and renames go through an os.Root, so a store file name
// can never resolve outside the store directory, even through symlinks.
// Writes are atomic: data is written to a synced temporary sibling and
// renamed over the target.
package security
