// Package storage abstracts the content directory the cache file and TIL
// notes live in.
package storage

import "time"

// File is the listing metadata of one content file.
type File struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for content file operations. All paths are
// relative to the provider root.
type Provider interface {
	// List returns metadata for every file under dir whose name ends in ext.
	List(dir, ext string) ([]File, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// Abs resolves path to an absolute file-system path under the root.
	Abs(path string) (string, error)
}
