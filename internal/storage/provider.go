// Package storage defines the read-only content source.
package storage

import "github.com/wsqstar/ppage/internal/models"

// Provider lists and reads Markdown files under a content root.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to the root).
	List(dir string) ([]models.FileMeta, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
}
