// Package storage is a small filesystem abstraction used for catalog
// snapshot exports.
//
// Two drivers are available:
//   - "local"  — local filesystem (default)
//   - "s3"     — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Quick start:
//
//	storage.Connect() // once at boot
//	storage.Put("exports/catalog-20260831.json", data)
//
//	s3, err := storage.Use("s3")
//	if err == nil {
//	    s3.Put("exports/catalog-20260831.json", data)
//	}
package storage

import (
	"io"
	"time"
)

// Disk is the driver interface.
type Disk interface {
	Put(path string, content []byte) error
	PutStream(path string, r io.Reader) error
	Get(path string) ([]byte, error)
	GetStream(path string) (io.ReadCloser, error)
	Exists(path string) bool
	Size(path string) (int64, error)
	LastModified(path string) (time.Time, error)
	URL(path string) string
	Delete(path string) error
	Files(directory string) ([]string, error)
}
