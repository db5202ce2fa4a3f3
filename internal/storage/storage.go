package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var ErrEmptyObject = errors.New("object body is empty")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// PutObject stores body under objectKey and returns its durable public URL.
	PutObject(ctx context.Context, objectKey, contentType string, body io.Reader, size int64) (string, error)

	// PublicURL builds the public URL of an object without contacting the provider.
	PublicURL(objectKey string) string

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// PhotoObjectKey places a member's progress photo under photos/<memberID>/ keeping the
// original file extension.
func PhotoObjectKey(memberID, photoID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return path.Join("photos", memberID, photoID+ext)
}
