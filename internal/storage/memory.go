package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
)

var ErrObjectNotFound = errors.New("object not found in storage")

// memoryStorage keeps objects in process memory. Used when no bucket is configured
// and in tests.
type memoryStorage struct {
	mu         sync.Mutex
	publicBase string
	objects    map[string]object
	failWith   error
}

type object struct {
	data        []byte
	contentType string
}

// MemoryStorage is the in-memory FileStorage with test hooks.
type MemoryStorage interface {
	FileStorage
	Object(objectKey string) ([]byte, bool)
	ContentType(objectKey string) string
	Keys() []string
	FailWith(err error)
}

func NewMemoryStorage(publicBase string) MemoryStorage {
	return &memoryStorage{
		publicBase: strings.TrimRight(publicBase, "/"),
		objects:    make(map[string]object),
	}
}

func (s *memoryStorage) PutObject(_ context.Context, objectKey, contentType string, body io.Reader, size int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return "", s.failWith
	}
	if size == 0 || body == nil {
		return "", ErrEmptyObject
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	if buf.Len() == 0 {
		return "", ErrEmptyObject
	}
	s.objects[objectKey] = object{data: buf.Bytes(), contentType: contentType}
	return s.publicBase + "/" + objectKey, nil
}

func (s *memoryStorage) PublicURL(objectKey string) string {
	return s.publicBase + "/" + strings.TrimLeft(objectKey, "/")
}

func (s *memoryStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.objects[objectKey]; !ok {
		return ErrObjectNotFound
	}
	delete(s.objects, objectKey)
	return nil
}

func (s *memoryStorage) Object(objectKey string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[objectKey]
	return o.data, ok
}

// ContentType is the type given on upload, empty for unknown keys.
func (s *memoryStorage) ContentType(objectKey string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[objectKey].contentType
}

func (s *memoryStorage) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *memoryStorage) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}
