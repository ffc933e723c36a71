package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process BlobStore for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Store buffers the payload in memory under a generated key.
func (s *MemoryStore) Store(ctx context.Context, r io.Reader, size int64, meta PutMetadata) (Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Object{}, fmt.Errorf("failed to read payload: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return Object{}, fmt.Errorf("payload size mismatch: declared %d, read %d", size, len(data))
	}

	name := uuid.NewString()
	if hint := strings.TrimSpace(meta.FilenameHint); hint != "" {
		name = name + "-" + path.Base(hint)
	}
	key := name
	if meta.FolderPath != "" {
		key = path.Join(meta.FolderPath, name)
	}

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return Object{
		URL:         "memory://" + key,
		Key:         key,
		Size:        int64(len(data)),
		ContentType: meta.ContentType,
	}, nil
}

// Fetch returns a reader over the buffered payload.
func (s *MemoryStore) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Healthy always succeeds for the in-memory store.
func (s *MemoryStore) Healthy(ctx context.Context) error {
	return nil
}

// Len reports the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
