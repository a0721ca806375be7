// Package storage keeps pet photos in an object store: S3 (or any
// S3-compatible endpoint such as MinIO) in production, memory otherwise.
package storage

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("object_not_found")

type Object struct {
	Data        []byte
	ContentType string
}

type PhotoStore interface {
	Put(ctx context.Context, key string, obj Object) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
}

func NewMemory() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func (s *MemoryStore) Put(_ context.Context, key string, obj Object) error {
	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)

	s.mu.Lock()
	s.objects[key] = Object{Data: data, ContentType: obj.ContentType}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Object, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return &obj, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}
