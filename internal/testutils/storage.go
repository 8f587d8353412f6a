package testutils

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/storage"
)

// MemoryStorage is an in-memory storage.Storage for service tests.
// FailPut/FailGet/FailDelete inject errors into the next calls.
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	FailPut    error
	FailGet    error
	FailDelete error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

func (m *MemoryStorage) Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailPut != nil {
		return "", m.FailPut
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[name] = data
	return "mem://blobs/" + name, nil
}

func (m *MemoryStorage) Get(ctx context.Context, name string) (*storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailGet != nil {
		return nil, m.FailGet
	}
	data, ok := m.objects[name]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.Object{
		Body: io.NopCloser(bytes.NewReader(data)),
		Size: int64(len(data)),
	}, nil
}

func (m *MemoryStorage) Delete(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailDelete != nil {
		return false, m.FailDelete
	}
	if _, ok := m.objects[name]; !ok {
		return false, nil
	}
	delete(m.objects, name)
	return true, nil
}

// Has reports whether an object with the given storage name exists
func (m *MemoryStorage) Has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[name]
	return ok
}

// Content returns the stored bytes of an object
func (m *MemoryStorage) Content(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.objects[name])
}

// Names lists stored object names in sorted order
func (m *MemoryStorage) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.objects))
	for name := range m.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
