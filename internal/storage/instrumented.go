package storage

import (
	"context"
	"io"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/metrics"
)

// Instrumented 统计每次对象存储调用的结果
type Instrumented struct {
	next Storage
}

func NewInstrumented(next Storage) *Instrumented {
	return &Instrumented{next: next}
}

func (s *Instrumented) Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	pointer, err := s.next.Put(ctx, name, body, size, contentType)
	metrics.StorageOperations.WithLabelValues("put", metrics.Result(err)).Inc()
	return pointer, err
}

func (s *Instrumented) Get(ctx context.Context, name string) (*Object, error) {
	obj, err := s.next.Get(ctx, name)
	metrics.StorageOperations.WithLabelValues("get", metrics.Result(err)).Inc()
	return obj, err
}

func (s *Instrumented) Delete(ctx context.Context, name string) (bool, error) {
	deleted, err := s.next.Delete(ctx, name)
	metrics.StorageOperations.WithLabelValues("delete", metrics.Result(err)).Inc()
	return deleted, err
}
