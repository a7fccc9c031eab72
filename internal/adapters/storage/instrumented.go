package storage

import (
	"context"

	"github.com/kamal-hamza/vocx/internal/core/ports"
	"github.com/kamal-hamza/vocx/pkg/metrics"
)

// Instrumented records Prometheus metrics for every call to the wrapped sink
type Instrumented struct {
	next    ports.StorageSink
	metrics *metrics.StorageMetrics
}

func NewInstrumented(next ports.StorageSink, sinkName string) *Instrumented {
	return &Instrumented{
		next:    next,
		metrics: metrics.NewStorageMetrics(sinkName),
	}
}

func (s *Instrumented) CreateContainer(ctx context.Context, path string) error {
	err := s.next.CreateContainer(ctx, path)
	s.metrics.RecordWrite("create_container", 0, err)
	return err
}

func (s *Instrumented) WriteBinary(ctx context.Context, path string, data []byte) error {
	err := s.next.WriteBinary(ctx, path, data)
	s.metrics.RecordWrite("write_binary", len(data), err)
	return err
}

func (s *Instrumented) WriteText(ctx context.Context, path string, text string) error {
	err := s.next.WriteText(ctx, path, text)
	s.metrics.RecordWrite("write_text", len(text), err)
	return err
}
