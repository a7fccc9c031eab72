// Package storage implements the StorageSink port for local disks and S3
package storage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/ports"
)

// Provider types accepted in a connection's providerType
const (
	ProviderLocal = "localFileSystemProxy"
	ProviderS3    = "s3"
)

// Factory resolves the sink for a target connection
type Factory struct {
	s3Defaults S3Config
	logger     *zap.Logger
}

func NewFactory(s3Defaults S3Config, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{s3Defaults: s3Defaults, logger: logger}
}

// ForConnection returns an instrumented sink for the connection's provider type
func (f *Factory) ForConnection(ctx context.Context, conn *domain.Connection) (ports.StorageSink, error) {
	if conn == nil {
		return nil, fmt.Errorf("connection is nil")
	}

	switch strings.ToLower(conn.ProviderType) {
	case "", "local", strings.ToLower(ProviderLocal):
		return NewInstrumented(NewLocalStorage(), "local"), nil
	case ProviderS3, "awss3":
		sink, err := NewS3Storage(ctx, f.s3Defaults.Merge(conn.ProviderOptions), f.logger)
		if err != nil {
			return nil, err
		}
		return NewInstrumented(sink, "s3"), nil
	default:
		return nil, fmt.Errorf("unsupported storage provider %q for connection %q", conn.ProviderType, conn.Name)
	}
}
