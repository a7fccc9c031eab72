// Package providers holds what every export format shares: asset selection
// and the constructor signature used by the format registry.
package providers

import (
	"go.uber.org/zap"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/ports"
)

// Dependencies are the collaborators an export provider writes through
type Dependencies struct {
	Storage  ports.StorageSink
	Metadata ports.AssetMetadataSource
	Reader   ports.AssetBinaryReader
	Logger   *zap.Logger

	// MaxWorkers bounds concurrent per-asset tasks; <= 0 means 4
	MaxWorkers int

	// OnAssetExported is called once per finished asset, from worker goroutines
	OnAssetExported func(asset domain.Asset)
}

// Constructor builds a provider for one export run
type Constructor func(project *domain.Project, options domain.ExportOptions, deps Dependencies) ports.ExportProvider

// SelectAssets filters assets by export policy, preserving order
func SelectAssets(assets []domain.Asset, state domain.ExportAssetState) []domain.Asset {
	selected := make([]domain.Asset, 0, len(assets))
	for _, a := range assets {
		if state.Includes(a.State) {
			selected = append(selected, a)
		}
	}
	return selected
}

// Workers returns the effective worker count
func (d Dependencies) Workers() int {
	if d.MaxWorkers <= 0 {
		return 4
	}
	return d.MaxWorkers
}

// Log returns the configured logger or a no-op one
func (d Dependencies) Log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
