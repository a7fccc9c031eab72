package ports

import (
	"context"

	"github.com/kamal-hamza/vocx/internal/core/domain"
)

// StorageSink defines the port for writing export output
type StorageSink interface {
	// CreateContainer creates a directory-like container if it does not exist
	CreateContainer(ctx context.Context, path string) error

	// WriteBinary writes raw bytes, overwriting any existing file
	WriteBinary(ctx context.Context, path string, data []byte) error

	// WriteText writes a text document, overwriting any existing file
	WriteText(ctx context.Context, path string, text string) error
}

// AssetMetadataSource defines the port for reading regions of an asset
type AssetMetadataSource interface {
	GetAssetMetadata(ctx context.Context, asset domain.Asset) (*domain.AssetMetadata, error)
}

// AssetMetadataStore is a metadata source that can also rewrite regions
type AssetMetadataStore interface {
	AssetMetadataSource

	// SaveAssetMetadata replaces the stored regions of meta.Asset
	SaveAssetMetadata(ctx context.Context, meta *domain.AssetMetadata) error
}

// AssetBinaryReader defines the port for reading the raw bytes of an asset
type AssetBinaryReader interface {
	GetAssetArray(ctx context.Context, asset domain.Asset) ([]byte, error)
}

// ProjectRepository defines the port for loading projects
type ProjectRepository interface {
	// Load reads a project file and returns the in-memory project
	Load(ctx context.Context, path string) (*domain.Project, error)

	// SaveTags replaces the project's tag list, leaving the rest of the file as is
	SaveTags(ctx context.Context, path string, tags []domain.Tag) error
}

// StorageFactory resolves the sink for a connection
type StorageFactory interface {
	ForConnection(ctx context.Context, conn *domain.Connection) (StorageSink, error)
}

// ExportProvider defines the port implemented by every export format
type ExportProvider interface {
	// Export writes the dataset and reports what was produced
	Export(ctx context.Context) (*domain.ExportResult, error)
}
