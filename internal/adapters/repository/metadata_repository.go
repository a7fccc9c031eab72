package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/ports"
)

// MetadataSuffix is appended to an asset id to name its metadata file
const MetadataSuffix = "-asset.json"

// MetadataRepository reads per-asset region files stored in one directory.
// Decoded metadata is cached for the lifetime of the repository.
type MetadataRepository struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]*domain.AssetMetadata
}

func NewMetadataRepository(dir string) *MetadataRepository {
	return &MetadataRepository{
		dir:   dir,
		cache: make(map[string]*domain.AssetMetadata),
	}
}

var _ ports.AssetMetadataStore = (*MetadataRepository)(nil)

// MetadataPath returns the file holding an asset's regions
func (r *MetadataRepository) MetadataPath(assetID string) string {
	return filepath.Join(r.dir, assetID+MetadataSuffix)
}

// GetAssetMetadata returns the asset's regions. An asset that was never
// annotated has no file and gets zero regions.
func (r *MetadataRepository) GetAssetMetadata(ctx context.Context, asset domain.Asset) (*domain.AssetMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	cached, ok := r.cache[asset.ID]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	meta, err := r.read(asset)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[asset.ID] = meta
	r.mu.Unlock()

	return meta, nil
}

func (r *MetadataRepository) read(asset domain.Asset) (*domain.AssetMetadata, error) {
	data, err := os.ReadFile(r.MetadataPath(asset.ID))
	if err != nil {
		if os.IsNotExist(err) {
			return &domain.AssetMetadata{Asset: asset, Regions: []domain.Region{}}, nil
		}
		return nil, fmt.Errorf("failed to read metadata for asset %s: %w", asset.ID, err)
	}

	var meta domain.AssetMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata for asset %s: %w", asset.ID, err)
	}

	// project file is authoritative for identity and state
	size := meta.Asset.Size
	meta.Asset = asset
	if asset.Size.Width == 0 && asset.Size.Height == 0 {
		meta.Asset.Size = size
	}
	if meta.Regions == nil {
		meta.Regions = []domain.Region{}
	}

	return &meta, nil
}

// SaveAssetMetadata rewrites the regions of an asset file. Other keys of an
// existing file are kept; a missing file is created from meta.
func (r *MetadataRepository) SaveAssetMetadata(ctx context.Context, meta *domain.AssetMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if meta == nil {
		return fmt.Errorf("no metadata to save")
	}

	path := r.MetadataPath(meta.Asset.ID)
	doc := map[string]json.RawMessage{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse metadata for asset %s: %w", meta.Asset.ID, err)
		}
	case os.IsNotExist(err):
		if doc["asset"], err = json.Marshal(meta.Asset); err != nil {
			return fmt.Errorf("failed to encode asset %s: %w", meta.Asset.ID, err)
		}
		if doc["version"], err = json.Marshal(meta.Version); err != nil {
			return err
		}
	default:
		return fmt.Errorf("failed to read metadata for asset %s: %w", meta.Asset.ID, err)
	}

	regions := meta.Regions
	if regions == nil {
		regions = []domain.Region{}
	}
	if doc["regions"], err = json.Marshal(regions); err != nil {
		return fmt.Errorf("failed to encode regions of asset %s: %w", meta.Asset.ID, err)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write metadata for asset %s: %w", meta.Asset.ID, err)
	}

	r.mu.Lock()
	delete(r.cache, meta.Asset.ID)
	r.mu.Unlock()

	return nil
}

// Invalidate drops cached metadata so the next read hits disk
func (r *MetadataRepository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*domain.AssetMetadata)
}
