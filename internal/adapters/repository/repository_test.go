package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/vocx/internal/core/domain"
)

const sampleProject = `{
  "name": "Traffic",
  "securityToken": "Traffic Token",
  "sourceConnection": {
    "name": "images",
    "providerType": "localFileSystemProxy",
    "providerOptions": {"folderPath": "images"}
  },
  "targetConnection": {
    "name": "export",
    "providerType": "localFileSystemProxy",
    "providerOptions": {"folderPath": "/data/export"}
  },
  "tags": [
    {"name": "car", "color": "#ff0000"},
    {"name": "bus", "color": "#00ff00"}
  ],
  "assets": {
    "zeta": {"id": "zeta", "name": "z.jpg", "path": "file:/data/z.jpg", "state": 2, "size": {"width": 640, "height": 480}},
    "alpha": {"id": "alpha", "name": "a.jpg", "path": "file:/data/a.jpg", "state": 1, "size": {"width": 320, "height": 240}},
    "mid": {"name": "m.jpg", "path": "file:/data/m.jpg", "state": 0}
  }
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestProjectRepository_Load(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "traffic.vott", sampleProject)

	project, err := NewProjectRepository().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Traffic", project.Name)
	assert.Equal(t, []string{"car", "bus"}, project.TagNames())

	require.Len(t, project.Assets, 3)
	assert.Equal(t, "zeta", project.Assets[0].ID)
	assert.Equal(t, "alpha", project.Assets[1].ID)
	assert.Equal(t, "mid", project.Assets[2].ID, "id falls back to the object key")
	assert.Equal(t, domain.AssetStateTagged, project.Assets[0].State)
	assert.Equal(t, domain.AssetSize{Width: 640, Height: 480}, project.Assets[0].Size)

	require.NotNil(t, project.TargetConnection)
	assert.Equal(t, "/data/export", project.TargetConnection.Path)
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "images")), project.SourceConnection.Path)
	assert.NoError(t, project.Validate())
}

func TestProjectRepository_AssetArrayAndEncryptedOptions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "p.vott", `{
	  "name": "P",
	  "targetConnection": {"name": "t", "providerType": "localFileSystemProxy", "providerOptions": "ZW5jcnlwdGVk"},
	  "tags": [],
	  "assets": [{"id": "1", "name": "1.jpg", "state": 2}]
	}`)

	project, err := NewProjectRepository().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, project.Assets, 1)
	assert.Equal(t, "", project.TargetConnection.Path)
	assert.Empty(t, project.TargetConnection.ProviderOptions)
	assert.True(t, project.TargetConnection.Encrypted)
	assert.ErrorIs(t, project.Validate(), domain.ErrInvalidProjectState)
}

func TestProjectRepository_EncryptedOptionsObject(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "p.vott", `{
	  "name": "P",
	  "sourceConnection": {"name": "src", "providerType": "localFileSystemProxy", "providerOptions": {"folderPath": "images"}},
	  "targetConnection": {"name": "t", "providerType": "localFileSystemProxy", "providerOptions": {"encrypted": "eyJjaXBoZXJ0ZXh0Ijoi"}},
	  "tags": [],
	  "assets": {}
	}`)

	project, err := NewProjectRepository().Load(context.Background(), path)
	require.NoError(t, err)

	assert.False(t, project.SourceConnection.Encrypted)
	assert.True(t, project.TargetConnection.Encrypted)
	assert.NotContains(t, project.TargetConnection.ProviderOptions, "encrypted")

	err = project.Validate()
	require.ErrorIs(t, err, domain.ErrInvalidProjectState)
	assert.Contains(t, err.Error(), "encrypted options")
	assert.Contains(t, err.Error(), "--target")

	// an explicit target path makes the project exportable again
	project.TargetConnection.Path = filepath.ToSlash(filepath.Join(dir, "out"))
	assert.NoError(t, project.Validate())
}

func TestProjectRepository_S3Options(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "p.vott", `{
	  "targetConnection": {"name": "t", "providerType": "s3", "providerOptions": {"bucket": "voc", "prefix": "exports/traffic/", "useSsl": true}},
	  "assets": {}
	}`)

	project, err := NewProjectRepository().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "p", project.Name)
	assert.Equal(t, "/exports/traffic", project.TargetConnection.Path)
	assert.Equal(t, "true", project.TargetConnection.ProviderOptions["useSsl"])
	assert.Empty(t, project.Assets)
	assert.NotNil(t, project.Assets)
}

func TestProjectRepository_Errors(t *testing.T) {
	dir := t.TempDir()
	repo := NewProjectRepository()

	_, err := repo.Load(context.Background(), filepath.Join(dir, "missing.vott"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.vott", `{"assets": 7}`)
	_, err = repo.Load(context.Background(), bad)
	assert.Error(t, err)

	broken := writeFile(t, dir, "broken.vott", `{`)
	_, err = repo.Load(context.Background(), broken)
	assert.Error(t, err)
}

func TestMetadataRepository_ReadsRegions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a1"+MetadataSuffix, `{
	  "asset": {"id": "a1", "name": "other.jpg", "size": {"width": 800, "height": 600}},
	  "regions": [
	    {"id": "r1", "type": "RECTANGLE", "tags": ["car"],
	     "boundingBox": {"left": 1, "top": 2, "width": 3, "height": 4},
	     "points": [{"x": 1, "y": 2}, {"x": 4, "y": 6}]}
	  ],
	  "version": "2.1.0"
	}`)

	repo := NewMetadataRepository(dir)
	asset := domain.Asset{ID: "a1", Name: "a1.jpg", State: domain.AssetStateTagged}

	meta, err := repo.GetAssetMetadata(context.Background(), asset)
	require.NoError(t, err)

	assert.Equal(t, "a1.jpg", meta.Asset.Name, "project asset wins over the stored copy")
	assert.Equal(t, domain.AssetSize{Width: 800, Height: 600}, meta.Asset.Size)
	require.Len(t, meta.Regions, 1)
	assert.Equal(t, []string{"car"}, meta.Regions[0].Tags)
	assert.Equal(t, domain.BoundingBox{Left: 1, Top: 2, Width: 3, Height: 4}, meta.Regions[0].Bounds())
	assert.Equal(t, "2.1.0", meta.Version)
}

func TestMetadataRepository_MissingFileHasNoRegions(t *testing.T) {
	repo := NewMetadataRepository(t.TempDir())

	meta, err := repo.GetAssetMetadata(context.Background(), domain.Asset{ID: "never-opened"})
	require.NoError(t, err)
	assert.Empty(t, meta.Regions)
	assert.NotNil(t, meta.Regions)
}

func TestMetadataRepository_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x"+MetadataSuffix, `not json`)

	_, err := NewMetadataRepository(dir).GetAssetMetadata(context.Background(), domain.Asset{ID: "x"})
	assert.Error(t, err)
}

func TestMetadataRepository_CacheAndInvalidate(t *testing.T) {
	dir := t.TempDir()
	repo := NewMetadataRepository(dir)
	asset := domain.Asset{ID: "c"}

	meta, err := repo.GetAssetMetadata(context.Background(), asset)
	require.NoError(t, err)
	assert.Empty(t, meta.Regions)

	writeFile(t, dir, "c"+MetadataSuffix, `{"regions": [{"id": "r", "type": "POINT", "tags": ["bus"], "points": [{"x": 5, "y": 5}]}]}`)

	meta, err = repo.GetAssetMetadata(context.Background(), asset)
	require.NoError(t, err)
	assert.Empty(t, meta.Regions, "served from cache")

	repo.Invalidate()
	meta, err = repo.GetAssetMetadata(context.Background(), asset)
	require.NoError(t, err)
	assert.Len(t, meta.Regions, 1)
}

func TestProjectRepository_SaveTags(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "traffic.vott", sampleProject)
	repo := NewProjectRepository()
	ctx := context.Background()

	err := repo.SaveTags(ctx, path, []domain.Tag{{Name: "vehicle", Color: "#ff0000"}})
	require.NoError(t, err)

	project, err := repo.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"vehicle"}, project.TagNames())
	assert.Equal(t, "Traffic", project.Name)

	ids := make([]string, 0, len(project.Assets))
	for _, a := range project.Assets {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, ids)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"securityToken": "Traffic Token"`)
}

func TestProjectRepository_SaveTagsMissingFile(t *testing.T) {
	err := NewProjectRepository().SaveTags(context.Background(), filepath.Join(t.TempDir(), "none.vott"), nil)
	assert.Error(t, err)
}

func TestMetadataRepository_SaveKeepsOtherKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a1"+MetadataSuffix, `{
  "asset": {"id": "a1", "name": "a.jpg", "size": {"width": 10, "height": 10}},
  "regions": [{"id": "r1", "type": "RECTANGLE", "tags": ["car"], "points": []}],
  "version": "2.2.0"
}`)
	repo := NewMetadataRepository(dir)
	ctx := context.Background()
	asset := domain.Asset{ID: "a1", Name: "a.jpg"}

	meta, err := repo.GetAssetMetadata(ctx, asset)
	require.NoError(t, err)
	require.Len(t, meta.Regions, 1)

	updated := *meta
	updated.Regions = []domain.Region{{ID: "r2", Type: domain.RegionRectangle, Tags: []string{"bus"}}}
	require.NoError(t, repo.SaveAssetMetadata(ctx, &updated))

	// cache dropped, so the new regions are read back
	meta, err = repo.GetAssetMetadata(ctx, asset)
	require.NoError(t, err)
	require.Len(t, meta.Regions, 1)
	assert.Equal(t, "r2", meta.Regions[0].ID)
	assert.Equal(t, 10, meta.Asset.Size.Width)
	assert.Equal(t, "2.2.0", meta.Version)
}

func TestMetadataRepository_SaveCreatesFile(t *testing.T) {
	dir := t.TempDir()
	repo := NewMetadataRepository(dir)
	asset := domain.Asset{ID: "new", Name: "n.jpg", Size: domain.AssetSize{Width: 4, Height: 3}}

	err := repo.SaveAssetMetadata(context.Background(), &domain.AssetMetadata{Asset: asset})
	require.NoError(t, err)

	_, err = os.Stat(repo.MetadataPath("new"))
	require.NoError(t, err)

	meta, err := repo.GetAssetMetadata(context.Background(), asset)
	require.NoError(t, err)
	assert.NotNil(t, meta.Regions)
	assert.Empty(t, meta.Regions)
}

func TestMetadataRepository_SaveNil(t *testing.T) {
	err := NewMetadataRepository(t.TempDir()).SaveAssetMetadata(context.Background(), nil)
	assert.Error(t, err)
}
