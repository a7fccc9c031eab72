package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/ports"
)

// DefaultTagColor is given to tags a region edit adds to the project
const DefaultTagColor = "#808080"

// MetadataStores opens the writable region store of a loaded project
type MetadataStores func(projectPath string, project *domain.Project) ports.AssetMetadataStore

// RegionService edits tags and regions of a project in place
type RegionService struct {
	projects ports.ProjectRepository
	stores   MetadataStores
	logger   *zap.Logger
}

// NewRegionService creates a new region service
func NewRegionService(projects ports.ProjectRepository, stores MetadataStores, logger *zap.Logger) *RegionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegionService{
		projects: projects,
		stores:   stores,
		logger:   logger,
	}
}

// EditResult reports what an edit touched
type EditResult struct {
	Assets  int // asset files rewritten
	Regions int // regions changed, added or removed
	Tags    []string
}

// RenameTag renames a tag in the project and in every region carrying it.
// Renaming onto an existing tag merges the two.
func (s *RegionService) RenameTag(ctx context.Context, projectPath, from, to string) (*EditResult, error) {
	if err := domain.ValidateName(to); err != nil {
		return nil, fmt.Errorf("invalid tag: %w", err)
	}

	project, store, err := s.open(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	if !hasTag(project, from) {
		return nil, fmt.Errorf("tag %q not found in %s", from, project.Name)
	}

	res, err := s.rewriteRegions(ctx, project, store, from, func(tags []string) []string {
		return domain.AddIfMissing(domain.RemoveIfContained(tags, from), to)
	})
	if err != nil {
		return nil, err
	}

	merged := hasTag(project, to)
	tags := make([]domain.Tag, 0, len(project.Tags))
	for _, t := range project.Tags {
		switch {
		case t.Name == from && merged:
		case t.Name == from:
			t.Name = to
			tags = append(tags, t)
		default:
			tags = append(tags, t)
		}
	}
	if err := s.projects.SaveTags(ctx, projectPath, tags); err != nil {
		return nil, err
	}

	s.logger.Info("Renamed tag",
		zap.String("from", from),
		zap.String("to", to),
		zap.Bool("merged", merged),
		zap.Int("assets", res.Assets),
		zap.Int("regions", res.Regions))

	res.Tags = names(tags)
	return res, nil
}

// DeleteTag removes a tag from the project and from every region. Regions
// left without tags are kept.
func (s *RegionService) DeleteTag(ctx context.Context, projectPath, tag string) (*EditResult, error) {
	project, store, err := s.open(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	if !hasTag(project, tag) {
		return nil, fmt.Errorf("tag %q not found in %s", tag, project.Name)
	}

	res, err := s.rewriteRegions(ctx, project, store, tag, func(tags []string) []string {
		return domain.RemoveIfContained(tags, tag)
	})
	if err != nil {
		return nil, err
	}

	tags := make([]domain.Tag, 0, len(project.Tags))
	for _, t := range project.Tags {
		if t.Name != tag {
			tags = append(tags, t)
		}
	}
	if err := s.projects.SaveTags(ctx, projectPath, tags); err != nil {
		return nil, err
	}

	s.logger.Info("Deleted tag", zap.String("tag", tag), zap.Int("assets", res.Assets), zap.Int("regions", res.Regions))

	res.Tags = names(tags)
	return res, nil
}

// ToggleTag adds the tag to one region, or removes it when already present.
// A tag new to the project is appended to the project's tags.
func (s *RegionService) ToggleTag(ctx context.Context, projectPath, assetRef, regionID, tag string) (*EditResult, error) {
	if err := domain.ValidateName(tag); err != nil {
		return nil, fmt.Errorf("invalid tag: %w", err)
	}

	project, store, err := s.open(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	asset, meta, err := s.metadata(ctx, project, store, assetRef)
	if err != nil {
		return nil, err
	}

	region, ok := findRegion(meta.Regions, regionID)
	if !ok {
		return nil, fmt.Errorf("region %q not found on %s", regionID, asset.Name)
	}
	region.Tags = domain.ToggleTag(region.Tags, tag)

	updated := *meta
	updated.Regions = domain.UpdateRegions(meta.Regions, []domain.Region{region})
	if err := store.SaveAssetMetadata(ctx, &updated); err != nil {
		return nil, err
	}

	known := project.TagNames()
	all := domain.AddAllIfMissing(known, region.Tags)
	if len(all) > len(known) {
		tags := append([]domain.Tag{}, project.Tags...)
		for _, name := range all[len(known):] {
			tags = append(tags, domain.Tag{Name: name, Color: DefaultTagColor})
		}
		if err := s.projects.SaveTags(ctx, projectPath, tags); err != nil {
			return nil, err
		}
		s.logger.Info("Added tags to project", zap.Strings("tags", all[len(known):]))
	}

	return &EditResult{Assets: 1, Regions: 1, Tags: region.Tags}, nil
}

// CopyRegions duplicates every region of one asset onto another. Copies get
// new ids and are shifted off regions already on the target.
func (s *RegionService) CopyRegions(ctx context.Context, projectPath, fromRef, toRef string) (*EditResult, error) {
	project, store, err := s.open(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	_, src, err := s.metadata(ctx, project, store, fromRef)
	if err != nil {
		return nil, err
	}
	dstAsset, dst, err := s.metadata(ctx, project, store, toRef)
	if err != nil {
		return nil, err
	}

	if len(src.Regions) == 0 {
		return &EditResult{}, nil
	}

	copies := domain.DuplicateRegionsAndMove(src.Regions, dst.Regions)
	updated := *dst
	updated.Regions = append(append([]domain.Region{}, dst.Regions...), copies...)
	if err := store.SaveAssetMetadata(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info("Copied regions", zap.String("to", dstAsset.Name), zap.Int("regions", len(copies)))
	return &EditResult{Assets: 1, Regions: len(copies)}, nil
}

// DeleteRegion removes one region from an asset
func (s *RegionService) DeleteRegion(ctx context.Context, projectPath, assetRef, regionID string) (*EditResult, error) {
	project, store, err := s.open(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	asset, meta, err := s.metadata(ctx, project, store, assetRef)
	if err != nil {
		return nil, err
	}

	region, ok := findRegion(meta.Regions, regionID)
	if !ok {
		return nil, fmt.Errorf("region %q not found on %s", regionID, asset.Name)
	}

	updated := *meta
	updated.Regions = domain.ToggleRegion(meta.Regions, region)
	if err := store.SaveAssetMetadata(ctx, &updated); err != nil {
		return nil, err
	}

	return &EditResult{Assets: 1, Regions: 1, Tags: region.Tags}, nil
}

func (s *RegionService) open(ctx context.Context, projectPath string) (*domain.Project, ports.AssetMetadataStore, error) {
	project, err := s.projects.Load(ctx, projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, s.stores(projectPath, project), nil
}

// metadata resolves an asset by id or name and reads its regions
func (s *RegionService) metadata(ctx context.Context, project *domain.Project, store ports.AssetMetadataStore, ref string) (domain.Asset, *domain.AssetMetadata, error) {
	asset, ok := project.FindAsset(ref)
	if !ok {
		for _, a := range project.Assets {
			if a.Name == ref {
				asset, ok = a, true
				break
			}
		}
	}
	if !ok {
		return domain.Asset{}, nil, fmt.Errorf("asset %q not found in %s", ref, project.Name)
	}

	meta, err := store.GetAssetMetadata(ctx, asset)
	if err != nil {
		return asset, nil, fmt.Errorf("failed to read regions of %s: %w", asset.Name, err)
	}
	if meta == nil {
		meta = &domain.AssetMetadata{Asset: asset, Regions: []domain.Region{}}
	}
	return asset, meta, nil
}

// rewriteRegions applies edit to the tags of every region carrying tag and
// saves each asset that changed
func (s *RegionService) rewriteRegions(ctx context.Context, project *domain.Project, store ports.AssetMetadataStore, tag string, edit func([]string) []string) (*EditResult, error) {
	res := &EditResult{}
	for _, asset := range project.Assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		meta, err := store.GetAssetMetadata(ctx, asset)
		if err != nil {
			return nil, fmt.Errorf("failed to read regions of %s: %w", asset.Name, err)
		}
		if meta == nil {
			continue
		}

		var updates []domain.Region
		for _, r := range meta.Regions {
			if r.HasTag(tag) {
				r.Tags = edit(r.Tags)
				updates = append(updates, r)
			}
		}
		if len(updates) == 0 {
			continue
		}

		updated := *meta
		updated.Regions = domain.UpdateRegions(meta.Regions, updates)
		if err := store.SaveAssetMetadata(ctx, &updated); err != nil {
			return nil, fmt.Errorf("failed to save regions of %s: %w", asset.Name, err)
		}
		res.Assets++
		res.Regions += len(updates)
	}
	return res, nil
}

func findRegion(regions []domain.Region, id string) (domain.Region, bool) {
	for _, r := range regions {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Region{}, false
}

func hasTag(project *domain.Project, tag string) bool {
	for _, name := range project.TagNames() {
		if name == tag {
			return true
		}
	}
	return false
}

func names(tags []domain.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}
