package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/ports"
)

// StatsService summarises tag usage across a project
type StatsService struct {
	projects ports.ProjectRepository
	sources  AssetSources
}

// NewStatsService creates a new stats service
func NewStatsService(projects ports.ProjectRepository, sources AssetSources) *StatsService {
	return &StatsService{
		projects: projects,
		sources:  sources,
	}
}

// StatsRequest represents a request for project statistics
type StatsRequest struct {
	ProjectPath string
	SortBy      string // "name" keeps declaration order; default sorts by regions
}

// TagUsage counts how often a tag is used
type TagUsage struct {
	Tag     string
	Regions int // regions carrying the tag
	Assets  int // assets with at least one such region
}

// StatsResponse represents project statistics
type StatsResponse struct {
	Project string
	Assets  map[domain.AssetState]int
	Total   int
	Regions int
	Tags    []TagUsage
}

// Execute reads every asset's regions and counts tag usage
func (s *StatsService) Execute(ctx context.Context, req StatsRequest) (*StatsResponse, error) {
	project, err := s.projects.Load(ctx, req.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	metadata, _ := s.sources(req.ProjectPath, project)

	usage := make(map[string]*TagUsage, len(project.Tags))
	order := make([]string, 0, len(project.Tags))
	for _, t := range project.Tags {
		usage[t.Name] = &TagUsage{Tag: t.Name}
		order = append(order, t.Name)
	}

	resp := &StatsResponse{
		Project: project.Name,
		Assets:  make(map[domain.AssetState]int),
		Total:   len(project.Assets),
	}

	for _, asset := range project.Assets {
		resp.Assets[asset.State]++

		meta, err := metadata.GetAssetMetadata(ctx, asset)
		if err != nil {
			return nil, fmt.Errorf("failed to read regions of %s: %w", asset.Name, err)
		}
		if meta == nil {
			continue
		}
		resp.Regions += len(meta.Regions)

		for _, region := range meta.Regions {
			for _, tag := range region.Tags {
				u, ok := usage[tag]
				if !ok {
					// tag used by a region but missing from the project
					u = &TagUsage{Tag: tag}
					usage[tag] = u
					order = append(order, tag)
				}
				u.Regions++
			}
		}
		for _, tag := range meta.TagSet() {
			if u, ok := usage[tag]; ok {
				u.Assets++
			}
		}
	}

	for _, name := range order {
		resp.Tags = append(resp.Tags, *usage[name])
	}

	if req.SortBy != "name" {
		sort.SliceStable(resp.Tags, func(i, j int) bool {
			return resp.Tags[i].Regions > resp.Tags[j].Regions
		})
	}

	return resp, nil
}
