package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/ports"
	"github.com/kamal-hamza/vocx/internal/core/providers"
	"github.com/kamal-hamza/vocx/pkg/metrics"
)

// AssetSources opens the metadata source and binary reader for a loaded project
type AssetSources func(projectPath string, project *domain.Project) (ports.AssetMetadataSource, ports.AssetBinaryReader)

// ExportService loads a project and runs an export format over it
type ExportService struct {
	projects ports.ProjectRepository
	storage  ports.StorageFactory
	sources  AssetSources
	logger   *zap.Logger
}

// NewExportService creates a new export service
func NewExportService(projects ports.ProjectRepository, storage ports.StorageFactory, sources AssetSources, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		projects: projects,
		storage:  storage,
		sources:  sources,
		logger:   logger,
	}
}

// ExportRequest represents a request to export a project
type ExportRequest struct {
	ProjectPath string
	Format      string
	AssetState  string // all, visited or tagged; empty means all
	TargetPath  string // overrides the project's target connection path
	MaxWorkers  int
}

// ExportResponse represents the response from an export
type ExportResponse struct {
	Project string
	Format  string
	Result  *domain.ExportResult
}

// ExportProgress reports one finished asset
type ExportProgress struct {
	Current int
	Total   int
	Asset   string
}

// Execute exports a project
func (s *ExportService) Execute(ctx context.Context, req ExportRequest) (*ExportResponse, error) {
	return s.run(ctx, req, nil)
}

// ExecuteWithProgress exports a project and reports each finished asset.
// progressChan is closed when the export returns.
func (s *ExportService) ExecuteWithProgress(ctx context.Context, req ExportRequest, progressChan chan<- ExportProgress) (*ExportResponse, error) {
	defer close(progressChan)
	return s.run(ctx, req, progressChan)
}

func (s *ExportService) run(ctx context.Context, req ExportRequest, progressChan chan<- ExportProgress) (*ExportResponse, error) {
	timer := metrics.NewTimer()
	recorder := metrics.NewExportMetrics(req.Format)

	resp, err := s.export(ctx, req, progressChan)
	if err != nil {
		kind := domain.KindOf(err)
		recorder.RecordError(kind.String())
		recorder.RecordExport("failure", 0, timer.Duration())
		s.logger.Error("export failed",
			zap.String("project", req.ProjectPath),
			zap.String("format", req.Format),
			zap.Stringer("kind", kind),
			zap.Error(err),
		)
		return nil, err
	}

	recorder.RecordExport("success", resp.Result.AssetsSelected, timer.Duration())
	return resp, nil
}

func (s *ExportService) export(ctx context.Context, req ExportRequest, progressChan chan<- ExportProgress) (*ExportResponse, error) {
	state, err := domain.ParseExportAssetState(req.AssetState)
	if err != nil {
		return nil, domain.NewExportError(domain.KindInvalidProjectState, domain.StageInit, "", err)
	}

	project, err := s.projects.Load(ctx, req.ProjectPath)
	if err != nil {
		return nil, domain.NewExportError(domain.KindInvalidProjectState, domain.StageInit, req.ProjectPath, err)
	}

	if req.TargetPath != "" {
		target := domain.Connection{Name: "override", ProviderType: "localFileSystemProxy"}
		if project.TargetConnection != nil {
			target = *project.TargetConnection
		}
		target.Path = req.TargetPath
		project.TargetConnection = &target
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	sink, err := s.storage.ForConnection(ctx, project.TargetConnection)
	if err != nil {
		return nil, domain.NewExportError(domain.KindInvalidProjectState, domain.StageInit, project.TargetConnection.Path, err)
	}

	metadata, reader := s.sources(req.ProjectPath, project)
	options := domain.ExportOptions{AssetState: state}

	deps := providers.Dependencies{
		Storage:    sink,
		Metadata:   metadata,
		Reader:     reader,
		Logger:     s.logger,
		MaxWorkers: req.MaxWorkers,
	}

	if progressChan != nil {
		total := len(providers.SelectAssets(project.Assets, state))
		var done atomic.Int64
		deps.OnAssetExported = func(asset domain.Asset) {
			progressChan <- ExportProgress{
				Current: int(done.Add(1)),
				Total:   total,
				Asset:   asset.Name,
			}
		}
	}

	provider, err := NewExportProvider(req.Format, project, options, deps)
	if err != nil {
		return nil, err
	}

	result, err := provider.Export(ctx)
	if err != nil {
		return nil, err
	}

	return &ExportResponse{
		Project: project.Name,
		Format:  req.Format,
		Result:  result,
	}, nil
}

// String summarises a finished export for logs
func (r *ExportResponse) String() string {
	if r == nil || r.Result == nil {
		return "no export"
	}
	return fmt.Sprintf("%s: %d/%d assets to %s", r.Project, r.Result.AssetsSelected, r.Result.AssetsTotal, r.Result.Root)
}
