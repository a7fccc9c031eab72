// Package pascalvoc exports a project as a Pascal VOC dataset:
//
//	<root>/pascal_label_map.pbtxt
//	<root>/JPEGImages/<asset>.jpg
//	<root>/Annotations/<asset>.xml
//	<root>/ImageSets/Main/<tag>_train.txt
//	<root>/ImageSets/Main/<tag>_val.txt
//
// The export runs Init → LayoutCreated → LabelMapWritten → AssetsExported →
// ManifestsWritten → Done and stops at the first failure. Files already
// written are left in place.
package pascalvoc

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/ports"
	"github.com/kamal-hamza/vocx/internal/core/providers"
)

// FormatID is the registry key of this provider
const FormatID = "tensorFlowPascalVOC"

// Provider exports one project to Pascal VOC
type Provider struct {
	project *domain.Project
	options domain.ExportOptions
	deps    providers.Dependencies
	log     *zap.Logger
	stage   domain.Stage
}

// New creates a Pascal VOC provider. It matches providers.Constructor.
func New(project *domain.Project, options domain.ExportOptions, deps providers.Dependencies) ports.ExportProvider {
	return &Provider{
		project: project,
		options: options,
		deps:    deps,
		log:     deps.Log().With(zap.String("format", FormatID)),
		stage:   domain.StageInit,
	}
}

// Stage returns the last stage the provider reached
func (p *Provider) Stage() domain.Stage {
	return p.stage
}

func (p *Provider) advance(stage domain.Stage) {
	p.stage = stage
	p.log.Debug("export stage reached", zap.Stringer("stage", stage))
}

// Export writes the dataset under the project's target connection
func (p *Provider) Export(ctx context.Context) (*domain.ExportResult, error) {
	start := time.Now()

	if err := p.project.Validate(); err != nil {
		return nil, err
	}
	if p.deps.Storage == nil || p.deps.Metadata == nil || p.deps.Reader == nil {
		return nil, domain.NewExportError(domain.KindInvalidProjectState, domain.StageInit, "",
			fmt.Errorf("export provider is missing a storage, metadata or reader dependency"))
	}

	root := p.project.TargetConnection.Path
	assets := providers.SelectAssets(p.project.Assets, p.options.AssetState)

	result := &domain.ExportResult{
		Root:           root,
		Stage:          domain.StageInit,
		AssetsTotal:    len(p.project.Assets),
		AssetsSelected: len(assets),
	}

	p.log.Info("starting export",
		zap.String("project", p.project.Name),
		zap.String("root", root),
		zap.String("asset_state", string(p.options.AssetState)),
		zap.Int("assets", len(assets)),
		zap.Int("tags", len(p.project.Tags)),
	)

	created, err := p.createLayout(ctx, root)
	result.Containers = created
	if err != nil {
		return nil, err
	}
	p.advance(domain.StageLayoutCreated)

	if err := p.writeLabelMap(ctx, root); err != nil {
		return nil, err
	}
	result.TextFiles++
	p.advance(domain.StageLabelMapWritten)

	observed, err := p.exportAssets(ctx, root, assets)
	if err != nil {
		return nil, err
	}
	result.BinaryFiles += len(assets)
	result.TextFiles += len(assets)
	p.advance(domain.StageAssetsExported)

	manifests := buildManifests(p.project.Tags, assets, observed)
	written, err := p.writeManifests(ctx, root, manifests)
	if err != nil {
		return nil, err
	}
	result.TextFiles += written
	for _, m := range manifests {
		result.Splits = append(result.Splits, domain.SplitCount{Tag: m.tag, Train: len(m.train), Val: len(m.val)})
	}
	p.advance(domain.StageManifestsWritten)

	p.advance(domain.StageDone)
	result.Stage = domain.StageDone

	p.log.Info("export finished",
		zap.String("root", root),
		zap.Int("binary_files", result.BinaryFiles),
		zap.Int("text_files", result.TextFiles),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

// exportAssets runs one task per asset in a bounded group. Each task only
// writes its own slot of observed; Wait is the barrier the manifest stage
// reads behind.
func (p *Provider) exportAssets(ctx context.Context, root string, assets []domain.Asset) ([][]string, error) {
	observed := make([][]string, len(assets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.deps.Workers())

	for i, asset := range assets {
		i, asset := i, asset
		g.Go(func() error {
			// a sibling already failed; do not start new work
			if err := gctx.Err(); err != nil {
				return err
			}

			tags, err := p.exportAsset(gctx, root, asset)
			if err != nil {
				p.log.Warn("asset export failed", zap.String("asset", asset.Name), zap.Error(err))
				return err
			}
			observed[i] = tags

			if p.deps.OnAssetExported != nil {
				p.deps.OnAssetExported(asset)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return observed, nil
}
