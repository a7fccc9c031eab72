package pascalvoc

import (
	"context"
	"encoding/xml"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/kamal-hamza/vocx/internal/core/domain"
)

type annotationXML struct {
	XMLName   xml.Name    `xml:"annotation"`
	Verified  string      `xml:"verified,attr"`
	Folder    string      `xml:"folder"`
	Filename  string      `xml:"filename"`
	Path      string      `xml:"path"`
	Source    sourceXML   `xml:"source"`
	Size      sizeXML     `xml:"size"`
	Segmented int         `xml:"segmented"`
	Objects   []objectXML `xml:"object"`
}

type sourceXML struct {
	Database string `xml:"database"`
}

type sizeXML struct {
	Width  int `xml:"width"`
	Height int `xml:"height"`
	Depth  int `xml:"depth"`
}

type objectXML struct {
	Name      string    `xml:"name"`
	Pose      string    `xml:"pose"`
	Truncated int       `xml:"truncated"`
	Difficult int       `xml:"difficult"`
	BndBox    bndBoxXML `xml:"bndbox"`
}

type bndBoxXML struct {
	XMin int `xml:"xmin"`
	YMin int `xml:"ymin"`
	XMax int `xml:"xmax"`
	YMax int `xml:"ymax"`
}

// buildAnnotation renders the annotation document of one asset.
// Every (region, tag) pair becomes its own object.
func buildAnnotation(asset domain.Asset, meta *domain.AssetMetadata) ([]byte, error) {
	size := asset.Size
	if size.Width == 0 && size.Height == 0 && meta != nil {
		size = meta.Asset.Size
	}

	imageName := asset.Name + ".jpg"
	doc := annotationXML{
		Verified:  "yes",
		Folder:    "Annotation",
		Filename:  imageName,
		Path:      imagesDir + "/" + imageName,
		Source:    sourceXML{Database: "Unknown"},
		Size:      sizeXML{Width: size.Width, Height: size.Height, Depth: 3},
		Segmented: 0,
	}

	if meta != nil {
		for _, region := range meta.Regions {
			box := toPixelBox(region.Bounds(), size)
			for _, tag := range region.Tags {
				doc.Objects = append(doc.Objects, objectXML{
					Name:      tag,
					Pose:      "Unspecified",
					Truncated: 0,
					Difficult: 0,
					BndBox:    box,
				})
			}
		}
	}

	out, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotation for %s: %w", asset.Name, err)
	}
	return out, nil
}

// toPixelBox rounds a box to whole pixels, clamped to the asset when its size is known
func toPixelBox(b domain.BoundingBox, size domain.AssetSize) bndBoxXML {
	box := bndBoxXML{
		XMin: int(math.Round(b.Left)),
		YMin: int(math.Round(b.Top)),
		XMax: int(math.Round(b.Left + b.Width)),
		YMax: int(math.Round(b.Top + b.Height)),
	}
	if size.Width > 0 {
		box.XMin = clamp(box.XMin, 0, size.Width)
		box.XMax = clamp(box.XMax, 0, size.Width)
	}
	if size.Height > 0 {
		box.YMin = clamp(box.YMin, 0, size.Height)
		box.YMax = clamp(box.YMax, 0, size.Height)
	}
	return box
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// exportAsset writes the annotation and the image of one asset and returns
// the tags observed on its regions. The two writes run independently.
func (p *Provider) exportAsset(ctx context.Context, root string, asset domain.Asset) ([]string, error) {
	var tags []string

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		meta, err := p.deps.Metadata.GetAssetMetadata(gctx, asset)
		if err != nil {
			return domain.NewExportError(domain.KindMetadataFetch, domain.StageAssetsExported, asset.Name, err)
		}
		if meta == nil {
			// no metadata is an asset without regions
			meta = &domain.AssetMetadata{Asset: asset, Regions: []domain.Region{}}
		}

		doc, err := buildAnnotation(asset, meta)
		if err != nil {
			return domain.NewExportError(domain.KindStorageWrite, domain.StageAssetsExported, asset.Name, err)
		}

		target := annotationPath(root, asset.Name)
		if err := p.deps.Storage.WriteText(gctx, target, string(doc)); err != nil {
			return domain.NewExportError(domain.KindStorageWrite, domain.StageAssetsExported, target, err)
		}

		tags = meta.TagSet()
		return nil
	})

	g.Go(func() error {
		data, err := p.deps.Reader.GetAssetArray(gctx, asset)
		if err != nil {
			return domain.NewExportError(domain.KindBinaryFetch, domain.StageAssetsExported, asset.Name, err)
		}

		target := imagePath(root, asset.Name)
		if err := p.deps.Storage.WriteBinary(gctx, target, data); err != nil {
			return domain.NewExportError(domain.KindStorageWrite, domain.StageAssetsExported, target, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tags, nil
}
