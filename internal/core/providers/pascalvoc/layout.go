package pascalvoc

import (
	"context"
	"path"

	"github.com/kamal-hamza/vocx/internal/core/domain"
)

const (
	imagesDir      = "JPEGImages"
	annotationsDir = "Annotations"
	imageSetsDir   = "ImageSets"
	mainSetsDir    = "ImageSets/Main"
	labelMapFile   = "pascal_label_map.pbtxt"
)

// layoutContainers lists the containers of an export in creation order.
// Consumers rely on this order.
func layoutContainers(root string) []string {
	return []string{
		root,
		path.Join(root, imagesDir),
		path.Join(root, annotationsDir),
		path.Join(root, imageSetsDir),
		path.Join(root, mainSetsDir),
	}
}

// createLayout creates the containers one after another and returns how many were created
func (p *Provider) createLayout(ctx context.Context, root string) (int, error) {
	created := 0
	for _, dir := range layoutContainers(root) {
		if err := p.deps.Storage.CreateContainer(ctx, dir); err != nil {
			return created, domain.NewExportError(domain.KindStorageWrite, domain.StageLayoutCreated, dir, err)
		}
		created++
	}
	return created, nil
}

func imagePath(root, assetName string) string {
	return path.Join(root, imagesDir, assetName+".jpg")
}

func annotationPath(root, assetName string) string {
	return path.Join(root, annotationsDir, assetName+".xml")
}

func manifestPath(root, tag, split string) string {
	return path.Join(root, mainSetsDir, tag+"_"+split+".txt")
}
