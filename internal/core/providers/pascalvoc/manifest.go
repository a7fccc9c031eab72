package pascalvoc

import (
	"context"
	"strings"

	"github.com/kamal-hamza/vocx/internal/core/domain"
)

// manifest is the train/val partition of one tag
type manifest struct {
	tag   string
	train []string
	val   []string
}

// trainCount is round-half-up(0.8 * n): the first trainCount carriers of a
// tag, in selection order, go to train and the rest to val.
func trainCount(n int) int {
	return (8*n + 5) / 10
}

// buildManifests partitions, per project tag, the selected assets carrying
// that tag. observed[i] holds the tags seen on assets[i].
func buildManifests(tags []domain.Tag, assets []domain.Asset, observed [][]string) []manifest {
	manifests := make([]manifest, 0, len(tags))
	for _, tag := range tags {
		var carriers []string
		for i, asset := range assets {
			if containsTag(observed[i], tag.Name) {
				carriers = append(carriers, asset.Name)
			}
		}

		cut := trainCount(len(carriers))
		manifests = append(manifests, manifest{
			tag:   tag.Name,
			train: carriers[:cut],
			val:   carriers[cut:],
		})
	}
	return manifests
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// renderLines writes one identifier per line, newline terminated; no lines
// renders as an empty file
func renderLines(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return strings.Join(ids, "\n") + "\n"
}

// writeManifests writes <tag>_train.txt and <tag>_val.txt for every tag
func (p *Provider) writeManifests(ctx context.Context, root string, manifests []manifest) (int, error) {
	written := 0
	for _, m := range manifests {
		files := []struct {
			split string
			ids   []string
		}{
			{"train", m.train},
			{"val", m.val},
		}
		for _, f := range files {
			target := manifestPath(root, m.tag, f.split)
			if err := p.deps.Storage.WriteText(ctx, target, renderLines(f.ids)); err != nil {
				return written, domain.NewExportError(domain.KindStorageWrite, domain.StageManifestsWritten, target, err)
			}
			written++
		}
	}
	return written, nil
}
