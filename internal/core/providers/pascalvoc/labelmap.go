package pascalvoc

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/kamal-hamza/vocx/internal/core/domain"
)

var pbtxtEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// buildLabelMap renders one item block per tag with ids 1..N in tag order.
// Id 0 is reserved for the background class. A block is 26 bytes plus the
// escaped name for ids 1-9 and one byte more per extra id digit.
func buildLabelMap(tags []domain.Tag) string {
	var b strings.Builder
	for i, tag := range tags {
		fmt.Fprintf(&b, "item {\n id: %d\n name: '%s'\n}\n", i+1, pbtxtEscaper.Replace(tag.Name))
	}
	return b.String()
}

func (p *Provider) writeLabelMap(ctx context.Context, root string) error {
	target := path.Join(root, labelMapFile)
	if err := p.deps.Storage.WriteText(ctx, target, buildLabelMap(p.project.Tags)); err != nil {
		return domain.NewExportError(domain.KindStorageWrite, domain.StageLabelMapWritten, target, err)
	}
	return nil
}
