package services

import (
	"fmt"
	"sort"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/ports"
	"github.com/kamal-hamza/vocx/internal/core/providers"
	"github.com/kamal-hamza/vocx/internal/core/providers/pascalvoc"
)

// FormatInfo describes a registered export format
type FormatInfo struct {
	ID          string
	Description string
}

type registration struct {
	description string
	construct   providers.Constructor
}

// exportFormats is the static format registry
var exportFormats = map[string]registration{
	pascalvoc.FormatID: {
		description: "Pascal VOC XML annotations, JPEG images and train/val splits",
		construct:   pascalvoc.New,
	},
}

// NewExportProvider creates the provider registered under format
func NewExportProvider(format string, project *domain.Project, options domain.ExportOptions, deps providers.Dependencies) (ports.ExportProvider, error) {
	reg, ok := exportFormats[format]
	if !ok {
		return nil, domain.NewExportError(domain.KindUnknownFormat, domain.StageInit, "",
			fmt.Errorf("format %q is not registered", format))
	}
	return reg.construct(project, options, deps), nil
}

// Formats lists registered formats sorted by id
func Formats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(exportFormats))
	for id, reg := range exportFormats {
		formats = append(formats, FormatInfo{ID: id, Description: reg.description})
	}
	sort.Slice(formats, func(i, j int) bool {
		return formats[i].ID < formats[j].ID
	})
	return formats
}
