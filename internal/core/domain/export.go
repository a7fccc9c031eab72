package domain

import (
	"fmt"
	"strings"
)

// ExportAssetState selects which assets an export includes
type ExportAssetState string

const (
	ExportAll     ExportAssetState = "all"
	ExportVisited ExportAssetState = "visited"
	ExportTagged  ExportAssetState = "tagged"
)

// ExportOptions configures an export run
type ExportOptions struct {
	AssetState ExportAssetState `json:"assetState" yaml:"asset_state"`
}

// ParseExportAssetState converts a flag or config value into an ExportAssetState
func ParseExportAssetState(raw string) (ExportAssetState, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return ExportAll, nil
	case "visited":
		return ExportVisited, nil
	case "tagged":
		return ExportTagged, nil
	default:
		return "", fmt.Errorf("invalid asset state %q (valid: all, visited, tagged)", raw)
	}
}

// Includes reports whether an asset in state s passes the policy
func (e ExportAssetState) Includes(s AssetState) bool {
	switch e {
	case ExportVisited:
		return s == AssetStateVisited || s == AssetStateTagged
	case ExportTagged:
		return s == AssetStateTagged
	default:
		return true
	}
}

// Stage is a step of the export state machine
type Stage int

const (
	StageInit Stage = iota
	StageLayoutCreated
	StageLabelMapWritten
	StageAssetsExported
	StageManifestsWritten
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageLayoutCreated:
		return "layout_created"
	case StageLabelMapWritten:
		return "label_map_written"
	case StageAssetsExported:
		return "assets_exported"
	case StageManifestsWritten:
		return "manifests_written"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// SplitCount is the train/val partition size for one tag
type SplitCount struct {
	Tag   string
	Train int
	Val   int
}

// ExportResult summarizes a finished export
type ExportResult struct {
	Root           string
	Stage          Stage
	AssetsTotal    int // assets in the project
	AssetsSelected int
	Containers     int
	BinaryFiles    int
	TextFiles      int
	Splits         []SplitCount
}
