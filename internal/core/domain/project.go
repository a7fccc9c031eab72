package domain

import (
	"fmt"
	"strings"
)

// AssetState tracks annotation progress of an asset
type AssetState int

const (
	AssetStateNotVisited AssetState = iota
	AssetStateVisited
	AssetStateTagged
)

// String returns the lowercase name used in project files and flags
func (s AssetState) String() string {
	switch s {
	case AssetStateVisited:
		return "visited"
	case AssetStateTagged:
		return "tagged"
	default:
		return "notVisited"
	}
}

// Connection describes where a project reads or writes files
type Connection struct {
	Name            string            `json:"name"`
	ProviderType    string            `json:"providerType"`
	Path            string            `json:"path"`
	ProviderOptions map[string]string `json:"providerOptions,omitempty"`
	// Encrypted is set when the options were stored encrypted and could not be read
	Encrypted       bool              `json:"-"`
}

// Tag is a named label with a display color
type Tag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// AssetSize is the pixel size of an asset, zero when unknown
type AssetSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Asset is a single image or video frame under annotation
type Asset struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Path  string     `json:"path"`
	State AssetState `json:"state"`
	Size  AssetSize  `json:"size"`
}

// Project is the in-memory annotated-asset project
type Project struct {
	Name             string
	Tags             []Tag
	Assets           []Asset // insertion order
	SourceConnection *Connection
	TargetConnection *Connection
}

// TagNames returns the project tag names in declaration order
func (p *Project) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

// FindAsset looks an asset up by id
func (p *Project) FindAsset(id string) (Asset, bool) {
	for _, a := range p.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return Asset{}, false
}

// Validate checks the model invariants the export pipeline relies on
func (p *Project) Validate() error {
	if p == nil {
		return NewExportError(KindInvalidProjectState, StageInit, "", fmt.Errorf("project is nil"))
	}

	if p.TargetConnection == nil {
		return NewExportError(KindInvalidProjectState, StageInit, "", fmt.Errorf("project %q has no target connection", p.Name))
	}
	if strings.TrimSpace(p.TargetConnection.Path) == "" {
		if p.TargetConnection.Encrypted {
			return NewExportError(KindInvalidProjectState, StageInit, "", fmt.Errorf(
				"target connection %q has encrypted options; pass --target or configure the connection", p.TargetConnection.Name))
		}
		return NewExportError(KindInvalidProjectState, StageInit, "", fmt.Errorf("project %q has no target connection", p.Name))
	}

	tags := make(map[string]bool, len(p.Tags))
	for _, t := range p.Tags {
		if err := ValidateName(t.Name); err != nil {
			return NewExportError(KindInvalidProjectState, StageInit, "", fmt.Errorf("tag: %w", err))
		}
		if tags[t.Name] {
			return NewExportError(KindInvalidProjectState, StageInit, "", fmt.Errorf("duplicate tag %q", t.Name))
		}
		tags[t.Name] = true
	}

	ids := make(map[string]bool, len(p.Assets))
	for _, a := range p.Assets {
		if err := ValidateName(a.Name); err != nil {
			return NewExportError(KindInvalidProjectState, StageInit, "", fmt.Errorf("asset %s: %w", a.ID, err))
		}
		if ids[a.ID] {
			return NewExportError(KindInvalidProjectState, StageInit, "", fmt.Errorf("duplicate asset id %q", a.ID))
		}
		ids[a.ID] = true
	}

	return nil
}

// ValidateName checks a tag or asset name that becomes part of an output
// file name. Names must stay inside their directory.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return fmt.Errorf("name cannot be empty")
	case trimmed == "." || trimmed == "..":
		return fmt.Errorf("name %q is not a valid file name", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("name %q cannot contain path separators", name)
	}
	return nil
}
