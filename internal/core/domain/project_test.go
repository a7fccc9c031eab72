package domain

import (
	"errors"
	"testing"
)

func validProject() *Project {
	return &Project{
		Name: "birds",
		Tags: []Tag{{Name: "sparrow"}, {Name: "crow"}},
		Assets: []Asset{
			{ID: "1", Name: "a", State: AssetStateTagged},
			{ID: "2", Name: "b", State: AssetStateVisited},
		},
		TargetConnection: &Connection{Name: "out", ProviderType: "localFileSystemProxy", Path: "/tmp/out"},
	}
}

func TestProject_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Project)
		wantErr bool
	}{
		{"valid", func(p *Project) {}, false},
		{"no target", func(p *Project) { p.TargetConnection = nil }, true},
		{"blank target path", func(p *Project) { p.TargetConnection.Path = "  " }, true},
		{"duplicate tag", func(p *Project) { p.Tags = append(p.Tags, Tag{Name: "crow"}) }, true},
		{"empty tag", func(p *Project) { p.Tags = append(p.Tags, Tag{Name: ""}) }, true},
		{"duplicate asset", func(p *Project) { p.Assets = append(p.Assets, Asset{ID: "1", Name: "c"}) }, true},
		{"tag escapes root", func(p *Project) { p.Tags = append(p.Tags, Tag{Name: "../../../escaped"}) }, true},
		{"tag with slash", func(p *Project) { p.Tags = append(p.Tags, Tag{Name: "vehicle/car"}) }, true},
		{"tag with backslash", func(p *Project) { p.Tags = append(p.Tags, Tag{Name: `vehicle\car`}) }, true},
		{"dot-dot tag", func(p *Project) { p.Tags = append(p.Tags, Tag{Name: ".."}) }, true},
		{"asset with slash", func(p *Project) { p.Assets[0].Name = "frames/a" }, true},
		{"unnamed asset", func(p *Project) { p.Assets[1].Name = "" }, true},
		{"encrypted target", func(p *Project) {
			p.TargetConnection.Path = ""
			p.TargetConnection.Encrypted = true
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProject()
			tt.mutate(p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidProjectState) {
				t.Errorf("expected ErrInvalidProjectState, got %v", err)
			}
		})
	}
}

func TestProject_NilValidate(t *testing.T) {
	var p *Project
	if err := p.Validate(); !errors.Is(err, ErrInvalidProjectState) {
		t.Errorf("expected ErrInvalidProjectState for nil project, got %v", err)
	}
}

func TestProject_Lookups(t *testing.T) {
	p := validProject()

	names := p.TagNames()
	if len(names) != 2 || names[0] != "sparrow" || names[1] != "crow" {
		t.Errorf("unexpected tag names: %v", names)
	}

	if a, ok := p.FindAsset("2"); !ok || a.Name != "b" {
		t.Errorf("FindAsset(2) = %+v, %v", a, ok)
	}
	if _, ok := p.FindAsset("missing"); ok {
		t.Error("expected missing asset lookup to fail")
	}
}

func TestParseExportAssetState(t *testing.T) {
	tests := []struct {
		raw     string
		want    ExportAssetState
		wantErr bool
	}{
		{"", ExportAll, false},
		{"All", ExportAll, false},
		{" visited ", ExportVisited, false},
		{"TAGGED", ExportTagged, false},
		{"seen", "", true},
	}

	for _, tt := range tests {
		got, err := ParseExportAssetState(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseExportAssetState(%q) error = %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseExportAssetState(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestExportAssetState_Includes(t *testing.T) {
	if ExportTagged.Includes(AssetStateVisited) {
		t.Error("tagged policy must not include visited assets")
	}
	if !ExportVisited.Includes(AssetStateTagged) {
		t.Error("visited policy must include tagged assets")
	}
	if ExportVisited.Includes(AssetStateNotVisited) {
		t.Error("visited policy must not include unvisited assets")
	}
	if !ExportAll.Includes(AssetStateNotVisited) {
		t.Error("all policy must include every asset")
	}
}

func TestExportError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewExportError(KindStorageWrite, StageManifestsWritten, "/out/a.txt", cause)

	if !errors.Is(err, ErrStorageWrite) {
		t.Error("expected error to match ErrStorageWrite")
	}
	if errors.Is(err, ErrBinaryFetch) {
		t.Error("did not expect error to match ErrBinaryFetch")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be unwrapped")
	}
	if got := err.Error(); got != "storage write failed (/out/a.txt): disk full" {
		t.Errorf("unexpected message %q", got)
	}
	if KindOf(err) != KindStorageWrite {
		t.Errorf("KindOf() = %v", KindOf(err))
	}
	if KindOf(cause) != 0 {
		t.Error("expected zero kind for plain errors")
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"car", false},
		{"Tag 0", false},
		{"it's", false},
		{"v1.2", false},
		{"", true},
		{"   ", true},
		{".", true},
		{"..", true},
		{"a/b", true},
		{`a\b`, true},
		{"../x", true},
	}

	for _, tt := range tests {
		err := ValidateName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
